package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ScoreCoercionWarning reports a generative score that could not be used as sent.
// It is never fatal: Applied is the score that was stored instead.
type ScoreCoercionWarning struct {
	Raw     string
	Applied int
	Err     error
}

func (w *ScoreCoercionWarning) Error() string {
	return fmt.Sprintf("score %s coerced to %d: %v", w.Raw, w.Applied, w.Err)
}

func (w *ScoreCoercionWarning) Unwrap() error {
	return w.Err
}

var errScoreOutOfRange = errors.New("score out of range")

// placeholders the service writes when it knows nothing about a field
var unknownValues = map[string]struct{}{
	"":        {},
	"unknown": {},
	"n/a":     {},
	"na":      {},
	"none":    {},
	"null":    {},
}

// Normalize maps either analyzer result onto the canonical Analysis. heuristic must be the
// heuristic analysis of the same text: its contact always wins, and it fills gaps in a
// generative result. The returned warning is nil unless the score had to be replaced or clamped.
func Normalize(r Result, heuristic Analysis) (Analysis, *ScoreCoercionWarning) {
	switch res := r.(type) {
	case GenerativeResult:
		return normalizeGenerative(res.Shape, heuristic)
	case HeuristicResult:
		a := res.Analysis
		a.Contact = heuristic.Contact
		a.Score = ClampScore(a.Score)
		a.Source = SourceHeuristic
		return withNonNilSlices(a), nil
	default:
		return withNonNilSlices(heuristic), nil
	}
}

func normalizeGenerative(g GenerativeShape, heuristic Analysis) (Analysis, *ScoreCoercionWarning) {
	skills := heuristic.Skills
	if g.Skills.Technical != nil {
		skills = g.Skills.Technical
	}

	summary := strings.TrimSpace(g.Summary)
	if summary == "" {
		summary = heuristic.Summary
	}

	a := Analysis{
		Skills:      cleanList(skills),
		Experience:  cleanList(g.Experience.Highlights),
		Education:   educationLines(g.Education),
		Contact:     heuristic.Contact,
		Summary:     summary,
		Suggestions: cleanList(append(append([]string{}, g.AreasForImprovement...), g.Recommendations...)),
		Source:      SourceGenerative,
		Details: &GenerativeDetails{
			SoftSkills:          cleanList(g.Skills.Soft),
			Tools:               cleanList(g.Skills.Tools),
			YearsOfExperience:   known(string(g.Experience.Years)),
			Level:               known(g.Experience.Level),
			Degree:              known(g.Education.Degree),
			Field:               known(g.Education.Field),
			Institution:         known(g.Education.Institution),
			Strengths:           cleanList(g.Strengths),
			AreasForImprovement: cleanList(g.AreasForImprovement),
			Recommendations:     cleanList(g.Recommendations),
		},
	}

	var warning *ScoreCoercionWarning
	a.Score, warning = coerceScore(g.Score, heuristic.Score)
	return a, warning
}

// coerceScore reads the generative score, falling back to the heuristic score when it is
// missing or not a number, and clamping it into [MinScore, MaxScore].
func coerceScore(s FlexScore, fallback int) (int, *ScoreCoercionWarning) {
	v, err := s.Int()
	if err != nil {
		applied := ClampScore(fallback)
		return applied, &ScoreCoercionWarning{Raw: s.Raw(), Applied: applied, Err: err}
	}
	if clamped := ClampScore(v); clamped != v {
		return clamped, &ScoreCoercionWarning{Raw: s.Raw(), Applied: clamped, Err: errScoreOutOfRange}
	}
	return v, nil
}

// educationLines folds degree, field and institution into one display line.
func educationLines(e GenerativeEducation) []string {
	degree, field, institution := known(e.Degree), known(e.Field), known(e.Institution)

	var b strings.Builder
	switch {
	case degree != "" && field != "":
		b.WriteString(degree + " in " + field)
	case degree != "":
		b.WriteString(degree)
	case field != "":
		b.WriteString(field)
	}
	if institution != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(institution)
	}
	if b.Len() == 0 {
		return []string{}
	}
	return []string{b.String()}
}

func known(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := unknownValues[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}

// cleanList trims entries, drops empties and removes case-insensitive repeats.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func withNonNilSlices(a Analysis) Analysis {
	if a.Skills == nil {
		a.Skills = []string{}
	}
	if a.Experience == nil {
		a.Experience = []string{}
	}
	if a.Education == nil {
		a.Education = []string{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	return a
}
