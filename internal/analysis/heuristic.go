package analysis

import (
	"regexp"
	"strings"
)

const (
	MaxExperienceHighlights = 5
	MaxEducationHighlights  = 3

	summarySentences      = 3
	minSummarySentenceLen = 10
)

var sentenceDelimiters = regexp.MustCompile(`[.!?]+`)

type skillKeyword struct {
	name    string
	lowered string
}

// Heuristic is the rule-based analyzer. It holds only read-only tables, so one value can
// serve concurrent callers.
type Heuristic struct {
	skills     []skillKeyword
	experience []string
	education  []string
}

func NewHeuristic(kw Keywords) *Heuristic {
	h := &Heuristic{
		experience: lowerAll(kw.Experience),
		education:  lowerAll(kw.Education),
	}
	for _, cat := range kw.Skills {
		for _, k := range cat.Keywords {
			name := strings.TrimSpace(k)
			if name == "" {
				continue
			}
			h.skills = append(h.skills, skillKeyword{name: name, lowered: strings.ToLower(name)})
		}
	}
	return h
}

// Analyze never fails; empty text yields an empty analysis with every suggestion.
func (h *Heuristic) Analyze(text string) Analysis {
	sentences := SplitSentences(text)

	a := Analysis{
		Skills:     h.Skills(text),
		Experience: firstMatching(sentences, h.experience, MaxExperienceHighlights),
		Education:  firstMatching(sentences, h.education, MaxEducationHighlights),
		Contact:    ExtractContact(text),
		Summary:    summarize(sentences),
		Source:     SourceHeuristic,
	}
	a.Score = Score(a)
	a.Suggestions = Suggestions(a)
	return a
}

// Skills lists every known keyword found in text, once, in table order.
func (h *Heuristic) Skills(text string) []string {
	lowered := strings.ToLower(text)
	seen := make(map[string]struct{}, len(h.skills))
	out := []string{}
	for _, k := range h.skills {
		if _, ok := seen[k.lowered]; ok {
			continue
		}
		if strings.Contains(lowered, k.lowered) {
			seen[k.lowered] = struct{}{}
			out = append(out, k.name)
		}
	}
	return out
}

// SplitSentences splits on runs of '.', '!' and '?', trimming and dropping empty pieces.
func SplitSentences(text string) []string {
	parts := sentenceDelimiters.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstMatching(sentences, keywords []string, limit int) []string {
	out := []string{}
	for _, s := range sentences {
		if len(out) == limit {
			break
		}
		if containsAny(strings.ToLower(s), keywords) {
			out = append(out, s)
		}
	}
	return out
}

// Summary joins the first sentences that carry some content.
func Summary(text string) string {
	return summarize(SplitSentences(text))
}

func summarize(sentences []string) string {
	picked := make([]string, 0, summarySentences)
	for _, s := range sentences {
		if len(picked) == summarySentences {
			break
		}
		if len(s) > minSummarySentenceLen {
			picked = append(picked, s)
		}
	}
	if len(picked) == 0 {
		return ""
	}
	return strings.Join(picked, ". ") + "."
}
