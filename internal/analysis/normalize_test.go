package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeShape(t *testing.T, raw string) GenerativeShape {
	t.Helper()
	var g GenerativeShape
	require.NoError(t, json.Unmarshal([]byte(raw), &g))
	return g
}

func heuristicFixture() Analysis {
	return Analysis{
		Skills:  []string{"python", "react"},
		Contact: Contact{Email: "jane@x.com", Phone: "(555) 123-4567"},
		Summary: "Experienced in Python and React",
		Score:   23,
		Source:  SourceHeuristic,
	}
}

func TestNormalizeGenerative(t *testing.T) {
	g := decodeShape(t, `{
		"summary": "Backend engineer",
		"skills": {"technical": ["Go", " go ", "Kafka", ""], "soft": ["Mentoring"], "tools": ["Jira"]},
		"experience": {"years": 7, "level": "Senior", "highlights": ["Led payments team", "Cut latency 40%"]},
		"education": {"degree": "BSc", "field": "Computer Science", "institution": "MIT"},
		"strengths": ["Distributed systems"],
		"areas_for_improvement": ["Quantify impact"],
		"score": 82,
		"recommendations": ["Add a portfolio link", "quantify impact"]
	}`)

	a, warning := Normalize(GenerativeResult{Shape: g}, heuristicFixture())

	assert.Nil(t, warning)
	assert.Equal(t, SourceGenerative, a.Source)
	assert.Equal(t, []string{"Go", "Kafka"}, a.Skills)
	assert.Equal(t, []string{"Led payments team", "Cut latency 40%"}, a.Experience)
	assert.Equal(t, []string{"BSc in Computer Science, MIT"}, a.Education)
	assert.Equal(t, "Backend engineer", a.Summary)
	assert.Equal(t, 82, a.Score)
	assert.Equal(t, []string{"Quantify impact", "Add a portfolio link"}, a.Suggestions)

	require.NotNil(t, a.Details)
	assert.Equal(t, []string{"Mentoring"}, a.Details.SoftSkills)
	assert.Equal(t, []string{"Jira"}, a.Details.Tools)
	assert.Equal(t, "7", a.Details.YearsOfExperience)
	assert.Equal(t, "Senior", a.Details.Level)
	assert.NotContains(t, a.Skills, "Mentoring")
	assert.NotContains(t, a.Skills, "Jira")
}

func TestNormalizeGenerativeKeepsHeuristicContact(t *testing.T) {
	g := decodeShape(t, `{"summary": "x", "score": 50}`)

	a, _ := Normalize(GenerativeResult{Shape: g}, heuristicFixture())

	assert.Equal(t, Contact{Email: "jane@x.com", Phone: "(555) 123-4567"}, a.Contact)
}

func TestNormalizeGenerativeFillsGaps(t *testing.T) {
	t.Run("missing technical uses heuristic skills", func(t *testing.T) {
		g := decodeShape(t, `{"score": 60}`)
		a, _ := Normalize(GenerativeResult{Shape: g}, heuristicFixture())
		assert.Equal(t, []string{"python", "react"}, a.Skills)
		assert.Equal(t, "Experienced in Python and React", a.Summary)
		assert.Equal(t, []string{}, a.Experience)
		assert.Equal(t, []string{}, a.Education)
	})

	t.Run("empty technical stays empty", func(t *testing.T) {
		g := decodeShape(t, `{"skills": {"technical": []}, "score": 60}`)
		a, _ := Normalize(GenerativeResult{Shape: g}, heuristicFixture())
		assert.Equal(t, []string{}, a.Skills)
	})
}

func TestNormalizeGenerativeScore(t *testing.T) {
	tests := []struct {
		name    string
		score   string
		want    int
		wantErr error
	}{
		{name: "integer", score: `85`, want: 85},
		{name: "fraction rounds", score: `85.6`, want: 86},
		{name: "numeric string", score: `"85"`, want: 85},
		{name: "out of hundred", score: `"90/100"`, want: 90},
		{name: "above range", score: `150`, want: MaxScore, wantErr: errScoreOutOfRange},
		{name: "below range", score: `-5`, want: MinScore, wantErr: errScoreOutOfRange},
		{name: "huge", score: `1e30`, want: MaxScore, wantErr: errScoreOutOfRange},
		{name: "huge negative", score: `-1e30`, want: MinScore, wantErr: errScoreOutOfRange},
		{name: "huge string", score: `"99999999999999999999"`, want: MaxScore, wantErr: errScoreOutOfRange},
		{name: "words", score: `"excellent"`, want: 23, wantErr: ErrScoreNotNumeric},
		{name: "null", score: `null`, want: 23, wantErr: ErrScoreMissing},
		{name: "object", score: `{"value": 80}`, want: 23, wantErr: ErrScoreNotNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := decodeShape(t, `{"score": `+tt.score+`}`)

			a, warning := Normalize(GenerativeResult{Shape: g}, heuristicFixture())

			assert.Equal(t, tt.want, a.Score)
			if tt.wantErr == nil {
				assert.Nil(t, warning)
				return
			}
			require.NotNil(t, warning)
			assert.ErrorIs(t, warning, tt.wantErr)
			assert.Equal(t, tt.want, warning.Applied)
			assert.Equal(t, tt.score, warning.Raw)
		})
	}
}

func TestNormalizeGenerativeScoreAbsent(t *testing.T) {
	g := decodeShape(t, `{"summary": "no score at all"}`)

	a, warning := Normalize(GenerativeResult{Shape: g}, heuristicFixture())

	assert.Equal(t, 23, a.Score)
	require.NotNil(t, warning)
	assert.ErrorIs(t, warning, ErrScoreMissing)
}

func TestEducationLines(t *testing.T) {
	tests := []struct {
		name string
		in   GenerativeEducation
		want []string
	}{
		{name: "all", in: GenerativeEducation{Degree: "MSc", Field: "Physics", Institution: "ETH"}, want: []string{"MSc in Physics, ETH"}},
		{name: "unknown field", in: GenerativeEducation{Degree: "BA", Field: "Unknown", Institution: "UCL"}, want: []string{"BA, UCL"}},
		{name: "institution only", in: GenerativeEducation{Degree: "n/a", Institution: "Stanford"}, want: []string{"Stanford"}},
		{name: "nothing known", in: GenerativeEducation{Degree: "None", Field: " ", Institution: "unknown"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, educationLines(tt.in))
		})
	}
}

func TestNormalizeHeuristic(t *testing.T) {
	h := Analysis{Skills: []string{"go"}, Score: 140}

	a, warning := Normalize(HeuristicResult{Analysis: h}, Analysis{Contact: Contact{Email: "a@b.co"}})

	assert.Nil(t, warning)
	assert.Equal(t, MaxScore, a.Score)
	assert.Equal(t, SourceHeuristic, a.Source)
	assert.Equal(t, "a@b.co", a.Contact.Email)
	assert.Equal(t, []string{}, a.Experience)
	assert.Equal(t, []string{}, a.Suggestions)
	assert.Nil(t, a.Details)
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		raw  string
		want FlexString
	}{
		{raw: `"5+"`, want: "5+"},
		{raw: `5`, want: "5"},
		{raw: `3.5`, want: "3.5"},
		{raw: `null`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var s FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			assert.Equal(t, tt.want, s)
		})
	}

	var s FlexString
	assert.Error(t, json.Unmarshal([]byte(`["x"]`), &s))
}

func TestFlexScoreRoundTrip(t *testing.T) {
	g := decodeShape(t, `{"score": "88 points"}`)

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"score":"88 points"`)

	v, err := g.Score.Int()
	require.NoError(t, err)
	assert.Equal(t, 88, v)
}
