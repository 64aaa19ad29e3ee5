package analysis

const (
	MinScore = 0
	MaxScore = 100

	skillWeight      = 5
	experienceWeight = 3
	educationWeight  = 2
	contactWeight    = 5

	minSkills           = 5
	minExperience       = 3
	restructureBelowPct = 50
)

// Suggestion texts, in the order Suggestions emits them.
const (
	SuggestMoreSkills     = "Consider adding more technical skills to your resume"
	SuggestMoreExperience = "Include more detailed work experience descriptions"
	SuggestAddEmail       = "Add your email address to the resume"
	SuggestAddPhone       = "Include your phone number for better contact"
	SuggestRestructure    = "Consider restructuring your resume for better impact"
)

// Score rates a heuristic analysis from its counts, capped at MaxScore.
func Score(a Analysis) int {
	score := skillWeight*len(a.Skills) +
		experienceWeight*len(a.Experience) +
		educationWeight*len(a.Education) +
		contactWeight*a.Contact.FilledFields()
	return ClampScore(score)
}

func ClampScore(v int) int {
	switch {
	case v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	}
	return v
}

// Suggestions evaluates the fixed rule list against a scored analysis.
func Suggestions(a Analysis) []string {
	out := []string{}
	if len(a.Skills) < minSkills {
		out = append(out, SuggestMoreSkills)
	}
	if len(a.Experience) < minExperience {
		out = append(out, SuggestMoreExperience)
	}
	if a.Contact.Email == "" {
		out = append(out, SuggestAddEmail)
	}
	if a.Contact.Phone == "" {
		out = append(out, SuggestAddPhone)
	}
	if a.Score < restructureBelowPct {
		out = append(out, SuggestRestructure)
	}
	return out
}
