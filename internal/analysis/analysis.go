package analysis

// Source records which analyzer produced an Analysis.
type Source string

const (
	SourceHeuristic  Source = "heuristic"
	SourceGenerative Source = "generative"
)

// Analysis is the canonical result stored with a resume, whichever analyzer produced it.
type Analysis struct {
	Skills      []string           `json:"skills"`
	Experience  []string           `json:"experience"`
	Education   []string           `json:"education"`
	Contact     Contact            `json:"contact"`
	Summary     string             `json:"summary"`
	Score       int                `json:"score"`
	Suggestions []string           `json:"suggestions"`
	Source      Source             `json:"source"`
	Details     *GenerativeDetails `json:"details,omitempty"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// FilledFields counts the non-empty contact fields.
func (c Contact) FilledFields() int {
	n := 0
	for _, v := range []string{c.Email, c.Phone, c.Location} {
		if v != "" {
			n++
		}
	}
	return n
}

// GenerativeDetails keeps the parts of a generative analysis that have no canonical field.
// Soft skills and tools are shown here only; they never enter Analysis.Skills.
type GenerativeDetails struct {
	SoftSkills          []string `json:"soft_skills"`
	Tools               []string `json:"tools"`
	YearsOfExperience   string   `json:"years_of_experience,omitempty"`
	Level               string   `json:"level,omitempty"`
	Degree              string   `json:"degree,omitempty"`
	Field               string   `json:"field,omitempty"`
	Institution         string   `json:"institution,omitempty"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Recommendations     []string `json:"recommendations"`
}

// GenerativeShape is the JSON object the generative service is asked to return.
type GenerativeShape struct {
	Summary             string               `json:"summary"`
	Skills              GenerativeSkills     `json:"skills"`
	Experience          GenerativeExperience `json:"experience"`
	Education           GenerativeEducation  `json:"education"`
	Strengths           []string             `json:"strengths"`
	AreasForImprovement []string             `json:"areas_for_improvement"`
	Score               FlexScore            `json:"score"`
	Recommendations     []string             `json:"recommendations"`
}

// GenerativeSkills.Technical is nil when the service omitted it, which is not the same as empty.
type GenerativeSkills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
}

type GenerativeExperience struct {
	Years      FlexString `json:"years"`
	Level      string     `json:"level"`
	Highlights []string   `json:"highlights"`
}

type GenerativeEducation struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
}

// Result is what an analyzer hands to normalization: either a HeuristicResult or a
// GenerativeResult.
type Result interface {
	Source() Source
}

type HeuristicResult struct {
	Analysis Analysis
}

type GenerativeResult struct {
	Shape GenerativeShape
}

func (HeuristicResult) Source() Source  { return SourceHeuristic }
func (GenerativeResult) Source() Source { return SourceGenerative }
