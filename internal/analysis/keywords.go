package analysis

import "strings"

// SkillCategory groups skill keywords; categories are scanned in order.
type SkillCategory struct {
	Name     string
	Keywords []string
}

// Keywords are the tables the heuristic analyzer matches against.
type Keywords struct {
	Skills     []SkillCategory
	Experience []string
	Education  []string
}

// DefaultKeywords returns a fresh copy of the curated tables.
func DefaultKeywords() Keywords {
	return Keywords{
		Skills: []SkillCategory{
			{Name: "programming", Keywords: []string{"javascript", "python", "java", "c++", "c#", "php", "ruby", "go", "rust", "swift", "kotlin", "typescript", "react", "angular", "vue", "node.js", "express", "django", "flask", "spring", "laravel"}},
			{Name: "databases", Keywords: []string{"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle", "sql server", "dynamodb", "cassandra"}},
			{Name: "cloud", Keywords: []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins", "gitlab", "github actions"}},
			{Name: "tools", Keywords: []string{"git", "jira", "confluence", "slack", "trello", "figma", "adobe", "photoshop", "illustrator"}},
			{Name: "frameworks", Keywords: []string{"react", "angular", "vue", "bootstrap", "tailwind", "material-ui", "ant design", "jquery"}},
			{Name: "methodologies", Keywords: []string{"agile", "scrum", "kanban", "waterfall", "devops", "ci/cd", "tdd", "bdd"}},
		},
		Experience: []string{
			"experience", "work", "employment", "job", "position", "role", "responsibilities",
			"managed", "led", "developed", "created", "implemented", "designed", "built",
			"years", "months", "senior", "junior", "lead", "manager", "director", "vp",
		},
		Education: []string{
			"education", "degree", "bachelor", "master", "phd", "university", "college",
			"school", "graduated", "gpa", "major", "minor", "certificate", "diploma",
		},
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(lowered string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}
