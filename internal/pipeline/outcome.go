package pipeline

import "github.com/muhammadolammi/resumeworker/internal/analysis"

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Outcome is the terminal result of one Run. Analysis and Text are only set when Completed.
type Outcome struct {
	Status   Status
	Analysis analysis.Analysis
	Text     string
	Err      error
}

func Completed(a analysis.Analysis, text string) Outcome {
	return Outcome{Status: StatusCompleted, Analysis: a, Text: text}
}

func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

func (o Outcome) OK() bool {
	return o.Status == StatusCompleted
}
