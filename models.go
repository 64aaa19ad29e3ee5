package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumeworker/internal/analysis"
	"github.com/muhammadolammi/resumeworker/internal/database"
	"github.com/muhammadolammi/resumeworker/internal/extract"
	"github.com/muhammadolammi/resumeworker/internal/generative"
	"github.com/muhammadolammi/resumeworker/internal/pipeline"
	"go.uber.org/zap"
)

const (
	analysisQueue   = "resume_analysis"
	updatesExchange = "resume_updates"
)

// Resume statuses as stored in resumes.status.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ResumeStore is the subset of database.Queries the worker uses.
type ResumeStore interface {
	GetResume(ctx context.Context, id uuid.UUID) (database.Resume, error)
	UpdateResumeStatus(ctx context.Context, arg database.UpdateResumeStatusParams) error
	CompleteResumeAnalysis(ctx context.Context, arg database.CompleteResumeAnalysisParams) error
}

// ObjectFetcher downloads a stored upload by object key.
type ObjectFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type UpdatePublisher interface {
	PublishUpdate(update ResumeUpdate) error
}

// ResumeAnalyzer is implemented by pipeline.Reconciler.
type ResumeAnalyzer interface {
	Run(ctx context.Context, doc extract.RawDocument) pipeline.Outcome
	Suggest(ctx context.Context, text string) (string, error)
	Compare(ctx context.Context, text, jobDescription string) (generative.JobComparison, error)
}

type WorkerConfig struct {
	DB          ResumeStore
	Objects     ObjectFetcher // nil when R2 is not configured
	Publisher   UpdatePublisher
	Analyzer    ResumeAnalyzer
	RABBITMQUrl string
	Logger      *zap.Logger
}

type JobType string

const (
	JobAnalyze     JobType = "analyze"
	JobSuggestions JobType = "suggestions"
	JobCompare     JobType = "compare"
)

// Job is the message body on the resume_analysis queue. An empty Type means analyze.
type Job struct {
	Type           JobType   `json:"type"`
	ResumeID       uuid.UUID `json:"resume_id"`
	UserID         uuid.UUID `json:"user_id"`
	JobDescription string    `json:"job_description,omitempty"`
}

// ResumeUpdate is published on the resume_updates exchange under resume.<id>.
type ResumeUpdate struct {
	ResumeID    uuid.UUID                 `json:"resume_id"`
	UserID      uuid.UUID                 `json:"user_id"`
	Type        JobType                   `json:"type"`
	Status      string                    `json:"status"`
	Message     string                    `json:"message"`
	Analysis    *analysis.Analysis        `json:"analysis,omitempty"`
	Suggestions string                    `json:"suggestions,omitempty"`
	Comparison  *generative.JobComparison `json:"comparison,omitempty"`
	Timestamp   time.Time                 `json:"timestamp"`
}
