package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/muhammadolammi/resumeworker/internal/database"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// terminalWriteTimeout bounds the final status write, which runs even after shutdown starts.
const terminalWriteTimeout = 10 * time.Second

var errUnknownJobType = errors.New("unknown job type")

// processMessage decodes one queue message and runs the job it names.
func (wc *WorkerConfig) processMessage(ctx context.Context, log *zap.Logger, body []byte) {
	job := Job{}
	if err := json.Unmarshal(body, &job); err != nil {
		log.Error("error unmarshalling message body", zap.Error(err))
		if job.ResumeID != uuid.Nil {
			wc.fail(ctx, log, job, fmt.Errorf("invalid message: %w", err))
		}
		return
	}
	if job.ResumeID == uuid.Nil {
		log.Error("message has no resume_id", zap.ByteString("body", body))
		return
	}
	if job.Type == "" {
		job.Type = JobAnalyze
	}

	log = log.With(zap.String("resume_id", job.ResumeID.String()), zap.String("type", string(job.Type)))
	log.Info("processing resume job")

	switch job.Type {
	case JobAnalyze:
		wc.handleAnalyze(ctx, log, job)
	case JobSuggestions:
		wc.handleSuggestions(ctx, log, job)
	case JobCompare:
		wc.handleCompare(ctx, log, job)
	default:
		wc.reject(log, job, fmt.Errorf("%w: %q", errUnknownJobType, job.Type))
	}
}

// handleAnalyze extracts and analyzes a resume and stores the result on its row.
func (wc *WorkerConfig) handleAnalyze(ctx context.Context, log *zap.Logger, job Job) {
	wc.setStatus(ctx, log, job.ResumeID, StatusProcessing)
	wc.publish(log, ResumeUpdate{
		ResumeID: job.ResumeID,
		UserID:   job.UserID,
		Type:     job.Type,
		Status:   StatusProcessing,
		Message:  "analysis started",
	})

	resume, err := wc.getResume(ctx, job.ResumeID)
	if err != nil {
		wc.fail(ctx, log, job, err)
		return
	}
	doc, err := wc.loadDocument(ctx, resume)
	if err != nil {
		wc.fail(ctx, log, job, err)
		return
	}

	outcome := wc.Analyzer.Run(ctx, doc)
	if !outcome.OK() {
		wc.fail(ctx, log, job, outcome.Err)
		return
	}

	analysisJSON, err := json.Marshal(outcome.Analysis)
	if err != nil {
		wc.fail(ctx, log, job, fmt.Errorf("failed to marshal analysis: %w", err))
		return
	}
	_, err = retry(ctx, 3, func() (any, error) {
		return nil, wc.DB.CompleteResumeAnalysis(ctx, database.CompleteResumeAnalysisParams{
			ExtractedText: nullString(outcome.Text),
			Analysis:      analysisJSON,
			ID:            job.ResumeID,
		})
	})
	if err != nil {
		wc.fail(ctx, log, job, fmt.Errorf("failed to save analysis after retries: %w", err))
		return
	}

	log.Info("resume analysis completed", zap.Int("score", outcome.Analysis.Score))
	wc.publish(log, ResumeUpdate{
		ResumeID: job.ResumeID,
		UserID:   job.UserID,
		Type:     job.Type,
		Status:   StatusCompleted,
		Message:  "analysis completed",
		Analysis: &outcome.Analysis,
	})
}

// handleSuggestions publishes generative improvement suggestions for an analyzed resume.
func (wc *WorkerConfig) handleSuggestions(ctx context.Context, log *zap.Logger, job Job) {
	text, err := wc.resumeText(ctx, job.ResumeID)
	if err != nil {
		wc.reject(log, job, err)
		return
	}
	suggestions, err := wc.Analyzer.Suggest(ctx, text)
	if err != nil {
		wc.reject(log, job, fmt.Errorf("error generating suggestions: %w", err))
		return
	}
	wc.publish(log, ResumeUpdate{
		ResumeID:    job.ResumeID,
		UserID:      job.UserID,
		Type:        job.Type,
		Status:      StatusCompleted,
		Message:     "suggestions generated",
		Suggestions: suggestions,
	})
}

// handleCompare publishes how well an analyzed resume fits the job description in the message.
func (wc *WorkerConfig) handleCompare(ctx context.Context, log *zap.Logger, job Job) {
	text, err := wc.resumeText(ctx, job.ResumeID)
	if err != nil {
		wc.reject(log, job, err)
		return
	}
	comparison, err := wc.Analyzer.Compare(ctx, text, job.JobDescription)
	if err != nil {
		wc.reject(log, job, fmt.Errorf("error comparing resume with job description: %w", err))
		return
	}
	wc.publish(log, ResumeUpdate{
		ResumeID:   job.ResumeID,
		UserID:     job.UserID,
		Type:       job.Type,
		Status:     StatusCompleted,
		Message:    "comparison completed",
		Comparison: &comparison,
	})
}

func (wc *WorkerConfig) getResume(ctx context.Context, id uuid.UUID) (database.Resume, error) {
	return retry(ctx, 3, func() (database.Resume, error) {
		resume, err := wc.DB.GetResume(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return resume, permanent(fmt.Errorf("resume %s not found", id))
		}
		return resume, err
	})
}

func (wc *WorkerConfig) resumeText(ctx context.Context, id uuid.UUID) (string, error) {
	resume, err := wc.getResume(ctx, id)
	if err != nil {
		return "", err
	}
	return storedText(resume)
}

func (wc *WorkerConfig) setStatus(ctx context.Context, log *zap.Logger, id uuid.UUID, status string) {
	_, err := retry(ctx, 3, func() (any, error) {
		return nil, wc.DB.UpdateResumeStatus(ctx, database.UpdateResumeStatusParams{
			Status: status,
			ID:     id,
		})
	})
	if err != nil {
		log.Error("error updating resume status", zap.String("status", status), zap.Error(err))
	}
}

// fail records a failed analysis. It uses a detached context so a shutdown mid-job still
// leaves the row in a terminal state.
func (wc *WorkerConfig) fail(ctx context.Context, log *zap.Logger, job Job, cause error) {
	log.Error("resume analysis failed", zap.Error(cause))

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminalWriteTimeout)
	defer cancel()
	wc.setStatus(ctx, log, job.ResumeID, StatusFailed)
	wc.publishFailure(log, job, cause)
}

// reject reports a failed suggestions or compare job. The resume row is left untouched.
func (wc *WorkerConfig) reject(log *zap.Logger, job Job, cause error) {
	log.Warn("resume job failed", zap.Error(cause))
	wc.publishFailure(log, job, cause)
}

func (wc *WorkerConfig) publishFailure(log *zap.Logger, job Job, cause error) {
	wc.publish(log, ResumeUpdate{
		ResumeID: job.ResumeID,
		UserID:   job.UserID,
		Type:     job.Type,
		Status:   StatusFailed,
		Message:  cause.Error(),
	})
}

func (wc *WorkerConfig) publish(log *zap.Logger, update ResumeUpdate) {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}
	if err := wc.Publisher.PublishUpdate(update); err != nil {
		log.Warn("failed to publish update", zap.String("status", update.Status), zap.Error(err))
	}
}

func (wc *WorkerConfig) worker(ctx context.Context, id int) error {
	log := wc.Logger.With(zap.Int("worker_id", id))

	conn, err := amqp.Dial(wc.RABBITMQUrl)
	if err != nil {
		return fmt.Errorf("worker %d: error dialling rabbitmq: %w", id, err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: error connecting to rabbitmq channel: %w", id, err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		analysisQueue,
		true,  // durable (survives broker restarts)
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("worker %d: failed to declare queue: %w", id, err)
	}

	msgs, err := ch.Consume(
		analysisQueue,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("worker %d: error consuming rabbitmq messages: %w", id, err)
	}

	log.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			wc.processMessage(ctx, log, msg.Body)
		}
	}
}

// StartConsumerWorkerPool runs numWorkers consumers until ctx is cancelled or one of them
// fails, and returns the first error.
func (wc *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range numWorkers {
		g.Go(func() error {
			return wc.worker(ctx, i+1)
		})
	}
	return g.Wait()
}
