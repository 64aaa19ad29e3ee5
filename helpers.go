package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/muhammadolammi/resumeworker/internal/config"
	"github.com/muhammadolammi/resumeworker/internal/database"
	"github.com/muhammadolammi/resumeworker/internal/extract"
	"github.com/streadway/amqp"
)

var (
	errNoDocument         = errors.New("resume has neither object_key nor file_data")
	errStorageUnavailable = errors.New("resume is stored in R2 but R2 is not configured")
	errTextUnavailable    = errors.New("resume text not available for analysis")
)

// retryBackoff is the base wait between attempts; attempt i waits retryBackoff*(i+1).
var retryBackoff = 500 * time.Millisecond

// permanentError stops retry early.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

// retry retries fn up to `attempts` times with linear backoff, giving up early when ctx is
// done or fn returns a permanent error.
func retry[T any](ctx context.Context, attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		var perr *permanentError
		if errors.As(err, &perr) {
			return zero, perr.err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(retryBackoff * time.Duration(i+1)):
		case <-ctx.Done():
			return zero, fmt.Errorf("after %d attempts: %w", i+1, errors.Join(lastErr, ctx.Err()))
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// --- File Download ---

type r2Fetcher struct {
	client *s3.Client
	bucket string
}

func newR2Fetcher(awsConfig aws.Config, r2 config.R2Config) *r2Fetcher {
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})
	return &r2Fetcher{client: client, bucket: r2.Bucket}
}

func (f *r2Fetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	return DownloadFromR2(ctx, f.client, f.bucket, key)
}

func DownloadFromR2(ctx context.Context, client *s3.Client, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// loadDocument collects the upload bytes for a resume row, preferring the R2 object.
func (wc *WorkerConfig) loadDocument(ctx context.Context, resume database.Resume) (extract.RawDocument, error) {
	doc := extract.RawDocument{
		MediaType: resume.FileType,
		Filename:  resume.OriginalFilename,
	}

	key := strings.TrimSpace(resume.ObjectKey.String)
	switch {
	case resume.ObjectKey.Valid && key != "":
		if wc.Objects == nil {
			return doc, errStorageUnavailable
		}
		data, err := retry(ctx, 3, func() ([]byte, error) {
			return wc.Objects.Fetch(ctx, key)
		})
		if err != nil {
			return doc, fmt.Errorf("file download error: %w", err)
		}
		doc.Data = data
	case resume.FileData != nil:
		doc.Data = resume.FileData
	default:
		return doc, errNoDocument
	}
	return doc, nil
}

// storedText returns the extracted text saved by a previous analysis.
func storedText(resume database.Resume) (string, error) {
	text := resume.ExtractedText
	if !text.Valid || strings.TrimSpace(text.String) == "" {
		return "", errTextUnavailable
	}
	return text.String, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// --- Status updates ---

type amqpPublisher struct {
	conn *amqp.Connection
}

// newAMQPPublisher declares the updates exchange once and returns a publisher on conn.
func newAMQPPublisher(conn *amqp.Connection) (*amqpPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		updatesExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &amqpPublisher{conn: conn}, nil
}

func (p *amqpPublisher) PublishUpdate(update ResumeUpdate) error {
	return publishResumeUpdate(p.conn, update)
}

func publishResumeUpdate(rabbitConn *amqp.Connection, update ResumeUpdate) error {
	ch, err := rabbitConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	return ch.Publish(
		updatesExchange,
		routingKey(update.ResumeID.String()),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   update.Timestamp,
			Body:        body,
		},
	)
}

func routingKey(resumeID string) string {
	return fmt.Sprintf("resume.%s", resumeID)
}
