package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

const completeResumeAnalysis = `-- name: CompleteResumeAnalysis :exec
UPDATE resumes
SET extracted_text=$1,
    analysis=$2,
    status='completed',
    updated_at=CURRENT_TIMESTAMP
WHERE id=$3
`

type CompleteResumeAnalysisParams struct {
	ExtractedText sql.NullString
	Analysis      json.RawMessage
	ID            uuid.UUID
}

func (q *Queries) CompleteResumeAnalysis(ctx context.Context, arg CompleteResumeAnalysisParams) error {
	_, err := q.db.ExecContext(ctx, completeResumeAnalysis, arg.ExtractedText, arg.Analysis, arg.ID)
	return err
}
