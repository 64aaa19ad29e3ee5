package database

import (
	"context"

	"github.com/google/uuid"
)

const getResume = `-- name: GetResume :one
SELECT id, user_id, original_filename, file_type, file_data, object_key, extracted_text, analysis, status, created_at, updated_at
FROM resumes WHERE id=$1
`

func (q *Queries) GetResume(ctx context.Context, id uuid.UUID) (Resume, error) {
	row := q.db.QueryRowContext(ctx, getResume, id)
	var i Resume
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.OriginalFilename,
		&i.FileType,
		&i.FileData,
		&i.ObjectKey,
		&i.ExtractedText,
		&i.Analysis,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateResumeStatus = `-- name: UpdateResumeStatus :exec
UPDATE resumes
SET status=$1, updated_at=CURRENT_TIMESTAMP
WHERE id=$2
`

type UpdateResumeStatusParams struct {
	Status string
	ID     uuid.UUID
}

func (q *Queries) UpdateResumeStatus(ctx context.Context, arg UpdateResumeStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateResumeStatus, arg.Status, arg.ID)
	return err
}
