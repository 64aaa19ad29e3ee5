package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Resume struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	OriginalFilename string
	FileType         string
	FileData         []byte
	ObjectKey        sql.NullString
	ExtractedText    sql.NullString
	Analysis         []byte // NULL until the first analysis completes
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
