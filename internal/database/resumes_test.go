package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resumeColumns = []string{
	"id", "user_id", "original_filename", "file_type", "file_data", "object_key",
	"extracted_text", "analysis", "status", "created_at", "updated_at",
}

// stubConnector serves canned rows to database/sql and records exec arguments.
type stubConnector struct {
	columns []string
	rows    [][]driver.Value
	execs   [][]driver.Value
}

func (c *stubConnector) Connect(context.Context) (driver.Conn, error) { return &stubConn{c: c}, nil }
func (c *stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use sql.OpenDB") }

type stubConn struct{ c *stubConnector }

func (s *stubConn) Prepare(string) (driver.Stmt, error) { return &stubStmt{c: s.c}, nil }
func (s *stubConn) Close() error                        { return nil }
func (s *stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("no transactions") }

type stubStmt struct{ c *stubConnector }

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return -1 }

func (s *stubStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.c.execs = append(s.c.execs, args)
	return driver.RowsAffected(1), nil
}

func (s *stubStmt) Query([]driver.Value) (driver.Rows, error) {
	return &stubRows{columns: s.c.columns, rows: s.c.rows}, nil
}

type stubRows struct {
	columns []string
	rows    [][]driver.Value
	next    int
}

func (r *stubRows) Columns() []string { return r.columns }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

func newStubQueries(t *testing.T, c *stubConnector) *Queries {
	t.Helper()
	db := sql.OpenDB(c)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestGetResumeFreshUpload(t *testing.T) {
	id, userID := uuid.New(), uuid.New()
	created := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	c := &stubConnector{
		columns: resumeColumns,
		rows: [][]driver.Value{{
			id.String(), userID.String(), "cv.pdf", "application/pdf", []byte("%PDF-1.7"),
			nil, nil, nil, "pending", created, created,
		}},
	}

	r, err := newStubQueries(t, c).GetResume(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, r.ID)
	assert.Equal(t, userID, r.UserID)
	assert.Equal(t, []byte("%PDF-1.7"), r.FileData)
	assert.False(t, r.ObjectKey.Valid)
	assert.False(t, r.ExtractedText.Valid)
	assert.Nil(t, r.Analysis)
	assert.Equal(t, "pending", r.Status)
	assert.Equal(t, created, r.CreatedAt)
}

func TestGetResumeAnalyzed(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()
	c := &stubConnector{
		columns: resumeColumns,
		rows: [][]driver.Value{{
			id.String(), uuid.NewString(), "cv.txt", "text/plain", nil,
			"uploads/cv.txt", "Go developer", []byte(`{"score": 40}`), "completed", now, now,
		}},
	}

	r, err := newStubQueries(t, c).GetResume(context.Background(), id)
	require.NoError(t, err)

	assert.Nil(t, r.FileData)
	assert.Equal(t, sql.NullString{String: "uploads/cv.txt", Valid: true}, r.ObjectKey)
	assert.Equal(t, "Go developer", r.ExtractedText.String)
	assert.JSONEq(t, `{"score": 40}`, string(r.Analysis))
}

func TestGetResumeNotFound(t *testing.T) {
	c := &stubConnector{columns: resumeColumns}

	_, err := newStubQueries(t, c).GetResume(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCompleteResumeAnalysis(t *testing.T) {
	c := &stubConnector{}
	id := uuid.New()

	err := newStubQueries(t, c).CompleteResumeAnalysis(context.Background(), CompleteResumeAnalysisParams{
		ExtractedText: sql.NullString{String: "text", Valid: true},
		Analysis:      json.RawMessage(`{"score": 12}`),
		ID:            id,
	})
	require.NoError(t, err)

	require.Len(t, c.execs, 1)
	args := c.execs[0]
	require.Len(t, args, 3)
	assert.Equal(t, "text", args[0])
	assert.Equal(t, []byte(`{"score": 12}`), args[1])
	assert.Equal(t, id.String(), args[2])
}

func TestUpdateResumeStatus(t *testing.T) {
	c := &stubConnector{}
	id := uuid.New()

	err := newStubQueries(t, c).UpdateResumeStatus(context.Background(), UpdateResumeStatusParams{Status: "failed", ID: id})
	require.NoError(t, err)

	require.Len(t, c.execs, 1)
	assert.Equal(t, []driver.Value{"failed", id.String()}, c.execs[0])
}
