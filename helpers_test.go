package main

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/muhammadolammi/resumeworker/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(t *testing.T) {
	t.Helper()
	prev := retryBackoff
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = prev })
}

func TestRetry(t *testing.T) {
	fastRetry(t)
	ctx := context.Background()

	t.Run("succeeds after transient errors", func(t *testing.T) {
		calls := 0
		got, err := retry(ctx, 3, func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("transient")
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		boom := errors.New("down")
		calls := 0
		_, err := retry(ctx, 3, func() (int, error) {
			calls++
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent error stops early", func(t *testing.T) {
		boom := errors.New("not found")
		calls := 0
		_, err := retry(ctx, 3, func() (int, error) {
			calls++
			return 0, permanent(boom)
		})
		assert.Equal(t, boom, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops waiting", func(t *testing.T) {
		retryBackoff = time.Hour
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := retry(cctx, 3, func() (int, error) {
			return 0, errors.New("transient")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type fakeFetcher struct {
	data  map[string][]byte
	fails int
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, key string) ([]byte, error) {
	f.calls++
	if f.calls <= f.fails {
		return nil, errors.New("connection reset")
	}
	data, ok := f.data[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func TestLoadDocument(t *testing.T) {
	fastRetry(t)
	ctx := context.Background()

	t.Run("object key wins over file data", func(t *testing.T) {
		fetcher := &fakeFetcher{data: map[string][]byte{"u/1.txt": []byte("from r2")}, fails: 2}
		wc := &WorkerConfig{Objects: fetcher}

		doc, err := wc.loadDocument(ctx, database.Resume{
			OriginalFilename: "cv.txt",
			FileType:         "text/plain",
			FileData:         []byte("from db"),
			ObjectKey:        sql.NullString{String: "u/1.txt", Valid: true},
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("from r2"), doc.Data)
		assert.Equal(t, "cv.txt", doc.Filename)
		assert.Equal(t, "text/plain", doc.MediaType)
		assert.Equal(t, 3, fetcher.calls)
	})

	t.Run("download keeps failing", func(t *testing.T) {
		wc := &WorkerConfig{Objects: &fakeFetcher{fails: 5}}
		_, err := wc.loadDocument(ctx, database.Resume{ObjectKey: sql.NullString{String: "k", Valid: true}})
		assert.ErrorContains(t, err, "file download error")
	})

	t.Run("file data without r2", func(t *testing.T) {
		wc := &WorkerConfig{}
		doc, err := wc.loadDocument(ctx, database.Resume{FileType: "application/pdf", FileData: []byte("%PDF")})
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), doc.Data)
	})

	t.Run("object key without r2", func(t *testing.T) {
		wc := &WorkerConfig{}
		_, err := wc.loadDocument(ctx, database.Resume{ObjectKey: sql.NullString{String: "k", Valid: true}})
		assert.ErrorIs(t, err, errStorageUnavailable)
	})

	t.Run("nothing stored", func(t *testing.T) {
		wc := &WorkerConfig{}
		_, err := wc.loadDocument(ctx, database.Resume{})
		assert.ErrorIs(t, err, errNoDocument)
	})
}

func TestStoredText(t *testing.T) {
	_, err := storedText(database.Resume{})
	assert.ErrorIs(t, err, errTextUnavailable)

	_, err = storedText(database.Resume{ExtractedText: sql.NullString{String: "  ", Valid: true}})
	assert.ErrorIs(t, err, errTextUnavailable)

	text, err := storedText(database.Resume{ExtractedText: sql.NullString{String: "resume", Valid: true}})
	require.NoError(t, err)
	assert.Equal(t, "resume", text)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "resume.abc", routingKey("abc"))
}
