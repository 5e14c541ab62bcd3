package pgx

import (
	"context"
	"errors"
	"strings"
	"testing"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidgraph/backend/pkg/common"
)

type execRecorder struct {
	sql  []string
	args [][]any
}

func (r *execRecorder) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, arguments)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *execRecorder) Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error) {
	return nil, errors.New("not implemented")
}

func (r *execRecorder) QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row {
	return nil
}

func (r *execRecorder) Begin(ctx context.Context) (pgxv5.Tx, error) {
	return nil, errors.New("not implemented")
}

// Writing the same video twice must not surface a duplicate key error; the
// statement carries the conflict clause so re-ingesting refreshes the row.
func TestSaveVideoUpserts(t *testing.T) {
	rec := &execRecorder{}
	s := NewVideoDBStore(rec)

	doc := common.VideoDocument{
		ID:        "abc123",
		Title:     "Intro to Graphs",
		KeyPoints: []string{"graphs connect things"},
	}
	if err := s.SaveVideo(context.Background(), doc); err != nil {
		t.Fatalf("SaveVideo() error = %v", err)
	}
	if err := s.SaveVideo(context.Background(), doc); err != nil {
		t.Fatalf("second SaveVideo() error = %v", err)
	}

	if len(rec.sql) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(rec.sql))
	}
	for _, q := range rec.sql {
		if !strings.Contains(q, "ON CONFLICT (id) DO UPDATE") {
			t.Errorf("statement is not an upsert: %s", q)
		}
		if strings.Contains(q, "created_at = EXCLUDED") {
			t.Errorf("upsert must not overwrite created_at: %s", q)
		}
	}
	if len(rec.args[0]) != 7 {
		t.Errorf("expected 7 bind arguments, got %d", len(rec.args[0]))
	}
}
