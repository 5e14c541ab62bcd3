package pgx

import (
	"context"
	"encoding/json"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidgraph/backend/pkg/common"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// VideoDBStore implements store.VideoStore and store.ChatStore on
// PostgreSQL. Key points are stored as jsonb; a row whose key points fail to
// decode is still listed (so the video stays browsable) but contributes no
// key points downstream.
type VideoDBStore struct {
	conn pgxIConn
}

func NewVideoDBStore(conn pgxIConn) *VideoDBStore {
	return &VideoDBStore{conn: conn}
}

var _ store.VideoStore = (*VideoDBStore)(nil)
var _ store.ChatStore = (*VideoDBStore)(nil)

func (s *VideoDBStore) ListDocuments(ctx context.Context, filter store.DocumentFilter) ([]common.VideoDocument, error) {
	query := `SELECT id, title, author, category, key_points, transcript, created_at
		FROM videos`
	args := []any{}
	if filter.Category != "" {
		query += ` WHERE category = $1`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY id`

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []common.VideoDocument
	for rows.Next() {
		doc, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *VideoDBStore) GetVideo(ctx context.Context, id string) (*common.VideoDocument, error) {
	rows, err := s.conn.Query(ctx, `SELECT id, title, author, category, key_points, transcript, created_at
		FROM videos WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, store.ErrNotFound
	}
	doc, err := scanVideo(rows)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *VideoDBStore) SaveVideo(ctx context.Context, doc common.VideoDocument) error {
	keyPoints, err := json.Marshal(doc.KeyPoints)
	if err != nil {
		return err
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.conn.Exec(ctx, `INSERT INTO videos (id, title, author, category, key_points, transcript, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			category = EXCLUDED.category,
			key_points = EXCLUDED.key_points,
			transcript = EXCLUDED.transcript`,
		doc.ID, doc.Title, doc.Author, doc.Category, keyPoints, doc.Transcript, createdAt)
	return err
}

func (s *VideoDBStore) DeleteVideo(ctx context.Context, id string) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chats WHERE video_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *VideoDBStore) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT DISTINCT category FROM videos WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *VideoDBStore) SaveChatMessage(ctx context.Context, msg store.ChatMessage) (int64, error) {
	var id int64
	err := s.conn.QueryRow(ctx, `INSERT INTO chats (video_id, role, content)
		VALUES ($1, $2, $3) RETURNING id`,
		msg.VideoID, msg.Role, msg.Content).Scan(&id)
	return id, err
}

func (s *VideoDBStore) GetChatHistory(ctx context.Context, videoID string, limit int) ([]store.ChatMessage, error) {
	rows, err := s.conn.Query(ctx, `SELECT id, video_id, role, content FROM (
			SELECT id, video_id, role, content FROM chats
			WHERE video_id = $1 ORDER BY id DESC LIMIT $2
		) recent ORDER BY id ASC`, videoID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []store.ChatMessage
	for rows.Next() {
		var m store.ChatMessage
		if err := rows.Scan(&m.ID, &m.VideoID, &m.Role, &m.Content); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *VideoDBStore) DeleteChatHistory(ctx context.Context, videoID string) error {
	_, err := s.conn.Exec(ctx, `DELETE FROM chats WHERE video_id = $1`, videoID)
	return err
}

func scanVideo(rows pgxv5.Rows) (common.VideoDocument, error) {
	var doc common.VideoDocument
	var keyPoints []byte
	if err := rows.Scan(&doc.ID, &doc.Title, &doc.Author, &doc.Category, &keyPoints, &doc.Transcript, &doc.CreatedAt); err != nil {
		return doc, err
	}
	if len(keyPoints) > 0 {
		if err := json.Unmarshal(keyPoints, &doc.KeyPoints); err != nil {
			logger.Warn("[Store][ListDocuments] Malformed key points, skipping", "video", doc.ID, "err", err)
			doc.KeyPoints = nil
		}
	}
	return doc, nil
}
