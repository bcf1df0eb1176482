package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// SQLStore keeps sessions in the quiz_sessions table (see internal/db).
// Questions, correct answers included, live in a JSON column.
type SQLStore struct {
	db     *sql.DB
	policy Policy
	opts   options
}

func NewSQLStore(db *sql.DB, p Policy, opts ...Option) *SQLStore {
	return &SQLStore{db: db, policy: p, opts: buildOptions(opts)}
}

func (s *SQLStore) Put(ctx context.Context, qs quiz.Session) error {
	qj, err := json.Marshal(qs.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	now := s.opts.now()
	var exp int64
	if e := s.policy.expiresAt(now); !e.IsZero() {
		exp = e.UnixNano()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quiz_sessions (id,title,total_questions,questions_json,created_at,stored_at,expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, total_questions=EXCLUDED.total_questions,
			questions_json=EXCLUDED.questions_json, stored_at=EXCLUDED.stored_at, expires_at=EXCLUDED.expires_at`,
		qs.ID, qs.Title, qs.TotalQuestions, string(qj), qs.CreatedAt, now.UnixNano(), exp)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	if s.policy.MaxSessions > 0 {
		return s.trim(ctx)
	}
	return nil
}

// trim evicts the oldest sessions beyond MaxSessions.
func (s *SQLStore) trim(ctx context.Context) error {
	ids, err := s.queryIDs(ctx, `SELECT id FROM quiz_sessions ORDER BY stored_at DESC, id DESC`)
	if err != nil {
		return err
	}
	if len(ids) <= s.policy.MaxSessions {
		return nil
	}
	return s.deleteIDs(ctx, ids[s.policy.MaxSessions:])
}

func (s *SQLStore) Get(ctx context.Context, id string) (quiz.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,total_questions,questions_json,created_at,expires_at FROM quiz_sessions WHERE id=$1`, id)
	var (
		qs    quiz.Session
		qjson string
		exp   int64
	)
	if err := row.Scan(&qs.ID, &qs.Title, &qs.TotalQuestions, &qjson, &qs.CreatedAt, &exp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Session{}, ErrNotFound
		}
		return quiz.Session{}, err
	}
	if exp > 0 && s.opts.now().UnixNano() >= exp {
		return quiz.Session{}, ErrNotFound
	}
	if err := json.Unmarshal([]byte(qjson), &qs.Questions); err != nil {
		return quiz.Session{}, fmt.Errorf("decode questions: %w", err)
	}
	return qs, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quiz_sessions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.opts.onRemove(id)
	return nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]quiz.Summary, error) {
	opts = normalizeList(opts)
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,total_questions,created_at FROM quiz_sessions
		WHERE expires_at = 0 OR expires_at > $1
		ORDER BY stored_at DESC, id DESC
		LIMIT $2 OFFSET $3`, s.opts.now().UnixNano(), opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []quiz.Summary{}
	for rows.Next() {
		var sm quiz.Summary
		if err := rows.Scan(&sm.ID, &sm.Title, &sm.TotalQuestions, &sm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) Sweep(ctx context.Context) (int, error) {
	ids, err := s.queryIDs(ctx,
		`SELECT id FROM quiz_sessions WHERE expires_at > 0 AND expires_at <= $1`, s.opts.now().UnixNano())
	if err != nil {
		return 0, err
	}
	if err := s.deleteIDs(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *SQLStore) deleteIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM quiz_sessions WHERE id=$1`, id); err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
		s.opts.onRemove(id)
	}
	return nil
}

// queryIDs drains the id column before returning so the connection is free
// for follow-up deletes on single-connection sqlite handles.
func (s *SQLStore) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
