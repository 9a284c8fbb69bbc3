// Package sqlite stores persisted polls in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sql.DB
}

var _ ports.PollRepository = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Writers serialize in SQLite anyway; one connection avoids busy errors.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO polls (id, question, total_votes, created_at) VALUES (?, ?, ?, ?)`,
		poll.ID.String(), poll.Question, poll.TotalVotes, toMillis(poll.CreatedAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: poll %s already exists", domain.ErrValidation, poll.ID)
		}
		return fmt.Errorf("insert poll: %w", err)
	}

	for i, opt := range poll.Options {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO poll_options (poll_id, position, text, is_correct, votes) VALUES (?, ?, ?, ?, ?)`,
			poll.ID.String(), i, opt.Text, opt.IsCorrect, opt.Votes,
		)
		if err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, total_votes, created_at FROM polls WHERE id = ?`, id.String())
	poll, err := scanPoll(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("get poll: %w", err)
	}
	if poll.Options, err = s.options(ctx, poll.ID); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Poll, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, total_votes, created_at FROM polls ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	defer rows.Close()

	polls := make([]*domain.Poll, 0)
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate polls: %w", err)
	}
	// Single connection: options are read once the poll cursor is closed.
	rows.Close()

	for _, poll := range polls {
		if poll.Options, err = s.options(ctx, poll.ID); err != nil {
			return nil, err
		}
	}
	return polls, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM polls WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	if affected == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (s *Store) options(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text, is_correct, votes FROM poll_options WHERE poll_id = ? ORDER BY position`, pollID.String())
	if err != nil {
		return nil, fmt.Errorf("get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.Text, &opt.IsCorrect, &opt.Votes); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}
	return options, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*domain.Poll, error) {
	var (
		poll      domain.Poll
		id        string
		createdAt int64
	)
	if err := row.Scan(&id, &poll.Question, &poll.TotalVotes, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("stored poll id %q: %w", id, err)
	}
	poll.ID = parsed
	poll.CreatedAt = fromMillis(createdAt)
	return &poll, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
