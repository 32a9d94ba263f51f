package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notesapp/internal/models"
	"notesapp/internal/storage"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(300*time.Millisecond),
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error { return s.db.Close() }

const noteColumns = `n.id, n.title, n.content, n.created_at, n.updated_at, n.user_id, u.name`

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	var n models.Note
	var ownerName string
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt, &n.UserID, &ownerName); err != nil {
		return nil, err
	}
	n.User = &models.User{ID: n.UserID, Name: ownerName}
	return &n, nil
}

func (s *Storage) ListNotes(ctx context.Context) ([]models.Note, error) {
	const op = "storage.postgres.ListNotes"

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes n
		JOIN users u ON u.id = n.user_id
		ORDER BY n.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return notes, nil
}

func (s *Storage) GetNote(ctx context.Context, id string) (*models.Note, error) {
	const op = "storage.postgres.GetNote"

	row := s.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes n
		JOIN users u ON u.id = n.user_id
		WHERE n.id = $1
	`, id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return n, nil
}

func (s *Storage) CreateNote(ctx context.Context, params storage.CreateNoteParams) (*models.Note, error) {
	const op = "storage.postgres.CreateNote"

	n, err := insertNote(ctx, s.db, params)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var ownerName string
	if err := s.db.QueryRowContext(ctx, `SELECT name FROM users WHERE id = $1`, n.UserID).Scan(&ownerName); err != nil {
		return nil, fmt.Errorf("%s: owner: %w", op, err)
	}
	n.User = &models.User{ID: n.UserID, Name: ownerName}
	return n, nil
}

// CreateNoteForUser upserts the owning user and inserts the note in a single
// transaction, so a failed insert never leaves an orphan user behind.
func (s *Storage) CreateNoteForUser(ctx context.Context, owner storage.UpsertUserParams, params storage.CreateNoteParams) (*models.Note, error) {
	const op = "storage.postgres.CreateNoteForUser"

	var note *models.Note
	err := s.execTx(ctx, func(tx *sql.Tx) error {
		user, err := upsertUser(ctx, tx, owner)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		params.UserID = user.ID
		n, err := insertNote(ctx, tx, params)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}

		n.User = user
		note = n
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return note, nil
}

func (s *Storage) UpdateNote(ctx context.Context, id string, params storage.UpdateNoteParams) (*models.Note, error) {
	const op = "storage.postgres.UpdateNote"

	row := s.db.QueryRowContext(ctx, `
		UPDATE notes n
		SET title = $1, content = $2, updated_at = $3
		FROM users u
		WHERE n.id = $4 AND u.id = n.user_id
		RETURNING `+noteColumns+`
	`, params.Title, params.Content, time.Now().UTC(), id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Storage) DeleteNote(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteNote"

	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNoteNotFound
	}
	return nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.postgres.ListUsers"

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: users: %w", op, err)
	}
	defer rows.Close()

	users := []models.User{}
	index := map[string]int{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("%s: scan user: %w", op, err)
		}
		u.Notes = []models.Note{}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: users rows: %w", op, err)
	}

	noteRows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, created_at, updated_at, user_id
		FROM notes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: notes: %w", op, err)
	}
	defer noteRows.Close()

	for noteRows.Next() {
		var n models.Note
		if err := noteRows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt, &n.UserID); err != nil {
			return nil, fmt.Errorf("%s: scan note: %w", op, err)
		}
		if i, ok := index[n.UserID]; ok {
			users[i].Notes = append(users[i].Notes, n)
		}
	}
	if err := noteRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: notes rows: %w", op, err)
	}
	return users, nil
}

func (s *Storage) CreateUser(ctx context.Context, name string) (*models.User, error) {
	const op = "storage.postgres.CreateUser"

	u := models.User{ID: uuid.NewString(), Name: name}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users(id, name) VALUES($1, $2)`,
		u.ID, u.Name,
	); err != nil {
		return nil, fmt.Errorf("%s: insert user: %w", op, err)
	}
	return &u, nil
}

func (s *Storage) UpsertUser(ctx context.Context, id, name string) (*models.User, error) {
	const op = "storage.postgres.UpsertUser"

	u, err := upsertUser(ctx, s.db, storage.UpsertUserParams{ID: id, Name: name})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx so the statement helpers
// below work inside and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertNote(ctx context.Context, q querier, params storage.CreateNoteParams) (*models.Note, error) {
	now := time.Now().UTC()
	n := models.Note{
		ID:        uuid.NewString(),
		Title:     params.Title,
		Content:   params.Content,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    params.UserID,
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO notes(id, title, content, created_at, updated_at, user_id)
		VALUES($1, $2, $3, $4, $5, $6)
	`, n.ID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt, n.UserID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, storage.ErrUserNotFound
		}
		return nil, err
	}
	return &n, nil
}

func upsertUser(ctx context.Context, q querier, params storage.UpsertUserParams) (*models.User, error) {
	var u models.User
	err := q.QueryRowContext(ctx, `
		INSERT INTO users(id, name) VALUES($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, params.ID, params.Name).Scan(&u.ID, &u.Name)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// execTx runs fn inside a transaction, committing on success and rolling back
// on error or panic.
func (s *Storage) execTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("rollback failed (%v) after: %w", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
