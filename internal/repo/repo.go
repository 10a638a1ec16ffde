package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Run is one persisted analysis run.
type Run struct {
	ID        string          `json:"id"`
	Method    string          `json:"method"`
	CreatedAt time.Time       `json:"created_at"`
	Results   json.RawMessage `json:"results,omitempty"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)

	SaveRun(ctx context.Context, id, method string, results []byte) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveRun(ctx context.Context, id, method string, results []byte) error {
	query := "INSERT INTO analysis_runs (id, method, results, created_at) VALUES ($1, $2, $3, NOW())"
	_, err := r.db.ExecContext(ctx, query, id, method, results)
	return err
}

func (r *PostgresRepository) GetRun(ctx context.Context, id string) (Run, error) {
	var run Run
	query := "SELECT id, method, results, created_at FROM analysis_runs WHERE id=$1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&run.ID, &run.Method, &run.Results, &run.CreatedAt)
	return run, err
}

func (r *PostgresRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT id, method, created_at FROM analysis_runs ORDER BY created_at DESC LIMIT $1"
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Method, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
