package server

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// ErrNotFound is returned by repository lookups that match nothing.
var ErrNotFound = errors.New("not found")

// AnalysisRecord is one row of the analysis history.
type AnalysisRecord struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Class         string    `json:"class"`
	Length        float64   `json:"length_m"`
	Supports      int       `json:"supports"`
	Loads         int       `json:"loads"`
	TotalLoad     float64   `json:"total_load_n"`
	MaxMoment     float64   `json:"max_moment_nm"`
	MaxDeflection float64   `json:"max_deflection_m"`
	Warnings      int       `json:"warnings"`
}

// Repository stores users and the analysis history. The server runs with a
// MemoryRepository unless a Postgres DSN is configured.
type Repository interface {
	CreateUser(ctx context.Context, login, email, passwordHash string) (int64, error)
	UserByLogin(ctx context.Context, login string) (id int64, passwordHash string, err error)
	SaveAnalysis(ctx context.Context, rec AnalysisRecord) (int64, error)
	RecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error)
}

// PostgresRepository keeps users and history in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// OpenPostgres connects to the DSN, verifies the connection and creates the
// schema when missing.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	r := &PostgresRepository{db: db}
	if err := r.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error { return r.db.Close() }

func (r *PostgresRepository) init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	login TEXT UNIQUE NOT NULL,
	email TEXT NOT NULL,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS analyses (
	id BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	class TEXT NOT NULL,
	length DOUBLE PRECISION NOT NULL,
	supports INTEGER NOT NULL,
	loads INTEGER NOT NULL,
	total_load DOUBLE PRECISION NOT NULL,
	max_moment DOUBLE PRECISION NOT NULL,
	max_deflection DOUBLE PRECISION NOT NULL,
	warnings INTEGER NOT NULL
);`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, passwordHash string) (int64, error) {
	var id int64
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, passwordHash).Scan(&id)
	return id, err
}

func (r *PostgresRepository) UserByLogin(ctx context.Context, login string) (int64, string, error) {
	var id int64
	var hash string
	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveAnalysis(ctx context.Context, rec AnalysisRecord) (int64, error) {
	var id int64
	query := `INSERT INTO analyses
	(class, length, supports, loads, total_load, max_moment, max_deflection, warnings)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rec.Class, rec.Length, rec.Supports, rec.Loads,
		rec.TotalLoad, rec.MaxMoment, rec.MaxDeflection, rec.Warnings).Scan(&id)
	return id, err
}

func (r *PostgresRepository) RecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	query := `SELECT id, created_at, class, length, supports, loads,
	total_load, max_moment, max_deflection, warnings
	FROM analyses ORDER BY id DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Class, &rec.Length,
			&rec.Supports, &rec.Loads, &rec.TotalLoad,
			&rec.MaxMoment, &rec.MaxDeflection, &rec.Warnings); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type memoryUser struct {
	id    int64
	email string
	hash  string
}

// MemoryRepository is the in-process Repository used when no database is
// configured. Everything is lost on restart.
type MemoryRepository struct {
	mu       sync.Mutex
	users    map[string]memoryUser
	analyses []AnalysisRecord
	nextUser int64
	nextRec  int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]memoryUser)}
}

func (r *MemoryRepository) CreateUser(_ context.Context, login, email, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[login]; exists {
		return 0, errors.New("login already in use")
	}
	r.nextUser++
	r.users[login] = memoryUser{id: r.nextUser, email: email, hash: passwordHash}
	return r.nextUser, nil
}

func (r *MemoryRepository) UserByLogin(_ context.Context, login string) (int64, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[login]
	if !ok {
		return 0, "", ErrNotFound
	}
	return u.id, u.hash, nil
}

func (r *MemoryRepository) SaveAnalysis(_ context.Context, rec AnalysisRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextRec++
	rec.ID = r.nextRec
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.analyses = append(r.analyses, rec)
	return rec.ID, nil
}

func (r *MemoryRepository) RecentAnalyses(_ context.Context, limit int) ([]AnalysisRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AnalysisRecord, len(r.analyses))
	copy(out, r.analyses)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
