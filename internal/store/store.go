// Package store persists completed analysis reports. A file-backed JSON
// store is the default; a Postgres backend is selected when a DSN is
// configured, with an LRU read cache in front of it.
package store

import (
	"database/sql"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"sweettech/internal/analysis"
)

// Report is one completed session's merged record.
type Report struct {
	ID        string                `json:"id"`
	Language  string                `json:"language,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
	Record    analysis.MergedRecord `json:"record"`
}

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Report

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, Report]
}

// New returns a file-backed store rooted at path.
func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Report),
	}
}

// NewPostgres returns a Postgres-backed store with an LRU read cache.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Report](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// NewFromEnv prefers Postgres when REPORT_STORE_PG_DSN is set and falls back
// to the file store when the connection fails.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("REPORT_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		log.Printf("report store: postgres unavailable, using file store: %v", err)
		return New(path)
	}
	return s
}

func (s *Store) Close() error {
	if s != nil && s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Put(r Report) error {
	if s == nil || strings.TrimSpace(r.ID) == "" {
		return nil
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if s.db != nil {
		return s.putDB(r)
	}
	return s.putFile(r)
}

func (s *Store) Get(id string) (Report, bool) {
	if s == nil {
		return Report{}, false
	}
	if s.db != nil {
		return s.getDB(id)
	}
	return s.getFile(id)
}

// List returns all reports, most recent first.
func (s *Store) List() []Report {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

func (s *Store) Delete(id string) error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.deleteDB(id)
	}
	return s.deleteFile(id)
}
