package store

import (
	"encoding/json"
	"time"
)

const reportsSchema = `
CREATE TABLE IF NOT EXISTS sweettech_reports (
    id         TEXT PRIMARY KEY,
    language   TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    payload    JSONB NOT NULL
)`

func (s *Store) ensureSchema() error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(reportsSchema)
	})
	return s.schemaErr
}

func (s *Store) putDB(r Report) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	payload, err := json.Marshal(r.Record)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO sweettech_reports (id, language, created_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET language = EXCLUDED.language, created_at = EXCLUDED.created_at, payload = EXCLUDED.payload`,
		r.ID, r.Language, r.CreatedAt, payload)
	if err != nil {
		return err
	}
	s.cache.Add(r.ID, r)
	return nil
}

func (s *Store) getDB(id string) (Report, bool) {
	if r, ok := s.cache.Get(id); ok {
		return r, true
	}
	if err := s.ensureSchema(); err != nil {
		return Report{}, false
	}
	row := s.db.QueryRow(`SELECT id, language, created_at, payload FROM sweettech_reports WHERE id = $1`, id)

	var r Report
	var createdAt time.Time
	var payload []byte
	if err := row.Scan(&r.ID, &r.Language, &createdAt, &payload); err != nil {
		return Report{}, false
	}
	r.CreatedAt = createdAt
	if err := json.Unmarshal(payload, &r.Record); err != nil {
		return Report{}, false
	}
	s.cache.Add(r.ID, r)
	return r, true
}

func (s *Store) listDB() []Report {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT id, language, created_at, payload FROM sweettech_reports ORDER BY created_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var r Report
		var payload []byte
		if err := rows.Scan(&r.ID, &r.Language, &r.CreatedAt, &payload); err != nil {
			continue
		}
		if err := json.Unmarshal(payload, &r.Record); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Store) deleteDB(id string) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM sweettech_reports WHERE id = $1`, id)
	s.cache.Remove(id)
	return err
}
