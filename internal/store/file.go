package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Report
		if err := json.Unmarshal(data, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, r := range rows {
			if r.ID != "" {
				s.byID[r.ID] = r
			}
		}
	})
}

func (s *Store) saveFileLocked() error {
	rows := make([]Report, 0, len(s.byID))
	for _, r := range s.byID {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) putFile(r Report) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[r.ID] = r
	return s.saveFileLocked()
}

func (s *Store) getFile(id string) (Report, bool) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	return r, ok
}

func (s *Store) listFile() []Report {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]Report, 0, len(s.byID))
	for _, r := range s.byID {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows
}

func (s *Store) deleteFile(id string) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return s.saveFileLocked()
}
