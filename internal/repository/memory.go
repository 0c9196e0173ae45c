package repository

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/session"
)

// MemoryStore is an in-memory submission store with the same behavior as
// SubmissionRepo. It backs tests and local development without an OxiDB
// server. A submission with an empty SessionID models a legacy document
// whose session field is missing.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int
	seq    map[string]int
	subs   map[string]models.Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		seq:    make(map[string]int),
		subs:   make(map[string]models.Submission),
	}
}

func (m *MemoryStore) Insert(sub *models.Submission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := strconv.Itoa(m.nextID)
	m.nextID++
	stored := *sub
	stored.ID = id
	stored.NewControlSelections = append([]models.ControlSelection(nil), sub.NewControlSelections...)
	m.subs[id] = stored
	m.seq[id] = m.nextID
	return id, nil
}

func (m *MemoryStore) List(f ListFilter) ([]models.Submission, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.where(func(s models.Submission) bool { return matchesFilter(s, f) })
	total := len(matched)

	if f.Skip >= len(matched) {
		return []models.Submission{}, total, nil
	}
	matched = matched[f.Skip:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (m *MemoryStore) DeleteByIDs(ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			delete(m.seq, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryStore) DeleteAll() (int, error) {
	return m.deleteWhere(func(models.Submission) bool { return true })
}

func (m *MemoryStore) DeleteWithoutSession() (int, error) {
	return m.deleteWhere(func(s models.Submission) bool { return s.SessionID == "" })
}

func (m *MemoryStore) DeleteTestData() (int, error) {
	return m.deleteWhere(isTestData)
}

func (m *MemoryStore) DeleteOlderThan(cutoff time.Time) (int, error) {
	c := cutoff.UTC().Format(time.RFC3339)
	return m.deleteWhere(func(s models.Submission) bool { return s.CreatedAt < c })
}

func (m *MemoryStore) CountAll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs), nil
}

func (m *MemoryStore) CountWithoutSession() (int, error) {
	return m.countWhere(func(s models.Submission) bool { return s.SessionID == "" })
}

func (m *MemoryStore) CountTestData() (int, error) {
	return m.countWhere(isTestData)
}

func (m *MemoryStore) CountOlderThan(cutoff time.Time) (int, error) {
	c := cutoff.UTC().Format(time.RFC3339)
	return m.countWhere(func(s models.Submission) bool { return s.CreatedAt < c })
}

func (m *MemoryStore) DistinctSessions() ([]SessionCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, s := range m.subs {
		counts[s.SessionID]++
	}
	out := make([]SessionCount, 0, len(counts))
	for sid, n := range counts {
		out = append(out, SessionCount{SessionID: sid, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (m *MemoryStore) Recent(limit int) ([]models.Submission, error) {
	subs, _, err := m.List(ListFilter{Limit: limit})
	return subs, err
}

func (m *MemoryStore) where(pred func(models.Submission) bool) []models.Submission {
	var out []models.Submission
	for _, s := range m.subs {
		if pred(s) {
			out = append(out, s)
		}
	}
	// newest-first, matching the repo sort on createdAt
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	return out
}

func (m *MemoryStore) deleteWhere(pred func(models.Submission) bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for id, s := range m.subs {
		if pred(s) {
			delete(m.subs, id)
			delete(m.seq, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryStore) countWhere(pred func(models.Submission) bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		if pred(s) {
			n++
		}
	}
	return n, nil
}

func matchesFilter(s models.Submission, f ListFilter) bool {
	if f.QuestionID != 0 && s.QuestionID != f.QuestionID {
		return false
	}
	if f.SessionID == "" {
		return true
	}
	if session.IsIndividual(f.SessionID) {
		return s.SessionID == "" || s.SessionID == session.Individual
	}
	return s.SessionID == f.SessionID
}

func isTestData(s models.Submission) bool {
	name := strings.ToLower(s.ControlName)
	sid := strings.ToLower(s.SessionID)
	return strings.Contains(name, "test") ||
		strings.Contains(name, "debug") ||
		strings.HasPrefix(sid, "test_") ||
		strings.HasPrefix(sid, "migrated_") ||
		strings.HasPrefix(sid, "debug_") ||
		s.QuestionID >= 888
}
