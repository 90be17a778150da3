package hospitals

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/sandevgo/loopbot/internal/core"
)

// entry keeps lowercased copies of the searchable fields.
type entry struct {
	record  core.HospitalRecord
	name    string
	city    string
	address string
}

type snapshot struct {
	entries []entry
}

// Store is an in-memory hospital dataset. Reloads publish a new immutable
// snapshot, readers always see one complete snapshot.
type Store struct {
	current atomic.Pointer[snapshot]
}

func NewStore(records []core.HospitalRecord) *Store {
	s := &Store{}
	s.Replace(records)
	return s
}

// Replace swaps the dataset atomically.
func (s *Store) Replace(records []core.HospitalRecord) {
	entries := make([]entry, len(records))
	for i, r := range records {
		entries[i] = entry{
			record:  r,
			name:    strings.ToLower(r.Name),
			city:    strings.ToLower(r.City),
			address: strings.ToLower(r.Address),
		}
	}
	s.current.Store(&snapshot{entries: entries})
}

func (s *Store) Len() int {
	return len(s.load().entries)
}

// All returns every record in dataset order.
func (s *Store) All() []core.HospitalRecord {
	snap := s.load()
	out := make([]core.HospitalRecord, len(snap.entries))
	for i, e := range snap.entries {
		out[i] = e.record
	}
	return out
}

func (s *Store) Filter(ctx context.Context, q core.Query) ([]core.HospitalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := newMatcher(q)
	out := []core.HospitalRecord{}
	skipped := 0
	for _, e := range s.load().entries {
		if !m.match(e) {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		out = append(out, e.record)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, q core.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m := newMatcher(q)
	n := 0
	for _, e := range s.load().entries {
		if m.match(e) {
			n++
		}
	}
	return n, nil
}

func (s *Store) load() *snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return &snapshot{}
}

type matcher struct {
	city, name, text string
}

func newMatcher(q core.Query) matcher {
	return matcher{
		city: strings.ToLower(strings.TrimSpace(q.City)),
		name: strings.ToLower(strings.TrimSpace(q.Name)),
		text: strings.ToLower(strings.TrimSpace(q.Text)),
	}
}

// match applies containment on every constrained field. An empty record
// field never matches a constraint.
func (m matcher) match(e entry) bool {
	if m.city != "" && !contains(e.city, m.city) {
		return false
	}
	if m.name != "" && !contains(e.name, m.name) {
		return false
	}
	if m.text != "" && !contains(e.name, m.text) && !contains(e.address, m.text) && !contains(e.city, m.text) {
		return false
	}
	return true
}

func contains(field, needle string) bool {
	return field != "" && strings.Contains(field, needle)
}
