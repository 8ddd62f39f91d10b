package repository

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/helpdesk/helpdesk/internal/dataset"
	"github.com/helpdesk/helpdesk/internal/helprequest"
)

// TimeFormat is the ISO-8601 layout used for the creation timestamp of new
// records. Lexical order of these strings matches chronological order.
const TimeFormat = "2006-01-02T15:04:05.000000"

// MemoryRepo is the in-memory help request store. It is seeded once from a
// dataset and never written back. One RWMutex serializes every mutation.
type MemoryRepo struct {
	mu      sync.RWMutex
	store   map[string]*helprequest.HelpRequest
	context json.RawMessage
	now     func() time.Time
	newID   func() string
	onSize  func(n int)
}

type Option func(*MemoryRepo)

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryRepo) { m.now = now }
}

// WithIDGenerator replaces the random id generator.
func WithIDGenerator(gen func() string) Option {
	return func(m *MemoryRepo) { m.newID = gen }
}

// WithIDLength sets the length of generated ids.
func WithIDLength(n int) Option {
	return func(m *MemoryRepo) { m.newID = func() string { return helprequest.GenerateID(n) } }
}

// WithSizeObserver registers fn to receive the record count after seeding and
// after every insert. fn runs under the store lock and must not call back
// into the repo.
func WithSizeObserver(fn func(n int)) Option {
	return func(m *MemoryRepo) { m.onSize = fn }
}

func NewMemoryRepo(opts ...Option) *MemoryRepo {
	m := &MemoryRepo{
		store: make(map[string]*helprequest.HelpRequest),
		now:   time.Now,
		newID: func() string { return helprequest.GenerateID(helprequest.DefaultIDLength) },
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// NewMemoryRepoFromDataset copies the records of ds into a new store.
func NewMemoryRepoFromDataset(ds *dataset.Dataset, opts ...Option) *MemoryRepo {
	m := NewMemoryRepo(opts...)
	if ds != nil {
		m.context = ds.Context
		for id, r := range ds.HelpRequests {
			c := r.Clone()
			c.ID = id
			m.store[id] = c
		}
	}
	m.observeSize()
	return m
}

func (m *MemoryRepo) Get(id string) (*helprequest.HelpRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.store[id]; ok {
		return r.Clone(), nil
	}
	return nil, &helprequest.NotFoundError{ID: id}
}

// List returns copies of all records ordered by id.
func (m *MemoryRepo) List() []*helprequest.HelpRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*helprequest.HelpRequest, 0, len(m.store))
	for _, r := range m.store {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// Context returns the JSON-LD context the store was seeded with.
func (m *MemoryRepo) Context() json.RawMessage {
	return m.context
}

// Create validates the required fields in order and inserts a new record.
// A generated id that collides with an existing one replaces that record.
func (m *MemoryRepo) Create(from, title, description string) (*helprequest.HelpRequest, error) {
	for _, f := range []struct{ name, value string }{
		{"from", from},
		{"title", title},
		{"description", description},
	} {
		if f.value == "" {
			return nil, &helprequest.ValidationError{Field: f.name}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.newID()
	r := &helprequest.HelpRequest{
		ID:          id,
		LDID:        "request/" + id,
		LDType:      helprequest.TypeHelpTicket,
		From:        from,
		Title:       title,
		Description: description,
		Time:        m.now().Format(TimeFormat),
		Priority:    helprequest.PriorityNormal,
		Comments:    []string{},
	}
	m.store[id] = r
	m.observeSize()
	return r.Clone(), nil
}

// Update sets the priority (any integer is accepted) and appends comment
// when it is non-empty after trimming.
func (m *MemoryRepo) Update(id string, priority int, comment string) (*helprequest.HelpRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok {
		return nil, &helprequest.NotFoundError{ID: id}
	}
	r.Priority = priority
	if c := strings.TrimSpace(comment); c != "" {
		r.Comments = append(r.Comments, c)
	}
	return r.Clone(), nil
}

// observeSize reports the current count. Callers hold m.mu or own m exclusively.
func (m *MemoryRepo) observeSize() {
	if m.onSize != nil {
		m.onSize(len(m.store))
	}
}

// Snapshot returns a copy of the full document: context plus every record.
func (m *MemoryRepo) Snapshot() *dataset.Dataset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds := &dataset.Dataset{
		Context:      m.context,
		HelpRequests: make(map[string]*helprequest.HelpRequest, len(m.store)),
	}
	for id, r := range m.store {
		ds.HelpRequests[id] = r.Clone()
	}
	return ds
}
