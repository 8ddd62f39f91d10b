package service

import (
	"encoding/json"
	"errors"

	"github.com/helpdesk/helpdesk/internal/dataset"
	"github.com/helpdesk/helpdesk/internal/helprequest"
	"github.com/helpdesk/helpdesk/internal/helprequest/repository"
	"github.com/helpdesk/helpdesk/pkg/logger"
	"github.com/helpdesk/helpdesk/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Service defines the help request operations used by the handler layer.
type Service interface {
	Get(id string) (*helprequest.HelpRequest, error)
	List() []*helprequest.HelpRequest
	Create(from, title, description string) (*helprequest.HelpRequest, error)
	Update(id string, priority int, comment string) (*helprequest.HelpRequest, error)
	// Query filters and sorts the current records; see helprequest.Query.
	Query(text, sortBy string) ([]*helprequest.HelpRequest, error)
	Snapshot() *dataset.Dataset
	Context() json.RawMessage
	Len() int
}

// NewMemoryService returns a Service backed by a store seeded from ds.
func NewMemoryService(ds *dataset.Dataset, opts ...repository.Option) Service {
	opts = append(opts[:len(opts):len(opts)], repository.WithSizeObserver(func(n int) {
		metrics.HelpRequestsStored.Set(float64(n))
	}))
	repo := repository.NewMemoryRepoFromDataset(ds, opts...)
	return &memoryService{repo: repo, log: logger.WithPrefix("helprequest")}
}

type memoryService struct {
	repo *repository.MemoryRepo
	log  *logrus.Entry
}

func (m *memoryService) Get(id string) (*helprequest.HelpRequest, error) {
	r, err := m.repo.Get(id)
	if err != nil {
		countError("get", err)
		return nil, err
	}
	return r, nil
}

func (m *memoryService) List() []*helprequest.HelpRequest {
	return m.repo.List()
}

func (m *memoryService) Create(from, title, description string) (*helprequest.HelpRequest, error) {
	r, err := m.repo.Create(from, title, description)
	if err != nil {
		countError("create", err)
		return nil, err
	}
	metrics.HelpRequestsCreated.Inc()
	m.log.WithFields(logrus.Fields{"id": r.ID, "from": r.From}).Info("help request created")
	return r, nil
}

func (m *memoryService) Update(id string, priority int, comment string) (*helprequest.HelpRequest, error) {
	r, err := m.repo.Update(id, priority, comment)
	if err != nil {
		countError("update", err)
		return nil, err
	}
	metrics.HelpRequestsUpdated.Inc()
	entry := m.log.WithFields(logrus.Fields{"id": id, "priority": priority, "comments": len(r.Comments)})
	if helprequest.PriorityName(priority) == "" {
		entry.Warn("help request priority set outside the known range")
	} else {
		entry.Info("help request updated")
	}
	return r, nil
}

func (m *memoryService) Query(text, sortBy string) ([]*helprequest.HelpRequest, error) {
	return helprequest.Query(m.repo.List(), text, sortBy)
}

func (m *memoryService) Snapshot() *dataset.Dataset { return m.repo.Snapshot() }

func (m *memoryService) Context() json.RawMessage { return m.repo.Context() }

func (m *memoryService) Len() int { return m.repo.Len() }

func countError(op string, err error) {
	reason := "internal"
	var ve *helprequest.ValidationError
	switch {
	case errors.Is(err, helprequest.ErrNotFound):
		reason = "not_found"
	case errors.As(err, &ve):
		reason = "validation"
	}
	metrics.HelpRequestErrors.WithLabelValues(op, reason).Inc()
}
