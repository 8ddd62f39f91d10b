// Package dataset loads the help desk document the store is seeded from.
// Sources are read once at startup; nothing here writes back.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/helpdesk/helpdesk/internal/helprequest"
)

// Dataset mirrors the on-disk document: an opaque JSON-LD context plus the
// help requests keyed by id.
type Dataset struct {
	Context      json.RawMessage                     `json:"@context"`
	HelpRequests map[string]*helprequest.HelpRequest `json:"helprequests"`
}

// Source produces a Dataset.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

var ErrMalformed = errors.New("malformed dataset")

// Decode parses a dataset document and normalizes its records.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := ds.normalize(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Encode writes ds as indented JSON.
func Encode(w io.Writer, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}

// normalize enforces key == record.ID. Records without an id take their key.
func (ds *Dataset) normalize() error {
	if ds.HelpRequests == nil {
		return fmt.Errorf("%w: missing \"helprequests\"", ErrMalformed)
	}
	for key, r := range ds.HelpRequests {
		if r == nil {
			return fmt.Errorf("%w: help request %q is null", ErrMalformed, key)
		}
		if r.ID == "" {
			r.ID = key
		}
		if r.ID != key {
			return fmt.Errorf("%w: help request key %q holds id %q", ErrMalformed, key, r.ID)
		}
		if r.Comments == nil {
			r.Comments = []string{}
		}
	}
	return nil
}

// FromRecords builds a normalized Dataset from a flat record list.
func FromRecords(context json.RawMessage, records []*helprequest.HelpRequest) (*Dataset, error) {
	ds := &Dataset{Context: context, HelpRequests: make(map[string]*helprequest.HelpRequest, len(records))}
	for _, r := range records {
		if r == nil || r.ID == "" {
			return nil, fmt.Errorf("%w: record without id", ErrMalformed)
		}
		ds.HelpRequests[r.ID] = r
	}
	if err := ds.normalize(); err != nil {
		return nil, err
	}
	return ds, nil
}
