package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/helpdesk/helpdesk/internal/helprequest"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FileSource reads the dataset from a local JSON-LD file.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// ObjectStore is the subset of storage.MinIOStorage used by MinIOSource.
type ObjectStore interface {
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// MinIOSource reads the dataset document from an object in a bucket.
type MinIOSource struct {
	Objects ObjectStore
	Key     string
}

func (s MinIOSource) Load(ctx context.Context) (*Dataset, error) {
	rc, err := s.Objects.DownloadFile(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("download dataset %q: %w", s.Key, err)
	}
	defer rc.Close()
	return Decode(rc)
}

// PublishObject uploads ds under key so a MinIOSource can load it.
func PublishObject(ctx context.Context, objects ObjectStore, key string, ds *Dataset) error {
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return err
	}
	return objects.UploadFile(ctx, key, &buf, int64(buf.Len()), "application/ld+json")
}

// Collection names used by MongoSource.
const (
	RequestsCollection = "helprequests"
	MetaCollection     = "meta"
	contextDocID       = "@context"
)

type metaDoc struct {
	ID      string `bson:"_id"`
	Context string `bson:"context"`
}

// MongoSource reads one BSON document per help request plus a meta document
// holding the JSON-LD context as a string.
type MongoSource struct {
	Requests *mongo.Collection
	Meta     *mongo.Collection
}

func NewMongoSource(db *mongo.Database) *MongoSource {
	return &MongoSource{Requests: db.Collection(RequestsCollection), Meta: db.Collection(MetaCollection)}
}

func (s *MongoSource) Load(ctx context.Context) (*Dataset, error) {
	cur, err := s.Requests.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find help requests: %w", err)
	}
	var records []*helprequest.HelpRequest
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode help requests: %w", err)
	}

	var m metaDoc
	var ldContext json.RawMessage
	err = s.Meta.FindOne(ctx, bson.M{"_id": contextDocID}).Decode(&m)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return nil, fmt.Errorf("load context: %w", err)
	default:
		ldContext, err = contextFromString(m.Context)
		if err != nil {
			return nil, err
		}
	}
	return FromRecords(ldContext, records)
}

// Publish upserts every record of ds and its context.
func (s *MongoSource) Publish(ctx context.Context, ds *Dataset) error {
	opts := options.Replace().SetUpsert(true)
	for id, r := range ds.HelpRequests {
		if _, err := s.Requests.ReplaceOne(ctx, bson.M{"_id": id}, r, opts); err != nil {
			return fmt.Errorf("upsert help request %s: %w", id, err)
		}
	}
	m := metaDoc{ID: contextDocID, Context: string(ds.Context)}
	if _, err := s.Meta.ReplaceOne(ctx, bson.M{"_id": contextDocID}, m, opts); err != nil {
		return fmt.Errorf("upsert context: %w", err)
	}
	return nil
}

func contextFromString(s string) (json.RawMessage, error) {
	if s == "" {
		return nil, nil
	}
	if !json.Valid([]byte(s)) {
		return nil, fmt.Errorf("%w: stored @context is not valid JSON", ErrMalformed)
	}
	return json.RawMessage(s), nil
}
