// Package mongo wires the findinglog.Store interface to the MongoDB client.
package mongo

import (
	"context"
	"errors"

	clientsmongo "github.com/venikman/acp-sentinel/features/findinglog/mongo/clients/mongo"
	"github.com/venikman/acp-sentinel/sentinel/findinglog"
)

// Store implements findinglog.Store by delegating to the Mongo client.
type Store struct {
	client clientsmongo.Client
}

// NewStore builds a Mongo-backed finding log store using the provided client.
func NewStore(client clientsmongo.Client) (*Store, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	return &Store{client: client}, nil
}

// Append implements findinglog.Store.
func (s *Store) Append(ctx context.Context, r *findinglog.Record) error {
	return s.client.Append(ctx, r)
}

// List implements findinglog.Store.
func (s *Store) List(ctx context.Context, runID string, cursor string, limit int) (findinglog.Page, error) {
	return s.client.List(ctx, runID, cursor, limit)
}
