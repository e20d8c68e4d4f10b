package remote

import (
	"context"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
	"rbadmin/internal/core/record"
)

// Repo is the API-backed repository of one collection.
type Repo struct {
	client     *Client
	collection string
	resource   string
}

// NewRepo creates a repository. collection names the list endpoint
// (/api/v1/admin/{collection}) and resource the detail endpoint
// (/api/v1/admin/resources/{resource}/{id}); they are often the same word.
func NewRepo(client *Client, collection, resource string) *Repo {
	if resource == "" {
		resource = collection
	}
	return &Repo{client: client, collection: collection, resource: resource}
}

// List implements domain.Repository.
func (r *Repo) List(ctx context.Context) ([]record.Record, error) {
	return r.client.List(ctx, r.collection)
}

// Get implements domain.Repository.
func (r *Repo) Get(ctx context.Context, recordID id.ID) (record.Record, error) {
	return r.client.Get(ctx, r.resource, recordID)
}

// Create implements domain.Repository. Drafts are posted without an id so the
// server assigns one.
func (r *Repo) Create(ctx context.Context, rec record.Record) (record.Record, error) {
	draft := rec.Clone()
	delete(draft, record.KeyID)
	delete(draft, record.KeyMongoID)
	return r.client.Create(ctx, r.collection, draft)
}

// Update implements domain.Repository.
func (r *Repo) Update(ctx context.Context, rec record.Record) error {
	return r.client.Update(ctx, r.collection, rec.ID(), rec)
}

// Delete implements domain.Repository. A 404 means the record is already gone.
func (r *Repo) Delete(ctx context.Context, recordID id.ID) error {
	err := r.client.Delete(ctx, r.collection, recordID)
	if apperror.IsNotFound(err) {
		return nil
	}
	return err
}
