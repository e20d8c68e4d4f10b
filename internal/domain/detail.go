package domain

import (
	"context"
	"fmt"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
	"rbadmin/pkg/logger"
)

// DetailSource says where a detail page gets its record.
type DetailSource string

const (
	// DetailFetch reads the record from the repository.
	DetailFetch DetailSource = "fetch"
	// DetailNavigation uses the record handed over by the list page.
	DetailNavigation DetailSource = "navigation"
)

// DetailView is what a detail page renders. Exactly one of Record, NotFound and
// Banner is set, or none of them when the admin is not authenticated.
type DetailView[T any] struct {
	Resource string `json:"resource"`
	ID       id.ID  `json:"id"`
	Record   *T     `json:"record,omitempty"`
	NotFound bool   `json:"notFound,omitempty"`
	Banner   string `json:"banner,omitempty"`
}

// DetailLoader loads the record behind a detail page.
type DetailLoader[T any] struct {
	name   string
	source DetailSource
	repo   Repository[T]
	policy ErrorPolicy
}

// NewDetailLoader creates a loader. repo may be nil for DetailNavigation.
func NewDetailLoader[T any](name string, source DetailSource, repo Repository[T], policy ErrorPolicy) *DetailLoader[T] {
	return &DetailLoader[T]{
		name:   name,
		source: source,
		repo:   repo,
		policy: policy.withDefaults(),
	}
}

// Load resolves recordID. nav is the navigation state from the list page, if any.
// Only an Alert policy makes Load return an error.
func (d *DetailLoader[T]) Load(ctx context.Context, recordID id.ID, nav *T) (DetailView[T], error) {
	v := DetailView[T]{Resource: d.name, ID: recordID}

	switch d.source {
	case DetailNavigation:
		if nav == nil {
			v.NotFound = true
			return v, nil
		}
		item := *nav
		v.Record = &item
		return v, nil

	case DetailFetch:
		if d.repo == nil {
			return v, apperror.NewInternal(fmt.Errorf("detail %s: no repository", d.name))
		}
		item, err := d.repo.Get(ctx, recordID)
		if err == nil {
			v.Record = &item
			return v, nil
		}
		switch {
		case apperror.IsNotFound(err):
			v.NotFound = true
			return v, nil
		case apperror.IsUnauthorized(err):
			logger.Info(ctx, "detail load not authenticated", "resource", d.name, "id", recordID)
			return v, nil
		}

		logger.Warn(ctx, "detail load failed", "resource", d.name, "id", recordID, "error", err)
		switch d.policy.OnLoadError {
		case SurfaceAlert:
			return v, asAppError(err)
		case SurfaceBanner:
			v.Banner = apperror.UserMessage(asAppError(err))
		}
		return v, nil

	default:
		return v, apperror.NewInternal(fmt.Errorf("detail %s: unknown source %q", d.name, d.source))
	}
}
