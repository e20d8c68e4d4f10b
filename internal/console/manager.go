// Package console keeps the pages an admin has mounted. A page holds one
// resource's collection and view state between requests and is dropped after
// it has been idle for the configured TTL.
package console

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
	"rbadmin/internal/core/record"
	"rbadmin/internal/domain"
	"rbadmin/internal/metadata"
	"rbadmin/pkg/logger"
)

// DefaultIdleTTL is how long an untouched page stays mounted.
const DefaultIdleTTL = 30 * time.Minute

// Manager mounts pages into an expiring cache.
type Manager struct {
	factory *Factory
	pages   *gocache.Cache
	mounted prometheus.Gauge
}

// NewManager creates a Manager. Expired pages are swept every ttl/2. reg may
// be nil.
func NewManager(factory *Factory, ttl time.Duration, reg prometheus.Registerer) *Manager {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	m := &Manager{
		factory: factory,
		pages:   gocache.New(ttl, ttl/2),
		mounted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rbadmin",
			Subsystem: "console",
			Name:      "mounted_pages",
			Help:      "Number of pages currently mounted",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.mounted)
	}
	m.pages.OnEvicted(func(key string, v any) {
		if p, ok := v.(*Page); ok {
			logger.Default().Debugw("page unmounted", "page", key, "resource", p.Def.Name)
		}
		m.mounted.Set(float64(m.pages.ItemCount()))
	})
	return m
}

// Resources returns the sidebar entries.
func (m *Manager) Resources() []metadata.ResourceDef {
	defs := m.factory.Registry().List()
	for i := range defs {
		if d, err := m.factory.Definition(defs[i].Name); err == nil {
			defs[i] = d
		}
	}
	return defs
}

// Mount creates a page for resource and loads its collection.
func (m *Manager) Mount(ctx context.Context, resource string) (*Page, error) {
	def, err := m.factory.Definition(resource)
	if err != nil {
		return nil, err
	}

	p := newPage(uuid.NewString(), def, m.factory)
	m.pages.SetDefault(p.ID, p)
	m.mounted.Set(float64(m.pages.ItemCount()))
	logger.Info(ctx, "page mounted", "page", p.ID, "resource", def.Name)

	if p.table != nil {
		if err := p.table.Load(ctx); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Get returns a mounted page and extends its lifetime.
func (m *Manager) Get(pageID string) (*Page, error) {
	v, ok := m.pages.Get(pageID)
	if !ok {
		return nil, apperror.NewNotFound("page", pageID)
	}
	p := v.(*Page)
	m.pages.SetDefault(pageID, p)
	return p, nil
}

// Unmount drops a page. Unknown ids are ignored.
func (m *Manager) Unmount(ctx context.Context, pageID string) {
	if _, ok := m.pages.Get(pageID); !ok {
		return
	}
	m.pages.Delete(pageID)
	logger.Info(ctx, "page unmount requested", "page", pageID)
}

// Count returns the number of mounted pages, expired ones included until the
// next sweep.
func (m *Manager) Count() int {
	return m.pages.ItemCount()
}

// Detail loads the detail page of one record. from names the list page the
// admin navigated from; its record is the navigation state, and its repository
// serves fixture-backed fetches so local edits stay visible.
func (m *Manager) Detail(ctx context.Context, resource string, recordID id.ID, from string) (domain.DetailView[record.Record], error) {
	def, err := m.factory.Definition(resource)
	if err != nil {
		return domain.DetailView[record.Record]{}, err
	}
	if def.Kind != metadata.KindTable {
		return domain.DetailView[record.Record]{}, apperror.NewNotFound("resource", resource)
	}

	var origin *Page
	if from != "" {
		if p, err := m.Get(from); err == nil && p.Def.Name == def.Name {
			origin = p
		}
	}

	source := def.Detail
	if source == "" {
		source = domain.DetailFetch
	}

	var nav *record.Record
	repo := m.factory.Repository(def)
	if origin != nil {
		repo = origin.Repository()
		if rec, err := origin.table.Navigate(recordID); err == nil {
			nav = &rec
		}
	}

	return domain.NewDetailLoader(def.Name, source, repo, domain.DetailPolicy()).Load(ctx, recordID, nav)
}
