package console

import (
	"fmt"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/record"
	"rbadmin/internal/domain"
	"rbadmin/internal/domain/splitpane"
	"rbadmin/internal/infrastructure/remote"
	"rbadmin/internal/infrastructure/storage/fixtures"
	"rbadmin/internal/infrastructure/storage/memory"
	"rbadmin/internal/metadata"
)

// Factory builds the repository and controller of a resource.
type Factory struct {
	registry *metadata.Registry
	fixtures fixtures.Set
	client   *remote.Client
	columns  map[string]metadata.Columns
}

// NewFactory compiles the columns of every table resource. Fixture resources
// without declared fields get them inferred from their first record. client
// may be nil when no resource is API-backed.
func NewFactory(registry *metadata.Registry, set fixtures.Set, client *remote.Client) (*Factory, error) {
	f := &Factory{
		registry: registry,
		fixtures: set,
		client:   client,
		columns:  make(map[string]metadata.Columns),
	}
	for _, def := range registry.List() {
		if def.Kind != metadata.KindTable {
			continue
		}
		switch def.Source {
		case metadata.SourceAPI:
			if client == nil {
				return nil, fmt.Errorf("resource %s is API-backed but no admin API client is configured", def.Name)
			}
		case metadata.SourceFixture:
			if _, ok := set[def.Name]; !ok {
				return nil, fmt.Errorf("resource %s has no fixture dataset", def.Name)
			}
		default:
			return nil, fmt.Errorf("resource %s has unknown source %q", def.Name, def.Source)
		}

		cols, err := metadata.Compile(f.define(def))
		if err != nil {
			return nil, err
		}
		f.columns[def.Name] = cols
	}
	return f, nil
}

// Registry returns the resource registry.
func (f *Factory) Registry() *metadata.Registry {
	return f.registry
}

// Definition returns def with inferred fields filled in.
func (f *Factory) Definition(name string) (metadata.ResourceDef, error) {
	def, ok := f.registry.Get(name)
	if !ok {
		return metadata.ResourceDef{}, apperror.NewNotFound("resource", name)
	}
	return f.define(def), nil
}

func (f *Factory) define(def metadata.ResourceDef) metadata.ResourceDef {
	if len(def.Fields) > 0 || def.Source != metadata.SourceFixture {
		return def
	}
	if records := f.fixtures[def.Name]; len(records) > 0 {
		def.Fields = metadata.Inspect(records[0])
	}
	return def
}

// Repository returns a fresh repository for def. Fixture repositories start
// from the dataset each time, so a page's edits live only as long as the page.
func (f *Factory) Repository(def metadata.ResourceDef) domain.Repository[record.Record] {
	if def.Source == metadata.SourceAPI {
		return remote.NewRepo(f.client, def.Collection, def.DetailResource)
	}
	return memory.NewRecords(def.Name, f.fixtures.Records(def.Name))
}

// Controller builds a table controller for def over repo.
func (f *Factory) Controller(def metadata.ResourceDef, repo domain.Repository[record.Record], cb domain.Clipboard) *domain.TableController[record.Record] {
	cols := f.columns[def.Name]
	return domain.NewTableController(domain.Config[record.Record]{
		Name:                def.Name,
		IDOf:                record.Record.ID,
		WithID:              record.Record.WithID,
		Clone:               record.Record.Clone,
		Blank:               blank(f.define(def)),
		SearchFields:        cols.Search,
		SortFields:          cols.Sort,
		DefaultSort:         def.DefaultSort,
		PageSize:            def.PageSize,
		ResetPageOnSearch:   def.ResetPageOnSearch,
		ResetPageOnSort:     def.ResetPageOnSort,
		ReloadAfterMutation: def.Source == metadata.SourceAPI,
		MultiSelect:         def.MultiSelect,
		Policy:              def.Policy,
		Clipboard:           cb,
	}, repo)
}

// Columns returns the compiled columns of a table resource.
func (f *Factory) Columns(name string) metadata.Columns {
	return f.columns[name]
}

// SplitPane builds the divider of a tool page.
func (f *Factory) SplitPane(def metadata.ResourceDef) *splitpane.Pane {
	sp := def.SplitPane
	if sp == nil {
		return nil
	}
	minLeft, minRight := sp.MinLeft, sp.MinRight
	if minLeft <= 0 {
		minLeft = splitpane.DefaultMinLeft
	}
	if minRight <= 0 {
		minRight = splitpane.DefaultMinRight
	}
	return splitpane.New(sp.Container, sp.Left, minLeft, minRight)
}

// blank returns the draft factory of def: every editable field, empty. The
// identifier key is present but nil so the assigned id lands under it.
func blank(def metadata.ResourceDef) func() record.Record {
	return func() record.Record {
		r := record.Record{}
		for _, fd := range def.Fields {
			if fd.Type == metadata.TypeID {
				r[fd.Name] = nil
				continue
			}
			if fd.ReadOnly {
				continue
			}
			switch fd.Type {
			case metadata.TypeBoolean:
				r[fd.Name] = false
			case metadata.TypeNumber:
				r[fd.Name] = float64(0)
			case metadata.TypeObject:
				r[fd.Name] = nil
			default:
				r[fd.Name] = ""
			}
		}
		return r
	}
}
