package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
	"rbadmin/internal/core/record"
	"rbadmin/internal/domain"
	"rbadmin/internal/domain/filter"
	"rbadmin/internal/domain/splitpane"
	"rbadmin/internal/domain/table"
	"rbadmin/internal/metadata"
	"rbadmin/pkg/logger"
)

// Page is one mounted page: a resource table or a tool page.
type Page struct {
	ID        string
	Def       metadata.ResourceDef
	MountedAt time.Time

	table     *domain.TableController[record.Record]
	repo      domain.Repository[record.Record]
	columns   metadata.Columns
	pane      *splitpane.Pane
	clipboard *Clipboard

	mu     sync.Mutex
	notice string
}

// PageView is the JSON a page renders from.
type PageView struct {
	ID        string                      `json:"id"`
	Resource  string                      `json:"resource"`
	Label     string                      `json:"label"`
	Kind      metadata.Kind               `json:"kind"`
	Columns   []metadata.FieldDef         `json:"columns,omitempty"`
	Table     *domain.View[record.Record] `json:"table,omitempty"`
	Split     *splitpane.State            `json:"split,omitempty"`
	Clipboard string                      `json:"clipboard,omitempty"`
	Notice    string                      `json:"notice,omitempty"`
}

// FilterSpec is an advanced filter: column conditions and a CEL expression,
// both optional, combined with AND.
type FilterSpec struct {
	Items []filter.Item `json:"items"`
	Expr  string        `json:"expr"`
}

// SplitEvent is a pointer or layout event for the divider.
type SplitEvent struct {
	Type  string `json:"type"` // down, move, up, resize
	X     int    `json:"x"`
	Width int    `json:"width"`
}

func newPage(pageID string, def metadata.ResourceDef, f *Factory) *Page {
	p := &Page{
		ID:        pageID,
		Def:       def,
		MountedAt: time.Now(),
		clipboard: &Clipboard{},
		pane:      f.SplitPane(def),
	}
	if def.Kind == metadata.KindTable {
		p.repo = f.Repository(def)
		p.columns = f.Columns(def.Name)
		p.table = f.Controller(def, p.repo, p.clipboard)
		p.registerNotices()
	}
	return p
}

func (p *Page) registerNotices() {
	label := p.Def.Label
	p.table.Hooks().On(domain.AfterCreate, func(ctx context.Context, r record.Record) {
		p.setNotice(fmt.Sprintf("%s %s created", label, r.ID()))
	})
	p.table.Hooks().On(domain.AfterUpdate, func(ctx context.Context, r record.Record) {
		p.setNotice(fmt.Sprintf("%s %s saved", label, r.ID()))
	})
	p.table.Hooks().On(domain.AfterDelete, func(ctx context.Context, r record.Record) {
		p.setNotice(fmt.Sprintf("%s %s deleted", label, r.ID()))
	})
}

func (p *Page) setNotice(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = s
}

// View renders the page.
func (p *Page) View() PageView {
	p.mu.Lock()
	notice := p.notice
	p.mu.Unlock()

	v := PageView{
		ID:        p.ID,
		Resource:  p.Def.Name,
		Label:     p.Def.Label,
		Kind:      p.Def.Kind,
		Columns:   p.Def.Fields,
		Clipboard: p.clipboard.Value(),
		Notice:    notice,
	}
	if p.table != nil {
		tv := p.table.View()
		v.Table = &tv
	}
	if p.pane != nil {
		s := p.pane.State()
		v.Split = &s
	}
	return v
}

// Table returns the controller of a table page.
func (p *Page) Table() (*domain.TableController[record.Record], error) {
	if p.table == nil {
		return nil, apperror.NewConflict(fmt.Sprintf("%s has no table", p.Def.Label))
	}
	return p.table, nil
}

// Repository returns the page's repository, or nil on tool pages.
func (p *Page) Repository() domain.Repository[record.Record] {
	return p.repo
}

// Refresh reloads the collection.
func (p *Page) Refresh(ctx context.Context) error {
	t, err := p.Table()
	if err != nil {
		return err
	}
	return t.Load(ctx)
}

// Sort applies a header click, or an explicit direction when dir is set.
func (p *Page) Sort(field, dir string) error {
	t, err := p.Table()
	if err != nil {
		return err
	}
	if dir == "" {
		return t.ToggleSort(field)
	}
	d, err := table.ParseDirection(dir)
	if err != nil {
		return apperror.NewValidation(err.Error())
	}
	return t.SetSort(field, d)
}

// Filter installs an advanced filter, or removes it when fs is empty.
func (p *Page) Filter(fs FilterSpec) error {
	t, err := p.Table()
	if err != nil {
		return err
	}
	if len(fs.Items) == 0 && fs.Expr == "" {
		t.SetFilter(nil)
		return nil
	}

	byColumn, err := filter.Compile(fs.Items, p.columns.All)
	if err != nil {
		return err
	}
	var byExpr filter.Predicate[record.Record]
	if fs.Expr != "" {
		if byExpr, err = filter.CompileExpr(fs.Expr); err != nil {
			return err
		}
	}
	t.SetFilter(filter.All(byColumn, byExpr))
	return nil
}

// OpenPanel opens the side panel on recordID, or a blank draft when it is zero.
func (p *Page) OpenPanel(recordID id.ID) error {
	t, err := p.Table()
	if err != nil {
		return err
	}
	if recordID.IsZero() {
		return t.OpenCreate()
	}
	return t.OpenEdit(recordID)
}

// EditDraft merges fields into the open draft. Identifier keys are ignored.
func (p *Page) EditDraft(fields map[string]any) error {
	t, err := p.Table()
	if err != nil {
		return err
	}
	draft, ok := t.Draft()
	if !ok {
		return apperror.NewConflict("no record is being edited")
	}
	return t.UpdateDraft(draft.Merge(fields))
}

// SaveDraft merges fields into the open draft and commits it.
func (p *Page) SaveDraft(ctx context.Context, fields map[string]any) error {
	t, err := p.Table()
	if err != nil {
		return err
	}
	draft, ok := t.Draft()
	if !ok {
		return apperror.NewConflict("no record is being edited")
	}
	return t.Save(ctx, draft.Merge(fields))
}

// Copy puts the value of field on recordID into the page clipboard. An empty
// field copies the identifier.
func (p *Page) Copy(ctx context.Context, recordID id.ID, field string) error {
	t, err := p.Table()
	if err != nil {
		return err
	}
	value := recordID.String()
	if field != "" {
		rec, ok := t.Get(recordID)
		if !ok {
			return apperror.NewNotFound(p.Def.Name, recordID.String())
		}
		f, ok := table.FieldByName(p.columns.All, field)
		if !ok {
			return apperror.NewValidation("unknown column").WithDetail("field", field)
		}
		value = table.Text(f.Get(rec))
	}
	t.CopyToClipboard(ctx, value)
	return nil
}

// Split feeds a divider event.
func (p *Page) Split(ctx context.Context, ev SplitEvent) error {
	if p.pane == nil {
		return apperror.NewConflict(fmt.Sprintf("%s has no split pane", p.Def.Label))
	}
	switch ev.Type {
	case "down":
		p.pane.Down(ev.X)
	case "move":
		p.pane.Move(ev.X)
	case "up":
		p.pane.Up()
	case "resize":
		p.pane.Resize(ev.Width)
	default:
		return apperror.NewValidation("unknown split event").WithDetail("type", ev.Type)
	}
	logger.Debug(ctx, "split pane event", "page", p.ID, "type", ev.Type, "left", p.pane.State().Left)
	return nil
}
