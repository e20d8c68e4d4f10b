package domain

import (
	"context"
	"slices"
	"sync"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
	"rbadmin/internal/domain/filter"
	"rbadmin/internal/domain/table"
	"rbadmin/pkg/logger"
)

// Mode is the state of a page instance.
type Mode string

const (
	ModeIdle             Mode = "idle"
	ModeLoading          Mode = "loading"
	ModeEditing          Mode = "editing"
	ModeConfirmingDelete Mode = "confirming_delete"
)

// Clipboard receives values copied from identifier cells.
type Clipboard interface {
	Write(ctx context.Context, value string) error
}

// Config describes one resource table.
type Config[T any] struct {
	// Name of the resource, used in logs and errors.
	Name string

	IDOf   func(T) id.ID
	WithID func(T, id.ID) T
	// Clone copies a record for a draft; nil means records are values.
	Clone func(T) T
	// Blank is the draft a create starts from.
	Blank func() T

	SearchFields []table.Field[T]
	SortFields   []table.Field[T]
	DefaultSort  table.SortState

	// PageSize defaults to table.DefaultPageSize.
	PageSize int

	// Pages disagree on whether typing in the search box or re-sorting jumps
	// back to page 1, so each page says what it does.
	ResetPageOnSearch bool
	ResetPageOnSort   bool

	// ReloadAfterMutation refetches the collection after a successful save or
	// delete instead of patching it locally. API-backed pages set it.
	ReloadAfterMutation bool

	MultiSelect bool
	Policy      ErrorPolicy
	Clipboard   Clipboard
}

// Panel is the side panel draft. TargetID is zero while creating.
type Panel[T any] struct {
	Creating bool  `json:"creating"`
	TargetID id.ID `json:"targetId,omitempty"`
	Draft    T     `json:"draft"`
}

// View is what a page renders.
type View[T any] struct {
	Resource      string          `json:"resource"`
	Mode          Mode            `json:"mode"`
	Query         string          `json:"query"`
	Sort          table.SortState `json:"sort"`
	Page          table.Page[T]   `json:"page"`
	Total         int             `json:"total"`
	Selected      []id.ID         `json:"selected,omitempty"`
	Panel         *Panel[T]       `json:"panel,omitempty"`
	PendingDelete id.ID           `json:"pendingDelete,omitempty"`
	Banner        string          `json:"banner,omitempty"`
}

// TableController owns one page's collection and view state.
// It is safe for concurrent use; repository calls run outside the lock.
type TableController[T any] struct {
	cfg   Config[T]
	repo  Repository[T]
	hooks *HookRegistry[T]

	mu            sync.Mutex
	items         []T
	query         string
	sort          table.SortState
	page          int
	predicate     filter.Predicate[T]
	selected      id.Set
	mode          Mode
	loading       bool
	panel         *Panel[T]
	saving        bool
	pendingDelete id.ID
	banner        string
	generation    uint64
}

// NewTableController creates a controller over repo. The collection is empty until Load.
func NewTableController[T any](cfg Config[T], repo Repository[T]) *TableController[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = table.DefaultPageSize
	}
	if cfg.Clone == nil {
		cfg.Clone = func(v T) T { return v }
	}
	if cfg.Blank == nil {
		cfg.Blank = func() T {
			var zero T
			return zero
		}
	}
	cfg.Policy = cfg.Policy.withDefaults()

	return &TableController[T]{
		cfg:      cfg,
		repo:     repo,
		hooks:    NewHookRegistry[T](),
		items:    []T{},
		sort:     cfg.DefaultSort,
		page:     1,
		selected: id.Set{},
		mode:     ModeIdle,
	}
}

// Hooks returns the hook registry for external registration.
func (c *TableController[T]) Hooks() *HookRegistry[T] {
	return c.hooks
}

// Config returns the controller configuration.
func (c *TableController[T]) Config() Config[T] {
	return c.cfg
}

// --- Loading ---

// Load replaces the collection from the repository. A 401 empties the
// collection without error; other failures empty it and surface per
// Policy.OnLoadError. If another Load starts before this one returns, this
// one's result is discarded.
func (c *TableController[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loading = true
	c.mu.Unlock()

	items, err := c.repo.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		logger.Debug(ctx, "discarding superseded load", "resource", c.cfg.Name, "generation", gen)
		return nil
	}
	c.loading = false

	if err != nil {
		c.items = []T{}
		c.pruneSelection()
		return c.surfaceLoad(ctx, err)
	}

	if items == nil {
		items = []T{}
	}
	c.items = items
	c.banner = ""
	c.pruneSelection()
	return nil
}

func (c *TableController[T]) surfaceLoad(ctx context.Context, err error) error {
	if apperror.IsUnauthorized(err) {
		logger.Info(ctx, "collection load not authenticated", "resource", c.cfg.Name)
		return nil
	}
	logger.Warn(ctx, "collection load failed", "resource", c.cfg.Name, "error", err)

	switch c.cfg.Policy.OnLoadError {
	case SurfaceAlert:
		return asAppError(err)
	case SurfaceBanner:
		c.banner = apperror.UserMessage(asAppError(err))
	}
	return nil
}

// --- View state ---

// Search sets the quick search query.
func (c *TableController[T]) Search(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	if c.cfg.ResetPageOnSearch {
		c.page = 1
	}
}

// ToggleSort applies a header click: same field flips, new field starts ascending.
func (c *TableController[T]) ToggleSort(field string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := table.FieldByName(c.cfg.SortFields, field); !ok {
		return apperror.NewValidation("field is not sortable").WithDetail("field", field)
	}
	c.applySort(c.sort.Toggle(field))
	return nil
}

// SetSort sets field and direction explicitly.
func (c *TableController[T]) SetSort(field string, dir table.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := table.FieldByName(c.cfg.SortFields, field); !ok {
		return apperror.NewValidation("field is not sortable").WithDetail("field", field)
	}
	c.applySort(table.SortState{Field: field, Direction: dir})
	return nil
}

func (c *TableController[T]) applySort(s table.SortState) {
	c.sort = s
	if c.cfg.ResetPageOnSort {
		c.page = 1
	}
}

// SetPage moves to a 1-based page. Pages past the end render empty.
func (c *TableController[T]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 1 {
		n = 1
	}
	c.page = n
}

// SetFilter installs an advanced filter applied together with the search box.
// A nil predicate removes it.
func (c *TableController[T]) SetFilter(p filter.Predicate[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.predicate = p
	if c.cfg.ResetPageOnSearch {
		c.page = 1
	}
}

// View renders the current page.
func (c *TableController[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.visible()
	v := View[T]{
		Resource:      c.cfg.Name,
		Mode:          c.currentMode(),
		Query:         c.query,
		Sort:          c.sort,
		Page:          table.Paginate(rows, c.page, c.cfg.PageSize),
		Total:         len(c.items),
		PendingDelete: c.pendingDelete,
		Banner:        c.banner,
	}
	if len(c.selected) > 0 {
		v.Selected = c.sortedSelection()
	}
	if c.panel != nil {
		p := *c.panel
		p.Draft = c.cfg.Clone(p.Draft)
		v.Panel = &p
	}
	return v
}

// visible is the filtered and sorted projection. Callers hold mu.
func (c *TableController[T]) visible() []T {
	rows := table.Search(c.items, c.query, c.cfg.SearchFields)
	if c.predicate != nil {
		rows = slices.DeleteFunc(rows, func(r T) bool { return !c.predicate(r) })
	}
	return table.Sort(rows, c.sort, c.cfg.SortFields)
}

func (c *TableController[T]) currentMode() Mode {
	if c.loading && c.mode == ModeIdle {
		return ModeLoading
	}
	return c.mode
}

// Mode returns the current state.
func (c *TableController[T]) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentMode()
}

// Items returns a copy of the whole collection in stored order.
func (c *TableController[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Get returns the record with the given id from the loaded collection.
func (c *TableController[T]) Get(recordID id.ID) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(recordID)
	if i < 0 {
		var zero T
		return zero, false
	}
	return c.cfg.Clone(c.items[i]), true
}

// Navigate returns the navigation state a detail page receives for recordID.
func (c *TableController[T]) Navigate(recordID id.ID) (T, error) {
	item, ok := c.Get(recordID)
	if !ok {
		return item, apperror.NewNotFound(c.cfg.Name, recordID.String())
	}
	return item, nil
}

func (c *TableController[T]) indexOf(recordID id.ID) int {
	return slices.IndexFunc(c.items, func(item T) bool { return c.cfg.IDOf(item) == recordID })
}

// --- Selection ---

// ToggleSelect adds or removes a row from the selection of multi-select pages.
func (c *TableController[T]) ToggleSelect(recordID id.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.MultiSelect {
		return apperror.NewConflict("this page has no row selection")
	}
	if c.selected.Has(recordID) {
		delete(c.selected, recordID)
	} else {
		c.selected[recordID] = struct{}{}
	}
	return nil
}

// SelectPage selects every row on the current page.
func (c *TableController[T]) SelectPage() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.MultiSelect {
		return apperror.NewConflict("this page has no row selection")
	}
	for _, item := range table.Paginate(c.visible(), c.page, c.cfg.PageSize).Items {
		c.selected[c.cfg.IDOf(item)] = struct{}{}
	}
	return nil
}

// ClearSelection empties the selection.
func (c *TableController[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id.Set{}
}

// Selected returns selected ids in collection order.
func (c *TableController[T]) Selected() []id.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedSelection()
}

func (c *TableController[T]) sortedSelection() []id.ID {
	out := make([]id.ID, 0, len(c.selected))
	for _, item := range c.items {
		if i := c.cfg.IDOf(item); c.selected.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// pruneSelection drops selected ids that are no longer in the collection.
func (c *TableController[T]) pruneSelection() {
	keep := id.Set{}
	for _, item := range c.items {
		if i := c.cfg.IDOf(item); c.selected.Has(i) {
			keep[i] = struct{}{}
		}
	}
	c.selected = keep
}

// --- Side panel ---

// OpenCreate opens the side panel with a blank draft, replacing any open draft.
func (c *TableController[T]) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeConfirmingDelete {
		return apperror.NewConflict("a delete is awaiting confirmation")
	}
	c.mode = ModeEditing
	c.panel = &Panel[T]{Creating: true, Draft: c.cfg.Blank()}
	return nil
}

// OpenEdit opens the side panel seeded from the record's current fields,
// replacing any open draft.
func (c *TableController[T]) OpenEdit(recordID id.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeConfirmingDelete {
		return apperror.NewConflict("a delete is awaiting confirmation")
	}
	i := c.indexOf(recordID)
	if i < 0 {
		return apperror.NewNotFound(c.cfg.Name, recordID.String())
	}
	c.mode = ModeEditing
	c.panel = &Panel[T]{TargetID: recordID, Draft: c.cfg.Clone(c.items[i])}
	return nil
}

// Draft returns the open draft.
func (c *TableController[T]) Draft() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.panel == nil {
		var zero T
		return zero, false
	}
	return c.cfg.Clone(c.panel.Draft), true
}

// UpdateDraft replaces the open draft. No validation happens here or on save.
func (c *TableController[T]) UpdateDraft(draft T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.panel == nil {
		return apperror.NewConflict("no record is being edited")
	}
	c.panel.Draft = draft
	return nil
}

// CancelPanel closes the side panel and drops the draft.
func (c *TableController[T]) CancelPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeEditing {
		c.mode = ModeIdle
	}
	c.panel = nil
}

// Save commits draft for the open panel. Editing replaces the target record's
// fields in place and never changes its id; creating appends the stored record,
// giving it max(id)+1 when the store returned none. On failure the panel stays
// open and the error surfaces per Policy. Only one save per page runs at a
// time; a second one gets a conflict until the first returns.
func (c *TableController[T]) Save(ctx context.Context, draft T) error {
	c.mu.Lock()
	if c.mode != ModeEditing || c.panel == nil {
		c.mu.Unlock()
		return apperror.NewConflict("no record is being edited")
	}
	if c.saving {
		c.mu.Unlock()
		return apperror.NewConflict("the record is already being saved")
	}
	c.saving = true
	panel := *c.panel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.saving = false
		c.mu.Unlock()
	}()

	if panel.Creating {
		return c.saveNew(ctx, draft)
	}
	return c.saveExisting(ctx, panel.TargetID, draft)
}

func (c *TableController[T]) saveNew(ctx context.Context, draft T) error {
	created, err := c.repo.Create(ctx, draft)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.surfaceMutation(ctx, "create", err)
	}

	c.mu.Lock()
	c.closePanel()
	if !c.cfg.ReloadAfterMutation {
		if c.cfg.IDOf(created).IsZero() {
			created = c.cfg.WithID(created, id.Next(c.ids()))
		}
		c.items = append(c.items, created)
	}
	c.mu.Unlock()

	logger.Info(ctx, "record created", "resource", c.cfg.Name, "id", c.cfg.IDOf(created))
	c.hooks.Run(ctx, AfterCreate, created)
	if c.cfg.ReloadAfterMutation {
		return c.Load(ctx)
	}
	return nil
}

func (c *TableController[T]) saveExisting(ctx context.Context, target id.ID, draft T) error {
	draft = c.cfg.WithID(draft, target)
	if err := c.repo.Update(ctx, draft); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.surfaceMutation(ctx, "update", err)
	}

	c.mu.Lock()
	c.closePanel()
	if !c.cfg.ReloadAfterMutation {
		if i := c.indexOf(target); i >= 0 {
			c.items[i] = draft
		}
	}
	c.mu.Unlock()

	logger.Info(ctx, "record updated", "resource", c.cfg.Name, "id", target)
	c.hooks.Run(ctx, AfterUpdate, draft)
	if c.cfg.ReloadAfterMutation {
		return c.Load(ctx)
	}
	return nil
}

// closePanel returns to idle after a successful save. Callers hold mu.
func (c *TableController[T]) closePanel() {
	c.panel = nil
	if c.mode == ModeEditing {
		c.mode = ModeIdle
	}
	c.banner = ""
}

func (c *TableController[T]) ids() []id.ID {
	out := make([]id.ID, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, c.cfg.IDOf(item))
	}
	return out
}

// --- Delete ---

// RequestDelete asks for confirmation before deleting recordID.
func (c *TableController[T]) RequestDelete(recordID id.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle {
		return apperror.NewConflict("close the side panel before deleting")
	}
	c.mode = ModeConfirmingDelete
	c.pendingDelete = recordID
	return nil
}

// CancelDelete dismisses the confirmation.
func (c *TableController[T]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeConfirmingDelete {
		c.mode = ModeIdle
	}
	c.pendingDelete = ""
}

// ConfirmDelete deletes the record awaiting confirmation. An id missing from
// the collection leaves it unchanged.
func (c *TableController[T]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ModeConfirmingDelete {
		c.mu.Unlock()
		return apperror.NewConflict("no delete is awaiting confirmation")
	}
	target := c.pendingDelete
	c.mode = ModeIdle
	c.pendingDelete = ""
	c.mu.Unlock()

	if err := c.repo.Delete(ctx, target); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.surfaceMutation(ctx, "delete", err)
	}

	c.mu.Lock()
	var (
		removed T
		found   bool
	)
	delete(c.selected, target)
	if !c.cfg.ReloadAfterMutation {
		if i := c.indexOf(target); i >= 0 {
			removed, found = c.items[i], true
			c.items = slices.Delete(c.items, i, i+1)
		}
	}
	c.mu.Unlock()

	logger.Info(ctx, "record deleted", "resource", c.cfg.Name, "id", target)
	if found {
		c.hooks.Run(ctx, AfterDelete, removed)
	}
	if c.cfg.ReloadAfterMutation {
		return c.Load(ctx)
	}
	return nil
}

// surfaceMutation applies Policy to a failed save or delete. Callers hold mu.
func (c *TableController[T]) surfaceMutation(ctx context.Context, op string, err error) error {
	surface := c.cfg.Policy.OnMutationError
	if apperror.IsUnauthorized(err) {
		surface = c.cfg.Policy.OnAuthError
	}
	logger.Warn(ctx, "record "+op+" failed", "resource", c.cfg.Name, "error", err)

	appErr := asAppError(err)
	switch surface {
	case SurfaceAlert:
		return appErr
	case SurfaceBanner:
		c.banner = apperror.UserMessage(appErr)
	}
	return nil
}

// --- Clipboard ---

// CopyToClipboard hands value to the clipboard. Failures are only logged.
func (c *TableController[T]) CopyToClipboard(ctx context.Context, value string) {
	if c.cfg.Clipboard == nil {
		return
	}
	if err := c.cfg.Clipboard.Write(ctx, value); err != nil {
		logger.Debug(ctx, "clipboard write failed", "resource", c.cfg.Name, "error", err)
	}
}

func asAppError(err error) *apperror.AppError {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr
	}
	return apperror.NewInternal(err)
}
