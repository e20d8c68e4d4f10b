package domain

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
	"rbadmin/internal/domain/table"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

type pet struct {
	ID        int
	Name      string
	CreatedAt string
}

// fakeRepo is an in-memory Repository with injectable failures.
type fakeRepo struct {
	mu        sync.Mutex
	items     []pet
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	assignIDs bool

	// gate, when set, blocks List until a value arrives.
	gate chan []pet
	// createStarted and createGate, when set, hold Create until createGate closes.
	createStarted chan struct{}
	createGate    chan struct{}

	lists   int
	deletes []id.ID
}

func (r *fakeRepo) List(ctx context.Context) ([]pet, error) {
	r.mu.Lock()
	r.lists++
	gate, err := r.gate, r.listErr
	items := slices.Clone(r.items)
	r.mu.Unlock()

	if gate != nil {
		return <-gate, nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *fakeRepo) Get(ctx context.Context, i id.ID) (pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return pet{}, r.listErr
	}
	for _, p := range r.items {
		if petID(p) == i {
			return p, nil
		}
	}
	return pet{}, apperror.NewNotFound("pets", i.String())
}

func (r *fakeRepo) Create(ctx context.Context, p pet) (pet, error) {
	r.mu.Lock()
	started, gate := r.createStarted, r.createGate
	r.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return pet{}, r.createErr
	}
	if r.assignIDs {
		n, _ := id.Next(petIDs(r.items)).Int()
		p.ID = int(n)
	}
	r.items = append(r.items, p)
	return p, nil
}

func (r *fakeRepo) Update(ctx context.Context, p pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.items {
		if r.items[i].ID == p.ID {
			r.items[i] = p
		}
	}
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, i id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, i)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.items = slices.DeleteFunc(r.items, func(p pet) bool { return petID(p) == i })
	return nil
}

func petID(p pet) id.ID { return id.FromInt(int64(p.ID)) }

func petIDs(ps []pet) []id.ID {
	out := make([]id.ID, len(ps))
	for i, p := range ps {
		out[i] = petID(p)
	}
	return out
}

var petFields = []table.Field[pet]{
	{Name: "id", Get: func(p pet) any { return p.ID }},
	{Name: "name", Get: func(p pet) any { return p.Name }},
	{Name: "createdAt", Get: func(p pet) any { return p.CreatedAt }},
}

func petConfig() Config[pet] {
	return Config[pet]{
		Name: "pets",
		IDOf: petID,
		WithID: func(p pet, i id.ID) pet {
			n, _ := i.Int()
			p.ID = int(n)
			return p
		},
		SearchFields: petFields[:2],
		SortFields:   petFields,
	}
}

func sampleRepo() *fakeRepo {
	return &fakeRepo{items: []pet{
		{ID: 1, Name: "Cat"},
		{ID: 2, Name: "Gama"},
		{ID: 3, Name: "Daddy"},
	}}
}

func newLoaded(t *testing.T, cfg Config[pet], repo *fakeRepo) *TableController[pet] {
	t.Helper()
	c := NewTableController(cfg, repo)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func viewNames(v View[pet]) []string {
	out := make([]string, len(v.Page.Items))
	for i, p := range v.Page.Items {
		out[i] = p.Name
	}
	return out
}

func TestScenario_SearchSortDelete(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, petConfig(), sampleRepo())

	c.Search("ga")
	assert.Equal(t, []pet{{ID: 2, Name: "Gama"}}, c.View().Page.Items)

	c.Search("")
	require.NoError(t, c.SetSort("name", table.Asc))
	assert.Equal(t, []string{"Cat", "Daddy", "Gama"}, viewNames(c.View()))

	require.NoError(t, c.RequestDelete("2"))
	assert.Equal(t, ModeConfirmingDelete, c.Mode())
	require.NoError(t, c.ConfirmDelete(ctx))

	assert.Equal(t, []pet{{ID: 1, Name: "Cat"}, {ID: 3, Name: "Daddy"}}, c.Items())
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestToggleSort(t *testing.T) {
	c := newLoaded(t, petConfig(), sampleRepo())

	require.NoError(t, c.ToggleSort("name"))
	assert.Equal(t, []string{"Cat", "Daddy", "Gama"}, viewNames(c.View()))
	require.NoError(t, c.ToggleSort("name"))
	assert.Equal(t, []string{"Gama", "Daddy", "Cat"}, viewNames(c.View()))
	require.NoError(t, c.ToggleSort("id"))
	assert.Equal(t, table.SortState{Field: "id", Direction: table.Asc}, c.View().Sort)

	err := c.ToggleSort("password")
	assert.Error(t, err)
}

func TestCreate_AssignsMaxPlusOne(t *testing.T) {
	repo := &fakeRepo{items: []pet{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 5, Name: "c"}}}
	c := newLoaded(t, petConfig(), repo)

	require.NoError(t, c.OpenCreate())
	require.NoError(t, c.Save(context.Background(), pet{Name: "new"}))

	items := c.Items()
	require.Len(t, items, 4)
	assert.Equal(t, pet{ID: 6, Name: "new"}, items[3])
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Nil(t, c.View().Panel)
}

func TestCreate_KeepsStoreAssignedID(t *testing.T) {
	repo := &fakeRepo{items: []pet{{ID: 9, Name: "a"}}, assignIDs: true}
	c := newLoaded(t, petConfig(), repo)

	require.NoError(t, c.OpenCreate())
	require.NoError(t, c.Save(context.Background(), pet{Name: "b"}))

	assert.Equal(t, 10, c.Items()[1].ID)
}

func TestSave_OneAtATime(t *testing.T) {
	ctx := context.Background()
	repo := sampleRepo()
	c := newLoaded(t, petConfig(), repo)
	repo.createStarted = make(chan struct{}, 2)
	repo.createGate = make(chan struct{})

	require.NoError(t, c.OpenCreate())
	done := make(chan error, 1)
	go func() { done <- c.Save(ctx, pet{Name: "Eve"}) }()

	select {
	case <-repo.createStarted:
	case <-time.After(timeout):
		t.Fatal("create never reached the repository")
	}
	err := c.Save(ctx, pet{Name: "Eve"})
	assert.True(t, apperror.IsConflict(err), "got %v", err)

	close(repo.createGate)
	require.NoError(t, <-done)
	assert.Len(t, c.Items(), 4)
	assert.Len(t, repo.items, 4)
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestSave_FailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	repo := sampleRepo()
	repo.createErr = errors.New("store down")
	cfg := petConfig()
	cfg.Policy = ErrorPolicy{OnMutationError: SurfaceAlert}
	c := newLoaded(t, cfg, repo)

	require.NoError(t, c.OpenCreate())
	require.Error(t, c.Save(ctx, pet{Name: "Eve"}))
	assert.Equal(t, ModeEditing, c.Mode())

	repo.mu.Lock()
	repo.createErr = nil
	repo.mu.Unlock()
	require.NoError(t, c.Save(ctx, pet{Name: "Eve"}))
	assert.Len(t, c.Items(), 4)
}

func TestEdit_PreservesIdentity(t *testing.T) {
	c := newLoaded(t, petConfig(), sampleRepo())

	require.NoError(t, c.OpenEdit("2"))
	draft, ok := c.Draft()
	require.True(t, ok)
	assert.Equal(t, "Gama", draft.Name)

	draft.Name = "Gamma"
	draft.ID = 99
	require.NoError(t, c.Save(context.Background(), draft))

	assert.Equal(t, []pet{
		{ID: 1, Name: "Cat"},
		{ID: 2, Name: "Gamma"},
		{ID: 3, Name: "Daddy"},
	}, c.Items())
}

func TestOpenEdit_UnknownID(t *testing.T) {
	c := newLoaded(t, petConfig(), sampleRepo())

	err := c.OpenEdit("42")
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestSingleSidePanel(t *testing.T) {
	c := newLoaded(t, petConfig(), sampleRepo())

	require.NoError(t, c.OpenEdit("1"))
	require.NoError(t, c.OpenEdit("3"))

	v := c.View()
	require.NotNil(t, v.Panel)
	assert.Equal(t, id.ID("3"), v.Panel.TargetID)
	assert.Equal(t, "Daddy", v.Panel.Draft.Name)

	c.CancelPanel()
	assert.Nil(t, c.View().Panel)
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestSaveWithoutPanel(t *testing.T) {
	c := newLoaded(t, petConfig(), sampleRepo())

	err := c.Save(context.Background(), pet{Name: "x"})
	assert.True(t, apperror.IsConflict(err))
	assert.Len(t, c.Items(), 3)
}

func TestDelete_AbsentIDIsNoop(t *testing.T) {
	c := newLoaded(t, petConfig(), sampleRepo())
	before := c.Items()

	require.NoError(t, c.RequestDelete("77"))
	require.NoError(t, c.ConfirmDelete(context.Background()))

	assert.Equal(t, before, c.Items())
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	repo := sampleRepo()
	c := newLoaded(t, petConfig(), repo)

	err := c.ConfirmDelete(context.Background())
	assert.True(t, apperror.IsConflict(err))

	require.NoError(t, c.RequestDelete("1"))
	c.CancelDelete()
	assert.Len(t, c.Items(), 3)
	assert.Empty(t, repo.deletes)

	require.NoError(t, c.OpenEdit("1"))
	assert.True(t, apperror.IsConflict(c.RequestDelete("1")))
}

func TestLoad_UnauthorizedYieldsEmpty(t *testing.T) {
	repo := sampleRepo()
	c := newLoaded(t, petConfig(), repo)
	require.Len(t, c.Items(), 3)

	repo.listErr = apperror.NewUnauthorized("not authenticated")
	cfg := petConfig()
	cfg.Policy = ErrorPolicy{OnLoadError: SurfaceAlert}
	c2 := NewTableController(cfg, repo)

	assert.NoError(t, c.Load(context.Background()))
	assert.Empty(t, c.Items())
	assert.NoError(t, c2.Load(context.Background()), "401 never surfaces even with an alert policy")
	assert.Empty(t, c2.View().Banner)
}

func TestLoad_FailurePolicies(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("silent", func(t *testing.T) {
		repo := sampleRepo()
		c := newLoaded(t, petConfig(), repo)
		repo.listErr = boom

		assert.NoError(t, c.Load(context.Background()))
		assert.Empty(t, c.Items())
		assert.Empty(t, c.View().Banner)
	})

	t.Run("banner", func(t *testing.T) {
		repo := &fakeRepo{listErr: apperror.NewUpstream("gateway exploded", 502)}
		cfg := petConfig()
		cfg.Policy = DetailPolicy()
		c := NewTableController(cfg, repo)

		assert.NoError(t, c.Load(context.Background()))
		assert.Equal(t, "gateway exploded", c.View().Banner)
	})

	t.Run("alert", func(t *testing.T) {
		repo := &fakeRepo{listErr: boom}
		cfg := petConfig()
		cfg.Policy = ErrorPolicy{OnLoadError: SurfaceAlert}
		c := NewTableController(cfg, repo)

		err := c.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})
}

func TestMutation_FailurePolicies(t *testing.T) {
	ctx := context.Background()

	repo := sampleRepo()
	c := newLoaded(t, petConfig(), repo)
	repo.createErr = apperror.NewUnauthorized("not authenticated")

	require.NoError(t, c.OpenCreate())
	err := c.Save(ctx, pet{Name: "x"})
	assert.True(t, apperror.IsUnauthorized(err))
	assert.Equal(t, ModeEditing, c.Mode(), "panel stays open after a failed save")

	repo.createErr = apperror.NewUpstream("name already taken", 422)
	err = c.Save(ctx, pet{Name: "x"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "name already taken", appErr.Message)

	cfg := petConfig()
	cfg.Policy = ErrorPolicy{OnMutationError: SurfaceSilent}
	quiet := newLoaded(t, cfg, repo)
	repo.deleteErr = errors.New("boom")
	require.NoError(t, quiet.RequestDelete("1"))
	assert.NoError(t, quiet.ConfirmDelete(ctx))
	assert.Len(t, quiet.Items(), 3)
}

func TestReloadAfterMutation(t *testing.T) {
	ctx := context.Background()
	repo := sampleRepo()
	repo.assignIDs = true
	cfg := petConfig()
	cfg.ReloadAfterMutation = true
	c := newLoaded(t, cfg, repo)
	require.Equal(t, 1, repo.lists)

	require.NoError(t, c.OpenCreate())
	require.NoError(t, c.Save(ctx, pet{Name: "Eve"}))
	assert.Equal(t, 2, repo.lists)
	assert.Len(t, c.Items(), 4)

	require.NoError(t, c.RequestDelete("1"))
	require.NoError(t, c.ConfirmDelete(ctx))
	assert.Equal(t, 3, repo.lists)
	assert.Equal(t, []id.ID{"1"}, repo.deletes)
	assert.Len(t, c.Items(), 3)
}

func TestLoad_SupersededResponseDiscarded(t *testing.T) {
	gate := make(chan []pet)
	repo := &fakeRepo{gate: gate}
	c := NewTableController(petConfig(), repo)

	first := make(chan error)
	go func() { first <- c.Load(context.Background()) }()
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.lists == 1
	}, timeout, tick)
	assert.Equal(t, ModeLoading, c.Mode())

	second := make(chan error)
	go func() { second <- c.Load(context.Background()) }()
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.lists == 2
	}, timeout, tick)

	// Whichever List call receives first, only the newest generation lands.
	gate <- []pet{{ID: 1, Name: "stale"}}
	gate <- []pet{{ID: 2, Name: "fresh"}}
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestPagination_ResetPolicies(t *testing.T) {
	repo := &fakeRepo{}
	for i := 1; i <= 25; i++ {
		repo.items = append(repo.items, pet{ID: i, Name: "pet"})
	}

	keep := newLoaded(t, petConfig(), repo)
	keep.SetPage(3)
	keep.Search("pet")
	assert.Equal(t, 3, keep.View().Page.Number)
	require.NoError(t, keep.ToggleSort("id"))
	assert.Equal(t, 3, keep.View().Page.Number)

	cfg := petConfig()
	cfg.ResetPageOnSearch = true
	cfg.ResetPageOnSort = true
	reset := newLoaded(t, cfg, repo)
	reset.SetPage(3)
	reset.Search("pet")
	assert.Equal(t, 1, reset.View().Page.Number)
	reset.SetPage(2)
	require.NoError(t, reset.ToggleSort("id"))
	assert.Equal(t, 1, reset.View().Page.Number)
}

func TestView_Paginates(t *testing.T) {
	repo := &fakeRepo{}
	for i := 1; i <= 12; i++ {
		repo.items = append(repo.items, pet{ID: i})
	}
	c := newLoaded(t, petConfig(), repo)

	v := c.View()
	assert.Len(t, v.Page.Items, 10)
	assert.Equal(t, 2, v.Page.TotalPages)
	assert.Equal(t, 12, v.Total)

	c.SetPage(2)
	assert.Len(t, c.View().Page.Items, 2)
}

func TestSetFilter(t *testing.T) {
	c := newLoaded(t, petConfig(), sampleRepo())

	c.SetFilter(func(p pet) bool { return p.ID > 1 })
	c.Search("a")
	assert.Equal(t, []string{"Gama", "Daddy"}, viewNames(c.View()))

	c.SetFilter(nil)
	assert.Len(t, c.View().Page.Items, 3)
}

func TestSelection(t *testing.T) {
	cfg := petConfig()
	single := newLoaded(t, cfg, sampleRepo())
	assert.True(t, apperror.IsConflict(single.ToggleSelect("1")))

	cfg.MultiSelect = true
	c := newLoaded(t, cfg, sampleRepo())
	require.NoError(t, c.ToggleSelect("3"))
	require.NoError(t, c.ToggleSelect("1"))
	assert.Equal(t, []id.ID{"1", "3"}, c.Selected())

	require.NoError(t, c.ToggleSelect("1"))
	assert.Equal(t, []id.ID{"3"}, c.Selected())

	require.NoError(t, c.RequestDelete("3"))
	require.NoError(t, c.ConfirmDelete(context.Background()))
	assert.Empty(t, c.Selected())

	require.NoError(t, c.SelectPage())
	assert.Equal(t, []id.ID{"1", "2"}, c.Selected())
	c.ClearSelection()
	assert.Empty(t, c.View().Selected)
}

func TestHooks(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, petConfig(), sampleRepo())

	var events []string
	c.Hooks().On(AfterCreate, func(_ context.Context, p pet) { events = append(events, "create:"+p.Name) })
	c.Hooks().On(AfterUpdate, func(_ context.Context, p pet) { events = append(events, "update:"+p.Name) })
	c.Hooks().On(AfterDelete, func(_ context.Context, p pet) { events = append(events, "delete:"+p.Name) })

	require.NoError(t, c.OpenCreate())
	require.NoError(t, c.Save(ctx, pet{Name: "Eve"}))
	require.NoError(t, c.OpenEdit("1"))
	require.NoError(t, c.Save(ctx, pet{Name: "Kat"}))
	require.NoError(t, c.RequestDelete("2"))
	require.NoError(t, c.ConfirmDelete(ctx))
	require.NoError(t, c.RequestDelete("404"))
	require.NoError(t, c.ConfirmDelete(ctx))

	assert.Equal(t, []string{"create:Eve", "update:Kat", "delete:Gama"}, events)
}

type recordingClipboard struct {
	values []string
	err    error
}

func (r *recordingClipboard) Write(_ context.Context, v string) error {
	r.values = append(r.values, v)
	return r.err
}

func TestCopyToClipboard(t *testing.T) {
	cb := &recordingClipboard{err: errors.New("no display")}
	cfg := petConfig()
	cfg.Clipboard = cb
	c := NewTableController(cfg, sampleRepo())

	c.CopyToClipboard(context.Background(), "2")
	assert.Equal(t, []string{"2"}, cb.values)

	NewTableController(petConfig(), sampleRepo()).CopyToClipboard(context.Background(), "x")
}

func TestNavigate(t *testing.T) {
	c := newLoaded(t, petConfig(), sampleRepo())

	p, err := c.Navigate("3")
	require.NoError(t, err)
	assert.Equal(t, "Daddy", p.Name)

	_, err = c.Navigate("9")
	assert.True(t, apperror.IsNotFound(err))
}
