package metadata

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rbadmin/internal/core/record"
	"rbadmin/internal/domain/filter"
	"rbadmin/internal/domain/table"
)

func TestRegistry_Order(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(ResourceDef{Name: "users", Source: SourceAPI}))
	require.NoError(t, reg.Register(ResourceDef{Name: "payment_aliases", Source: SourceFixture}))
	require.NoError(t, reg.Register(ResourceDef{Name: "chunk_editor", Kind: KindTool}))

	assert.Error(t, reg.Register(ResourceDef{Name: "users"}))
	assert.Error(t, reg.Register(ResourceDef{}))

	var names, labels []string
	for _, d := range reg.List() {
		names = append(names, d.Name)
		labels = append(labels, d.Label)
	}
	assert.Equal(t, []string{"users", "payment_aliases", "chunk_editor"}, names)
	assert.Equal(t, []string{"Users", "Payment Aliases", "Chunk Editor"}, labels)

	d, ok := reg.Get("users")
	require.True(t, ok)
	assert.Equal(t, KindTable, d.Kind)
}

func TestGuessLabel(t *testing.T) {
	tests := map[string]string{
		"id":            "ID",
		"_id":           "ID",
		"created_at":    "Created At",
		"createdAt":     "Created At",
		"lastMessageAt": "Last Message At",
		"name":          "Name",
	}
	for in, want := range tests {
		assert.Equal(t, want, guessLabel(in), in)
	}
}

func TestInspect(t *testing.T) {
	fields := Inspect(record.Record{
		"name":        "Stripe EU",
		"enabled":     true,
		"fee_percent": "1.40",
		"payload":     map[string]any{"a": 1.0},
		"created_at":  "2024-03-04T12:01:13Z",
		"latency_ms":  84.0,
		"id":          1.0,
	})

	byName := map[string]FieldDef{}
	var order []string
	for _, f := range fields {
		byName[f.Name] = f
		order = append(order, f.Name)
	}

	assert.Equal(t, []string{"id", "created_at", "enabled", "fee_percent", "latency_ms", "name", "payload"}, order)
	assert.Equal(t, TypeID, byName["id"].Type)
	assert.True(t, byName["id"].ReadOnly)
	assert.Equal(t, TypeDate, byName["created_at"].Type)
	assert.Equal(t, TypeBoolean, byName["enabled"].Type)
	assert.Equal(t, TypeMoney, byName["fee_percent"].Type)
	assert.Equal(t, TypeNumber, byName["latency_ms"].Type)
	assert.True(t, byName["name"].Searchable)
	assert.False(t, byName["payload"].Sortable)
	assert.False(t, byName["latency_ms"].Searchable)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, `."name"`, DefaultPath("name"))
	assert.Equal(t, `first((."created_at", ."createdAt") | values)`, DefaultPath("created_at"))
	assert.Equal(t, `first((."createdAt", ."created_at") | values)`, DefaultPath("createdAt"))
}

func TestCompile(t *testing.T) {
	cols, err := Compile(ResourceDef{
		Name: "payments",
		Fields: []FieldDef{
			{Name: "id", Type: TypeID, Sortable: true, Searchable: true},
			{Name: "created_at", Type: TypeDate, Sortable: true},
			{Name: "amount", Type: TypeMoney, Sortable: true},
			{Name: "is_refund", Type: TypeBoolean, Sortable: true},
			{Name: "email", Path: `.customer.email // .email`, Type: TypeString, Searchable: true},
		},
	})
	require.NoError(t, err)
	assert.Len(t, cols.All, 5)
	assert.Len(t, cols.Search, 2)
	assert.Len(t, cols.Sort, 4)

	rec := record.Record{
		"id":        12.0,
		"createdAt": "2024-03-04T12:00:00Z",
		"amount":    "19.99",
		"is_refund": false,
		"isRefund":  true,
		"customer":  map[string]any{"email": "a@b.c"},
	}
	get := func(name string) any {
		f, ok := table.FieldByName(cols.All, name)
		require.True(t, ok)
		return f.Get(rec)
	}

	assert.EqualValues(t, 12, get("id"))
	assert.Equal(t, time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), get("created_at"))
	assert.True(t, decimal.RequireFromString("19.99").Equal(get("amount").(decimal.Decimal)))
	assert.Equal(t, false, get("is_refund"))
	assert.Equal(t, "a@b.c", get("email"))
	assert.Nil(t, cols.All[4].Get(record.Record{}))
}

func TestCompile_SortsMoneyNumerically(t *testing.T) {
	cols, err := Compile(ResourceDef{Name: "p", Fields: []FieldDef{{Name: "amount", Type: TypeMoney, Sortable: true}}})
	require.NoError(t, err)

	items := []record.Record{{"amount": "100.00"}, {"amount": "9.50"}, {"amount": 20.0}}
	sorted := table.Sort(items, table.SortState{Field: "amount", Direction: table.Asc}, cols.Sort)

	assert.Equal(t, []any{"9.50", 20.0, "100.00"}, []any{sorted[0]["amount"], sorted[1]["amount"], sorted[2]["amount"]})
}

func TestCompile_FiltersDatesAndMoney(t *testing.T) {
	cols, err := Compile(ResourceDef{Name: "payments", Fields: []FieldDef{
		{Name: "created_at", Type: TypeDate},
		{Name: "amount", Type: TypeMoney},
	}})
	require.NoError(t, err)

	items := []record.Record{
		{"id": 1.0, "created_at": "2023-12-31T23:00:00Z", "amount": "9.50"},
		{"id": 2.0, "created_at": "2025-06-01T00:00:00Z", "amount": 100.0},
	}
	ids := func(conds ...filter.Item) []any {
		p, err := filter.Compile(conds, cols.All)
		require.NoError(t, err)
		var out []any
		for _, r := range items {
			if p(r) {
				out = append(out, r["id"])
			}
		}
		return out
	}

	assert.Equal(t, []any{1.0}, ids(filter.Item{Field: "created_at", Operator: filter.Less, Value: "2024-01-01T00:00:00Z"}))
	assert.Equal(t, []any{2.0}, ids(filter.Item{Field: "created_at", Operator: filter.Equal, Value: "2025-06-01T00:00:00Z"}))
	assert.Equal(t, []any{2.0}, ids(filter.Item{Field: "created_at", Operator: filter.GreaterOrEqual, Value: "2025-06-01"}))
	assert.Equal(t, []any{2.0}, ids(filter.Item{Field: "amount", Operator: filter.Greater, Value: "20"}))
	assert.Equal(t, []any{1.0}, ids(filter.Item{Field: "amount", Operator: filter.InList, Value: []any{"9.5", 7.0}}))
}

func TestCompile_BadPath(t *testing.T) {
	_, err := Compile(ResourceDef{Name: "x", Fields: []FieldDef{{Name: "a", Path: ".["}}})
	assert.Error(t, err)
}
