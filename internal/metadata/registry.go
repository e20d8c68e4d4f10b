// Package metadata describes the resources the console can mount: their
// columns, data source and per-page behavior.
package metadata

import (
	"fmt"

	"rbadmin/internal/domain"
	"rbadmin/internal/domain/table"
)

// Source says where a resource's records come from.
type Source string

const (
	SourceAPI     Source = "api"
	SourceFixture Source = "fixture"
)

// Kind separates resource tables from tool pages.
type Kind string

const (
	KindTable Kind = "table"
	KindTool  Kind = "tool"
)

// FieldType defines the data type of a field.
type FieldType string

const (
	TypeID      FieldType = "id"
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeMoney   FieldType = "money"
	TypeObject  FieldType = "object"
)

// ResourceDef describes a page.
type ResourceDef struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Kind   Kind   `json:"kind"`
	Source Source `json:"source,omitempty"`

	// Collection is the list endpoint segment; DetailResource the detail one.
	Collection     string              `json:"-"`
	DetailResource string              `json:"-"`
	Detail         domain.DetailSource `json:"detail,omitempty"`

	Fields      []FieldDef      `json:"fields,omitempty"`
	DefaultSort table.SortState `json:"defaultSort"`
	PageSize    int             `json:"pageSize,omitempty"`

	ResetPageOnSearch bool               `json:"resetPageOnSearch"`
	ResetPageOnSort   bool               `json:"resetPageOnSort"`
	MultiSelect       bool               `json:"multiSelect"`
	Policy            domain.ErrorPolicy `json:"policy"`

	// SplitPane is set on tool pages with a draggable divider.
	SplitPane *SplitPaneDef `json:"splitPane,omitempty"`
}

// FieldDef describes a column.
type FieldDef struct {
	Name  string    `json:"name"`
	Label string    `json:"label,omitempty"`
	Type  FieldType `json:"type"`
	// Path is a jq expression read from the record. Empty means the field name
	// with its snake_case/camelCase spelling as fallback.
	Path       string   `json:"-"`
	Searchable bool     `json:"searchable,omitempty"`
	Sortable   bool     `json:"sortable,omitempty"`
	ReadOnly   bool     `json:"readOnly,omitempty"`
	Options    []string `json:"options,omitempty"`
}

// SplitPaneDef holds the divider defaults of a tool page.
type SplitPaneDef struct {
	Container int `json:"container"`
	Left      int `json:"left"`
	MinLeft   int `json:"minLeft"`
	MinRight  int `json:"minRight"`
}

// Field returns the named field.
func (d ResourceDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Registry stores resource definitions in sidebar order.
type Registry struct {
	order []string
	defs  map[string]ResourceDef
}

func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]ResourceDef),
	}
}

// Register adds def after the ones registered before it.
func (r *Registry) Register(def ResourceDef) error {
	if def.Name == "" {
		return fmt.Errorf("resource without a name")
	}
	if _, dup := r.defs[def.Name]; dup {
		return fmt.Errorf("resource %q registered twice", def.Name)
	}
	if def.Label == "" {
		def.Label = guessLabel(def.Name)
	}
	if def.Kind == "" {
		def.Kind = KindTable
	}
	for i := range def.Fields {
		if def.Fields[i].Label == "" {
			def.Fields[i].Label = guessLabel(def.Fields[i].Name)
		}
	}
	r.order = append(r.order, def.Name)
	r.defs[def.Name] = def
	return nil
}

func (r *Registry) Get(name string) (ResourceDef, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// List returns every definition in sidebar order.
func (r *Registry) List() []ResourceDef {
	list := make([]ResourceDef, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.defs[name])
	}
	return list
}
