// Package dto provides Data Transfer Objects for console requests and responses.
package dto

import (
	"rbadmin/internal/console"
	"rbadmin/internal/metadata"
)

// --- Resources ---

// ResourceResponse is one sidebar entry.
type ResourceResponse struct {
	Name      string                 `json:"name"`
	Label     string                 `json:"label"`
	Kind      metadata.Kind          `json:"kind"`
	Source    metadata.Source        `json:"source,omitempty"`
	Fields    []metadata.FieldDef    `json:"fields,omitempty"`
	SplitPane *metadata.SplitPaneDef `json:"splitPane,omitempty"`
}

// FromResource creates ResourceResponse from a resource definition.
func FromResource(def metadata.ResourceDef) ResourceResponse {
	return ResourceResponse{
		Name:      def.Name,
		Label:     def.Label,
		Kind:      def.Kind,
		Source:    def.Source,
		Fields:    def.Fields,
		SplitPane: def.SplitPane,
	}
}

// --- Pages ---

// MountRequest mounts a page.
type MountRequest struct {
	Resource string `json:"resource" binding:"required"`
}

// SearchRequest sets the quick search query. An empty query clears it.
type SearchRequest struct {
	Query string `json:"query"`
}

// SortRequest sorts by a column. Without a direction the header-click toggle applies.
type SortRequest struct {
	Field     string `json:"field" binding:"required"`
	Direction string `json:"direction" binding:"omitempty,oneof=asc desc"`
}

// PageRequest jumps to a 1-based page.
type PageRequest struct {
	Page int `json:"page" binding:"min=1"`
}

// FilterRequest installs an advanced filter.
type FilterRequest = console.FilterSpec

// PanelRequest opens the side panel. An empty ID opens a create draft.
type PanelRequest struct {
	ID string `json:"id"`
}

// DraftRequest carries draft field values.
type DraftRequest struct {
	Fields map[string]any `json:"fields"`
}

// CopyRequest copies a column of a record. An empty field copies the identifier.
type CopyRequest struct {
	Field string `json:"field"`
}

// SelectRequest changes the row selection: one row, the whole visible page, or none.
type SelectRequest struct {
	ID    string `json:"id"`
	Page  bool   `json:"page"`
	Clear bool   `json:"clear"`
}

// SplitRequest is a divider event.
type SplitRequest = console.SplitEvent

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
