package main

import (
	"rbadmin/internal/domain"
	"rbadmin/internal/domain/table"
	"rbadmin/internal/metadata"
)

// setupResourceRegistry registers every sidebar page in display order.
// listPolicy applies to all list pages; detail pages always use a banner.
func setupResourceRegistry(listPolicy domain.ErrorPolicy) (*metadata.Registry, error) {
	reg := metadata.NewRegistry()

	newest := table.SortState{Field: "created_at", Direction: table.Desc}

	defs := []metadata.ResourceDef{
		// --- Admin API ---
		{
			Name:              "users",
			Source:            metadata.SourceAPI,
			Collection:        "users",
			Detail:            domain.DetailNavigation,
			MultiSelect:       true,
			ResetPageOnSearch: true,
			ResetPageOnSort:   true,
			Policy:            listPolicy,
			Fields: []metadata.FieldDef{
				{Name: "id", Label: "ID", Type: metadata.TypeID, ReadOnly: true, Searchable: true, Sortable: true},
				{Name: "email", Type: metadata.TypeString, Searchable: true, Sortable: true},
				{Name: "full_name", Type: metadata.TypeString, Searchable: true, Sortable: true},
				{Name: "role", Type: metadata.TypeString, Sortable: true, Options: []string{"admin", "support", "user"}},
				{Name: "is_active", Label: "Active", Type: metadata.TypeBoolean, Sortable: true},
				{Name: "created_at", Type: metadata.TypeDate, ReadOnly: true, Sortable: true},
			},
		},
		{
			Name:           "payments",
			Source:         metadata.SourceAPI,
			Collection:     "payments",
			DetailResource: "payment",
			Detail:         domain.DetailFetch,
			DefaultSort:    newest,
			Policy:         listPolicy,
			Fields: []metadata.FieldDef{
				{Name: "id", Label: "ID", Type: metadata.TypeID, ReadOnly: true, Searchable: true, Sortable: true},
				{Name: "user_email", Label: "User", Type: metadata.TypeString, Path: `first((.user_email, .user.email) | values)`, Searchable: true, Sortable: true},
				{Name: "amount", Type: metadata.TypeMoney, Sortable: true},
				{Name: "currency", Type: metadata.TypeString, Sortable: true},
				{Name: "status", Type: metadata.TypeString, Searchable: true, Sortable: true, Options: []string{"pending", "succeeded", "failed", "refunded"}},
				{Name: "gateway", Type: metadata.TypeString, Searchable: true, Sortable: true},
				{Name: "created_at", Type: metadata.TypeDate, ReadOnly: true, Sortable: true},
			},
		},

		// --- Fixtures ---
		{Name: "tickets", Source: metadata.SourceFixture, DefaultSort: newest, Policy: listPolicy},
		{Name: "tags", Source: metadata.SourceFixture, Policy: listPolicy},
		{Name: "teams", Source: metadata.SourceFixture, Policy: listPolicy},
		{
			Name:        "events",
			Source:      metadata.SourceFixture,
			DefaultSort: newest,
			Policy:      listPolicy,
			Fields: []metadata.FieldDef{
				{Name: "_id", Label: "ID", Type: metadata.TypeID, ReadOnly: true, Searchable: true, Sortable: true},
				{Name: "type", Type: metadata.TypeString, Searchable: true, Sortable: true},
				{Name: "source", Type: metadata.TypeString, Searchable: true, Sortable: true},
				{Name: "amount", Type: metadata.TypeMoney, Path: `.payload.amount`, Sortable: true, ReadOnly: true},
				{Name: "payload", Type: metadata.TypeObject},
				{Name: "created_at", Type: metadata.TypeDate, Sortable: true},
			},
		},
		{Name: "ocr_results", Label: "OCR Results", Source: metadata.SourceFixture, Policy: listPolicy},
		{Name: "message_templates", Source: metadata.SourceFixture, Policy: listPolicy},
		{Name: "chats", Source: metadata.SourceFixture, DefaultSort: table.SortState{Field: "lastMessageAt", Direction: table.Desc}, Policy: listPolicy},
		{Name: "gateways", Source: metadata.SourceFixture, Policy: listPolicy},
		{Name: "ping_data", Source: metadata.SourceFixture, Policy: listPolicy},
		{Name: "payment_aliases", Source: metadata.SourceFixture, Policy: listPolicy},

		// --- Tools ---
		{
			Name:      "assistant_editor",
			Kind:      metadata.KindTool,
			SplitPane: &metadata.SplitPaneDef{Container: 1440, Left: 480},
		},
		{
			Name:      "chunk_editor",
			Label:     "Text Chunk Editor",
			Kind:      metadata.KindTool,
			SplitPane: &metadata.SplitPaneDef{Container: 1440, Left: 720, MinLeft: 320, MinRight: 320},
		},
	}

	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
