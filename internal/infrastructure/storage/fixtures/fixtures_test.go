package fixtures

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rbadmin/internal/core/id"
)

func TestLoad_Embedded(t *testing.T) {
	set, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"chats", "events", "gateways", "message_templates", "ocr_results",
		"payment_aliases", "ping_data", "tags", "teams", "tickets",
	}, set.Names())

	tags := set.Records("tags")
	require.Len(t, tags, 4)
	assert.Equal(t, id.ID("5"), tags[3].ID())
	assert.Equal(t, float64(42), tags[0]["usage_count"])

	events := set.Records("events")
	assert.Equal(t, id.ID("65e1f0a2c1"), events[0].ID())
	assert.Equal(t, "EUR", events[0]["payload"].(map[string]any)["currency"])
}

func TestRecords_ReturnsCopies(t *testing.T) {
	set, err := Load("")
	require.NoError(t, err)

	set.Records("tags")[0]["name"] = "changed"
	assert.Equal(t, "billing", set.Records("tags")[0]["name"])
	assert.Nil(t, set.Records("nope"))
}

func TestLoad_OverrideDir(t *testing.T) {
	dir := t.TempDir()
	data := "resource: tags\nrecords:\n  - id: 10\n    name: custom\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tags.yaml"), []byte(data), 0o600))

	set, err := Load(dir)
	require.NoError(t, err)

	tags := set.Records("tags")
	require.Len(t, tags, 1)
	assert.Equal(t, "custom", tags[0]["name"])
	assert.Len(t, set.Records("tickets"), 4, "other datasets keep their defaults")
}

func TestLoadFS_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
	}{
		{
			name:  "missing id",
			files: fstest.MapFS{"a.yaml": {Data: []byte("records:\n  - name: x\n")}},
		},
		{
			name:  "bad yaml",
			files: fstest.MapFS{"a.yaml": {Data: []byte("records: [\n")}},
		},
		{
			name: "duplicate resource",
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("resource: tags\nrecords: []\n")},
				"b.yml":  {Data: []byte("resource: tags\nrecords: []\n")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(tt.files)
			assert.Error(t, err)
		})
	}
}

func TestLoadFS_NameFromFile(t *testing.T) {
	set, err := LoadFS(fstest.MapFS{
		"teams.yml": {Data: []byte("records:\n  - _id: abc\n    name: Ops\n")},
		"README.md": {Data: []byte("ignored")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"teams"}, set.Names())
	assert.Equal(t, id.ID("abc"), set.Records("teams")[0].ID())
}
