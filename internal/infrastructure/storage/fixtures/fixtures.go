// Package fixtures loads the static datasets behind fixture-backed pages.
// Defaults are embedded; a directory of <resource>.yaml files may replace them.
package fixtures

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"rbadmin/internal/core/record"
)

//go:embed data/*.yaml
var embedded embed.FS

// file is the on-disk shape of one dataset.
type file struct {
	Resource string           `yaml:"resource"`
	Records  []map[string]any `yaml:"records"`
}

// Set maps resource names to their records.
type Set map[string][]record.Record

// Load returns the embedded datasets overlaid with the files in dir.
// An empty dir means embedded data only.
func Load(dir string) (Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	set, err := LoadFS(sub)
	if err != nil {
		return nil, fmt.Errorf("embedded fixtures: %w", err)
	}
	if dir == "" {
		return set, nil
	}

	override, err := LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("fixtures dir %s: %w", dir, err)
	}
	for name, records := range override {
		set[name] = records
	}
	return set, nil
}

// LoadFS reads every *.yaml and *.yml file at the root of fsys.
func LoadFS(fsys fs.FS) (Set, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	set := Set{}
	for _, e := range entries {
		ext := path.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, err
		}

		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		name := f.Resource
		if name == "" {
			name = strings.TrimSuffix(e.Name(), ext)
		}
		if _, dup := set[name]; dup {
			return nil, fmt.Errorf("resource %q defined twice", name)
		}

		records := make([]record.Record, 0, len(f.Records))
		for i, raw := range f.Records {
			rec := record.Record(normalize(raw).(map[string]any))
			if rec.ID().IsZero() {
				return nil, fmt.Errorf("%s: record %d has no id", e.Name(), i)
			}
			records = append(records, rec)
		}
		set[name] = records
	}
	return set, nil
}

// Names returns the loaded resource names in order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Records returns a deep copy of one dataset, or nil when it is absent.
func (s Set) Records(name string) []record.Record {
	src, ok := s[name]
	if !ok {
		return nil
	}
	out := make([]record.Record, len(src))
	for i, r := range src {
		out[i] = r.Clone()
	}
	return out
}

// normalize converts YAML decoded values to what the remote API would have
// produced through encoding/json, so both sources compare the same way.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
