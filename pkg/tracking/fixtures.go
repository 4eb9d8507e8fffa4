package tracking

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tracksite/pkg/model"
)

//go:embed fixtures/*.yaml
var embeddedFixtures embed.FS

// Fixtures serves tracking records from memory.
type Fixtures struct {
	records map[string]model.Record
}

var _ Tracker = (*Fixtures)(nil)

type fixtureFile struct {
	Records map[string]model.Record `json:"records" yaml:"records"`
}

// NewFixtures builds a fixture tracker from records keyed by identifier.
func NewFixtures(records map[string]model.Record) *Fixtures {
	f := &Fixtures{records: make(map[string]model.Record, len(records))}
	for id, rec := range records {
		f.records[strings.TrimSpace(id)] = rec
	}
	return f
}

// DemoFixtures returns the bundled demonstration records.
func DemoFixtures() (*Fixtures, error) {
	sub, err := fs.Sub(embeddedFixtures, "fixtures")
	if err != nil {
		return nil, fmt.Errorf("tracking fixtures: %w", err)
	}
	return LoadFixturesFS(sub)
}

// LoadFixtures reads fixtures from a file or a directory of files.
func LoadFixtures(path string) (*Fixtures, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("tracking fixtures: path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("tracking fixtures: %w", err)
	}
	if info.IsDir() {
		return LoadFixturesFS(os.DirFS(path))
	}
	return LoadFixturesFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadFixturesFS parses every JSON/YAML file in fsys, or only the named files
// when names are given. Duplicate identifiers across files are rejected.
func LoadFixturesFS(fsys fs.FS, names ...string) (*Fixtures, error) {
	f := &Fixtures{records: make(map[string]model.Record)}
	if fsys == nil {
		return f, nil
	}

	if len(names) == 0 {
		err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || !isFixtureFile(path) {
				return nil
			}
			names = append(names, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("tracking fixtures: %w", err)
		}
	}

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("tracking fixtures: read %s: %w", name, err)
		}
		doc, err := parseFixtures(data, name)
		if err != nil {
			return nil, err
		}
		for rawID, rec := range doc.Records {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return nil, fmt.Errorf("tracking fixtures: file %s defines an empty tracking id", name)
			}
			if _, exists := f.records[id]; exists {
				return nil, fmt.Errorf("tracking fixtures: duplicate tracking id %q (file %s)", id, name)
			}
			f.records[id] = rec
		}
	}
	return f, nil
}

// Track returns the record stored for id.
func (f *Fixtures) Track(ctx context.Context, id string) (model.Record, error) {
	id, err := NormalizeID(id)
	if err != nil {
		return model.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	if f == nil {
		return model.Record{}, ErrNotFound
	}
	rec, ok := f.records[id]
	if !ok {
		return model.Record{}, ErrNotFound
	}
	rec.FormFields = model.CloneFields(rec.FormFields)
	return rec, nil
}

// IDs lists the known identifiers in sorted order.
func (f *Fixtures) IDs() []string {
	if f == nil {
		return nil
	}
	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func parseFixtures(data []byte, source string) (fixtureFile, error) {
	var doc fixtureFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return fixtureFile{}, fmt.Errorf("tracking fixtures: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = fixtureFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return fixtureFile{}, fmt.Errorf("tracking fixtures: parse %s: invalid JSON or YAML", source)
}

func isFixtureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
