package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const fileTemplate = `-- {{.Name}} ({{.Direction}})
-- Created: {{.Created}}

`

var (
	migrationFile = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)
	nonWord       = regexp.MustCompile(`[^a-z0-9]+`)
)

// Entry is one migration version found on disk
type Entry struct {
	Version uint64
	Name    string
	HasDown bool
}

// FileName returns the base name shared by the up and down files
func (e Entry) FileName() string {
	return fmt.Sprintf("%06d_%s", e.Version, e.Name)
}

// Created describes a freshly scaffolded migration pair
type Created struct {
	Entry
	UpPath   string
	DownPath string
}

// Create scaffolds the next sequential migration pair in dir
func Create(dir, name string) (*Created, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := List(dir)
	if err != nil {
		return nil, err
	}
	var next uint64 = 1
	if len(existing) > 0 {
		next = existing[len(existing)-1].Version + 1
	}

	c := &Created{Entry: Entry{Version: next, Name: slug, HasDown: true}}
	base := filepath.Join(dir, c.FileName())
	c.UpPath = base + ".up.sql"
	c.DownPath = base + ".down.sql"

	created := time.Now().UTC().Format(time.RFC3339)
	if err := writeTemplate(c.UpPath, slug, "up", created); err != nil {
		return nil, err
	}
	if err := writeTemplate(c.DownPath, slug, "down", created); err != nil {
		_ = os.Remove(c.UpPath)
		return nil, err
	}
	return c, nil
}

// List returns the migrations in dir ordered by version
func List(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[uint64]*Entry)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		m := migrationFile.FindStringSubmatch(f.Name())
		if m == nil {
			continue
		}
		version, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			continue
		}
		e, ok := byVersion[version]
		if !ok {
			e = &Entry{Version: version, Name: m[2]}
			byVersion[version] = e
		}
		if m[3] == "down" {
			e.HasDown = true
		}
	}

	entries := make([]Entry, 0, len(byVersion))
	for _, e := range byVersion {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Version < entries[j].Version })
	return entries, nil
}

func writeTemplate(path, name, direction, created string) error {
	tmpl := template.Must(template.New("migration").Parse(fileTemplate))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, map[string]string{
		"Name":      name,
		"Direction": direction,
		"Created":   created,
	})
}

// sanitizeName lowercases name and collapses anything that is not a letter
// or digit into single underscores
func sanitizeName(name string) string {
	return strings.Trim(nonWord.ReplaceAllString(strings.ToLower(name), "_"), "_")
}
