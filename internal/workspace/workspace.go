// Package workspace groups generated reports under named directories with a
// JSON manifest, so repeated runs stay organized and discoverable.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/KaramelBytes/autolysis-cli/internal/utils"
	"github.com/google/uuid"
)

const manifestFileName = "workspace.json"

var nameRE = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidName reports whether name is safe to use as a directory name.
func ValidName(name string) bool { return nameRE.MatchString(name) }

// ReportRef records one generated report inside a workspace. Path is
// relative to the workspace root.
type ReportRef struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Workspace is the manifest persisted as workspace.json.
type Workspace struct {
	Name      string                `json:"name"`
	Reports   map[string]*ReportRef `json:"reports"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`

	// Not serialized: on-disk location of the workspace.json
	rootDir string `json:"-"`
}

// New constructs an in-memory workspace. Call Save() to persist.
func New(name, rootDir string) *Workspace {
	return &Workspace{
		Name:      name,
		Reports:   make(map[string]*ReportRef),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		rootDir:   rootDir,
	}
}

// Create initializes a workspace directory under root and persists an empty
// manifest. An existing manifest is refused unless force is set.
func Create(root, name string, force bool) (*Workspace, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid workspace name %q (letters, digits, '.', '_' and '-' only)", name)
	}
	dir := filepath.Join(root, name)
	if _, err := os.Stat(filepath.Join(dir, manifestFileName)); err == nil {
		if !force {
			return nil, fmt.Errorf("workspace already exists at %s", dir)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}
	w := New(name, dir)
	if err := w.Save(); err != nil {
		return nil, err
	}
	return w, nil
}

// Load loads a workspace.json from the provided directory.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	w.rootDir = dir
	return &w, nil
}

// RootDir returns the on-disk workspace directory path.
func (w *Workspace) RootDir() string { return w.rootDir }

// ReportsDir returns the directory that holds generated report trees.
func (w *Workspace) ReportsDir() string { return filepath.Join(w.rootDir, "reports") }

// Save writes workspace.json using atomic write.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, manifestFileName), data)
}

// AddReport registers a generated report and returns its reference.
func (w *Workspace) AddReport(dataset string, rows, columns int, relPath string) *ReportRef {
	r := &ReportRef{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		Rows:      rows,
		Columns:   columns,
		Path:      relPath,
		CreatedAt: time.Now(),
	}
	if w.Reports == nil {
		w.Reports = make(map[string]*ReportRef)
	}
	w.Reports[r.ID] = r
	w.UpdatedAt = time.Now()
	return r
}

// SortedReports returns report references in sorted-ID order for stable
// listings.
func (w *Workspace) SortedReports() []*ReportRef {
	ids := make([]string, 0, len(w.Reports))
	for id := range w.Reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*ReportRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.Reports[id])
	}
	return out
}
