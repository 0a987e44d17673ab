package workspace_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/KaramelBytes/autolysis-cli/internal/workspace"
)

func TestCreateAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	w, err := workspace.Create(root, "survey-2024", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if w.RootDir() != filepath.Join(root, "survey-2024") {
		t.Fatalf("unexpected root dir: %s", w.RootDir())
	}
	if _, err := os.Stat(filepath.Join(w.RootDir(), "workspace.json")); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	loaded, err := workspace.Load(w.RootDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Name != "survey-2024" {
		t.Fatalf("unexpected name: %s", loaded.Name)
	}
	if len(loaded.Reports) != 0 {
		t.Fatalf("new workspace should have no reports")
	}
}

func TestCreateRejectsInvalidName(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"", "bad/name", "space name", "../escape"} {
		if _, err := workspace.Create(root, name, false); err == nil {
			t.Fatalf("expected error for name %q", name)
		}
	}
}

func TestCreateExistingRequiresForce(t *testing.T) {
	root := t.TempDir()
	if _, err := workspace.Create(root, "dup", false); err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	if _, err := workspace.Create(root, "dup", false); err == nil {
		t.Fatalf("expected error for existing workspace")
	}
	if _, err := workspace.Create(root, "dup", true); err != nil {
		t.Fatalf("forced Create error: %v", err)
	}
}

func TestAddReportPersistsAndSorts(t *testing.T) {
	root := t.TempDir()
	w, err := workspace.Create(root, "runs", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	for i, name := range []string{"happiness", "wine", "media"} {
		r := w.AddReport(name, 100+i, 10+i, filepath.Join("reports", name))
		if r.ID == "" {
			t.Fatalf("report id not assigned")
		}
	}
	if err := w.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := workspace.Load(w.RootDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	refs := loaded.SortedReports()
	if len(refs) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(refs))
	}
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	if !sort.StringsAreSorted(ids) {
		t.Fatalf("reports not in sorted-ID order: %v", ids)
	}
	for _, r := range refs {
		if r.Dataset == "" || r.Path == "" || r.Rows == 0 || r.Columns == 0 {
			t.Fatalf("incomplete report reference: %+v", r)
		}
	}
}
