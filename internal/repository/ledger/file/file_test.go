package file

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	repo := NewLedgerRepository(filepath.Join(t.TempDir(), ".done.txt"))

	names, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty ledger, got %v", names)
	}
}

func TestLoadEmptyFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".done.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	names, err := NewLedgerRepository(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty ledger, got %v", names)
	}
}

func TestSaveWritesOneNamePerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".done.txt")
	repo := NewLedgerRepository(path)

	if err := repo.Save(context.Background(), []string{"a.jpg", "b.png"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "a.jpg\nb.png\n" {
		t.Fatalf("file content = %q", data)
	}

	names, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"a.jpg", "b.png"}) {
		t.Fatalf("names = %v", names)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".done.txt")
	repo := NewLedgerRepository(path)

	if err := repo.Save(context.Background(), []string{"a.jpg", "b.png"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := repo.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected truncated ledger, got %q", data)
	}
}

func TestLoadToleratesCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".done.txt")
	if err := os.WriteFile(path, []byte("a.jpg\r\n\r\nb.png\r\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	names, err := NewLedgerRepository(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"a.jpg", "b.png"}) {
		t.Fatalf("names = %v", names)
	}
}
