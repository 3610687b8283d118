package file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	repoLedger "image-watermarker/internal/repository/ledger"
)

// LedgerRepository keeps the ledger as a plain text file with one name per
// newline-terminated line.
type LedgerRepository struct {
	path string
}

func NewLedgerRepository(path string) *LedgerRepository {
	return &LedgerRepository{path: path}
}

func (r *LedgerRepository) Path() string {
	return r.path
}

// Load returns the recorded names. A missing file is an empty ledger.
func (r *LedgerRepository) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repoLedger.ErrLedgerRead, r.path, err)
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repoLedger.ErrLedgerRead, r.path, err)
	}

	return names, nil
}

// Save replaces the file through a temp file and rename so readers see
// either the old or the new snapshot.
func (r *LedgerRepository) Save(ctx context.Context, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: ensure directory: %v", repoLedger.ErrLedgerWrite, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", repoLedger.ErrLedgerWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	for _, name := range names {
		if _, err := w.WriteString(name + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: %v", repoLedger.ErrLedgerWrite, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", repoLedger.ErrLedgerWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", repoLedger.ErrLedgerWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", repoLedger.ErrLedgerWrite, err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("%w: rename: %v", repoLedger.ErrLedgerWrite, err)
	}

	return nil
}
