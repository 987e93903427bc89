package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

//go:embed snapshots
var embedded embed.FS

// EmbeddedSnapshots returns the snapshot export bundled with the binary.
func EmbeddedSnapshots() fs.FS {
	sub, err := fs.Sub(embedded, "snapshots")
	if err != nil {
		panic(err)
	}
	return sub
}

// SnapshotFS returns os.DirFS(dir), or the embedded export when dir is empty.
func SnapshotFS(dir string) fs.FS {
	if dir == "" {
		return EmbeddedSnapshots()
	}
	return os.DirFS(dir)
}

// SnapshotTier reads a pre-exported catalog per language: <lang>.json, or
// <lang>.yaml when no JSON file exists.
type SnapshotTier struct {
	fsys fs.FS
}

func NewSnapshotTier(fsys fs.FS) *SnapshotTier {
	return &SnapshotTier{fsys: fsys}
}

func (t *SnapshotTier) Name() string { return "snapshot" }

func (t *SnapshotTier) Load(ctx context.Context, lang domain.Language) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := t.read(string(lang)+".json", json.Unmarshal)
	if errors.Is(err, fs.ErrNotExist) {
		records, err = t.read(string(lang)+".yaml", yaml.Unmarshal)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrTierMiss
	}
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].Lang == "" {
			records[i].Lang = lang
		}
	}
	return records, nil
}

func (t *SnapshotTier) read(name string, decode func([]byte, any) error) ([]domain.Record, error) {
	b, err := fs.ReadFile(t.fsys, name)
	if err != nil {
		return nil, err
	}
	records := []domain.Record{}
	if err := decode(b, &records); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}
