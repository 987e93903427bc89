package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

// SourceTier reads the canonical catalog spreadsheet exported as CSV. One row
// per item; text columns carry a _<lang> suffix, with un-suffixed columns used
// as the fallback.
type SourceTier struct {
	path string
}

func NewSourceTier(path string) *SourceTier {
	return &SourceTier{path: path}
}

func (t *SourceTier) Name() string { return "source" }

func (t *SourceTier) Load(ctx context.Context, lang domain.Language) ([]domain.Record, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read source header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, errors.New("source has no id column")
	}

	text := func(row []string, field string) string {
		if v := cell(row, cols, field+"_"+string(lang)); v != "" {
			return v
		}
		return cell(row, cols, field)
	}

	records := []domain.Record{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}

		id := cell(row, cols, "id")
		if id == "" {
			continue
		}
		rec := domain.Record{
			ID:          id,
			Lang:        lang,
			Name:        text(row, "name"),
			Author:      cell(row, cols, "author"),
			Category:    text(row, "category"),
			Description: text(row, "description"),
			MediaURL:    cell(row, cols, "media_url"),
		}
		if rec.Name == "" && rec.Description == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
