package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Reserved gallery item fields. They are managed by the server and override
// anything a client sends under the same name.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
)

var itemIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// GalleryItem is a gallery entry: a server-assigned identity plus an open set
// of client fields. It serialises as one flat JSON object.
type GalleryItem struct {
	ID        string
	CreatedAt time.Time
	Fields    map[string]any
}

// ValidateItemID reports whether id is usable as a gallery identifier.
func ValidateItemID(id string) error {
	if !itemIDPattern.MatchString(id) {
		return fmt.Errorf("%w: id %q must match %s", ErrInvalidItem, id, itemIDPattern)
	}
	return nil
}

// NewGalleryItem builds an item from a decoded client payload. The optional
// "id" field must be a string; "created_at" is ignored.
func NewGalleryItem(raw map[string]any) (GalleryItem, error) {
	if raw == nil {
		return GalleryItem{}, fmt.Errorf("%w: payload must be a JSON object", ErrInvalidItem)
	}

	item := GalleryItem{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case FieldID:
			id, ok := v.(string)
			if !ok {
				return GalleryItem{}, fmt.Errorf("%w: id must be a string", ErrInvalidItem)
			}
			if id != "" {
				if err := ValidateItemID(id); err != nil {
					return GalleryItem{}, err
				}
			}
			item.ID = id
		case FieldCreatedAt:
		default:
			item.Fields[k] = v
		}
	}
	return item, nil
}

func (g GalleryItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(g.Fields)+2)
	for k, v := range g.Fields {
		out[k] = v
	}
	out[FieldID] = g.ID
	if !g.CreatedAt.IsZero() {
		out[FieldCreatedAt] = g.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(out)
}

func (g *GalleryItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%w: payload must be a JSON object", ErrInvalidItem)
	}

	var ts time.Time
	if s, ok := raw[FieldCreatedAt].(string); ok {
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("%w: created_at: %v", ErrInvalidItem, err)
		}
		ts = parsed
	}

	item, err := NewGalleryItem(raw)
	if err != nil {
		return err
	}
	item.CreatedAt = ts
	*g = item
	return nil
}

// GalleryIndex is the ordered list of item identifiers, newest first.
type GalleryIndex []string

// Contains reports whether id is present.
func (ix GalleryIndex) Contains(id string) bool {
	for _, v := range ix {
		if v == id {
			return true
		}
	}
	return false
}

// Prepend returns the index with id at the front. An id already present is
// left where it is.
func (ix GalleryIndex) Prepend(id string) GalleryIndex {
	if ix.Contains(id) {
		return ix
	}
	out := make(GalleryIndex, 0, len(ix)+1)
	out = append(out, id)
	return append(out, ix...)
}

// Without returns the index with every occurrence of id removed.
func (ix GalleryIndex) Without(id string) GalleryIndex {
	out := make(GalleryIndex, 0, len(ix))
	for _, v := range ix {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Dedupe drops repeated identifiers, keeping the first occurrence.
func (ix GalleryIndex) Dedupe() GalleryIndex {
	seen := make(map[string]struct{}, len(ix))
	out := make(GalleryIndex, 0, len(ix))
	for _, v := range ix {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
