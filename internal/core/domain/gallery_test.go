package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGalleryItem_ReservedFields(t *testing.T) {
	item, err := NewGalleryItem(map[string]any{
		"id":         "sunset-01",
		"created_at": "ignored",
		"title":      "Sunset",
	})
	require.NoError(t, err)
	assert.Equal(t, "sunset-01", item.ID)
	assert.Equal(t, map[string]any{"title": "Sunset"}, item.Fields)
}

func TestNewGalleryItem_Rejects(t *testing.T) {
	cases := map[string]map[string]any{
		"nil payload":   nil,
		"numeric id":    {"id": 42},
		"id with colon": {"id": "a:b"},
		"id with slash": {"id": "../etc"},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewGalleryItem(raw)
			assert.True(t, errors.Is(err, ErrInvalidItem), "got %v", err)
		})
	}
}

func TestGalleryItem_JSONIsFlat(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	item := GalleryItem{ID: "x1", CreatedAt: ts, Fields: map[string]any{"id": "spoofed", "url": "https://cdn/x1.jpg"}}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "x1", flat["id"])
	assert.Equal(t, "https://cdn/x1.jpg", flat["url"])
	assert.Equal(t, "2026-01-02T03:04:05Z", flat["created_at"])

	var back GalleryItem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "x1", back.ID)
	assert.True(t, back.CreatedAt.Equal(ts))
	assert.Equal(t, "https://cdn/x1.jpg", back.Fields["url"])
}

func TestGalleryIndex_Operations(t *testing.T) {
	ix := GalleryIndex{"b", "a"}

	assert.Equal(t, GalleryIndex{"c", "b", "a"}, ix.Prepend("c"))
	assert.Equal(t, GalleryIndex{"b", "a"}, ix.Prepend("a"), "existing id must not be duplicated")
	assert.Equal(t, GalleryIndex{"a"}, ix.Without("b"))
	assert.Equal(t, GalleryIndex{"b", "a"}, ix.Without("zzz"))
	assert.Equal(t, GalleryIndex{"a", "b"}, GalleryIndex{"a", "b", "a", "b"}.Dedupe())
}

func TestLanguageSet(t *testing.T) {
	set := NewLanguageSet("en", " ES ", "en", "")

	assert.Equal(t, []Language{"en", "es"}, set.All())

	l, err := set.Parse("Es")
	require.NoError(t, err)
	assert.Equal(t, Language("es"), l)

	_, err = set.Parse("xx")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)
	assert.True(t, r.CanWrite())

	_, ok = ParseRole("guest")
	assert.False(t, ok)
	assert.False(t, Role("guest").CanWrite())
}
