package domain

// Key layout in the shared key-value store.
const (
	GalleryIndexKey      = "gallery:index"
	GalleryItemKeyPrefix = "gallery:item:"
	catalogKeyPrefix     = "catalog:"
)

// CatalogKey is the cache key for a language's full catalog.
func CatalogKey(lang Language) string { return catalogKeyPrefix + string(lang) }

// GalleryItemKey is the key holding one gallery item payload.
func GalleryItemKey(id string) string { return GalleryItemKeyPrefix + id }
