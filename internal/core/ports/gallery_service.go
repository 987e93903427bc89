package ports

import (
	"context"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

// AuditReport describes how the gallery index and the stored items disagree.
type AuditReport struct {
	Indexed    int      `json:"indexed"`
	Stored     int      `json:"stored"`
	Orphans    []string `json:"orphans"`    // stored items missing from the index
	Dangling   []string `json:"dangling"`   // index entries without an item
	Duplicates []string `json:"duplicates"` // ids listed more than once
	Repaired   bool     `json:"repaired"`
}

// Clean reports whether the index and the items agree.
func (r *AuditReport) Clean() bool {
	return len(r.Orphans) == 0 && len(r.Dangling) == 0 && len(r.Duplicates) == 0
}

// GalleryService maintains gallery items and their newest-first index.
type GalleryService interface {
	Add(ctx context.Context, item domain.GalleryItem, actor domain.Role) (string, error)
	Remove(ctx context.Context, id string, actor domain.Role) error
	Get(ctx context.Context, id string) (*domain.GalleryItem, error)
	List(ctx context.Context, offset, limit int) ([]domain.GalleryItem, int, error)
	Audit(ctx context.Context, repair bool) (*AuditReport, error)
}

// ObjectStore is the external object storage that holds gallery images.
type ObjectStore interface {
	DeleteObject(ctx context.Context, key string) error
}

// ImageService removes a gallery image and its index entry.
type ImageService interface {
	Delete(ctx context.Context, id string, actor domain.Role) error
}
