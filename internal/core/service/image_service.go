package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

// ImageService deletes a gallery image from object storage and then removes
// its identifier from the gallery index. The object store does not know about
// the index, so the index removal is done here.
type ImageService struct {
	objects ports.ObjectStore
	gallery ports.GalleryService
	prefix  string
	log     zerolog.Logger
}

// NewImageService wires the service. objects may be nil when no object
// storage is configured; only the index entry is removed then.
func NewImageService(objects ports.ObjectStore, gallery ports.GalleryService, prefix string, log zerolog.Logger) *ImageService {
	return &ImageService{objects: objects, gallery: gallery, prefix: prefix, log: log}
}

func (s *ImageService) Delete(ctx context.Context, id string, actor domain.Role) error {
	if !actor.CanWrite() {
		return domain.ErrAuthorizationDenied
	}
	if err := domain.ValidateItemID(id); err != nil {
		return err
	}

	if s.objects == nil {
		s.log.Warn().Str("id", id).Msg("no object storage configured, removing index entry only")
	} else if err := s.objects.DeleteObject(ctx, s.prefix+id); err != nil {
		return fmt.Errorf("delete image %s: %w", id, err)
	}

	if err := s.gallery.Remove(ctx, id, actor); err != nil {
		return fmt.Errorf("delete image %s: %w", id, err)
	}
	return nil
}
