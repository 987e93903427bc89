package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

type stubObjectStore struct {
	deleted []string
	err     error
}

func (s *stubObjectStore) DeleteObject(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func TestImageService_Delete_RemovesObjectAndIndexEntry(t *testing.T) {
	store := newMemStore()
	gallery := newGallerySvc(store, GalleryOptions{})
	if _, err := gallery.Add(context.Background(), item("pic-1", nil), domain.RoleAdmin); err != nil {
		t.Fatalf("Add: %v", err)
	}
	objects := &stubObjectStore{}
	svc := NewImageService(objects, gallery, "gallery/", zerolog.Nop())

	if err := svc.Delete(context.Background(), "pic-1", domain.RoleAdmin); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(objects.deleted) != 1 || objects.deleted[0] != "gallery/pic-1" {
		t.Fatalf("unexpected object deletions: %v", objects.deleted)
	}
	if ix := readIndex(t, store); len(ix) != 0 {
		t.Fatalf("index must no longer list the image, got %v", ix)
	}
}

func TestImageService_Delete_RequiresRole(t *testing.T) {
	objects := &stubObjectStore{}
	svc := NewImageService(objects, newGallerySvc(newMemStore(), GalleryOptions{}), "", zerolog.Nop())

	if err := svc.Delete(context.Background(), "pic-1", domain.Role("")); !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
	if len(objects.deleted) != 0 {
		t.Fatalf("unauthorized delete must not touch object storage")
	}
}

func TestImageService_Delete_ObjectStoreFailureKeepsIndex(t *testing.T) {
	store := newMemStore()
	gallery := newGallerySvc(store, GalleryOptions{})
	if _, err := gallery.Add(context.Background(), item("pic-1", nil), domain.RoleAdmin); err != nil {
		t.Fatalf("Add: %v", err)
	}
	svc := NewImageService(&stubObjectStore{err: errors.New("s3 unavailable")}, gallery, "", zerolog.Nop())

	if err := svc.Delete(context.Background(), "pic-1", domain.RoleOwner); err == nil {
		t.Fatalf("expected error")
	}
	if ix := readIndex(t, store); len(ix) != 1 {
		t.Fatalf("index must be untouched when the object delete fails, got %v", ix)
	}
}

func TestImageService_Delete_WithoutObjectStore(t *testing.T) {
	store := newMemStore()
	gallery := newGallerySvc(store, GalleryOptions{})
	if _, err := gallery.Add(context.Background(), item("pic-1", nil), domain.RoleAdmin); err != nil {
		t.Fatalf("Add: %v", err)
	}
	svc := NewImageService(nil, gallery, "", zerolog.Nop())

	if err := svc.Delete(context.Background(), "pic-1", domain.RoleAdmin); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ix := readIndex(t, store); len(ix) != 0 {
		t.Fatalf("expected empty index, got %v", ix)
	}
}
