package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"parish/internal/middleware"
	"parish/internal/models"
	"parish/internal/storage"

	"github.com/google/uuid"
)

// assetPrefix is the object-key prefix for content images, kept from the
// original storage layout.
const assetPrefix = "post-images"

// UploadAssetInput describes one uploaded file.
type UploadAssetInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadedAsset is the result of a successful upload.
type UploadedAsset struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// AssetService stores image assets in the object store and hands back
// public URLs plus storage paths for content records to reference.
type AssetService struct {
	store    storage.ObjectStore
	maxBytes int64
}

func NewAssetService(store storage.ObjectStore, maxBytes int64) *AssetService {
	return &AssetService{store: store, maxBytes: maxBytes}
}

// Upload validates the file and stores it under a collision-resistant key.
// Type and size are rejected before any storage round-trip.
func (s *AssetService) Upload(ctx context.Context, in UploadAssetInput) (*UploadedAsset, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, models.NewInvalidTypeError("Please upload an image file")
	}
	if int64(len(in.Content)) > s.maxBytes {
		return nil, models.NewTooLargeError(fmt.Sprintf("Image size should be less than %dMB", s.maxBytes/(1024*1024)))
	}

	key := s.objectKey(in.Filename)
	if err := s.store.Upload(ctx, key, in.Content, in.ContentType); err != nil {
		return nil, models.NewUploadFailedError(err)
	}

	return &UploadedAsset{
		URL:  s.store.PublicURL(key),
		Path: key,
	}, nil
}

// Remove deletes a stored asset best-effort. Failures are logged, never
// surfaced; cleanup here is at-most-once by contract.
func (s *AssetService) Remove(ctx context.Context, assetPath string) {
	if assetPath == "" {
		return
	}
	if err := s.store.Remove(ctx, assetPath); err != nil {
		middleware.Logger.WarnContext(ctx, "asset removal failed",
			slog.String("path", assetPath),
			slog.String("error", err.Error()),
		)
	}
}

// Replace uploads the new image, invokes swap so the caller can point its
// record at the fresh asset, and removes the old object only after the swap
// succeeded. A failed upload leaves everything untouched; a failed swap
// discards the fresh upload so no orphan is left behind.
func (s *AssetService) Replace(ctx context.Context, oldPath string, in UploadAssetInput, swap func(*UploadedAsset) error) (*UploadedAsset, error) {
	uploaded, err := s.Upload(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := swap(uploaded); err != nil {
		s.Discard(ctx, uploaded)
		return nil, err
	}
	if oldPath != "" && oldPath != uploaded.Path {
		s.Remove(ctx, oldPath)
	}
	return uploaded, nil
}

// Discard removes an asset that was uploaded but never attached to a
// content record, compensating for a failed reference swap.
func (s *AssetService) Discard(ctx context.Context, asset *UploadedAsset) {
	if asset == nil {
		return
	}
	s.Remove(ctx, asset.Path)
}

// objectKey builds a collision-resistant key: random token, millisecond
// timestamp, and the original extension.
func (s *AssetService) objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:13]
	return fmt.Sprintf("%s/%s_%d%s", assetPrefix, token, time.Now().UnixMilli(), ext)
}
