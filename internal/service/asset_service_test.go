package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"parish/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeStub is an in-memory storage.ObjectStore.
type storeStub struct {
	objects   map[string][]byte
	uploadErr error
	removeErr error
}

func newStoreStub() *storeStub {
	return &storeStub{objects: map[string][]byte{}}
}

func (s *storeStub) Upload(_ context.Context, key string, data []byte, _ string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.objects[key] = data
	return nil
}

func (s *storeStub) Remove(_ context.Context, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.objects, key)
	return nil
}

func (s *storeStub) PublicURL(key string) string {
	return "http://storage.test/content-image/" + key
}

func (s *storeStub) Healthy(_ context.Context) error { return nil }

const testMaxBytes = 5 * 1024 * 1024

func validUpload() UploadAssetInput {
	return UploadAssetInput{
		Filename:    "banner.JPG",
		ContentType: "image/jpeg",
		Content:     []byte("fake image bytes"),
	}
}

func TestAssetService_Upload(t *testing.T) {
	t.Parallel()

	t.Run("success stores under post-images with extension", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		svc := NewAssetService(store, testMaxBytes)

		uploaded, err := svc.Upload(context.Background(), validUpload())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(uploaded.Path, "post-images/"))
		assert.True(t, strings.HasSuffix(uploaded.Path, ".jpg"), "extension should be lowercased: %s", uploaded.Path)
		assert.Equal(t, store.PublicURL(uploaded.Path), uploaded.URL)
		assert.Contains(t, store.objects, uploaded.Path)
	})

	t.Run("empty file rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewAssetService(newStoreStub(), testMaxBytes)
		in := validUpload()
		in.Content = nil
		_, err := svc.Upload(context.Background(), in)
		assertValidationError(t, err)
	})

	t.Run("non-image type rejected before storage", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		svc := NewAssetService(store, testMaxBytes)
		in := validUpload()
		in.ContentType = "application/pdf"
		_, err := svc.Upload(context.Background(), in)
		assertAppErrorCode(t, err, models.CodeInvalidType)
		assert.Empty(t, store.objects)
	})

	t.Run("oversized file rejected before storage", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		svc := NewAssetService(store, testMaxBytes)
		in := validUpload()
		in.Content = bytes.Repeat([]byte("x"), testMaxBytes+1)
		_, err := svc.Upload(context.Background(), in)
		assertAppErrorCode(t, err, models.CodeTooLarge)
		assert.Empty(t, store.objects)
	})

	t.Run("store failure surfaces as upload error", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		store.uploadErr = errors.New("bucket unreachable")
		svc := NewAssetService(store, testMaxBytes)
		_, err := svc.Upload(context.Background(), validUpload())
		assertAppErrorCode(t, err, models.CodeUploadFailed)
	})
}

func TestAssetService_Upload_KeysAreUnique(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	svc := NewAssetService(store, testMaxBytes)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		uploaded, err := svc.Upload(context.Background(), validUpload())
		require.NoError(t, err)
		assert.False(t, seen[uploaded.Path], "duplicate key %s", uploaded.Path)
		seen[uploaded.Path] = true
	}
}

func TestAssetService_Remove_BestEffort(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	store.removeErr = errors.New("object store down")
	svc := NewAssetService(store, testMaxBytes)

	// Must not panic or surface the failure.
	svc.Remove(context.Background(), "post-images/gone.jpg")
	svc.Remove(context.Background(), "")
}

func TestAssetService_Replace(t *testing.T) {
	t.Parallel()

	keepSwap := func(*UploadedAsset) error { return nil }

	t.Run("removes old only after the swap committed", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		store.objects["post-images/old.jpg"] = []byte("old")
		svc := NewAssetService(store, testMaxBytes)

		uploaded, err := svc.Replace(context.Background(), "post-images/old.jpg", validUpload(), func(asset *UploadedAsset) error {
			// The old object must survive until the reference swap is done.
			assert.Contains(t, store.objects, "post-images/old.jpg")
			assert.Contains(t, store.objects, asset.Path)
			return nil
		})
		require.NoError(t, err)
		assert.Contains(t, store.objects, uploaded.Path)
		assert.NotContains(t, store.objects, "post-images/old.jpg")
	})

	t.Run("failed upload leaves old object untouched", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		store.objects["post-images/old.jpg"] = []byte("old")
		store.uploadErr = errors.New("bucket unreachable")
		svc := NewAssetService(store, testMaxBytes)

		swapped := false
		_, err := svc.Replace(context.Background(), "post-images/old.jpg", validUpload(), func(*UploadedAsset) error {
			swapped = true
			return nil
		})
		require.Error(t, err)
		assert.False(t, swapped)
		assert.Contains(t, store.objects, "post-images/old.jpg")
	})

	t.Run("failed swap discards the fresh upload and keeps old", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		store.objects["post-images/old.jpg"] = []byte("old")
		svc := NewAssetService(store, testMaxBytes)

		_, err := svc.Replace(context.Background(), "post-images/old.jpg", validUpload(), func(*UploadedAsset) error {
			return errors.New("record update failed")
		})
		require.Error(t, err)
		assert.Equal(t, map[string][]byte{"post-images/old.jpg": []byte("old")}, store.objects)
	})

	t.Run("no old path removes nothing", func(t *testing.T) {
		t.Parallel()
		store := newStoreStub()
		svc := NewAssetService(store, testMaxBytes)

		uploaded, err := svc.Replace(context.Background(), "", validUpload(), keepSwap)
		require.NoError(t, err)
		assert.Len(t, store.objects, 1)
		assert.Contains(t, store.objects, uploaded.Path)
	})
}

func TestAssetService_Discard(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	svc := NewAssetService(store, testMaxBytes)

	uploaded, err := svc.Upload(context.Background(), validUpload())
	require.NoError(t, err)

	svc.Discard(context.Background(), uploaded)
	assert.NotContains(t, store.objects, uploaded.Path)

	svc.Discard(context.Background(), nil)
}
