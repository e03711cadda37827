package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheeltrade/backend/internal/infrastructure/config"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "wheeltrade-files",
			SecretAccessKey: "test-secret",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:      "wheeltrade-files",
			AccessKeyID: "test-key",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "wheeltrade-files",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			Region:          "ap-south-1",
			Endpoint:        "http://localhost:9000",
			UsePathStyle:    true,
			PresignExpiry:   20 * time.Minute,
		}
		store, err := NewS3ObjectStorage(cfg, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		require.NotNil(t, store)
		assert.Equal(t, "wheeltrade-files", store.GetBucket())
		assert.Equal(t, 20*time.Minute, store.presignExpiration)
	})

	t.Run("empty endpoint targets AWS", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "wheeltrade-files",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		store, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, store)
		assert.Equal(t, 15*time.Minute, store.presignExpiration)
	})

	t.Run("adds https prefix when scheme missing", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "wheeltrade-files",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			Endpoint:        "minio.internal:9000",
		}
		store, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, store)
	})
}

func TestS3ObjectStorage_PresignedURLs(t *testing.T) {
	cfg := &config.StorageConfig{
		Bucket:          "wheeltrade-files",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
		PresignExpiry:   15 * time.Minute,
	}
	store, err := NewS3ObjectStorage(cfg)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("upload URL contains bucket and key", func(t *testing.T) {
		url, expiresAt, err := store.GenerateUploadURL(ctx, "deals/DL-2026-00001/receipt.pdf", "application/pdf", 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.Contains(url, "wheeltrade-files"))
		assert.True(t, strings.Contains(url, "receipt.pdf"))
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("download URL uses default expiry when zero", func(t *testing.T) {
		url, expiresAt, err := store.GenerateDownloadURL(ctx, "vehicles/photos/front.jpg", 0)
		require.NoError(t, err)
		assert.True(t, strings.Contains(url, "front.jpg"))
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, _, err := store.GenerateUploadURL(ctx, "", "application/pdf", time.Minute)
		require.Error(t, err)

		_, _, err = store.GenerateDownloadURL(ctx, "", time.Minute)
		require.Error(t, err)

		require.Error(t, store.DeleteObject(ctx, ""))

		_, err = store.ObjectExists(ctx, "")
		require.Error(t, err)

		require.Error(t, store.Upload(ctx, "", []byte("x"), "text/plain"))
	})
}
