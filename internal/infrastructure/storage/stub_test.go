package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()
	store := NewStubObjectStorage()

	t.Run("upload URL marks object present", func(t *testing.T) {
		url, expiresAt, err := store.GenerateUploadURL(ctx, "deals/DL-2026-00007/rc-book.pdf", "application/pdf", 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, store.BaseURL+"/upload/"))
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

		exists, err := store.ObjectExists(ctx, "deals/DL-2026-00007/rc-book.pdf")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("unknown object does not exist", func(t *testing.T) {
		exists, err := store.ObjectExists(ctx, "deals/DL-2026-00099/missing.pdf")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("direct upload then delete", func(t *testing.T) {
		require.NoError(t, store.Upload(ctx, "receipts/PAY-2026-00001.pdf", []byte("%PDF-1.7"), "application/pdf"))

		exists, err := store.ObjectExists(ctx, "receipts/PAY-2026-00001.pdf")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, store.DeleteObject(ctx, "receipts/PAY-2026-00001.pdf"))

		exists, err = store.ObjectExists(ctx, "receipts/PAY-2026-00001.pdf")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("download URL for existing object", func(t *testing.T) {
		url, _, err := store.GenerateDownloadURL(ctx, "deals/DL-2026-00007/rc-book.pdf", 5*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, store.BaseURL+"/download/"))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, _, err := store.GenerateUploadURL(ctx, "", "application/pdf", time.Minute)
		require.Error(t, err)
	})
}
