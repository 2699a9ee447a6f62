package local

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGet(t *testing.T) {
	s, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Save(ctx, "sess-1", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "sess-1_"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	r, mimeType, err := s.Get(ctx, key)
	require.NoError(t, err)
	defer func() { require.NoError(t, r.Close()) }()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Equal(t, "image/jpeg", mimeType)
}

func TestSavePNGExtension(t *testing.T) {
	s, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	key, err := s.Save(context.Background(), "sess-1", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))

	r, mimeType, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "image/png", mimeType)
}

func TestGetUnknownKey(t *testing.T) {
	s, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = s.Get(context.Background(), "missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDelete(t *testing.T) {
	s, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Save(ctx, "sess-1", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, key))

	_, _, err = s.Get(ctx, key)
	assert.Error(t, err)
}

func TestTraversalRejected(t *testing.T) {
	s, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../outside.jpg", "../../etc/passwd", "/etc/passwd"} {
		_, _, err := s.Get(context.Background(), key)
		require.Error(t, err, "key %q must be rejected", key)
	}
}
