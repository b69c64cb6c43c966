package blocklist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesEmptyList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "blocked_users.json")
	store := NewFileStore(path)

	require.NoError(t, store.Ensure(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(storeFileMod), info.Mode().Perm())
}

func TestEnsureKeepsExistingList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blocked_users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"7":true}`), 0o600))

	store := NewFileStore(path)
	require.NoError(t, store.Ensure(context.Background()))

	blocked, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"7": true}, blocked)
}

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blocked_users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"7":true,"8":false}`), 0o600))
	store := NewFileStore(path)

	testCases := []struct {
		userID string
		want   bool
	}{
		{userID: "7", want: true},
		{userID: "8", want: false},
		{userID: "9", want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.userID, func(t *testing.T) {
			assert.Equal(t, tc.want, store.IsBlocked(context.Background(), tc.userID))
		})
	}
}

func TestIsBlockedMissingFileIsCreatedAndNotBlocked(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blocked_users.json")
	store := NewFileStore(path)

	assert.False(t, store.IsBlocked(context.Background(), "1"))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestIsBlockedCorruptFileIsNotBlocked(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blocked_users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"7": tru`), 0o600))
	store := NewFileStore(path)

	_, err := store.Read(context.Background())
	assert.ErrorContains(t, err, "decode block list")
	assert.False(t, store.IsBlocked(context.Background(), "7"))
}

func TestReadHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "blocked_users.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
