package tokenstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepositoryRoundTrip(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "tokens.json"))

	require.NoError(t, repo.SetTokens(ctx, "a1", "r1"))

	accessToken, err := repo.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", accessToken)
	refreshToken, err := repo.GetRefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", refreshToken)
}

func TestFileRepositoryMissingFile(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "tokens.json"))

	accessToken, err := repo.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, accessToken)

	require.NoError(t, repo.ClearTokens(ctx))
}

func TestFileRepositoryOverwrite(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, repo.SetTokens(ctx, "a1", "r1"))

	require.NoError(t, repo.SetTokens(ctx, "a2", "r1"))

	accessToken, err := repo.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", accessToken)
}

func TestFileRepositoryPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "tokens.json")
	repo := NewFileRepository(path)
	require.NoError(t, repo.SetTokens(ctx, "a1", "r1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	repo := NewFileRepository(path)

	accessToken, err := repo.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, accessToken)
}
