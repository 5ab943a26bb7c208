package tokenstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/admin-copilot/copilot-go/internal/models"
)

// FileRepository persists the token pair as a JSON file readable only by the
// owning user. Writes go through a temporary file and a rename so a crash
// mid-write never leaves a torn pair behind.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (f *FileRepository) read() (models.TokenPair, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.TokenPair{}, nil
		}
		return models.TokenPair{}, err
	}
	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		// An unreadable token file is the same as no tokens
		return models.TokenPair{}, nil
	}
	return pair, nil
}

func (f *FileRepository) write(pair models.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileRepository) GetAccessToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pair, err := f.read()
	if err != nil {
		return "", err
	}
	return pair.Access, nil
}

func (f *FileRepository) GetRefreshToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pair, err := f.read()
	if err != nil {
		return "", err
	}
	return pair.Refresh, nil
}

func (f *FileRepository) SetTokens(ctx context.Context, accessToken string, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(models.TokenPair{Access: accessToken, Refresh: refreshToken})
}

func (f *FileRepository) ClearTokens(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
