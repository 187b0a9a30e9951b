package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Validate(ctx context.Context, req ValidateRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockManager) WatchValidation(ctx context.Context, req ValidateRequest, readyChan chan<- struct{}) error {
	args := m.Called(ctx, req, readyChan)
	return args.Error(0)
}

func (m *MockManager) CheckSchema(ctx context.Context, req CheckRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockManager) ListDialects(ctx context.Context, format string) error {
	args := m.Called(ctx, format)
	return args.Error(0)
}

// syncBuffer is a bytes.Buffer safe for the watcher's callback goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// writeFiles creates files below dir, returning dir.
func writeFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

const personSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer", "minimum": 0},
    "country": {"type": "string", "default": "GB"}
  }
}`
