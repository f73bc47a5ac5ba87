package filesystem

import (
	"io/fs"
	"path"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files.
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return false }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// MemoryFileSystem implements Provider backed by an in-memory map.
// Safe for concurrent use by multiple goroutines.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]memoryFile
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string]memoryFile),
	}
}

func (p *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	f, ok := p.files[filePath]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrNotExist}
	}
	// Return a copy so callers cannot mutate stored content.
	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out, nil
}

func (p *MemoryFileSystem) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	p.files[filePath] = memoryFile{
		content: stored,
		mode:    perm,
		modTime: time.Now(),
	}
	return nil
}

func (p *MemoryFileSystem) Stat(filePath string) (FileInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	f, ok := p.files[filePath]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
	}
	return &memoryFileInfo{
		name:    path.Base(filePath),
		size:    int64(len(f.content)),
		mode:    f.mode,
		modTime: f.modTime,
	}, nil
}

// Verify MemoryFileSystem implements the Provider interface at compile time
var _ Provider = (*MemoryFileSystem)(nil)
