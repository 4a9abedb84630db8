package fakes

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/0xHy0kR1/LF-backend/internal/blob"
)

// Blobs wraps blob.MemoryStore with call recording and failure injection.
type Blobs struct {
	*blob.MemoryStore

	mu      sync.Mutex
	puts    []string
	deletes []string
	signs   int

	PutErr    error
	DeleteErr error
	SignErr   error
}

// NewBlobs creates an empty Blobs store.
func NewBlobs() *Blobs {
	return &Blobs{MemoryStore: blob.NewMemoryStore("http://blobs.test", "test-secret")}
}

// Put records the key and stores data unless PutErr is set.
func (b *Blobs) Put(ctx context.Context, key string, data []byte, contentType string) error {
	b.mu.Lock()
	b.puts = append(b.puts, key)
	err := b.PutErr
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return b.MemoryStore.Put(ctx, key, data, contentType)
}

// Delete records the key and deletes it unless DeleteErr is set.
func (b *Blobs) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	b.deletes = append(b.deletes, key)
	err := b.DeleteErr
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return b.MemoryStore.Delete(ctx, key)
}

// SignedReadURL counts calls and signs unless SignErr is set.
func (b *Blobs) SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	b.mu.Lock()
	b.signs++
	err := b.SignErr
	b.mu.Unlock()
	if err != nil {
		return "", err
	}
	return b.MemoryStore.SignedReadURL(ctx, key, ttl)
}

// Puts returns keys passed to Put.
func (b *Blobs) Puts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.puts...)
}

// Deletes returns keys passed to Delete.
func (b *Blobs) Deletes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deletes...)
}

// Signs returns the number of SignedReadURL calls.
func (b *Blobs) Signs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signs
}

// Has reports whether key is stored.
func (b *Blobs) Has(key string) bool {
	_, _, err := b.MemoryStore.Get(context.Background(), key)
	return err == nil
}

// KeyFromURL extracts the blob key from a URL produced by SignedReadURL.
func KeyFromURL(u string) string {
	i := strings.Index(u, "/blobs/")
	if i < 0 {
		return ""
	}
	rest := u[i+len("/blobs/"):]
	if j := strings.IndexByte(rest, '?'); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
