package blob

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Signed URL verification errors.
var (
	ErrURLExpired   = errors.New("signed url expired")
	ErrBadSignature = errors.New("signed url signature mismatch")
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps blobs in process memory and serves them through
// HMAC-signed URLs under {baseURL}/blobs/{key}. Used for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	secret  []byte
	baseURL string
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(baseURL, secret string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		secret:  []byte(secret),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}
}

// Put stores a copy of data under key.
func (m *MemoryStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.objects[key] = memoryObject{data: cp, contentType: contentType}
	m.mu.Unlock()
	return nil
}

// Delete removes key. A missing key is not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Get returns the stored bytes and content type for key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, "", ErrNotFound
	}
	return obj.data, obj.contentType, nil
}

// Len returns the number of stored blobs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// SignedReadURL returns a URL for key that Handler accepts until ttl elapses.
func (m *MemoryStore) SignedReadURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("sign %s: ttl must be positive", key)
	}
	expires := m.now().Add(ttl).Unix()

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", m.sign(key, expires))

	return m.baseURL + "/blobs/" + url.PathEscape(key) + "?" + q.Encode(), nil
}

// Verify checks the expiry and signature carried by a signed URL.
func (m *MemoryStore) Verify(key, expiresParam, sig string) error {
	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(key, expires))) {
		return ErrBadSignature
	}
	if m.now().Unix() > expires {
		return ErrURLExpired
	}
	return nil
}

func (m *MemoryStore) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(key))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Handler serves GET /blobs/{key} for URLs produced by SignedReadURL.
// Keys not shaped like NewKey output are rejected before the signature check.
func (m *MemoryStore) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if !ValidKey(key) {
			http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
			return
		}
		q := r.URL.Query()

		if err := m.Verify(key, q.Get("expires"), q.Get("sig")); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}

		data, contentType, err := m.Get(r.Context(), key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "private, max-age=0")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
