package fakes

import (
	"context"
	"sort"
	"sync"
)

// Orphans is an in-memory orphan queue.
type Orphans struct {
	mu        sync.Mutex
	keys      map[string]struct{}
	RecordErr error
}

// NewOrphans creates an empty queue.
func NewOrphans() *Orphans {
	return &Orphans{keys: make(map[string]struct{})}
}

// RecordOrphan implements service.OrphanQueue.
func (o *Orphans) RecordOrphan(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.RecordErr != nil {
		return o.RecordErr
	}
	o.keys[key] = struct{}{}
	return nil
}

// PopOrphans implements service.OrphanQueue.
func (o *Orphans) PopOrphans(_ context.Context, n int64) ([]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []string
	for k := range o.keys {
		if int64(len(out)) >= n {
			break
		}
		out = append(out, k)
	}
	for _, k := range out {
		delete(o.keys, k)
	}
	return out, nil
}

// CountOrphans implements service.OrphanQueue.
func (o *Orphans) CountOrphans(_ context.Context) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return int64(len(o.keys)), nil
}

// Keys returns queued keys in sorted order.
func (o *Orphans) Keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, 0, len(o.keys))
	for k := range o.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resizer is a stand-in image transform that tags the bytes it was given.
type Resizer struct {
	Err   error
	Calls int
}

// Resize implements service.ImageResizer.
func (r *Resizer) Resize(data []byte) ([]byte, string, error) {
	r.Calls++
	if r.Err != nil {
		return nil, "", r.Err
	}
	return append([]byte("resized:"), data...), "image/jpeg", nil
}
