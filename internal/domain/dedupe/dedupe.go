// Package dedupe tracks parameter-set fingerprints so a self-check run can
// tell repeated cases apart from new ones.
package dedupe

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/cardiorisk/internal/domain/model"
)

// fingerprintSpace is the UUID namespace fingerprints are derived in.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("cardiorisk.parameters"))

// Fingerprint identifies a parameter set of a score independently of map
// order. Equal sets yield equal fingerprints.
func Fingerprint(score string, params model.Parameters) string {
	var b strings.Builder
	b.WriteString(score)
	for _, k := range params.Keys() {
		v := params[k]
		b.WriteByte(0)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v.Kind().String())
		b.WriteByte(':')
		b.WriteString(v.String())
	}
	return uuid.NewSHA1(fingerprintSpace, []byte(b.String())).String()
}

// Deduper records seen fingerprints.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// when it was not. The check and the insert are atomic.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a later SeenAndRecord treats it as new.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps fingerprints in a map. When bounded, insertion order
// is tracked in a ring and the oldest entry is evicted once the ring is full.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]uint64
	ring    []string
	next    uint64
	maxSize int
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]uint64)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		d.evictOldest()
		d.ring[d.next%uint64(d.maxSize)] = id
	}
	d.seen[id] = d.next
	d.next++
	return false
}

// evictOldest frees the ring slot about to be overwritten. An entry whose
// sequence no longer matches was unrecorded or re-recorded since and stays.
// Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if d.next < uint64(d.maxSize) {
		return
	}
	oldest := d.next - uint64(d.maxSize)
	id := d.ring[oldest%uint64(d.maxSize)]
	if seq, ok := d.seen[id]; ok && seq == oldest {
		delete(d.seen, id)
	}
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

// Size returns the number of fingerprints currently held.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
