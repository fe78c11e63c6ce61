package schemagate

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// Registry owns the mapping from schema ID to schema record. It reconciles an
// in-process cache with an optional durable Store: writes go to the store
// first when one is configured, but a store failure never fails the
// operation — the registry degrades to cache-only and logs the fault.
//
// A single Registry instance is constructed at startup and shared by every
// request handler. The cache is guarded by a RWMutex and the ID counter is
// atomic; there is no lock spanning both, so two concurrent Save calls with
// the same explicit custom ID can interleave with the existence check.
type Registry struct {
	mu    sync.RWMutex
	cache map[int64]SchemaRecord

	// counter holds the next auto-allocated ID.
	counter atomic.Int64

	store Store // nil when no durable store is configured
	log   *slog.Logger
}

// NewRegistry builds a registry backed by the given store. store may be nil
// for cache-only operation; logger may be nil to use slog.Default.
func NewRegistry(store Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		cache: make(map[int64]SchemaRecord),
		store: store,
		log:   logger,
	}
	r.counter.Store(1)
	return r
}

// StoreAvailable reports whether a durable store is configured.
func (r *Registry) StoreAvailable() bool { return r.store != nil }

// LoadFromStore hydrates the cache from the durable store and seeds the ID
// counter past the highest stored ID. The cache is replaced wholesale. Rows
// whose schema text no longer parses are skipped and logged.
func (r *Registry) LoadFromStore(ctx context.Context) error {
	if r.store == nil {
		r.log.Info("durable store not configured, using in-process cache only")
		return nil
	}
	rows, err := r.store.FindAllOrderedByID(ctx)
	if err != nil {
		return err
	}

	fresh := make(map[int64]SchemaRecord, len(rows))
	for _, row := range rows {
		schema, err := DecodeValue([]byte(row.Schema))
		if err != nil {
			r.log.Warn("skipping stored schema with unparseable body", "id", row.ID, "error", err)
			continue
		}
		fresh[row.ID] = SchemaRecord{ID: row.ID, Name: row.Name, Schema: schema, UploadedAt: time.Now()}
	}

	r.mu.Lock()
	r.cache = fresh
	r.mu.Unlock()

	if maxID, ok, err := r.store.MaxID(ctx); err != nil {
		r.log.Warn("reading max stored id failed, keeping current counter", "error", err)
	} else if ok {
		r.seedCounter(maxID + 1)
		r.log.Info("loaded schemas from durable store", "count", len(fresh), "nextID", r.counter.Load())
	} else {
		r.log.Info("durable store empty, starting with ID 1")
	}
	return nil
}

// Save registers a new schema under name. When customID is nil the next
// counter value is allocated; otherwise the given ID is claimed after
// checking the cache and then the durable store for a collision, and the
// counter is advanced past it so auto-allocated IDs never collide with
// explicitly chosen ones. The durable write happens before the cache insert;
// its failure is logged and swallowed.
func (r *Registry) Save(ctx context.Context, name string, schema Value, customID *int64) (int64, error) {
	var id int64
	if customID != nil {
		id = *customID
		r.mu.RLock()
		_, inCache := r.cache[id]
		r.mu.RUnlock()
		if inCache {
			return 0, &IDInUseError{ID: id}
		}
		if r.store != nil {
			exists, err := r.store.ExistsByID(ctx, id)
			if err != nil {
				r.log.Warn("existence check against durable store failed", "id", id, "error", err)
			} else if exists {
				return 0, &IDInUseError{ID: id}
			}
		}
		r.seedCounter(id + 1)
	} else {
		id = r.counter.Add(1) - 1
	}

	rec := SchemaRecord{ID: id, Name: name, Schema: schema, UploadedAt: time.Now()}
	if r.store != nil {
		if err := r.store.Save(ctx, r.toRow(rec)); err != nil {
			r.log.Warn("durable save failed, schema kept in cache only", "id", id, "error", err)
		}
	}

	r.mu.Lock()
	r.cache[id] = rec
	r.mu.Unlock()
	return id, nil
}

// Update replaces the schema body of an existing record. Name, ID, and
// UploadedAt are untouched. Existence is decided by the cache alone — an ID
// that lives only in the durable store reports false here even though Exists
// would report true. The write-through to the store is best-effort.
func (r *Registry) Update(ctx context.Context, id int64, schema Value) bool {
	r.mu.RLock()
	rec, ok := r.cache[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	rec.Schema = schema
	if r.store != nil {
		if err := r.store.Save(ctx, r.toRow(rec)); err != nil {
			r.log.Warn("durable update failed, schema updated in cache only", "id", id, "error", err)
		}
	}

	r.mu.Lock()
	r.cache[id] = rec
	r.mu.Unlock()
	return true
}

// Exists reports whether id is present in the cache or, failing that, the
// durable store.
func (r *Registry) Exists(ctx context.Context, id int64) bool {
	r.mu.RLock()
	_, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return true
	}
	if r.store == nil {
		return false
	}
	exists, err := r.store.ExistsByID(ctx, id)
	if err != nil {
		r.log.Warn("existence check against durable store failed", "id", id, "error", err)
		return false
	}
	return exists
}

// Delete removes id from the durable store and the cache. The return value
// reflects the cache only: true iff the cache held the ID before removal.
func (r *Registry) Delete(ctx context.Context, id int64) bool {
	if r.store != nil {
		if err := r.store.DeleteByID(ctx, id); err != nil {
			r.log.Warn("durable delete failed", "id", id, "error", err)
		}
	}

	r.mu.Lock()
	_, ok := r.cache[id]
	delete(r.cache, id)
	r.mu.Unlock()
	return ok
}

// Get returns the record for id. A cache miss triggers a read-through from
// the durable store, materializing the row into the cache on success.
func (r *Registry) Get(ctx context.Context, id int64) (SchemaRecord, bool) {
	r.mu.RLock()
	rec, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return rec, true
	}
	if r.store == nil {
		return SchemaRecord{}, false
	}

	row, err := r.store.FindByID(ctx, id)
	if err != nil {
		r.log.Warn("durable lookup failed", "id", id, "error", err)
		return SchemaRecord{}, false
	}
	if row == nil {
		return SchemaRecord{}, false
	}
	schema, err := DecodeValue([]byte(row.Schema))
	if err != nil {
		r.log.Warn("stored schema body does not parse", "id", id, "error", err)
		return SchemaRecord{}, false
	}

	rec = SchemaRecord{ID: row.ID, Name: row.Name, Schema: schema, UploadedAt: time.Now()}
	r.mu.Lock()
	r.cache[id] = rec
	r.mu.Unlock()
	return rec, true
}

// ListAll returns every cached record with full content, ordered by ID.
func (r *Registry) ListAll() []SchemaRecord {
	r.mu.RLock()
	out := make([]SchemaRecord, 0, len(r.cache))
	for _, rec := range r.cache {
		out = append(out, rec)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListMetadata returns schema metadata without bodies. When a durable store
// is configured its ID-ordered listing is preferred; the cache is consulted
// only when the store listing is empty or fails. A reachable but partially
// populated store therefore hides cache-only records from this listing.
func (r *Registry) ListMetadata(ctx context.Context) []SchemaMetadata {
	var out []SchemaMetadata
	if r.store != nil {
		rows, err := r.store.FindAllOrderedByID(ctx)
		if err != nil {
			r.log.Warn("metadata listing from durable store failed, using cache", "error", err)
		} else {
			for _, row := range rows {
				out = append(out, SchemaMetadata{
					ID:          row.ID,
					Name:        row.Name,
					Description: row.Description,
					UploadedAt:  row.ChangedAt,
				})
			}
		}
	}
	if len(out) > 0 {
		return out
	}

	r.mu.RLock()
	out = make([]SchemaMetadata, 0, len(r.cache))
	for _, rec := range r.cache {
		out = append(out, SchemaMetadata{ID: rec.ID, Name: rec.Name, UploadedAt: rec.UploadedAt})
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the size of the in-process cache, not the durable store.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// seedCounter raises the counter to at least next via a CAS loop so each
// auto-allocated value is still handed to exactly one caller.
func (r *Registry) seedCounter(next int64) {
	for {
		cur := r.counter.Load()
		if next <= cur {
			return
		}
		if r.counter.CompareAndSwap(cur, next) {
			return
		}
	}
}

func (r *Registry) toRow(rec SchemaRecord) StoredSchema {
	body, err := json.Marshal(rec.Schema)
	if err != nil {
		// Value marshaling only fails on invalid string payloads; fall back
		// to null so the row stays writable.
		r.log.Warn("serializing schema body failed", "id", rec.ID, "error", err)
		body = []byte("null")
	}
	return StoredSchema{
		ID:          rec.ID,
		Name:        rec.Name,
		Schema:      string(body),
		Description: "Schema: " + rec.Name,
		ChangedAt:   time.Now(),
	}
}
