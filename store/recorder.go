package store

// Op is a write that reached a recorded store.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// ShowOpser returns the writes recorded so far, oldest first.
type ShowOpser interface {
	ShowOps() []Op
}

// recorder is an in-memory store remembering every write it received.
type recorder struct {
	*Cache
	ops []Op
}

// LogableStore returns an in-memory store along with a view of the writes
// that reached it. Writes of a savepoint are recorded once it is written.
func LogableStore() (CacheableKVStore, ShowOpser) {
	r := &recorder{Cache: NewCache(nil)}
	return r, r
}

func (r *recorder) Set(key, value []byte) error {
	r.ops = append(r.ops, Op{Key: key, Value: value})
	return r.Cache.Set(key, value)
}

func (r *recorder) Delete(key []byte) error {
	r.ops = append(r.ops, Op{Key: key, Delete: true})
	return r.Cache.Delete(key)
}

func (r *recorder) CacheWrap() KVCacheWrap {
	return NewCache(r)
}

func (r *recorder) ShowOps() []Op {
	return r.ops
}
