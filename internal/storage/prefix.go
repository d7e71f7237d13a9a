package storage

// PrefixDB wraps a DB and prepends a fixed prefix to all keys.
// The keystore keeps wallet records and metadata in separate namespaces of
// one underlying database this way.
type PrefixDB struct {
	inner  DB
	prefix []byte
}

// NewPrefixDB creates a new PrefixDB wrapping inner with the given prefix.
func NewPrefixDB(inner DB, prefix []byte) *PrefixDB {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &PrefixDB{inner: inner, prefix: p}
}

// prefixed returns key with the prefix prepended.
func (p *PrefixDB) prefixed(key []byte) []byte {
	out := make([]byte, len(p.prefix)+len(key))
	copy(out, p.prefix)
	copy(out[len(p.prefix):], key)
	return out
}

// Get retrieves a value by key.
func (p *PrefixDB) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.prefixed(key))
}

// Put stores a key-value pair.
func (p *PrefixDB) Put(key, value []byte) error {
	return p.inner.Put(p.prefixed(key), value)
}

// Delete removes a key.
func (p *PrefixDB) Delete(key []byte) error {
	return p.inner.Delete(p.prefixed(key))
}

// Has checks if a key exists.
func (p *PrefixDB) Has(key []byte) (bool, error) {
	return p.inner.Has(p.prefixed(key))
}

// ForEach iterates over keys with the given prefix inside the namespace.
// Keys passed to fn have the namespace prefix stripped.
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	fullPrefix := p.prefixed(prefix)
	return p.inner.ForEach(fullPrefix, func(key, value []byte) error {
		stripped := key[len(p.prefix):]
		return fn(stripped, value)
	})
}

// DeleteAll removes every key in the namespace and returns how many were
// removed. Keys are collected before deleting, so the inner DB is not
// modified mid-iteration.
func (p *PrefixDB) DeleteAll() (int, error) {
	var keys [][]byte
	err := p.inner.ForEach(p.prefix, func(key, _ []byte) error {
		k := make([]byte, len(key))
		copy(k, key)
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		if err := p.inner.Delete(key); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// Count returns the number of keys in the namespace with the given prefix.
func (p *PrefixDB) Count(prefix []byte) (int, error) {
	n := 0
	err := p.ForEach(prefix, func(_, _ []byte) error {
		n++
		return nil
	})
	return n, err
}

// Close is a no-op; the inner DB is closed by its owner.
func (p *PrefixDB) Close() error {
	return nil
}
