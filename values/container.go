package values

import (
	"github.com/dchest/siphash"

	"github.com/elaraai/east/types"
)

// iterGuard is embedded in every mutable container. It implements the
// iteration-guard contract of spec §4.B/§5: while at least one
// iterator is active, mutation must fail.
type iterGuard struct {
	activeIterators int
}

// BeginIteration registers one active iterator over the container.
func (g *iterGuard) BeginIteration() { g.activeIterators++ }

// EndIteration unregisters one active iterator. Callers must pair this
// with a prior BeginIteration, typically via defer.
func (g *iterGuard) EndIteration() { g.activeIterators-- }

// CheckMutable returns an error when a mutation is attempted while the
// container is being iterated.
func (g *iterGuard) CheckMutable() error {
	if g.activeIterators > 0 {
		return errIterationViolation
	}
	return nil
}

// Array is a mutable, identity-bearing, ordered sequence. Two Go
// pointers to the same *Array are the same East container; Is compares
// pointer identity.
type Array struct {
	iterGuard
	Elem     types.Type
	Elements []Value
}

func (*Array) isValue() {}

// NewArray returns an empty Array of the given element type.
func NewArray(elem types.Type) *Array {
	return &Array{Elem: elem}
}

// Ref is a mutable, identity-bearing single-slot cell.
type Ref struct {
	iterGuard
	Inner types.Type
	Slot  Value
}

func (*Ref) isValue() {}

// NewRef returns a Ref cell of the given inner type, initially holding
// init.
func NewRef(inner types.Type, init Value) *Ref {
	return &Ref{Inner: inner, Slot: init}
}

// siphash key. East has no cryptographic-integrity requirement for this
// index (BEAST2 blobs carry no authentication, per the Non-goals); the
// key only needs to spread structurally-similar keys across buckets, so
// a fixed process-wide key is sufficient and keeps hashing
// deterministic. Insertion order, not hash order, is what spec.md
// requires Set/Dict iteration and BEAST2 encoding to follow (Order
// below); the hash index only accelerates Has/Get/Insert/Delete.
const (
	hashKey0 = 0x656173742d6b6579 // "east-key" read as ASCII hex
	hashKey1 = 0x6265617374322121 // "beast2!!" read as ASCII hex
)

func hashBucket(key Value) uint64 {
	return siphash.Hash(hashKey0, hashKey1, hashKeyBytes(key))
}

// setEntry is one bucket slot of a Set's hash index.
type setEntry struct {
	key Value
	pos int // index into Set.Order
}

// Set is a mutable, identity-bearing collection of unique immutable
// keys. Iteration and encoding order follow Order (insertion order);
// index is a siphash-bucketed map resolved by StructuralEqual.
type Set struct {
	iterGuard
	Key   types.Type
	Order []Value
	index map[uint64][]setEntry
}

func (*Set) isValue() {}

// NewSet returns an empty Set over the given key type.
func NewSet(key types.Type) *Set {
	return &Set{Key: key, index: make(map[uint64][]setEntry)}
}

// Size returns the number of keys in the set.
func (s *Set) Size() int { return len(s.Order) }

// Has reports whether key is a member of the set.
func (s *Set) Has(key Value) bool {
	_, ok := s.find(key)
	return ok
}

func (s *Set) find(key Value) (int, bool) {
	for _, e := range s.index[hashBucket(key)] {
		if StructuralEqual(e.key, key) {
			return e.pos, true
		}
	}
	return 0, false
}

// Insert adds key to the set if absent, returning whether it was
// newly added. It fails if the set is currently being iterated.
func (s *Set) Insert(key Value) (bool, error) {
	if err := s.CheckMutable(); err != nil {
		return false, err
	}
	if s.Has(key) {
		return false, nil
	}
	pos := len(s.Order)
	s.Order = append(s.Order, key)
	h := hashBucket(key)
	s.index[h] = append(s.index[h], setEntry{key: key, pos: pos})
	return true, nil
}

// Delete removes key from the set if present, returning whether it was
// removed. It fails if the set is currently being iterated.
func (s *Set) Delete(key Value) (bool, error) {
	if err := s.CheckMutable(); err != nil {
		return false, err
	}
	pos, ok := s.find(key)
	if !ok {
		return false, nil
	}
	s.removeAt(pos)
	return true, nil
}

func (s *Set) removeAt(pos int) {
	removed := s.Order[pos]
	s.Order = append(s.Order[:pos], s.Order[pos+1:]...)
	h := hashBucket(removed)
	bucket := s.index[h]
	for i, e := range bucket {
		if StructuralEqual(e.key, removed) {
			s.index[h] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	for h, bucket := range s.index {
		for i, e := range bucket {
			if e.pos > pos {
				s.index[h][i].pos = e.pos - 1
			}
		}
	}
}

// dictEntry is one bucket slot of a Dict's hash index.
type dictEntry struct {
	key Value
	pos int // index into Dict.Order / Dict.Vals
}

// Dict is a mutable, identity-bearing associative map from immutable
// keys to values, preserving insertion order.
type Dict struct {
	iterGuard
	Key   types.Type
	Value types.Type
	Order []Value // keys, in insertion order
	Vals  []Value // values, parallel to Order
	index map[uint64][]dictEntry
}

func (*Dict) isValue() {}

// NewDict returns an empty Dict from key to value.
func NewDict(key, value types.Type) *Dict {
	return &Dict{Key: key, Value: value, index: make(map[uint64][]dictEntry)}
}

// Size returns the number of entries in the dict.
func (d *Dict) Size() int { return len(d.Order) }

func (d *Dict) find(key Value) (int, bool) {
	for _, e := range d.index[hashBucket(key)] {
		if StructuralEqual(e.key, key) {
			return e.pos, true
		}
	}
	return 0, false
}

// Get returns the value stored under key, if present.
func (d *Dict) Get(key Value) (Value, bool) {
	pos, ok := d.find(key)
	if !ok {
		return nil, false
	}
	return d.Vals[pos], true
}

// Insert sets key to val, inserting a new entry if key was absent and
// overwriting the stored value otherwise. It returns whether a new
// entry was created. It fails if the dict is currently being iterated.
func (d *Dict) Insert(key, val Value) (bool, error) {
	if err := d.CheckMutable(); err != nil {
		return false, err
	}
	if pos, ok := d.find(key); ok {
		d.Vals[pos] = val
		return false, nil
	}
	pos := len(d.Order)
	d.Order = append(d.Order, key)
	d.Vals = append(d.Vals, val)
	h := hashBucket(key)
	d.index[h] = append(d.index[h], dictEntry{key: key, pos: pos})
	return true, nil
}

// Delete removes key from the dict if present, returning whether it
// was removed. It fails if the dict is currently being iterated.
func (d *Dict) Delete(key Value) (bool, error) {
	if err := d.CheckMutable(); err != nil {
		return false, err
	}
	pos, ok := d.find(key)
	if !ok {
		return false, nil
	}
	d.removeAt(pos)
	return true, nil
}

func (d *Dict) removeAt(pos int) {
	removedKey := d.Order[pos]
	d.Order = append(d.Order[:pos], d.Order[pos+1:]...)
	d.Vals = append(d.Vals[:pos], d.Vals[pos+1:]...)
	h := hashBucket(removedKey)
	bucket := d.index[h]
	for i, e := range bucket {
		if StructuralEqual(e.key, removedKey) {
			d.index[h] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	for h, bucket := range d.index {
		for i, e := range bucket {
			if e.pos > pos {
				d.index[h][i].pos = e.pos - 1
			}
		}
	}
}
