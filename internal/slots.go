package internal

/*
This file contains the property store. Every object owns an insertion-ordered
table of key to *Property; the table is an orderedmap whose values are always
*Property. Lookups that walk the prototype chain live here as well, but
changes to the chain itself belong to proto.go.

Enumeration order is load-bearing: own keys come out in insertion order, and
the chain-wide iterator visits the receiver first, then each prototype in
order. A key is governed entirely by its closest occurrence, so a
non-enumerable own property hides an enumerable one of the same name further
up the chain.
*/

import (
	"github.com/zephyrtronium/contains"
)

// Property is a data property descriptor.
type Property struct {
	Value        Value
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// Attribute presets for DefineOwn.
var (
	// DefaultAttrs are the flags of properties created by assignment.
	DefaultAttrs = Property{Writable: true, Enumerable: true, Configurable: true}
	// HiddenAttrs are the flags of builtin methods: writable and
	// configurable, but not enumerable.
	HiddenAttrs = Property{Writable: true, Configurable: true}
	// FrozenAttrs are the flags of fixed internal links such as a builtin
	// constructor's prototype.
	FrozenAttrs = Property{}
)

// With returns a copy of the attribute preset p holding v.
func (p Property) With(v Value) Property {
	p.Value = v
	return p
}

// GetOwn returns the object's own property named key.
func (o *Object) GetOwn(key string) (*Property, bool) {
	p, ok := o.props.Get(key)
	if !ok {
		return nil, false
	}
	return p.(*Property), true
}

// HasOwn reports whether the object has an own property named key.
func (o *Object) HasOwn(key string) bool {
	_, ok := o.props.Get(key)
	return ok
}

// Lookup walks the prototype chain starting at o and returns the first
// property named key along with the object that owns it. If no object in the
// chain has the property, both results are nil.
func (o *Object) Lookup(key string) (*Property, *Object) {
	for cur := o; cur != nil; cur = cur.proto {
		if p, ok := cur.GetOwn(key); ok {
			return p, cur
		}
	}
	return nil, nil
}

// Has reports whether key is an own or inherited property of o.
func (o *Object) Has(key string) bool {
	p, _ := o.Lookup(key)
	return p != nil
}

// Get returns the value of the own or inherited property named key, or
// undefined if there is none.
func (o *Object) Get(key string) Value {
	if p, _ := o.Lookup(key); p != nil {
		return p.Value
	}
	return UndefinedValue
}

// SetOwn assigns to an own property. If the property does not exist, it is
// created enumerable, writable, and configurable. The returned error is
// non-nil when the property is not writable or the object is not extensible;
// in that case nothing changes, and callers not enforcing strict semantics
// may ignore it.
func (o *Object) SetOwn(key string, v Value) error {
	if p, ok := o.GetOwn(key); ok {
		if !p.Writable {
			return &PropertyError{Op: "assign to", Key: key, Err: ErrNotWritable}
		}
		p.Value = v
		return nil
	}
	if !o.extensible {
		return &PropertyError{Op: "add", Key: key, Err: ErrNotExtensible}
	}
	p := DefaultAttrs.With(v)
	o.props.Set(key, &p)
	return nil
}

// DefineOwn creates or redefines an own property with exactly the given
// flags. Redefining a non-configurable property is only allowed when it
// changes nothing but the value of a writable property; adding to a
// non-extensible object is not allowed. On error nothing changes.
func (o *Object) DefineOwn(key string, desc Property) error {
	if p, ok := o.GetOwn(key); ok {
		if !p.Configurable {
			if desc.Configurable || desc.Enumerable != p.Enumerable || desc.Writable && !p.Writable {
				return &PropertyError{Op: "redefine", Key: key, Err: ErrNotConfigurable}
			}
			if !p.Writable && !SameValue(p.Value, desc.Value) {
				return &PropertyError{Op: "redefine", Key: key, Err: ErrNotWritable}
			}
		}
		*p = desc
		return nil
	}
	if !o.extensible {
		return &PropertyError{Op: "define", Key: key, Err: ErrNotExtensible}
	}
	o.props.Set(key, &desc)
	return nil
}

// RemoveOwn removes an own property. It returns false without effect if the
// property is not configurable, and true otherwise, including when the
// property does not exist.
func (o *Object) RemoveOwn(key string) bool {
	p, ok := o.GetOwn(key)
	if !ok {
		return true
	}
	if !p.Configurable {
		return false
	}
	o.props.Delete(key)
	return true
}

// OwnKeys returns a snapshot of the object's own keys in insertion order.
func (o *Object) OwnKeys() []string {
	keys := o.props.Keys()
	r := make([]string, len(keys))
	copy(r, keys)
	return r
}

// ForeachProperty calls exec on each own property in insertion order until
// exec returns false. exec may modify the object; keys removed before they
// are reached are skipped.
func (o *Object) ForeachProperty(exec func(key string, p *Property) bool) {
	for _, k := range o.OwnKeys() {
		p, ok := o.GetOwn(k)
		if !ok {
			continue
		}
		if !exec(k, p) {
			return
		}
	}
}

// KeyIterator lazily produces the enumerable keys of an object and its
// prototype chain. It is finite and cannot be restarted.
type KeyIterator struct {
	// cur is the object whose keys are being produced.
	cur *Object
	// keys is a snapshot of cur's own keys taken when the iterator reached
	// it, and i is the position within it.
	keys []string
	i    int
	// seen holds every key already decided, whether or not it was produced.
	seen map[string]struct{}
	// visited guards the chain walk.
	visited contains.Set
}

// Enumerate returns an iterator over the enumerable own and inherited keys of
// o. Each key is produced at most once and only if its closest occurrence in
// the chain is enumerable. Keys removed from an object before the iterator
// reaches them are not produced.
func (o *Object) Enumerate() *KeyIterator {
	it := &KeyIterator{seen: make(map[string]struct{}), visited: contains.Set{}}
	it.enter(o)
	return it
}

func (it *KeyIterator) enter(o *Object) {
	if o == nil || !it.visited.Add(o.UniqueID()) {
		it.cur, it.keys = nil, nil
		return
	}
	it.cur = o
	it.keys = o.OwnKeys()
	it.i = 0
}

// Next returns the next key. ok is false once the sequence is exhausted, and
// it remains false on every later call.
func (it *KeyIterator) Next() (key string, ok bool) {
	for it.cur != nil {
		for it.i < len(it.keys) {
			k := it.keys[it.i]
			it.i++
			if _, dup := it.seen[k]; dup {
				continue
			}
			p, ok := it.cur.GetOwn(k)
			if !ok {
				// Deleted after the snapshot.
				continue
			}
			it.seen[k] = struct{}{}
			if p.Enumerable {
				return k, true
			}
		}
		it.enter(it.cur.proto)
	}
	return "", false
}

// Keys drains the iterator into a slice.
func (it *KeyIterator) Keys() []string {
	var r []string
	for k, ok := it.Next(); ok; k, ok = it.Next() {
		r = append(r, k)
	}
	return r
}
