package formats

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind identifies which of the four bencode variants a Value is.
type Kind uint8

const (
	KindInteger Kind = iota + 1
	KindByteString
	KindList
	KindDictionary
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindByteString:
		return "string"
	case KindList:
		return "list"
	case KindDictionary:
		return "dictionary"
	default:
		return "unknown"
	}
}

// Value is a decoded bencode value. It is exactly one of Integer, ByteString,
// List or Dictionary; no other type implements it.
type Value interface {
	Kind() Kind
	isValue()
}

// Integer is a signed 64-bit bencode integer.
type Integer int64

// ByteString is a bencode byte string. Unless the decoder was told to allow binary
// strings, it always holds valid UTF-8 text.
type ByteString string

// List keeps its elements in the order they were encoded.
type List []Value

// Dictionary maps string keys to values. Keys are unique and iterate in byte-wise
// sorted order no matter how they were encoded. A Dictionary is never changed after
// it is built.
type Dictionary struct {
	entries map[string]Value
	keys    []string
}

// Entry is one key/value pair of a Dictionary.
type Entry struct {
	Key   string
	Value Value
}

func (Integer) Kind() Kind    { return KindInteger }
func (ByteString) Kind() Kind { return KindByteString }
func (List) Kind() Kind       { return KindList }
func (Dictionary) Kind() Kind { return KindDictionary }

func (Integer) isValue()    {}
func (ByteString) isValue() {}
func (List) isValue()       {}
func (Dictionary) isValue() {}

// NewDictionary copies m into a Dictionary.
func NewDictionary(m map[string]Value) Dictionary {
	b := newDictBuilder()
	for k, v := range m {
		b.set(k, v)
	}
	return b.build()
}

// dictBuilder accumulates pairs while the decoder folds over them. Later keys
// overwrite earlier ones.
type dictBuilder struct {
	entries map[string]Value
}

func newDictBuilder() *dictBuilder {
	return &dictBuilder{entries: map[string]Value{}}
}

func (b *dictBuilder) set(k string, v Value) *dictBuilder {
	b.entries[k] = v
	return b
}

func (b *dictBuilder) build() Dictionary {
	keys := maps.Keys(b.entries)
	slices.Sort(keys)
	return Dictionary{entries: b.entries, keys: keys}
}

// Len is the number of distinct keys.
func (d Dictionary) Len() int {
	return len(d.keys)
}

func (d Dictionary) Get(key string) (Value, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Keys returns the keys in sorted order. The caller owns the returned slice.
func (d Dictionary) Keys() []string {
	return slices.Clone(d.keys)
}

// Entries returns the pairs in key order.
func (d Dictionary) Entries() []Entry {
	out := make([]Entry, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, Entry{Key: k, Value: d.entries[k]})
	}
	return out
}

// Range calls f for each pair in key order until f returns false.
func (d Dictionary) Range(f func(key string, v Value) bool) {
	for _, k := range d.keys {
		if !f(k, d.entries[k]) {
			return
		}
	}
}

// Equal reports whether two trees have the same shape and contents.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Integer:
		b, ok := b.(Integer)
		return ok && a == b
	case ByteString:
		b, ok := b.(ByteString)
		return ok && a == b
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Dictionary:
		b, ok := b.(Dictionary)
		if !ok || a.Len() != b.Len() {
			return false
		}
		for i, k := range a.keys {
			if b.keys[i] != k || !Equal(a.entries[k], b.entries[k]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

func (i Integer) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (s ByteString) String() string {
	return strconv.Quote(string(s))
}

func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte(']')
	return sb.String()
}

func (d Dictionary) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %v", k, d.entries[k])
	}
	sb.WriteByte('}')
	return sb.String()
}
