package stats

import (
	"bytes"
	"encoding/json"
)

// Tally is a string-keyed counter that remembers insertion order.
// Seeded keys come first, later keys in the order they were first seen.
type Tally struct {
	keys   []string
	counts map[string]int
}

// NewTally returns a tally with each seed key present at zero.
func NewTally(seed ...string) *Tally {
	t := &Tally{counts: make(map[string]int, len(seed))}
	for _, k := range seed {
		t.Add(k, 0)
	}
	return t
}

// Inc adds one to key.
func (t *Tally) Inc(key string) {
	t.Add(key, 1)
}

// Add adds n to key, registering the key on first use.
func (t *Tally) Add(key string, n int) {
	if _, ok := t.counts[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.counts[key] += n
}

// Has reports whether key has been registered.
func (t *Tally) Has(key string) bool {
	_, ok := t.counts[key]
	return ok
}

func (t *Tally) Get(key string) int {
	return t.counts[key]
}

// Keys returns the keys in insertion order.
func (t *Tally) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Tally) Len() int {
	return len(t.keys)
}

// Total sums every count.
func (t *Tally) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// NonZero returns a copy without the zero-count keys.
func (t *Tally) NonZero() *Tally {
	out := NewTally()
	for _, k := range t.keys {
		if n := t.counts[k]; n != 0 {
			out.Add(k, n)
		}
	}
	return out
}

// Map returns the counts as a plain map.
func (t *Tally) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, n := range t.counts {
		out[k] = n
	}
	return out
}

// MarshalJSON writes the tally as an object whose members follow insertion order.
func (t *Tally) MarshalJSON() ([]byte, error) {
	return marshalOrdered(t.keys, func(k string) (any, error) { return t.counts[k], nil })
}

func marshalOrdered(keys []string, value func(string) (any, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		v, err := value(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
