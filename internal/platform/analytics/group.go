package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
)

// Unknown is the bucket key for values that cannot be classified.
const Unknown = "Unknown"

type Number interface {
	~int | ~float64
}

// Buckets is an ordered, read-only mapping from bucket key to an aggregate.
// Keys keep the order in which they were first seen unless re-sorted with
// SortedByKey. The zero value is an empty mapping.
type Buckets[V Number] struct {
	keys   []string
	values map[string]V
}

func (b Buckets[V]) Len() int { return len(b.keys) }

func (b Buckets[V]) Keys() []string {
	return append([]string{}, b.keys...)
}

// Get returns the value for key, or zero when the key is absent.
func (b Buckets[V]) Get(key string) V { return b.values[key] }

func (b Buckets[V]) Lookup(key string) (V, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Map returns an unordered copy.
func (b Buckets[V]) Map() map[string]V {
	m := make(map[string]V, len(b.keys))
	for _, k := range b.keys {
		m[k] = b.values[k]
	}
	return m
}

// SortedByKey returns a copy with keys in ascending order and Unknown last.
func (b Buckets[V]) SortedByKey() Buckets[V] {
	keys := b.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i] == Unknown || keys[j] == Unknown {
			return keys[j] == Unknown && keys[i] != Unknown
		}
		return keys[i] < keys[j]
	})
	return Buckets[V]{keys: keys, values: b.Map()}
}

// MarshalJSON encodes the buckets as a JSON object in key order.
func (b Buckets[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(b.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type accumulator[V Number] struct {
	keys   []string
	values map[string]V
}

func newAccumulator[V Number]() *accumulator[V] {
	return &accumulator[V]{values: make(map[string]V)}
}

func (a *accumulator[V]) add(key string, v V) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] += v
}

// seed registers keys up front so they appear, in order, even with no items.
func (a *accumulator[V]) seed(keys ...string) {
	for _, k := range keys {
		a.add(k, 0)
	}
}

func (a *accumulator[V]) buckets() Buckets[V] {
	return Buckets[V]{keys: a.keys, values: a.values}
}

// GroupCount counts items per key.
func GroupCount[T any](items []T, keyOf func(T) string) Buckets[int] {
	acc := newAccumulator[int]()
	for _, it := range items {
		acc.add(keyOf(it), 1)
	}
	return acc.buckets()
}

// GroupSum totals valueOf per key. NaN and infinite values count as zero.
func GroupSum[T any](items []T, keyOf func(T) string, valueOf func(T) float64) Buckets[float64] {
	acc := newAccumulator[float64]()
	for _, it := range items {
		acc.add(keyOf(it), finite(valueOf(it)))
	}
	return acc.buckets()
}

// GroupMean averages valueOf per key, with the same treatment of non-finite
// values as GroupSum.
func GroupMean[T any](items []T, keyOf func(T) string, valueOf func(T) float64) Buckets[float64] {
	sums := GroupSum(items, keyOf, valueOf)
	counts := GroupCount(items, keyOf)
	acc := newAccumulator[float64]()
	for _, k := range sums.keys {
		acc.add(k, sums.values[k]/float64(counts.values[k]))
	}
	return acc.buckets()
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
