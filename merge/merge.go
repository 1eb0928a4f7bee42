// Package merge implements deep merging of nested string-keyed maps.
//
// The merge rule is the one every layered-configuration system uses:
// values from the override map win, except where both sides hold a
// nested map, in which case the merge recurses. Slices and every other
// non-map value are atomic - an override slice replaces the base slice
// wholesale, it is never merged element-wise.
package merge

import (
	"errors"
	"reflect"
)

// ErrCycle is returned by MergeChecked when a map is reachable from
// itself through nested map values, which would otherwise recurse
// without bound.
var ErrCycle = errors.New("merge: cyclic structure")

// Merge recursively merges src into dst, mutating dst in place.
//
// For each key in src: if both dst and src hold a map[string]any at
// that key, the two are merged recursively; otherwise the src value
// overwrites whatever dst holds, including nil values and slices.
// Keys present only in dst are left untouched. Values inserted from
// src are copied by reference, not cloned.
//
// Merge returns dst for chaining. Callers that need dst preserved
// should use Merged instead.
func Merge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		if mv, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				Merge(existing, mv)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// Merged returns a new map holding the deep merge of a and b, with b
// taking precedence. Neither input is modified. Nested maps that exist
// on only one side are shared by reference with the result; maps that
// exist on both sides are freshly allocated.
func Merged(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if mv, ok := v.(map[string]any); ok {
			if existing, ok := out[k].(map[string]any); ok {
				out[k] = Merged(existing, mv)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// MergeAll folds any number of layers into a single new map. Later
// layers override earlier ones under the same rules as Merge. The
// inputs are not modified.
func MergeAll(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		out = Merged(out, layer)
	}
	return out
}

// MergeChecked behaves like Merge but guards against cyclic structures.
// It tracks the maps on the active recursion path and returns ErrCycle
// as soon as one reappears, instead of overflowing the stack. On error
// dst may hold a partial merge.
//
// A cyclic map that is inserted by reference without recursion (its key
// has no map counterpart in dst) is not an error; only cycles the merge
// would actually descend into are reported.
func MergeChecked(dst, src map[string]any) error {
	return mergeChecked(dst, src, make(map[uintptr]bool))
}

func mergeChecked(dst, src map[string]any, path map[uintptr]bool) error {
	// Maps have no identity beyond their header pointer; the path set
	// keys on it to recognize revisits along the current branch.
	dp := reflect.ValueOf(dst).Pointer()
	sp := reflect.ValueOf(src).Pointer()
	if path[dp] || path[sp] {
		return ErrCycle
	}
	path[dp], path[sp] = true, true

	for k, v := range src {
		if mv, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				if err := mergeChecked(existing, mv, path); err != nil {
					return err
				}
				continue
			}
		}
		dst[k] = v
	}

	delete(path, dp)
	delete(path, sp)
	return nil
}
