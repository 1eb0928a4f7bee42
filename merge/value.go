package merge

import "reflect"

// Kind classifies a mergeable value.
type Kind int

const (
	// KindScalar covers strings, numbers, booleans, nil and any other
	// value the merge treats as atomic.
	KindScalar Kind = iota
	// KindSequence covers slices and arrays. Sequences are atomic too:
	// they are replaced wholesale on override, never merged per element.
	KindSequence
	// KindMapping covers string-keyed maps, the only kind the merge
	// recurses into.
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "scalar"
	}
}

// Value is a classified mergeable value. It makes the merge decision a
// match over kinds instead of repeated runtime type assertions: merging
// recurses only on mapping×mapping, every other pairing yields the
// override side.
type Value struct {
	kind    Kind
	scalar  any
	seq     any
	mapping map[string]Value
}

// ValueOf classifies v and its nested values. map[string]any becomes a
// mapping, slices and arrays become sequences, everything else is a
// scalar. Sequence elements are deliberately not classified; the merge
// never looks inside them.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = ValueOf(e)
		}
		return Value{kind: KindMapping, mapping: m}
	case nil:
		return Value{kind: KindScalar}
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return Value{kind: KindSequence, seq: v}
	default:
		return Value{kind: KindScalar, scalar: v}
	}
}

// Kind reports how the merge will treat this value.
func (v Value) Kind() Kind { return v.kind }

// Merge combines v with override. Both mappings: recursive merge into a
// new Value. Any other pairing: override wins, returned unchanged.
func (v Value) Merge(override Value) Value {
	if v.kind != KindMapping || override.kind != KindMapping {
		return override
	}
	out := make(map[string]Value, len(v.mapping)+len(override.mapping))
	for k, e := range v.mapping {
		out[k] = e
	}
	for k, e := range override.mapping {
		if existing, ok := out[k]; ok {
			out[k] = existing.Merge(e)
			continue
		}
		out[k] = e
	}
	return Value{kind: KindMapping, mapping: out}
}

// Get returns the entry for key when v is a mapping.
func (v Value) Get(key string) (Value, bool) {
	e, ok := v.mapping[key]
	return e, ok
}

// Len returns the number of entries when v is a mapping, zero otherwise.
func (v Value) Len() int { return len(v.mapping) }

// Interface converts v back to plain Go values: mappings become
// map[string]any, sequences and scalars come back as they were given.
func (v Value) Interface() any {
	switch v.kind {
	case KindMapping:
		m := make(map[string]any, len(v.mapping))
		for k, e := range v.mapping {
			m[k] = e.Interface()
		}
		return m
	case KindSequence:
		return v.seq
	default:
		return v.scalar
	}
}
