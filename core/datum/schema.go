package datum

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/utxodex/sdk-go/core/types"
)

// Layout selects the outer node a Schema produces.
type Layout int

const (
	// AsList emits the ordered fields as a List node.
	AsList Layout = iota
	// AsConstructor wraps the ordered fields in Constr 0.
	AsConstructor
)

// Field binds one named record field to its position in the datum.
type Field[T any] struct {
	name     string
	position int
	encode   func(T) (types.Node, error)
	decode   func(types.Node, *T) error
}

// Name returns the field name used in error paths.
func (f Field[T]) Name() string { return f.name }

// Position returns the field's index in the encoded datum.
func (f Field[T]) Position() int { return f.position }

// FieldOf declares a field of record T with value type F stored at position.
func FieldOf[T, F any](name string, position int, codec Codec[F], get func(T) F, set func(*T, F)) Field[T] {
	return Field[T]{
		name:     name,
		position: position,
		encode: func(rec T) (types.Node, error) {
			return codec.Encode(get(rec))
		},
		decode: func(n types.Node, rec *T) error {
			v, err := codec.Decode(n)
			if err != nil {
				return err
			}
			set(rec, v)
			return nil
		},
	}
}

// Schema encodes a record as an explicitly ordered list of fields. The
// declaration order of fields is irrelevant; only positions matter.
type Schema[T any] struct {
	name    string
	layout  Layout
	ordered []Field[T]
}

var _ Codec[struct{}] = (*Schema[struct{}])(nil)

// NewSchema validates that positions cover 0..n-1 exactly once.
func NewSchema[T any](name string, layout Layout, fields ...Field[T]) (*Schema[T], error) {
	if len(fields) == 0 {
		return nil, errors.Errorf("schema %s has no fields", name)
	}
	ordered := append([]Field[T]{}, fields...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].position < ordered[j].position })

	names := make(map[string]struct{}, len(ordered))
	for i, f := range ordered {
		if f.position != i {
			return nil, errors.Errorf("schema %s: field %q has position %d, expected %d", name, f.name, f.position, i)
		}
		if _, dup := names[f.name]; dup {
			return nil, errors.Errorf("schema %s: duplicate field %q", name, f.name)
		}
		names[f.name] = struct{}{}
	}
	return &Schema[T]{name: name, layout: layout, ordered: ordered}, nil
}

// MustSchema is NewSchema for package-level schema definitions.
func MustSchema[T any](name string, layout Layout, fields ...Field[T]) *Schema[T] {
	s, err := NewSchema(name, layout, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s *Schema[T]) Name() string { return s.name }

// FieldNames returns field names in position order.
func (s *Schema[T]) FieldNames() []string {
	out := make([]string, len(s.ordered))
	for i, f := range s.ordered {
		out[i] = f.name
	}
	return out
}

func (s *Schema[T]) Encode(rec T) (types.Node, error) {
	nodes := make([]types.Node, len(s.ordered))
	for i, f := range s.ordered {
		n, err := f.encode(rec)
		if err != nil {
			return types.Node{}, encodeAt(err, f.name)
		}
		nodes[i] = n
	}
	if s.layout == AsConstructor {
		return types.ConstrNode(0, nodes...), nil
	}
	return types.ListNode(nodes...), nil
}

func (s *Schema[T]) Decode(n types.Node) (T, error) {
	var rec T
	var fields []types.Node
	switch s.layout {
	case AsConstructor:
		if err := expectConstr(n, 0, len(s.ordered)); err != nil {
			return rec, err
		}
		fields = n.Fields
	default:
		if err := expectKind(n, types.NodeList); err != nil {
			return rec, err
		}
		if len(n.Fields) != len(s.ordered) {
			return rec, decodeErr("expected %d fields, got %d", len(s.ordered), len(n.Fields))
		}
		fields = n.Fields
	}
	for i, f := range s.ordered {
		if err := f.decode(fields[i], &rec); err != nil {
			return rec, decodeAt(err, f.name)
		}
	}
	return rec, nil
}
