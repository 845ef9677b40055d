package datum

import (
	"math/big"

	"github.com/utxodex/sdk-go/core/types"
)

const (
	tagSome = 0
	tagNone = 1
)

// List maps item over an ordered sequence.
func List[T any](item Codec[T]) Codec[[]T] {
	return New(
		func(vs []T) (types.Node, error) {
			nodes := make([]types.Node, len(vs))
			for i, v := range vs {
				n, err := item.Encode(v)
				if err != nil {
					return types.Node{}, encodeAt(err, index(i))
				}
				nodes[i] = n
			}
			return types.ListNode(nodes...), nil
		},
		func(n types.Node) ([]T, error) {
			if err := expectKind(n, types.NodeList); err != nil {
				return nil, err
			}
			out := make([]T, len(n.Fields))
			for i, f := range n.Fields {
				v, err := item.Decode(f)
				if err != nil {
					return nil, decodeAt(err, index(i))
				}
				out[i] = v
			}
			return out, nil
		},
	)
}

// Optional encodes a non-nil value as Constr 0 [v] and nil as Constr 1 [].
// A tag 1 constructor or any non-constructor node decodes to nil.
func Optional[T any](inner Codec[T]) Codec[*T] {
	return New(
		func(v *T) (types.Node, error) {
			if v == nil {
				return types.ConstrNode(tagNone), nil
			}
			n, err := inner.Encode(*v)
			if err != nil {
				return types.Node{}, encodeAt(err, "some")
			}
			return types.ConstrNode(tagSome, n), nil
		},
		func(n types.Node) (*T, error) {
			if n.Kind != types.NodeConstructor {
				return nil, nil
			}
			switch n.Tag {
			case tagNone:
				return nil, nil
			case tagSome:
				if len(n.Fields) != 1 {
					return nil, decodeErr("optional value must have 1 field, got %d", len(n.Fields))
				}
				v, err := inner.Decode(n.Fields[0])
				if err != nil {
					return nil, decodeAt(err, "some")
				}
				return &v, nil
			default:
				return nil, decodeErr("optional constructor tag must be 0 or 1, got %d", n.Tag)
			}
		},
	)
}

// Tuple encodes n values as Constr 0 [c1(v1), ..., cn(vn)]. Decoding requires
// exactly n fields.
func Tuple(codecs ...AnyCodec) Codec[[]any] {
	return New(
		func(vs []any) (types.Node, error) {
			if len(vs) != len(codecs) {
				return types.Node{}, encodeErr("tuple expects %d values, got %d", len(codecs), len(vs))
			}
			fields := make([]types.Node, len(vs))
			for i, c := range codecs {
				f, err := c.Encode(vs[i])
				if err != nil {
					return types.Node{}, encodeAt(err, index(i))
				}
				fields[i] = f
			}
			return types.ConstrNode(0, fields...), nil
		},
		func(n types.Node) ([]any, error) {
			if err := expectConstr(n, 0, len(codecs)); err != nil {
				return nil, err
			}
			out := make([]any, len(codecs))
			for i, c := range codecs {
				v, err := c.Decode(n.Fields[i])
				if err != nil {
					return nil, decodeAt(err, index(i))
				}
				out[i] = v
			}
			return out, nil
		},
	)
}

// Pair is a typed 2-tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf encodes a Pair as Constr 0 [a, b].
func PairOf[A, B any](a Codec[A], b Codec[B]) Codec[Pair[A, B]] {
	t := Tuple(Erase(a), Erase(b))
	return New(
		func(p Pair[A, B]) (types.Node, error) {
			return t.Encode([]any{p.First, p.Second})
		},
		func(n types.Node) (Pair[A, B], error) {
			vs, err := t.Decode(n)
			if err != nil {
				return Pair[A, B]{}, err
			}
			return Pair[A, B]{First: vs[0].(A), Second: vs[1].(B)}, nil
		},
	)
}

// Rational encodes a fraction as Constr 0 [num, den]. The denominator must be
// positive.
func Rational() Codec[*big.Rat] {
	pair := PairOf(BigInt(), BigInt())
	return New(
		func(r *big.Rat) (types.Node, error) {
			if r == nil {
				return types.Node{}, encodeErr("nil rational")
			}
			return pair.Encode(Pair[*big.Int, *big.Int]{First: r.Num(), Second: r.Denom()})
		},
		func(n types.Node) (*big.Rat, error) {
			p, err := pair.Decode(n)
			if err != nil {
				return nil, err
			}
			if p.Second.Sign() <= 0 {
				return nil, decodeAt(decodeErr("denominator must be positive, got %s", p.Second), index(1))
			}
			return new(big.Rat).SetFrac(p.First, p.Second), nil
		},
	)
}

// ═══════════════════════════════════════════════════════════════
// TAGGED UNIONS
// ═══════════════════════════════════════════════════════════════

// Variant is one arm of a tagged union. The tag is part of the script's
// contract and is never inferred.
type Variant[T any] struct {
	Name    string
	Tag     uint64
	Matches func(v T) bool
	Payload Codec[T]
}

// TaggedUnion encodes a value with the first variant that matches it, as
// Constr tag [payload]. Decoding dispatches on the constructor tag.
func TaggedUnion[T any](variants ...Variant[T]) Codec[T] {
	return New(
		func(v T) (types.Node, error) {
			for _, vr := range variants {
				if !vr.Matches(v) {
					continue
				}
				p, err := vr.Payload.Encode(v)
				if err != nil {
					return types.Node{}, encodeAt(err, vr.Name)
				}
				return types.ConstrNode(vr.Tag, p), nil
			}
			return types.Node{}, encodeErr("no variant matches %v", v)
		},
		func(n types.Node) (T, error) {
			var zero T
			if err := expectKind(n, types.NodeConstructor); err != nil {
				return zero, err
			}
			for _, vr := range variants {
				if vr.Tag != n.Tag {
					continue
				}
				if len(n.Fields) != 1 {
					return zero, decodeAt(decodeErr("variant must have 1 field, got %d", len(n.Fields)), vr.Name)
				}
				v, err := vr.Payload.Decode(n.Fields[0])
				if err != nil {
					return zero, decodeAt(err, vr.Name)
				}
				return v, nil
			}
			return zero, decodeErr("unknown variant tag %d", n.Tag)
		},
	)
}

func expectConstr(n types.Node, tag uint64, fields int) error {
	if err := expectKind(n, types.NodeConstructor); err != nil {
		return err
	}
	if n.Tag != tag {
		return decodeErr("expected constructor %d, got %d", tag, n.Tag)
	}
	if len(n.Fields) != fields {
		return decodeErr("expected %d fields, got %d", fields, len(n.Fields))
	}
	return nil
}
