// Package datum maps application values to and from the datum tree consumed
// by on-chain scripts. Codecs are built from combinators; a Schema composes
// named fields at fixed positions.
package datum

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/utxodex/sdk-go/core/types"
)

// Codec encodes T into a datum tree and back. Decode never coerces: a node of
// the wrong shape is a DeserializationError carrying the failing path.
type Codec[T any] interface {
	Encode(v T) (types.Node, error)
	Decode(n types.Node) (T, error)
}

// AnyCodec is a codec with its value type erased, used for heterogeneous tuples.
type AnyCodec = Codec[any]

type funcCodec[T any] struct {
	enc func(T) (types.Node, error)
	dec func(types.Node) (T, error)
}

func (c funcCodec[T]) Encode(v T) (types.Node, error) { return c.enc(v) }
func (c funcCodec[T]) Decode(n types.Node) (T, error) { return c.dec(n) }

// New builds a codec from a pair of functions.
func New[T any](enc func(T) (types.Node, error), dec func(types.Node) (T, error)) Codec[T] {
	return funcCodec[T]{enc: enc, dec: dec}
}

// Erase hides the value type of c. Encoding a value of another type is a
// SerializationError.
func Erase[T any](c Codec[T]) AnyCodec {
	return New(
		func(v any) (types.Node, error) {
			t, ok := v.(T)
			if !ok {
				var zero T
				return types.Node{}, encodeErr("expected %T, got %T", zero, v)
			}
			return c.Encode(t)
		},
		func(n types.Node) (any, error) {
			return c.Decode(n)
		},
	)
}

// Map adapts a codec of A into a codec of B.
func Map[A, B any](c Codec[A], to func(A) (B, error), from func(B) (A, error)) Codec[B] {
	return New(
		func(v B) (types.Node, error) {
			a, err := from(v)
			if err != nil {
				return types.Node{}, encodeAt(err, "")
			}
			return c.Encode(a)
		},
		func(n types.Node) (B, error) {
			a, err := c.Decode(n)
			if err != nil {
				var zero B
				return zero, err
			}
			b, err := to(a)
			if err != nil {
				var zero B
				return zero, decodeAt(err, "")
			}
			return b, nil
		},
	)
}

// ═══════════════════════════════════════════════════════════════
// ERROR HELPERS
// ═══════════════════════════════════════════════════════════════

func encodeErr(format string, args ...any) error {
	return errors.WithStack(&types.SerializationError{Err: fmt.Errorf(format, args...)})
}

func decodeErr(format string, args ...any) error {
	return errors.WithStack(&types.DeserializationError{Err: fmt.Errorf(format, args...)})
}

// encodeAt prefixes the path of a SerializationError with seg, wrapping
// foreign errors into one.
func encodeAt(err error, seg string) error {
	var se *types.SerializationError
	if !errors.As(err, &se) {
		se = &types.SerializationError{Err: err}
		err = errors.WithStack(se)
	}
	if seg != "" {
		se.Path = append([]string{seg}, se.Path...)
	}
	return err
}

// decodeAt is encodeAt for DeserializationError.
func decodeAt(err error, seg string) error {
	var de *types.DeserializationError
	if !errors.As(err, &de) {
		de = &types.DeserializationError{Err: err}
		err = errors.WithStack(de)
	}
	if seg != "" {
		de.Path = append([]string{seg}, de.Path...)
	}
	return err
}

// WithPath prefixes codec errors with a root name, e.g. the datum being decoded.
func WithPath(err error, root string) error {
	if err == nil {
		return nil
	}
	var se *types.SerializationError
	if errors.As(err, &se) {
		return encodeAt(err, root)
	}
	return decodeAt(err, root)
}

func index(i int) string { return fmt.Sprintf("[%d]", i) }

func expectKind(n types.Node, kind types.NodeKind) error {
	if n.Kind != kind {
		return decodeErr("expected %s node, got %s", kind, n.Kind)
	}
	return nil
}
