package datum

import (
	"encoding/hex"
	"math/big"

	"github.com/utxodex/sdk-go/core/types"
)

// Int encodes a machine integer as an Integer node.
func Int() Codec[int64] {
	return New(
		func(v int64) (types.Node, error) {
			return types.Int64Node(v), nil
		},
		func(n types.Node) (int64, error) {
			if err := expectKind(n, types.NodeInteger); err != nil {
				return 0, err
			}
			if n.Int == nil || !n.Int.IsInt64() {
				return 0, decodeErr("integer %s overflows int64", n.Int)
			}
			return n.Int.Int64(), nil
		},
	)
}

// BigInt encodes an arbitrary-precision integer as an Integer node.
func BigInt() Codec[*big.Int] {
	return New(
		func(v *big.Int) (types.Node, error) {
			if v == nil {
				return types.Node{}, encodeErr("nil integer")
			}
			return types.IntegerNode(v), nil
		},
		func(n types.Node) (*big.Int, error) {
			if err := expectKind(n, types.NodeInteger); err != nil {
				return nil, err
			}
			if n.Int == nil {
				return new(big.Int), nil
			}
			return new(big.Int).Set(n.Int), nil
		},
	)
}

// ByteString encodes a hex string as a ByteString node. Decoded values are
// lowercase hex.
func ByteString() Codec[string] {
	return New(
		func(v string) (types.Node, error) {
			b, err := hex.DecodeString(v)
			if err != nil {
				return types.Node{}, encodeErr("invalid hex %q: %v", v, err)
			}
			return types.BytesNode(b), nil
		},
		func(n types.Node) (string, error) {
			if err := expectKind(n, types.NodeByteString); err != nil {
				return "", err
			}
			return hex.EncodeToString(n.Bytes), nil
		},
	)
}

// Bytes encodes raw bytes as a ByteString node.
func Bytes() Codec[[]byte] {
	return New(
		func(v []byte) (types.Node, error) {
			return types.BytesNode(v), nil
		},
		func(n types.Node) ([]byte, error) {
			if err := expectKind(n, types.NodeByteString); err != nil {
				return nil, err
			}
			return append([]byte{}, n.Bytes...), nil
		},
	)
}

// Bool encodes false as Constr 0 [] and true as Constr 1 [].
func Bool() Codec[bool] {
	return New(
		func(v bool) (types.Node, error) {
			if v {
				return types.ConstrNode(1), nil
			}
			return types.ConstrNode(0), nil
		},
		func(n types.Node) (bool, error) {
			if err := expectKind(n, types.NodeConstructor); err != nil {
				return false, err
			}
			if len(n.Fields) != 0 {
				return false, decodeErr("bool constructor must have no fields, got %d", len(n.Fields))
			}
			switch n.Tag {
			case 0:
				return false, nil
			case 1:
				return true, nil
			default:
				return false, decodeErr("bool constructor tag must be 0 or 1, got %d", n.Tag)
			}
		},
	)
}
