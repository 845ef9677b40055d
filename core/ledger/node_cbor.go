package ledger

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/utxodex/sdk-go/core/types"
)

// Constructor tag ranges of the ledger's datum encoding.
const (
	constrSmallBase  = 121  // tags 121..127 carry constructors 0..6
	constrLargeBase  = 1280 // tags 1280..1400 carry constructors 7..127
	constrGeneralTag = 102  // #6.102([tag, fields]) carries everything else
	constrSmallMax   = 6
	constrLargeMax   = 127
)

// nodeToCBOR lowers a datum tree into values the cbor encoder understands.
func nodeToCBOR(n types.Node) (any, error) {
	switch n.Kind {
	case types.NodeInteger:
		if n.Int == nil {
			return uint64(0), nil
		}
		return new(big.Int).Set(n.Int), nil
	case types.NodeByteString:
		if n.Bytes == nil {
			return []byte{}, nil
		}
		return n.Bytes, nil
	case types.NodeList:
		return nodesToCBOR(n.Fields)
	case types.NodeConstructor:
		fields, err := nodesToCBOR(n.Fields)
		if err != nil {
			return nil, err
		}
		switch {
		case n.Tag <= constrSmallMax:
			return cbor.Tag{Number: constrSmallBase + n.Tag, Content: fields}, nil
		case n.Tag <= constrLargeMax:
			return cbor.Tag{Number: constrLargeBase + n.Tag - (constrSmallMax + 1), Content: fields}, nil
		default:
			return cbor.Tag{Number: constrGeneralTag, Content: []any{n.Tag, fields}}, nil
		}
	default:
		return nil, errors.Errorf("unknown node kind %d", n.Kind)
	}
}

func nodesToCBOR(nodes []types.Node) ([]any, error) {
	out := make([]any, len(nodes))
	for i, f := range nodes {
		v, err := nodeToCBOR(f)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		out[i] = v
	}
	return out, nil
}

// cborToNode lifts a generically decoded cbor value into a datum tree.
func cborToNode(v any) (types.Node, error) {
	switch t := v.(type) {
	case uint64:
		return types.IntegerNode(new(big.Int).SetUint64(t)), nil
	case int64:
		return types.Int64Node(t), nil
	case big.Int:
		return types.IntegerNode(&t), nil
	case *big.Int:
		return types.IntegerNode(t), nil
	case []byte:
		return types.BytesNode(t), nil
	case []any:
		fields, err := cborToNodes(t)
		if err != nil {
			return types.Node{}, err
		}
		return types.ListNode(fields...), nil
	case cbor.Tag:
		return tagToNode(t)
	default:
		return types.Node{}, errors.Errorf("unsupported datum value of type %T", v)
	}
}

func tagToNode(t cbor.Tag) (types.Node, error) {
	var (
		tag    uint64
		fields any
	)
	switch {
	case t.Number >= constrSmallBase && t.Number <= constrSmallBase+constrSmallMax:
		tag, fields = t.Number-constrSmallBase, t.Content
	case t.Number >= constrLargeBase && t.Number <= constrLargeBase+constrLargeMax-(constrSmallMax+1):
		tag, fields = t.Number-constrLargeBase+constrSmallMax+1, t.Content
	case t.Number == constrGeneralTag:
		pair, ok := t.Content.([]any)
		if !ok || len(pair) != 2 {
			return types.Node{}, errors.New("general constructor must be a 2-element array")
		}
		n, ok := pair[0].(uint64)
		if !ok {
			return types.Node{}, errors.Errorf("general constructor tag must be unsigned, got %T", pair[0])
		}
		tag, fields = n, pair[1]
	default:
		return types.Node{}, errors.Errorf("unsupported cbor tag %d", t.Number)
	}

	items, ok := fields.([]any)
	if !ok {
		return types.Node{}, errors.Errorf("constructor %d fields must be an array, got %T", tag, fields)
	}
	nodes, err := cborToNodes(items)
	if err != nil {
		return types.Node{}, errors.Wrapf(err, "constructor %d", tag)
	}
	return types.ConstrNode(tag, nodes...), nil
}

func cborToNodes(items []any) ([]types.Node, error) {
	out := make([]types.Node, len(items))
	for i, item := range items {
		n, err := cborToNode(item)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		out[i] = n
	}
	return out, nil
}
