package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// NodeKind tags the four datum tree shapes.
type NodeKind byte

const (
	NodeInteger NodeKind = iota
	NodeByteString
	NodeList
	NodeConstructor
)

func (k NodeKind) String() string {
	switch k {
	case NodeInteger:
		return "integer"
	case NodeByteString:
		return "bytestring"
	case NodeList:
		return "list"
	case NodeConstructor:
		return "constructor"
	default:
		return "invalid"
	}
}

// Node is the recursive datum tree a script reads. Exactly one payload is
// meaningful, selected by Kind.
type Node struct {
	Kind   NodeKind
	Int    *big.Int // NodeInteger
	Bytes  []byte   // NodeByteString
	Tag    uint64   // NodeConstructor
	Fields []Node   // NodeList items or NodeConstructor fields
}

// IntegerNode builds an integer node holding a copy of n.
func IntegerNode(n *big.Int) Node {
	v := new(big.Int)
	if n != nil {
		v.Set(n)
	}
	return Node{Kind: NodeInteger, Int: v}
}

// Int64Node builds an integer node from a machine integer.
func Int64Node(n int64) Node {
	return Node{Kind: NodeInteger, Int: big.NewInt(n)}
}

// BytesNode builds a bytestring node holding a copy of b.
func BytesNode(b []byte) Node {
	return Node{Kind: NodeByteString, Bytes: append([]byte{}, b...)}
}

// ListNode builds a list node.
func ListNode(items ...Node) Node {
	return Node{Kind: NodeList, Fields: append([]Node{}, items...)}
}

// ConstrNode builds a constructor node.
func ConstrNode(tag uint64, fields ...Node) Node {
	return Node{Kind: NodeConstructor, Tag: tag, Fields: append([]Node{}, fields...)}
}

// Equal reports structural equality.
func (n Node) Equal(o Node) bool {
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case NodeInteger:
		return nodeInt(n).Cmp(nodeInt(o)) == 0
	case NodeByteString:
		return bytes.Equal(n.Bytes, o.Bytes)
	case NodeConstructor:
		if n.Tag != o.Tag {
			return false
		}
		fallthrough
	case NodeList:
		if len(n.Fields) != len(o.Fields) {
			return false
		}
		for i := range n.Fields {
			if !n.Fields[i].Equal(o.Fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the tree for diagnostics, e.g. Constr 0 [Int 5, Bytes ab].
func (n Node) String() string {
	switch n.Kind {
	case NodeInteger:
		return "Int " + nodeInt(n).String()
	case NodeByteString:
		return "Bytes " + hex.EncodeToString(n.Bytes)
	case NodeList:
		return "[" + joinNodes(n.Fields) + "]"
	case NodeConstructor:
		return fmt.Sprintf("Constr %d [%s]", n.Tag, joinNodes(n.Fields))
	default:
		return "<invalid node>"
	}
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, f := range nodes {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

func nodeInt(n Node) *big.Int {
	if n.Int == nil {
		return new(big.Int)
	}
	return n.Int
}
