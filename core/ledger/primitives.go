// Package ledger is a reference implementation of the pure ledger primitives
// the order assembler depends on: datum encoding, hashing, address derivation
// and output sizing. Signing and submission are not part of it.
package ledger

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/utxodex/sdk-go/core/logging"
	"github.com/utxodex/sdk-go/core/types"
)

// Network selects the address header nibble and the bech32 prefix.
type Network struct {
	ID  byte   `validate:"lte=15"`
	HRP string `validate:"required"`
}

var (
	Mainnet = Network{ID: 1, HRP: "addr"}
	Testnet = Network{ID: 0, HRP: "addr_test"}
)

// Primitives implements types.ILedgerPrimitives.
type Primitives struct {
	network Network
	enc     cbor.EncMode
	dec     cbor.DecMode
	logger  *zap.Logger
}

var _ types.ILedgerPrimitives = (*Primitives)(nil)

// NewPrimitives builds primitives for a network.
func NewPrimitives(network Network) (*Primitives, error) {
	if network.HRP == "" {
		return nil, errors.New("network bech32 prefix is required")
	}
	if network.ID > 0x0f {
		return nil, errors.Errorf("network id must fit in 4 bits, got %d", network.ID)
	}

	encOpts := cbor.CoreDetEncOptions()
	encOpts.BigIntConvert = cbor.BigIntConvertShortest
	enc, err := encOpts.EncMode()
	if err != nil {
		return nil, errors.Wrap(err, "cbor encode mode")
	}
	dec, err := cbor.DecOptions{
		MaxNestedLevels: 256,
	}.DecMode()
	if err != nil {
		return nil, errors.Wrap(err, "cbor decode mode")
	}

	return &Primitives{
		network: network,
		enc:     enc,
		dec:     dec,
		logger:  logging.Logger.Named("ledger"),
	}, nil
}

// Network returns the network the primitives were built for.
func (p *Primitives) Network() Network { return p.network }

func (p *Primitives) EncodeNode(node types.Node) ([]byte, error) {
	v, err := nodeToCBOR(node)
	if err != nil {
		return nil, errors.Wrap(err, "lower datum")
	}
	b, err := p.enc.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal datum")
	}
	return b, nil
}

func (p *Primitives) DecodeNode(data []byte) (types.Node, error) {
	var v any
	if err := p.dec.Unmarshal(data, &v); err != nil {
		return types.Node{}, errors.Wrap(err, "unmarshal datum")
	}
	n, err := cborToNode(v)
	if err != nil {
		return types.Node{}, errors.Wrap(err, "lift datum")
	}
	return n, nil
}

// Hash is blake2b-256, the ledger's datum hash.
func (p *Primitives) Hash(data []byte) []byte {
	h := blake2b.Sum256(data)
	return h[:]
}

// DatumHash hashes the canonical encoding of node.
func (p *Primitives) DatumHash(node types.Node) ([]byte, error) {
	b, err := p.EncodeNode(node)
	if err != nil {
		return nil, err
	}
	return p.Hash(b), nil
}

// ScriptHash is blake2b-224 over the language-prefixed script bytes.
func ScriptHash(language byte, script []byte) ([]byte, error) {
	h, err := blake2b.New(28, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	h.Write([]byte{language})
	h.Write(script)
	return h.Sum(nil), nil
}
