package ledger

import (
	"encoding/hex"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/utxodex/sdk-go/core/types"
)

// Post-Alonzo output map keys.
const (
	outputKeyAddress = 0
	outputKeyValue   = 1
	outputKeyDatum   = 2

	datumOptionInline = 1
	tagEncodedCBOR    = 24
)

// OutputSize is the serialized size of out as a map-form output carrying an
// inline datum when one is set.
func (p *Primitives) OutputSize(out types.CandidateOutput) (int, error) {
	b, err := p.EncodeOutput(out)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// EncodeOutput serializes out as {0: address, 1: value, 2: [1, #6.24(datum)]}.
func (p *Primitives) EncodeOutput(out types.CandidateOutput) ([]byte, error) {
	addr, err := p.AddressBytes(out.Address)
	if err != nil {
		return nil, err
	}
	value, err := encodeValue(out.Value)
	if err != nil {
		return nil, err
	}

	m := map[uint64]any{
		outputKeyAddress: addr,
		outputKeyValue:   value,
	}
	if out.Datum != nil {
		datum, err := p.EncodeNode(*out.Datum)
		if err != nil {
			return nil, errors.Wrap(err, "encode inline datum")
		}
		m[outputKeyDatum] = []any{uint64(datumOptionInline), cbor.Tag{Number: tagEncodedCBOR, Content: datum}}
	}

	b, err := p.enc.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "marshal output")
	}
	p.logger.Debug("encoded output",
		zap.String("address", out.Address),
		zap.Int("assets", out.Value.DistinctAssets()),
		zap.Int("size", len(b)))
	return b, nil
}

// encodeValue renders a bag as a bare coin, or [coin, multiasset] when it
// holds tokens.
func encodeValue(bag types.CurrencyBag) (any, error) {
	coin := bag.Native().Amount()
	tokens := bag.NonNative()
	if len(tokens) == 0 {
		return coin, nil
	}

	multi := make(map[cbor.ByteString]map[cbor.ByteString]*big.Int)
	for _, c := range tokens {
		policy, err := hex.DecodeString(c.Asset().Policy())
		if err != nil {
			return nil, errors.Wrapf(err, "policy of %s", c.Asset())
		}
		key := cbor.ByteString(policy)
		if multi[key] == nil {
			multi[key] = make(map[cbor.ByteString]*big.Int)
		}
		multi[key][cbor.ByteString(c.Asset().Name())] = c.Amount()
	}
	return []any{coin, multi}, nil
}
