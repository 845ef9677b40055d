package ledger

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"
	"github.com/utxodex/sdk-go/core/types"
)

const credentialHashLen = 28

// Shelley address header types (high nibble).
const (
	headerBaseKeyKey       byte = 0x00
	headerBaseScriptKey    byte = 0x10
	headerBaseKeyScript    byte = 0x20
	headerBaseScriptScript byte = 0x30
	headerEnterpriseKey    byte = 0x60
	headerEnterpriseScript byte = 0x70
)

// DeriveAddress builds a base address, or an enterprise address when stake is nil.
func (p *Primitives) DeriveAddress(payment types.Credential, stake *types.Credential) (string, error) {
	payHash, err := credentialBytes(payment)
	if err != nil {
		return "", errors.Wrap(err, "payment credential")
	}

	var header byte
	raw := make([]byte, 0, 1+2*credentialHashLen)
	if stake == nil {
		header = headerEnterpriseKey
		if payment.Kind == types.CredentialScript {
			header = headerEnterpriseScript
		}
		raw = append(raw, header|p.network.ID)
		raw = append(raw, payHash...)
	} else {
		stakeHash, err := credentialBytes(*stake)
		if err != nil {
			return "", errors.Wrap(err, "stake credential")
		}
		switch {
		case payment.Kind == types.CredentialPubKey && stake.Kind == types.CredentialPubKey:
			header = headerBaseKeyKey
		case payment.Kind == types.CredentialScript && stake.Kind == types.CredentialPubKey:
			header = headerBaseScriptKey
		case payment.Kind == types.CredentialPubKey && stake.Kind == types.CredentialScript:
			header = headerBaseKeyScript
		default:
			header = headerBaseScriptScript
		}
		raw = append(raw, header|p.network.ID)
		raw = append(raw, payHash...)
		raw = append(raw, stakeHash...)
	}

	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert address bits")
	}
	addr, err := bech32.Encode(p.network.HRP, conv)
	if err != nil {
		return "", errors.Wrap(err, "bech32 encode")
	}
	return addr, nil
}

// AddressBytes decodes a bech32 address into its raw header and hashes.
func (p *Primitives) AddressBytes(address string) ([]byte, error) {
	hrp, data, err := bech32.DecodeNoLimit(address)
	if err != nil {
		return nil, errors.Wrapf(err, "decode address %q", address)
	}
	if hrp != p.network.HRP {
		return nil, errors.Errorf("address %q has prefix %q, expected %q", address, hrp, p.network.HRP)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(err, "convert address %q", address)
	}
	if len(raw) == 0 || raw[0]&0x0f != p.network.ID {
		return nil, errors.Errorf("address %q belongs to another network", address)
	}
	return raw, nil
}

// PaymentCredential extracts the payment credential of a base or enterprise address.
func (p *Primitives) PaymentCredential(address string) (types.Credential, error) {
	raw, err := p.AddressBytes(address)
	if err != nil {
		return types.Credential{}, err
	}
	if len(raw) < 1+credentialHashLen {
		return types.Credential{}, errors.Errorf("address %q is too short", address)
	}
	hash := hex.EncodeToString(raw[1 : 1+credentialHashLen])
	switch raw[0] & 0xf0 {
	case headerBaseScriptKey, headerBaseScriptScript, headerEnterpriseScript:
		return types.ScriptCredential(hash), nil
	case headerBaseKeyKey, headerBaseKeyScript, headerEnterpriseKey:
		return types.PubKeyCredential(hash), nil
	default:
		return types.Credential{}, errors.Errorf("address %q has unsupported header %#x", address, raw[0])
	}
}

func credentialBytes(c types.Credential) ([]byte, error) {
	b, err := hex.DecodeString(c.Hash)
	if err != nil {
		return nil, errors.Wrapf(err, "credential hash %q", c.Hash)
	}
	if len(b) != credentialHashLen {
		return nil, errors.Errorf("credential hash must be %d bytes, got %d", credentialHashLen, len(b))
	}
	return b, nil
}
