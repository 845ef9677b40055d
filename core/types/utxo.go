package types

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputReference points at a transaction output.
type OutputReference struct {
	TxHash string // hex transaction id
	Index  uint32 // output index
}

func (r OutputReference) String() string {
	return r.TxHash + "#" + strconv.FormatUint(uint64(r.Index), 10)
}

// ParseOutputReference parses the "txHash#index" form.
func ParseOutputReference(s string) (OutputReference, error) {
	hash, idx, ok := strings.Cut(s, "#")
	if !ok || hash == "" {
		return OutputReference{}, fmt.Errorf("output reference must look like <txHash>#<index>, got %q", s)
	}
	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return OutputReference{}, fmt.Errorf("invalid output index in %q: %w", s, err)
	}
	return OutputReference{TxHash: strings.ToLower(hash), Index: uint32(i)}, nil
}

// Less orders references by hash then index.
func (r OutputReference) Less(o OutputReference) bool {
	if r.TxHash != o.TxHash {
		return r.TxHash < o.TxHash
	}
	return r.Index < o.Index
}

// CredentialKind distinguishes key-hash from script-hash credentials.
type CredentialKind int

const (
	CredentialPubKey CredentialKind = iota
	CredentialScript
)

func (k CredentialKind) String() string {
	if k == CredentialScript {
		return "script"
	}
	return "pubkey"
}

// Credential is a hash extracted from an address.
type Credential struct {
	Kind CredentialKind
	Hash string // hex, 28 bytes
}

// PubKeyCredential is a key-hash credential.
func PubKeyCredential(hash string) Credential {
	return Credential{Kind: CredentialPubKey, Hash: strings.ToLower(hash)}
}

// ScriptCredential is a script-hash credential.
func ScriptCredential(hash string) Credential {
	return Credential{Kind: CredentialScript, Hash: strings.ToLower(hash)}
}

// UTxO is an unspent output as reported by the wallet or data provider.
type UTxO struct {
	Ref               OutputReference
	Address           string
	PaymentCredential Credential
	StakeCredential   *Credential // optional
	Value             CurrencyBag
	InlineDatum       *Node // optional
	Spent             bool  // set once the output is known to be consumed
}

// IsScriptLocked reports whether the payment credential is a script hash.
func (u UTxO) IsScriptLocked() bool {
	return u.PaymentCredential.Kind == CredentialScript
}

// ContainsRef reports whether refs includes ref.
func ContainsRef(refs []OutputReference, ref OutputReference) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}

// Refs lists the references of utxos.
func Refs(utxos []UTxO) []OutputReference {
	out := make([]OutputReference, len(utxos))
	for i, u := range utxos {
		out[i] = u.Ref
	}
	return out
}
