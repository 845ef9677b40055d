package types

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPolicyHexLength is the hex length of a 28-byte script hash.
	MaxPolicyHexLength = 56
	// MaxAssetNameLength is the ledger limit on asset name bytes.
	MaxAssetNameLength = 32
)

// AssetIdentifier identifies a ledger asset by minting policy and name.
// The zero value is the native currency.
type AssetIdentifier struct {
	policy string // lowercase hex, 0..56 chars
	name   string // raw name bytes
}

// NativeAsset is the ledger's native currency.
var NativeAsset = AssetIdentifier{}

// NewAssetIdentifier builds an identifier from a hex policy and raw name bytes.
func NewAssetIdentifier(policy string, name []byte) (AssetIdentifier, error) {
	policy = strings.ToLower(policy)
	if len(policy) > MaxPolicyHexLength {
		return AssetIdentifier{}, fmt.Errorf("policy must be at most %d hex chars, got %d", MaxPolicyHexLength, len(policy))
	}
	if _, err := hex.DecodeString(policy); err != nil {
		return AssetIdentifier{}, fmt.Errorf("policy is not valid hex: %w", err)
	}
	if len(name) > MaxAssetNameLength {
		return AssetIdentifier{}, fmt.Errorf("asset name must be at most %d bytes, got %d", MaxAssetNameLength, len(name))
	}
	if policy == "" && len(name) > 0 {
		return AssetIdentifier{}, fmt.Errorf("asset name requires a policy")
	}
	return AssetIdentifier{policy: policy, name: string(name)}, nil
}

// NewAssetIdentifierHex builds an identifier from a hex policy and a hex name.
func NewAssetIdentifierHex(policy, nameHex string) (AssetIdentifier, error) {
	name, err := hex.DecodeString(nameHex)
	if err != nil {
		return AssetIdentifier{}, fmt.Errorf("asset name is not valid hex: %w", err)
	}
	return NewAssetIdentifier(policy, name)
}

// MustAssetIdentifier is NewAssetIdentifier for constants and tests.
func MustAssetIdentifier(policy string, name string) AssetIdentifier {
	a, err := NewAssetIdentifier(policy, []byte(name))
	if err != nil {
		panic(err)
	}
	return a
}

// Policy returns the hex policy id.
func (a AssetIdentifier) Policy() string { return a.policy }

// Name returns a copy of the raw name bytes.
func (a AssetIdentifier) Name() []byte { return []byte(a.name) }

// NameHex returns the name bytes as hex.
func (a AssetIdentifier) NameHex() string { return hex.EncodeToString([]byte(a.name)) }

// IsNative reports whether a is the native currency.
func (a AssetIdentifier) IsNative() bool { return a.policy == "" && a.name == "" }

// Equal reports whether both policy and name match.
func (a AssetIdentifier) Equal(b AssetIdentifier) bool { return a == b }

// Key returns the canonical "policy.name" string. The name is rendered as
// text when it is printable UTF-8 and as hex otherwise.
func (a AssetIdentifier) Key() string {
	return a.policy + "." + displayName(a.name)
}

func (a AssetIdentifier) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.Key()
}

// Less orders identifiers by policy then name bytes; native sorts first.
func (a AssetIdentifier) Less(b AssetIdentifier) bool {
	if a.policy != b.policy {
		return a.policy < b.policy
	}
	return a.name < b.name
}

func displayName(name string) string {
	if !utf8.ValidString(name) {
		return hex.EncodeToString([]byte(name))
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return hex.EncodeToString([]byte(name))
		}
	}
	return name
}
