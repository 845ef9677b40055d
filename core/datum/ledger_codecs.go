package datum

import (
	"encoding/hex"

	"github.com/utxodex/sdk-go/core/types"
)

// AssetIdentifier encodes an asset as Constr 0 [policy, name].
func AssetIdentifier() Codec[types.AssetIdentifier] {
	raw := Bytes()
	return New(
		func(a types.AssetIdentifier) (types.Node, error) {
			policy, err := hex.DecodeString(a.Policy())
			if err != nil {
				return types.Node{}, encodeAt(encodeErr("invalid policy %q", a.Policy()), "policy")
			}
			return types.ConstrNode(0, types.BytesNode(policy), types.BytesNode(a.Name())), nil
		},
		func(n types.Node) (types.AssetIdentifier, error) {
			if err := expectConstr(n, 0, 2); err != nil {
				return types.AssetIdentifier{}, err
			}
			policy, err := raw.Decode(n.Fields[0])
			if err != nil {
				return types.AssetIdentifier{}, decodeAt(err, "policy")
			}
			name, err := raw.Decode(n.Fields[1])
			if err != nil {
				return types.AssetIdentifier{}, decodeAt(err, "name")
			}
			a, err := types.NewAssetIdentifier(hex.EncodeToString(policy), name)
			if err != nil {
				return types.AssetIdentifier{}, decodeErr("%v", err)
			}
			return a, nil
		},
	)
}

// Credential encodes a payment or stake credential. Script credentials are
// Constr 1 [hash], key credentials Constr 0 [hash].
func Credential() Codec[types.Credential] {
	return TaggedUnion(
		Variant[types.Credential]{
			Name:    "pubKey",
			Tag:     0,
			Matches: func(c types.Credential) bool { return c.Kind == types.CredentialPubKey },
			Payload: credentialHash(types.PubKeyCredential),
		},
		Variant[types.Credential]{
			Name:    "script",
			Tag:     1,
			Matches: func(c types.Credential) bool { return c.Kind == types.CredentialScript },
			Payload: credentialHash(types.ScriptCredential),
		},
	)
}

func credentialHash(build func(hash string) types.Credential) Codec[types.Credential] {
	return Map(ByteString(),
		func(h string) (types.Credential, error) { return build(h), nil },
		func(c types.Credential) (string, error) { return c.Hash, nil },
	)
}
