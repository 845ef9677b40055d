package datum

import (
	"math/big"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utxodex/sdk-go/core/types"
)

func roundTrip[T any](t *testing.T, c Codec[T], v T) T {
	t.Helper()
	n, err := c.Encode(v)
	require.NoError(t, err)
	out, err := c.Decode(n)
	require.NoError(t, err)
	return out
}

func TestPrimitives_RoundTrip(t *testing.T) {
	huge, _ := new(big.Int).SetString("340282366920938463463374607431768211457", 10)

	assert.Equal(t, int64(-42), roundTrip(t, Int(), -42))
	assert.Equal(t, 0, huge.Cmp(roundTrip(t, BigInt(), huge)))
	assert.Equal(t, "00ff", roundTrip(t, ByteString(), "00FF"))
	assert.Equal(t, []byte{1, 2, 3}, roundTrip(t, Bytes(), []byte{1, 2, 3}))
	assert.True(t, roundTrip(t, Bool(), true))
	assert.False(t, roundTrip(t, Bool(), false))
}

func TestPrimitives_RejectWrongShape(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"int from bytes", func() error { _, err := Int().Decode(types.BytesNode([]byte{1})); return err }},
		{"int overflow", func() error {
			big128 := new(big.Int).Lsh(big.NewInt(1), 100)
			_, err := Int().Decode(types.IntegerNode(big128))
			return err
		}},
		{"bigint from list", func() error { _, err := BigInt().Decode(types.ListNode()); return err }},
		{"bytestring from int", func() error { _, err := ByteString().Decode(types.Int64Node(1)); return err }},
		{"bool bad tag", func() error { _, err := Bool().Decode(types.ConstrNode(2)); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrDeserialization))
		})
	}
}

func TestByteString_EncodeRejectsBadHex(t *testing.T) {
	_, err := ByteString().Encode("xyz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSerialization))
}

func TestList_PreservesOrderAndReportsIndex(t *testing.T) {
	c := List(Int())
	assert.Equal(t, []int64{3, 1, 2}, roundTrip(t, c, []int64{3, 1, 2}))

	_, err := c.Decode(types.ListNode(types.Int64Node(1), types.BytesNode(nil)))
	require.Error(t, err)
	var de *types.DeserializationError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"[1]"}, de.Path)
}

func TestOptional(t *testing.T) {
	c := Optional(ByteString())

	n, err := c.Encode(nil)
	require.NoError(t, err)
	assert.True(t, n.Equal(types.ConstrNode(1)))

	v := "abcd"
	n, err = c.Encode(&v)
	require.NoError(t, err)
	assert.True(t, n.Equal(types.ConstrNode(0, types.BytesNode([]byte{0xab, 0xcd}))))

	out, err := c.Decode(n)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, v, *out)

	out, err = c.Decode(types.Int64Node(7))
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestTuple_RequiresExactArity(t *testing.T) {
	c := Tuple(Erase(Int()), Erase(ByteString()))
	vs := roundTrip(t, c, []any{int64(5), "ff"})
	assert.Equal(t, []any{int64(5), "ff"}, vs)

	_, err := c.Decode(types.ConstrNode(0, types.Int64Node(5)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDeserialization))

	_, err = c.Encode([]any{"wrong", "ff"})
	require.Error(t, err)
	var se *types.SerializationError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"[0]"}, se.Path)
}

func TestRational(t *testing.T) {
	r := big.NewRat(3, 4)
	out := roundTrip(t, Rational(), r)
	assert.Equal(t, 0, r.Cmp(out))

	_, err := Rational().Decode(types.ConstrNode(0, types.Int64Node(1), types.Int64Node(0)))
	require.Error(t, err)
}

func TestAssetIdentifier(t *testing.T) {
	policy := strings.Repeat("a1", 28)
	asset := types.MustAssetIdentifier(policy, "token")

	n, err := AssetIdentifier().Encode(asset)
	require.NoError(t, err)
	assert.Equal(t, types.NodeConstructor, n.Kind)
	assert.Len(t, n.Fields, 2)
	assert.Equal(t, asset, roundTrip(t, AssetIdentifier(), asset))
	assert.Equal(t, types.NativeAsset, roundTrip(t, AssetIdentifier(), types.NativeAsset))

	_, err = AssetIdentifier().Decode(types.ConstrNode(0, types.Int64Node(1), types.BytesNode(nil)))
	var de *types.DeserializationError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"policy"}, de.Path)
}

func TestCredential_FixedTags(t *testing.T) {
	hash := strings.Repeat("0c", 28)

	n, err := Credential().Encode(types.ScriptCredential(hash))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n.Tag)

	n, err = Credential().Encode(types.PubKeyCredential(hash))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n.Tag)

	assert.Equal(t, types.ScriptCredential(hash), roundTrip(t, Credential(), types.ScriptCredential(hash)))
	assert.Equal(t, types.PubKeyCredential(hash), roundTrip(t, Credential(), types.PubKeyCredential(hash)))

	_, err = Credential().Decode(types.ConstrNode(5, types.BytesNode(nil)))
	require.Error(t, err)
}
