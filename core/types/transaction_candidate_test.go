package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testUtxo(hash string, index uint32, native int64) UTxO {
	return UTxO{
		Ref:               OutputReference{TxHash: hash, Index: index},
		Address:           "addr_test1",
		PaymentCredential: PubKeyCredential(strings.Repeat("1", 56)),
		Value:             NewCurrencyBag(NewCurrencyInt64(native, NativeAsset)),
	}
}

func TestTransactionCandidate_ApplyIsAtomic(t *testing.T) {
	tx := NewTransactionCandidate()

	var first Draft
	first.AddInput(testUtxo("aa", 0, 5), nil)
	first.AddOutput("addr_script", NativeBag(testUtxo("aa", 0, 5).Value.Native().Amount()), nil)
	first.RequiredSigners = []string{"k1"}
	require.NoError(t, tx.Apply(first))

	var conflicting Draft
	conflicting.AddInput(testUtxo("bb", 0, 1), nil)
	conflicting.AddInput(testUtxo("aa", 0, 5), nil)
	conflicting.AddOutput("addr_other", NativeBag(nil), nil)
	conflicting.RequiredSigners = []string{"k2"}
	err := tx.Apply(conflicting)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already part of the transaction")

	require.Len(t, tx.Inputs(), 1)
	require.Len(t, tx.Outputs(), 1)
	require.Equal(t, []string{"k1"}, tx.RequiredSigners())
	require.Equal(t, []OutputReference{{TxHash: "aa", Index: 0}}, tx.InputRefs())
}

func TestTransactionCandidate_RejectsAddresslessOutput(t *testing.T) {
	tx := NewTransactionCandidate()
	var d Draft
	d.AddInput(testUtxo("aa", 1, 5), nil)
	d.AddOutput("", NativeBag(nil), nil)
	require.Error(t, tx.Apply(d))
	require.Empty(t, tx.Inputs())
}

func TestTransactionCandidate_Totals(t *testing.T) {
	tx := NewTransactionCandidate()
	var d Draft
	d.AddInput(testUtxo("aa", 0, 5), nil)
	d.AddInput(testUtxo("aa", 1, 7), nil)
	d.AddOutput("addr", NewCurrencyBag(NewCurrencyInt64(9, NativeAsset)), nil)
	require.NoError(t, tx.Apply(d))

	require.Equal(t, int64(12), tx.TotalInputValue().Native().Amount().Int64())
	require.Equal(t, int64(9), tx.TotalOutputValue().Native().Amount().Int64())

	tx.SetMetadata(674, "swap")
	v, ok := tx.Metadata(674)
	require.True(t, ok)
	require.Equal(t, "swap", v)
}

func TestParseOutputReference(t *testing.T) {
	ref, err := ParseOutputReference("ABCD#3")
	require.NoError(t, err)
	require.Equal(t, OutputReference{TxHash: "abcd", Index: 3}, ref)
	require.Equal(t, "abcd#3", ref.String())

	_, err = ParseOutputReference("abcd")
	require.Error(t, err)
	_, err = ParseOutputReference("abcd#x")
	require.Error(t, err)
}

func TestNode_EqualAndString(t *testing.T) {
	a := ConstrNode(0, Int64Node(5), BytesNode([]byte{0xab}), ListNode(Int64Node(1)))
	b := ConstrNode(0, Int64Node(5), BytesNode([]byte{0xab}), ListNode(Int64Node(1)))
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(ConstrNode(1, Int64Node(5), BytesNode([]byte{0xab}), ListNode(Int64Node(1)))))
	require.False(t, a.Equal(ListNode(Int64Node(5), BytesNode([]byte{0xab}), ListNode(Int64Node(1)))))
	require.Equal(t, "Constr 0 [Int 5, Bytes ab, [Int 1]]", a.String())
}
