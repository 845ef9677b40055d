package types

import (
	"math/big"

	"github.com/pkg/errors"
)

// SpendScript describes how a script-locked input is unlocked.
type SpendScript struct {
	ScriptHash     string           // hex hash of the validator
	Redeemer       Node             // redeemer passed to the validator
	ReferenceInput *OutputReference // output carrying the script, when not inlined
}

// CandidateInput is an input entry of a TransactionCandidate.
type CandidateInput struct {
	UTxO   UTxO
	Script *SpendScript // nil for key-locked inputs
}

// CandidateOutput is an output entry of a TransactionCandidate.
type CandidateOutput struct {
	Address string
	Value   CurrencyBag
	Datum   *Node // inline datum, optional
}

// CandidateMint is a mint (positive) or burn (negative) entry.
type CandidateMint struct {
	Asset    AssetIdentifier
	Amount   *big.Int
	Redeemer *Node
}

// Draft collects the entries one operation wants to add. It is applied to a
// TransactionCandidate in a single step so a failed operation leaves no trace.
type Draft struct {
	Inputs          []CandidateInput
	Outputs         []CandidateOutput
	Mints           []CandidateMint
	RequiredSigners []string // hex key hashes
}

// AddInput appends an input to the draft.
func (d *Draft) AddInput(utxo UTxO, script *SpendScript) {
	d.Inputs = append(d.Inputs, CandidateInput{UTxO: utxo, Script: script})
}

// AddOutput appends an output to the draft.
func (d *Draft) AddOutput(address string, value CurrencyBag, datum *Node) {
	d.Outputs = append(d.Outputs, CandidateOutput{Address: address, Value: value, Datum: datum})
}

// TransactionCandidate accumulates inputs, outputs and mints for one
// transaction before it is handed to the finalizer. It is owned by a single
// caller and is not safe for concurrent use.
type TransactionCandidate struct {
	inputs   []CandidateInput
	outputs  []CandidateOutput
	mints    []CandidateMint
	signers  []string
	metadata map[uint64]any
}

// NewTransactionCandidate returns an empty candidate.
func NewTransactionCandidate() *TransactionCandidate {
	return &TransactionCandidate{}
}

// Apply appends every entry of d, or nothing if d conflicts with entries
// already in the candidate.
func (t *TransactionCandidate) Apply(d Draft) error {
	seen := make(map[OutputReference]struct{}, len(t.inputs)+len(d.Inputs))
	for _, in := range t.inputs {
		seen[in.UTxO.Ref] = struct{}{}
	}
	for _, in := range d.Inputs {
		if _, dup := seen[in.UTxO.Ref]; dup {
			return errors.Errorf("input %s is already part of the transaction", in.UTxO.Ref)
		}
		seen[in.UTxO.Ref] = struct{}{}
	}
	for i, out := range d.Outputs {
		if out.Address == "" {
			return errors.Errorf("output %d has no address", i)
		}
	}

	t.inputs = append(t.inputs, d.Inputs...)
	t.outputs = append(t.outputs, d.Outputs...)
	t.mints = append(t.mints, d.Mints...)
	for _, s := range d.RequiredSigners {
		if !containsString(t.signers, s) {
			t.signers = append(t.signers, s)
		}
	}
	return nil
}

// SetMetadata attaches transaction metadata under label.
func (t *TransactionCandidate) SetMetadata(label uint64, value any) {
	if t.metadata == nil {
		t.metadata = make(map[uint64]any)
	}
	t.metadata[label] = value
}

// Metadata returns the metadata attached under label.
func (t *TransactionCandidate) Metadata(label uint64) (any, bool) {
	v, ok := t.metadata[label]
	return v, ok
}

func (t *TransactionCandidate) Inputs() []CandidateInput {
	return append([]CandidateInput{}, t.inputs...)
}

func (t *TransactionCandidate) Outputs() []CandidateOutput {
	return append([]CandidateOutput{}, t.outputs...)
}

func (t *TransactionCandidate) Mints() []CandidateMint {
	return append([]CandidateMint{}, t.mints...)
}

// RequiredSigners lists key hashes that must sign the transaction.
func (t *TransactionCandidate) RequiredSigners() []string {
	return append([]string{}, t.signers...)
}

// InputRefs lists the references already consumed by the candidate.
func (t *TransactionCandidate) InputRefs() []OutputReference {
	refs := make([]OutputReference, len(t.inputs))
	for i, in := range t.inputs {
		refs[i] = in.UTxO.Ref
	}
	return refs
}

// TotalInputValue sums the values of all inputs.
func (t *TransactionCandidate) TotalInputValue() CurrencyBag {
	out := NewCurrencyBag()
	for _, in := range t.inputs {
		out = out.Plus(in.UTxO.Value)
	}
	return out
}

// TotalOutputValue sums the values of all outputs.
func (t *TransactionCandidate) TotalOutputValue() CurrencyBag {
	out := NewCurrencyBag()
	for _, o := range t.outputs {
		out = out.Plus(o.Value)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
