package types

import (
	"fmt"
	"math/big"
	"strings"
)

// ═══════════════════════════════════════════════════════════════
// SENTINELS
// Every typed error below reports Is(sentinel) == true, so callers can
// branch with errors.Is and still reach the details with errors.As.
// ═══════════════════════════════════════════════════════════════

var (
	ErrAssetMismatch        = sentinel("asset mismatch")
	ErrNegativeResult       = sentinel("negative result")
	ErrInsufficientFunds    = sentinel("insufficient funds")
	ErrSerialization        = sentinel("serialization error")
	ErrDeserialization      = sentinel("deserialization error")
	ErrOutputNotFound       = sentinel("output not found")
	ErrAlreadySpent         = sentinel("output already spent")
	ErrUnsupportedOperation = sentinel("unsupported operation")
)

type sentinelError string

func sentinel(msg string) error { return sentinelError(msg) }

func (s sentinelError) Error() string { return string(s) }

// ═══════════════════════════════════════════════════════════════
// VALUE MODEL ERRORS
// ═══════════════════════════════════════════════════════════════

// AssetMismatchError is returned when arithmetic or comparison is attempted
// between currencies of different assets.
type AssetMismatchError struct {
	Left  AssetIdentifier
	Right AssetIdentifier
}

func (e *AssetMismatchError) Error() string {
	return fmt.Sprintf("asset mismatch: %s vs %s", e.Left.Key(), e.Right.Key())
}

func (e *AssetMismatchError) Is(target error) bool { return target == ErrAssetMismatch }

// NegativeResultError is returned when a subtraction would go below zero.
type NegativeResultError struct {
	Asset      AssetIdentifier
	Minuend    *big.Int
	Subtrahend *big.Int
}

func (e *NegativeResultError) Error() string {
	return fmt.Sprintf("negative result for %s: %s - %s", e.Asset.Key(), e.Minuend, e.Subtrahend)
}

func (e *NegativeResultError) Is(target error) bool { return target == ErrNegativeResult }

// InsufficientFundsError names the first requirement the wallet could not cover.
type InsufficientFundsError struct {
	Asset     AssetIdentifier
	Required  *big.Int
	Available *big.Int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: required %s, available %s",
		e.Asset.Key(), e.Required, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// ═══════════════════════════════════════════════════════════════
// CODEC ERRORS
// ═══════════════════════════════════════════════════════════════

// SerializationError is an encode failure at Path.
type SerializationError struct {
	Path []string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error at %s: %v", joinPath(e.Path), e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }

// DeserializationError is a decode failure at Path, e.g. [deposit poolNft policy].
type DeserializationError struct {
	Path []string
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialization error at %s: %v", joinPath(e.Path), e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

func (e *DeserializationError) Is(target error) bool { return target == ErrDeserialization }

func joinPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}

// ═══════════════════════════════════════════════════════════════
// CANCEL GUARDS
// ═══════════════════════════════════════════════════════════════

// OutputNotFoundError is returned when a referenced output does not exist.
type OutputNotFoundError struct {
	Ref OutputReference
}

func (e *OutputNotFoundError) Error() string {
	return fmt.Sprintf("output %s not found", e.Ref)
}

func (e *OutputNotFoundError) Is(target error) bool { return target == ErrOutputNotFound }

// AlreadySpentError is returned when a referenced output was consumed.
type AlreadySpentError struct {
	Ref OutputReference
}

func (e *AlreadySpentError) Error() string {
	return fmt.Sprintf("output %s already spent", e.Ref)
}

func (e *AlreadySpentError) Is(target error) bool { return target == ErrAlreadySpent }

// UnsupportedOperationError is returned when an output is not locked by one of
// the known operation scripts.
type UnsupportedOperationError struct {
	Ref        OutputReference
	ScriptHash string
}

func (e *UnsupportedOperationError) Error() string {
	if e.ScriptHash == "" {
		return fmt.Sprintf("output %s is not locked by a script", e.Ref)
	}
	return fmt.Sprintf("output %s is locked by unknown script %s", e.Ref, e.ScriptHash)
}

func (e *UnsupportedOperationError) Is(target error) bool { return target == ErrUnsupportedOperation }
