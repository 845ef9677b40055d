package util

// MapOrNil returns nil if the value is nil, otherwise the transformed value.
//
// Optional datum fields and credentials are pointers, so this keeps the
// absent case absent while converting between representations.
//
// Example:
//
//	stake := util.MapOrNil(owner.StakePkh, types.PubKeyCredential)
func MapOrNil[T, R any](value *T, transform func(T) R) *R {
	if value == nil {
		return nil
	}
	out := transform(*value)
	return &out
}
