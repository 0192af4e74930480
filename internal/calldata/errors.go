package calldata

import (
	"errors"
	"fmt"
)

// Kind tags a structural decode failure. Structural failures are fatal
// for the item they occur in; they are never downgraded to findings.
type Kind string

const (
	KindMalformedHex           Kind = "MalformedHex"
	KindTruncatedHead          Kind = "TruncatedHead"
	KindDynamicHeadOutOfBounds Kind = "DynamicHeadOutOfBounds"
	KindDynamicBodyTruncated   Kind = "DynamicBodyTruncated"
	KindPathTruncated          Kind = "PathTruncated"
	KindV3StructTooShort       Kind = "V3StructTooShort"
	KindUnknownV2Layout        Kind = "UnknownV2Layout"
)

// DecodeError is a structural decode failure with its kind and a
// human-readable reason.
type DecodeError struct {
	Kind   Kind
	Reason string
}

func (e *DecodeError) Error() string {
	return string(e.Kind) + ": " + e.Reason
}

// Errf builds a DecodeError with a formatted reason.
func Errf(kind Kind, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or "" if err is not a DecodeError.
func KindOf(err error) Kind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
