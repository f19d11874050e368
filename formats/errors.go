package formats

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/OLUWAMUYIWA/bdecode/parsec"
)

// ErrorKind classifies why decoding failed.
type ErrorKind uint8

const (
	// Malformed: a marker or separator did not match the grammar. More input will not fix it.
	Malformed ErrorKind = iota + 1
	// InvalidEncoding: a byte string payload is not valid UTF-8.
	InvalidEncoding
	// NumericOverflow: a digit run does not fit its integer type.
	NumericOverflow
	// Incomplete: the input ended before the grammar was satisfied.
	Incomplete
	// DepthExceeded: lists and dictionaries nest deeper than the decoder allows.
	DepthExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case InvalidEncoding:
		return "invalid encoding"
	case NumericOverflow:
		return "numeric overflow"
	case Incomplete:
		return "incomplete"
	case DepthExceeded:
		return "depth exceeded"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *DecodeError of the same kind.
var (
	ErrMalformed       = errors.New("bencode: malformed input")
	ErrInvalidEncoding = errors.New("bencode: invalid utf-8 in byte string")
	ErrNumericOverflow = errors.New("bencode: numeric overflow")
	ErrIncomplete      = errors.New("bencode: incomplete input")
	ErrDepthExceeded   = errors.New("bencode: maximum nesting depth exceeded")
)

// inner causes carried through parsec errors until classify turns them into kinds
var (
	errInvalidUTF8  = errors.New("byte string is not valid utf-8")
	errOverflow     = errors.New("value out of range")
	errTooDeep      = errors.New("nesting too deep")
	errLeadingZero  = errors.New("leading zero")
	errNegativeZero = errors.New("negative zero")
	errTrailing     = errors.New("trailing data after value")
)

// DecodeError is returned by every decode operation that fails.
type DecodeError struct {
	Kind ErrorKind
	// Offset is the byte position in the input where the failure was detected.
	Offset int
	Msg    string
	Err    error
}

func (e *DecodeError) Error() string {
	return "bencode: " + e.Kind.String() + " at offset " + strconv.Itoa(e.Offset) + ": " + e.Msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == Malformed
	case ErrInvalidEncoding:
		return e.Kind == InvalidEncoding
	case ErrNumericOverflow:
		return e.Kind == NumericOverflow
	case ErrIncomplete:
		return e.Kind == Incomplete
	case ErrDepthExceeded:
		return e.Kind == DepthExceeded
	}
	return false
}

// classify turns a parser failure into a DecodeError.
func classify(err error) *DecodeError {
	de := &DecodeError{Kind: Malformed, Msg: err.Error(), Err: err}
	var pe *parsec.ParsecErr
	if errors.As(err, &pe) {
		de.Offset = pe.Offset()
		de.Msg = pe.Context()
		if inner := pe.Unwrap(); inner != nil && !errors.Is(inner, parsec.Unmatched) && !errors.Is(inner, parsec.Incomplete) {
			de.Msg = fmt.Sprintf("%s: %s", pe.Context(), inner)
		}
	}
	switch {
	case errors.Is(err, parsec.Incomplete):
		de.Kind = Incomplete
	case errors.Is(err, errInvalidUTF8):
		de.Kind = InvalidEncoding
	case errors.Is(err, errOverflow):
		de.Kind = NumericOverflow
	case errors.Is(err, errTooDeep):
		de.Kind = DepthExceeded
	}
	return de
}
