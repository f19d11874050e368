package formats

import (
	"fmt"

	"github.com/OLUWAMUYIWA/bdecode/parsec"
)

const (
	// DefaultMaxDepth is the nesting limit used when DecOptions.MaxDepth is zero.
	DefaultMaxDepth = 512
	// MaxDepthLimit is the largest MaxDepth a DecMode accepts.
	MaxDepthLimit = 1 << 16
)

// DecOptions configures a DecMode. The zero value decodes the way ParseBencode does.
type DecOptions struct {
	// MaxDepth bounds how deeply lists and dictionaries may nest. Zero means
	// DefaultMaxDepth; a negative value removes the bound.
	MaxDepth int

	// DisallowTrailingData rejects input with bytes left after the top-level value.
	DisallowTrailingData bool

	// StrictIntegers rejects integers with a leading zero (i03e) and negative zero (i-0e).
	StrictIntegers bool

	// AllowBinaryStrings skips UTF-8 validation of byte strings. Binary payloads
	// such as piece hashes are kept byte for byte in the ByteString.
	AllowBinaryStrings bool
}

// DecMode is an immutable decoder configuration. It is safe for concurrent use.
type DecMode interface {
	// Decode decodes one value from the front of data.
	Decode(data []byte) (Value, error)
	// DecodePrefix is Decode that also reports how many bytes the value used.
	// Trailing data is never an error here.
	DecodePrefix(data []byte) (Value, int, error)
	DecOptions() DecOptions
}

type decMode struct {
	opts     DecOptions
	maxDepth int
}

var defaultMode = mustDecMode(DecOptions{})

func mustDecMode(o DecOptions) *decMode {
	m, err := o.decMode()
	if err != nil {
		panic("formats: default decoder initialization failed: " + err.Error())
	}
	return m
}

// DecMode validates the options and returns a decoder configured with them.
func (o DecOptions) DecMode() (DecMode, error) {
	return o.decMode()
}

func (o DecOptions) decMode() (*decMode, error) {
	if o.MaxDepth > MaxDepthLimit {
		return nil, fmt.Errorf("formats: MaxDepth %d exceeds limit %d", o.MaxDepth, MaxDepthLimit)
	}
	m := &decMode{opts: o, maxDepth: o.MaxDepth}
	switch {
	case o.MaxDepth == 0:
		m.maxDepth = DefaultMaxDepth
	case o.MaxDepth < 0:
		m.maxDepth = -1
	}
	return m, nil
}

func (m *decMode) DecOptions() DecOptions {
	return m.opts
}

func (m *decMode) Decode(data []byte) (Value, error) {
	v, n, err := m.DecodePrefix(data)
	if err != nil {
		return nil, err
	}
	if m.opts.DisallowTrailingData && n < len(data) {
		return nil, &DecodeError{
			Kind:   Malformed,
			Offset: n,
			Msg:    fmt.Sprintf("%d bytes of trailing data", len(data)-n),
			Err:    errTrailing,
		}
	}
	return v, nil
}

func (m *decMode) DecodePrefix(data []byte) (Value, int, error) {
	res := newDecodeState(m).value(parsec.NewInput(data))
	if res.Errored() {
		return nil, 0, classify(res.Err)
	}
	return res.Result, res.Rem.Offset(), nil
}
