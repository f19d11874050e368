package formats

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/exp/constraints"

	"github.com/OLUWAMUYIWA/bdecode/parsec"
)

// decodeState holds the grammar for one decode call. The only thing that changes while
// parsing is the nesting depth, so a state must not be shared between goroutines.
type decodeState struct {
	mode    *decMode
	depth   int
	grammar parsec.Parsec[Value]
}

func newDecodeState(m *decMode) *decodeState {
	s := &decodeState{mode: m}
	s.grammar = parsec.Alt(
		parsec.Map(signedInt[Integer](m.opts.StrictIntegers), func(n Integer) Value { return n }),
		parsec.Map(parsec.Parsec[string](s.byteString), func(b string) Value { return ByteString(b) }),
		parsec.Map(s.list(), func(l List) Value { return l }),
		parsec.Map(s.dictionary(), func(d Dictionary) Value { return d }),
	)
	return s
}

// isValueStart accepts the bytes a value can begin with.
func isValueStart(b byte) bool {
	return b == 'i' || b == 'l' || b == 'd' || parsec.IsDigit(b)
}

// element is the dispatcher: integer | string | list | dictionary. context is
// reported when the input ends where a value should start.
func (s *decodeState) element(context string) parsec.Parsec[Value] {
	head := parsec.Satisfy(isValueStart, context)
	return func(in parsec.Input) parsec.PResult[Value] {
		if h := head(in); h.Errored() {
			if parsec.Recoverable(h.Err) {
				// stays recoverable so a list or dictionary can go on to look for its closing 'e'
				return parsec.Failed[Value](in, parsec.UnmatchedErr(in, fmt.Sprintf("unrecognized input %q", in.Car())))
			}
			return parsec.Failed[Value](in, h.Err)
		}
		return s.grammar(in)
	}
}

// value decodes one value at the top level or as a dictionary entry.
func (s *decodeState) value(in parsec.Input) parsec.PResult[Value] {
	return s.element("expected a value")(in)
}

// parseDigits converts a run of ASCII digits into T, failing if it does not fit.
func parseDigits[T constraints.Integer](digits []byte) (T, error) {
	u, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", digits, errOverflow)
	}
	v := T(u)
	if v < 0 || uint64(v) != u {
		return 0, fmt.Errorf("%s: %w", digits, errOverflow)
	}
	return v, nil
}

// digits reads one or more decimal digits into any integer type.
func digits[T constraints.Integer](context string) parsec.Parsec[T] {
	return parsec.MapRes(parsec.TakeWhile1(parsec.IsDigit, context), context, parseDigits[T])
}

// signedInt reads 'i' ['-'] digits 'e'. The digit run is read as a magnitude of T
// and then negated, so the most negative value of T does not fit.
func signedInt[T constraints.Signed](strict bool) parsec.Parsec[T] {
	body := parsec.Pair(
		parsec.Opt(parsec.IsA('-')),
		parsec.TakeWhile1(parsec.IsDigit, "expected integer digits"),
	)
	number := parsec.MapRes(body, "integer", func(t parsec.Tuple[parsec.Optional[byte], []byte]) (T, error) {
		neg, run := t.First.Ok, t.Second
		if strict {
			if len(run) > 1 && run[0] == '0' {
				return 0, fmt.Errorf("%s: %w", run, errLeadingZero)
			}
			if neg && len(run) == 1 && run[0] == '0' {
				return 0, errNegativeZero
			}
		}
		n, err := parseDigits[T](run)
		if err != nil {
			return 0, err
		}
		if neg {
			n = -n
		}
		return n, nil
	})
	return parsec.Preceded(parsec.IsA('i'), parsec.Cut(parsec.Terminated(number, parsec.IsA('e'))))
}

// byteString reads digits ':' and then exactly that many bytes.
func (s *decodeState) byteString(in parsec.Input) parsec.PResult[string] {
	n := digits[int]("expected string length")(in)
	if n.Errored() {
		return parsec.Failed[string](in, n.Err)
	}
	payload := parsec.Cut(parsec.Preceded(parsec.IsA(':'), parsec.Take(n.Result)))(n.Rem)
	if payload.Errored() {
		return parsec.Failed[string](in, payload.Err)
	}
	if !s.mode.opts.AllowBinaryStrings && !utf8.Valid(payload.Result) {
		// report where the payload starts, just past the ':'
		return parsec.Failed[string](in, parsec.Fail(n.Rem.Cdr(), "byte string", errInvalidUTF8))
	}
	return parsec.Done(string(payload.Result), payload.Rem)
}

// list reads 'l' value* 'e'.
func (s *decodeState) list() parsec.Parsec[List] {
	items := parsec.Map(parsec.Many0(s.element("expected a value or 'e'")), func(vs []Value) List { return List(vs) })
	body := parsec.Terminated(items, parsec.IsA('e'))
	return parsec.Preceded(parsec.IsA('l'), parsec.Cut(descend(s, body)))
}

// dictionary reads 'd' (string value)* 'e' and folds the pairs into a sorted mapping.
func (s *decodeState) dictionary() parsec.Parsec[Dictionary] {
	pair := parsec.Pair(parsec.Parsec[string](s.byteString), parsec.Cut(parsec.Parsec[Value](s.value)))
	fold := parsec.FoldMany0(pair, newDictBuilder, func(b *dictBuilder, kv parsec.Tuple[string, Value]) *dictBuilder {
		return b.set(kv.First, kv.Second)
	})
	body := parsec.Map(parsec.Terminated(fold, parsec.IsA('e')), (*dictBuilder).build)
	return parsec.Preceded(parsec.IsA('d'), parsec.Cut(descend(s, body)))
}

// descend runs p one container level deeper, refusing to go past the mode's limit.
func descend[T any](s *decodeState, p parsec.Parsec[T]) parsec.Parsec[T] {
	return func(in parsec.Input) parsec.PResult[T] {
		if limit := s.mode.maxDepth; limit >= 0 && s.depth >= limit {
			return parsec.Failed[T](in, parsec.Fail(in, fmt.Sprintf("more than %d nested containers", limit), errTooDeep))
		}
		s.depth++
		defer func() { s.depth-- }()
		return p(in)
	}
}

// ParseBencode decodes data with the default options and reports only whether it worked.
// Nothing is returned for input that is malformed, truncated or otherwise rejected.
func ParseBencode(data []byte) (Value, bool) {
	v, err := Decode(data)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Decode decodes one value from the front of data with the default options.
// Bytes after the value are ignored. Failures are *DecodeError.
func Decode(data []byte) (Value, error) {
	return defaultMode.Decode(data)
}
