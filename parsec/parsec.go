// parsec is a mini parser combinator library over complete byte buffers.
// Parsers are plain functions from an Input to a PResult, so they compose by
// closure and recurse through ordinary Go functions.
package parsec

import (
	"errors"
	"fmt"
)

// Parsec is a basic parser function. It takes an input and returns a PResult carrying
// a value of type T.
type Parsec[T any] func(in Input) PResult[T]

// Predicate reports whether a byte satisfies some condition.
type Predicate func(b byte) bool

// PResult contains three fields. `Result` holds what the parser produced, `Rem` the remaining input.
// If the parser succeeds then `Rem` is the input after the matched bytes have been moved out of it;
// if it fails, `Rem` is the input unchanged and `Err` says why.
type PResult[T any] struct {
	Result T
	Rem    Input
	Err    error
}

// Errored reports whether the parser failed.
func (r PResult[T]) Errored() bool {
	return r.Err != nil
}

// Done builds a successful result.
func Done[T any](v T, rem Input) PResult[T] {
	return PResult[T]{Result: v, Rem: rem}
}

// Failed builds a failed result that hands back the input it was given.
func Failed[T any](in Input, err error) PResult[T] {
	return PResult[T]{Rem: in, Err: err}
}

var (
	// Unmatched is the inner error of a parser that saw a byte it does not accept.
	Unmatched = errors.New("parser unmatched")
	// Incomplete is the inner error of a parser that ran out of input.
	Incomplete = errors.New("there isn't enough data left for this parser")
)

// ParsecErr describes where and why a parser failed. A committed error stops
// alternation and repetition instead of letting them try something else.
type ParsecErr struct {
	context   string
	offset    int
	committed bool
	inner     error
}

func (e *ParsecErr) Error() string {
	if e.inner == nil {
		return fmt.Sprintf("%s at offset %d", e.context, e.offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.context, e.offset, e.inner)
}

func (e *ParsecErr) Unwrap() error {
	return e.inner
}

// Context is the message the failing parser attached.
func (e *ParsecErr) Context() string {
	return e.context
}

// Offset is the absolute position in the original buffer where the failure was detected.
func (e *ParsecErr) Offset() int {
	return e.offset
}

// Committed reports whether the error came from inside a Cut.
func (e *ParsecErr) Committed() bool {
	return e.committed
}

func UnmatchedErr(in Input, context string) *ParsecErr {
	return &ParsecErr{context: context, offset: in.Offset(), inner: Unmatched}
}

func IncompleteErr(in Input, context string) *ParsecErr {
	return &ParsecErr{context: context, offset: in.Offset(), inner: Incomplete}
}

// Fail builds a committed error wrapping inner. Domain errors (overflow, bad encoding)
// never allow backtracking, so they are committed from the start.
func Fail(in Input, context string, inner error) *ParsecErr {
	return &ParsecErr{context: context, offset: in.Offset(), committed: true, inner: inner}
}

// Recoverable reports whether err lets Alt, Opt, Many0 or FoldMany0 carry on:
// only an uncommitted Unmatched does.
func Recoverable(err error) bool {
	var pe *ParsecErr
	if !errors.As(err, &pe) {
		return false
	}
	return !pe.committed && errors.Is(pe.inner, Unmatched)
}

////////SIMPLE PARSERS

// IsA is the simplest parser, it checks if a byte matches the next byte in the input.
func IsA(b byte) Parsec[byte] {
	return func(in Input) PResult[byte] {
		if in.Empty() {
			return Failed[byte](in, IncompleteErr(in, fmt.Sprintf("expected %q", b)))
		}
		if in.Car() == b {
			return Done(b, in.Cdr())
		}
		return Failed[byte](in, UnmatchedErr(in, fmt.Sprintf("expected %q, found %q", b, in.Car())))
	}
}

// Satisfy returns the next byte if it passes the predicate.
func Satisfy(f Predicate, context string) Parsec[byte] {
	return func(in Input) PResult[byte] {
		if in.Empty() {
			return Failed[byte](in, IncompleteErr(in, context))
		}
		if c := in.Car(); f(c) {
			return Done(c, in.Cdr())
		}
		return Failed[byte](in, UnmatchedErr(in, context))
	}
}

// IsDigit accepts ASCII decimal digits only.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

/////REPETITIONS

// Take eats exactly `n` bytes. If fewer than `n` are left it fails with Incomplete.
// The returned slice aliases the input buffer.
func Take(n int) Parsec[[]byte] {
	return func(in Input) PResult[[]byte] {
		if n < 0 {
			return Failed[[]byte](in, Fail(in, "negative take", Unmatched))
		}
		if in.Len() < n {
			return Failed[[]byte](in, IncompleteErr(in, fmt.Sprintf("need %d bytes, have %d", n, in.Len())))
		}
		return Done(in.Bytes()[:n], in.Advance(n))
	}
}

// TakeWhile1 keeps eating bytes while the Predicate returns true. It must take at least one byte.
// Running into the end of the input is fine once something was taken, since the buffer is complete.
func TakeWhile1(f Predicate, context string) Parsec[[]byte] {
	return func(in Input) PResult[[]byte] {
		if in.Empty() {
			return Failed[[]byte](in, IncompleteErr(in, context))
		}
		rem := in.Bytes()
		n := 0
		for n < len(rem) && f(rem[n]) {
			n++
		}
		if n == 0 {
			return Failed[[]byte](in, UnmatchedErr(in, context))
		}
		return Done(rem[:n], in.Advance(n))
	}
}

// Many0 will take as many reps of a parser as it can, even zero. It stops without erroring
// at the first recoverable failure; any other failure is returned as is.
func Many0[T any](p Parsec[T]) Parsec[[]T] {
	return FoldMany0(p, func() []T { return []T{} }, func(acc []T, curr T) []T {
		return append(acc, curr)
	})
}

// FoldMany0 is Many0 with an accumulator: every result is folded into the value built by init.
func FoldMany0[T, A any](p Parsec[T], init func() A, accFunc func(acc A, curr T) A) Parsec[A] {
	return func(in Input) PResult[A] {
		acc := init()
		rem := in
		for {
			curr := p(rem)
			if curr.Errored() {
				if Recoverable(curr.Err) {
					return Done(acc, rem)
				}
				return Failed[A](in, curr.Err)
			}
			if curr.Rem.Offset() == rem.Offset() {
				// a parser that consumes nothing would spin forever
				return Done(acc, rem)
			}
			acc = accFunc(acc, curr.Result)
			rem = curr.Rem
		}
	}
}

/////COMBINATORS

// Optional is the result of Opt: Value is only meaningful when Ok is set.
type Optional[T any] struct {
	Value T
	Ok    bool
}

// Opt tries p and turns a recoverable failure into an absent result.
func Opt[T any](p Parsec[T]) Parsec[Optional[T]] {
	return func(in Input) PResult[Optional[T]] {
		res := p(in)
		if res.Errored() {
			if Recoverable(res.Err) {
				return Done(Optional[T]{}, in)
			}
			return Failed[Optional[T]](in, res.Err)
		}
		return Done(Optional[T]{Value: res.Result, Ok: true}, res.Rem)
	}
}

// Map transforms the result of a successful parse.
func Map[A, B any](p Parsec[A], f func(A) B) Parsec[B] {
	return func(in Input) PResult[B] {
		res := p(in)
		if res.Errored() {
			return Failed[B](in, res.Err)
		}
		return Done(f(res.Result), res.Rem)
	}
}

// MapRes is Map with a fallible transform. The transform's error is committed and
// reported at the position where p started.
func MapRes[A, B any](p Parsec[A], context string, f func(A) (B, error)) Parsec[B] {
	return func(in Input) PResult[B] {
		res := p(in)
		if res.Errored() {
			return Failed[B](in, res.Err)
		}
		v, err := f(res.Result)
		if err != nil {
			return Failed[B](in, Fail(in, context, err))
		}
		return Done(v, res.Rem)
	}
}

// Preceded runs pre and then p, keeping only what p produced.
func Preceded[A, B any](pre Parsec[A], p Parsec[B]) Parsec[B] {
	return func(in Input) PResult[B] {
		first := pre(in)
		if first.Errored() {
			return Failed[B](in, first.Err)
		}
		res := p(first.Rem)
		if res.Errored() {
			return Failed[B](in, res.Err)
		}
		return res
	}
}

// Terminated runs p and then post, keeping only what p produced.
func Terminated[A, B any](p Parsec[A], post Parsec[B]) Parsec[A] {
	return func(in Input) PResult[A] {
		res := p(in)
		if res.Errored() {
			return Failed[A](in, res.Err)
		}
		last := post(res.Rem)
		if last.Errored() {
			return Failed[A](in, last.Err)
		}
		return Done(res.Result, last.Rem)
	}
}

// Delimited is Preceded and Terminated at once: pre p post, keeping p.
func Delimited[A, B, C any](pre Parsec[A], p Parsec[B], post Parsec[C]) Parsec[B] {
	return Preceded(pre, Terminated(p, post))
}

// Tuple holds the results of Pair.
type Tuple[A, B any] struct {
	First  A
	Second B
}

// Pair runs two parsers in sequence and keeps both results.
func Pair[A, B any](a Parsec[A], b Parsec[B]) Parsec[Tuple[A, B]] {
	return func(in Input) PResult[Tuple[A, B]] {
		first := a(in)
		if first.Errored() {
			return Failed[Tuple[A, B]](in, first.Err)
		}
		second := b(first.Rem)
		if second.Errored() {
			return Failed[Tuple[A, B]](in, second.Err)
		}
		return Done(Tuple[A, B]{First: first.Result, Second: second.Result}, second.Rem)
	}
}

// Alt tries each parser in order and returns the first success. It moves on only when
// a parser fails recoverably; the last recoverable failure is returned when none match.
func Alt[T any](ps ...Parsec[T]) Parsec[T] {
	return func(in Input) PResult[T] {
		var last error = UnmatchedErr(in, "no alternative matched")
		for _, p := range ps {
			res := p(in)
			if !res.Errored() {
				return res
			}
			if !Recoverable(res.Err) {
				return Failed[T](in, res.Err)
			}
			last = res.Err
		}
		return Failed[T](in, last)
	}
}

// Cut commits p: once the caller has seen enough to know which grammar rule applies,
// any failure of p is final and no alternative is tried.
func Cut[T any](p Parsec[T]) Parsec[T] {
	return func(in Input) PResult[T] {
		res := p(in)
		if !res.Errored() {
			return res
		}
		var pe *ParsecErr
		if errors.As(res.Err, &pe) && !pe.committed {
			committed := *pe
			committed.committed = true
			return Failed[T](in, &committed)
		}
		return Failed[T](in, res.Err)
	}
}
