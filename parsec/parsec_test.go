package parsec

import (
	"errors"
	"reflect"
	"testing"
)

func TestIsA(t *testing.T) {
	inTable := []Input{
		NewInput([]byte("abc")),
		NewInput([]byte("def")),
	}

	expected := []byte{'a', 'd'}

	for i, b := range expected {
		res := IsA(b)(inTable[i])
		if res.Errored() {
			t.Fatalf("IsA(%q) errored: %s", b, res.Err)
		}
		if res.Result != b {
			t.Errorf("IsA isn't popping the right byte: %q instead of %q", res.Result, b)
		}
		inTable[i] = res.Rem
	}

	if inTable[0].String() != "bc" {
		t.Errorf("Remainder is not correct: %s instead of: bc", inTable[0])
	}
	if inTable[1].String() != "ef" {
		t.Errorf("Remainder is not correct: %s instead of: ef", inTable[1])
	}
}

func TestIsAFailures(t *testing.T) {
	in := NewInput([]byte("xyz"))
	res := IsA('a')(in)
	if !Recoverable(res.Err) {
		t.Errorf("wrong byte should be a recoverable unmatched error, got %v", res.Err)
	}
	if res.Rem.Offset() != 0 {
		t.Errorf("failed parser consumed input: offset %d", res.Rem.Offset())
	}

	res = IsA('a')(NewInput(nil))
	if !errors.Is(res.Err, Incomplete) {
		t.Errorf("empty input should be incomplete, got %v", res.Err)
	}
	if Recoverable(res.Err) {
		t.Errorf("incomplete must not be recoverable")
	}
}

func TestSatisfy(t *testing.T) {
	digit := Satisfy(IsDigit, "expected a digit")

	res := digit(NewInput([]byte("7x")))
	if res.Errored() || res.Result != '7' || res.Rem.String() != "x" {
		t.Errorf("Satisfy on a digit: %q, rem %q, err %v", res.Result, res.Rem, res.Err)
	}

	in := NewInput([]byte("x7"))
	res = digit(in)
	if !Recoverable(res.Err) || res.Rem.Offset() != 0 {
		t.Errorf("a non-digit should be a recoverable failure at 0, got %v", res.Err)
	}

	res = digit(NewInput(nil))
	if !errors.Is(res.Err, Incomplete) {
		t.Errorf("empty input should be incomplete, got %v", res.Err)
	}
}

func TestTake(t *testing.T) {
	in := NewInput([]byte("hello world"))
	res := Take(5)(in)
	if res.Errored() {
		t.Fatalf("Take errored: %s", res.Err)
	}
	if string(res.Result) != "hello" {
		t.Errorf("Take(5) = %q", res.Result)
	}
	if res.Rem.Offset() != 5 {
		t.Errorf("offset after Take(5) = %d", res.Rem.Offset())
	}

	res = Take(0)(NewInput(nil))
	if res.Errored() || len(res.Result) != 0 {
		t.Errorf("Take(0) on empty input should succeed with nothing, got %q %v", res.Result, res.Err)
	}

	res = Take(20)(in)
	if !errors.Is(res.Err, Incomplete) {
		t.Errorf("Take past the end should be incomplete, got %v", res.Err)
	}
}

func TestTakeWhile1(t *testing.T) {
	digits := TakeWhile1(IsDigit, "digits")

	tests := []struct {
		in      string
		want    string
		rem     string
		wantErr error
	}{
		{"123abc", "123", "abc", nil},
		{"42", "42", "", nil},
		{"abc", "", "abc", Unmatched},
		{"", "", "", Incomplete},
	}
	for _, tt := range tests {
		res := digits(NewInput([]byte(tt.in)))
		if tt.wantErr != nil {
			if !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("TakeWhile1(%q) err = %v, want %v", tt.in, res.Err, tt.wantErr)
			}
			continue
		}
		if res.Errored() {
			t.Errorf("TakeWhile1(%q) errored: %s", tt.in, res.Err)
			continue
		}
		if string(res.Result) != tt.want || res.Rem.String() != tt.rem {
			t.Errorf("TakeWhile1(%q) = %q rem %q, want %q rem %q", tt.in, res.Result, res.Rem, tt.want, tt.rem)
		}
	}
}

func TestMany0(t *testing.T) {
	as := Many0(IsA('a'))

	res := as(NewInput([]byte("aaab")))
	if res.Errored() {
		t.Fatalf("Many0 errored: %s", res.Err)
	}
	if !reflect.DeepEqual(res.Result, []byte{'a', 'a', 'a'}) {
		t.Errorf("Many0 = %q", res.Result)
	}
	if res.Rem.String() != "b" {
		t.Errorf("Many0 remainder = %q", res.Rem)
	}

	res = as(NewInput([]byte("b")))
	if res.Errored() || len(res.Result) != 0 {
		t.Errorf("Many0 with zero matches should succeed empty, got %q %v", res.Result, res.Err)
	}

	// running off the end is not a clean stop
	res = as(NewInput([]byte("aa")))
	if !errors.Is(res.Err, Incomplete) {
		t.Errorf("Many0 reaching end of input should be incomplete, got %v", res.Err)
	}
}

func TestFoldMany0(t *testing.T) {
	count := FoldMany0(IsA('x'), func() int { return 0 }, func(acc int, _ byte) int { return acc + 1 })
	res := count(NewInput([]byte("xxxxy")))
	if res.Errored() {
		t.Fatalf("FoldMany0 errored: %s", res.Err)
	}
	if res.Result != 4 {
		t.Errorf("FoldMany0 counted %d, want 4", res.Result)
	}
}

func TestAlt(t *testing.T) {
	abc := Alt(IsA('a'), IsA('b'), IsA('c'))

	for _, s := range []string{"a", "b", "c"} {
		res := abc(NewInput([]byte(s)))
		if res.Errored() || res.Result != s[0] {
			t.Errorf("Alt on %q = %q %v", s, res.Result, res.Err)
		}
	}

	res := abc(NewInput([]byte("z")))
	if !Recoverable(res.Err) {
		t.Errorf("Alt with no match should fail recoverably, got %v", res.Err)
	}
}

func TestAltStopsOnCommittedError(t *testing.T) {
	tried := false
	committed := Preceded(IsA('a'), Cut(IsA('b')))
	fallback := Parsec[byte](func(in Input) PResult[byte] {
		tried = true
		return Done(byte('!'), in.Cdr())
	})

	res := Alt(committed, fallback)(NewInput([]byte("ax")))
	if !res.Errored() {
		t.Fatalf("Alt should have failed, got %q", res.Result)
	}
	if tried {
		t.Errorf("Alt tried the next alternative after a committed failure")
	}
	var pe *ParsecErr
	if !errors.As(res.Err, &pe) || !pe.Committed() || pe.Offset() != 1 {
		t.Errorf("expected committed error at offset 1, got %v", res.Err)
	}
}

func TestOpt(t *testing.T) {
	sign := Opt(IsA('-'))

	res := sign(NewInput([]byte("-1")))
	if res.Errored() || !res.Result.Ok || res.Rem.String() != "1" {
		t.Errorf("Opt on present sign = %+v rem %q err %v", res.Result, res.Rem, res.Err)
	}

	res = sign(NewInput([]byte("1")))
	if res.Errored() || res.Result.Ok || res.Rem.String() != "1" {
		t.Errorf("Opt on absent sign = %+v rem %q err %v", res.Result, res.Rem, res.Err)
	}
}

func TestMapRes(t *testing.T) {
	boom := errors.New("boom")
	p := MapRes(IsA('a'), "converting", func(byte) (int, error) { return 0, boom })
	res := p(NewInput([]byte("a")))
	if !errors.Is(res.Err, boom) {
		t.Errorf("MapRes should wrap the transform error, got %v", res.Err)
	}
	if Recoverable(res.Err) {
		t.Errorf("MapRes errors are committed")
	}
}

func TestDelimitedAndPair(t *testing.T) {
	p := Delimited(IsA('('), Pair(IsA('a'), IsA('b')), IsA(')'))
	res := p(NewInput([]byte("(ab)rest")))
	if res.Errored() {
		t.Fatalf("Delimited errored: %s", res.Err)
	}
	if res.Result != (Tuple[byte, byte]{'a', 'b'}) {
		t.Errorf("Pair = %+v", res.Result)
	}
	if res.Rem.String() != "rest" {
		t.Errorf("remainder = %q", res.Rem)
	}

	res = p(NewInput([]byte("(ab")))
	if !errors.Is(res.Err, Incomplete) || res.Rem.Offset() != 0 {
		t.Errorf("truncated input: err %v, offset %d", res.Err, res.Rem.Offset())
	}
}
