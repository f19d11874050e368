package parsec

// Input is a read-only window over a complete byte buffer. It works like a Lisp list:
// Car returns the current byte, Cdr returns a copy of the input without it. Neither changes
// the receiver, so a failed parser can hand back the input it was given.
type Input struct {
	buf []byte
	pos int
}

func NewInput(b []byte) Input {
	return Input{buf: b}
}

// Car returns the current byte without advancing. It returns 0 on an empty input.
func (in Input) Car() byte {
	if in.Empty() {
		return 0
	}
	return in.buf[in.pos]
}

// Cdr returns the remainder of the input after the first byte has been removed.
func (in Input) Cdr() Input {
	return in.Advance(1)
}

// Advance drops n bytes, stopping at the end of the buffer.
func (in Input) Advance(n int) Input {
	if n > in.Len() {
		n = in.Len()
	}
	return Input{buf: in.buf, pos: in.pos + n}
}

func (in Input) Empty() bool {
	return in.pos >= len(in.buf)
}

// Len is the number of bytes left.
func (in Input) Len() int {
	return len(in.buf) - in.pos
}

// Offset is the position of the current byte in the original buffer.
func (in Input) Offset() int {
	return in.pos
}

// Bytes returns the unconsumed bytes. The slice aliases the original buffer.
func (in Input) Bytes() []byte {
	return in.buf[in.pos:]
}

func (in Input) String() string {
	return string(in.Bytes())
}
