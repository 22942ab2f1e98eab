package vm

import (
	"errors"
	"io"
)

// ---------------------------------------------------------------------------
// Input decoding
// ---------------------------------------------------------------------------

type readKind int

const (
	readValue     readKind = iota // a decoded byte is available
	readEOF                       // input exhausted
	readFault                     // the reader returned an error
	readMalformed                 // digit input was not a number
)

type readResult struct {
	kind  readKind
	value byte
}

// maxEmptyReads bounds how many (0, nil) reads are tolerated before the
// reader is treated as faulty.
const maxEmptyReads = 100

// next returns one raw byte from the reader, honouring a held-back byte.
func (in *Interpreter) next() readResult {
	if in.hasPending {
		in.hasPending = false
		return readResult{kind: readValue, value: in.pending}
	}
	for i := 0; i < maxEmptyReads; i++ {
		n, err := in.reader.Read(in.rbuf[:])
		if n > 0 {
			return readResult{kind: readValue, value: in.rbuf[0]}
		}
		if errors.Is(err, io.EOF) {
			return readResult{kind: readEOF}
		}
		if err != nil {
			return readResult{kind: readFault}
		}
	}
	return readResult{kind: readFault}
}

func (in *Interpreter) unread(b byte) {
	in.pending = b
	in.hasPending = true
}

// readASCII decodes one raw byte. The configured newline sequence is
// delivered as a single '\n', or skipped entirely when IgnoreNewline is set.
func (in *Interpreter) readASCII() readResult {
	for {
		r := in.next()
		if r.kind != readValue {
			return r
		}

		switch in.settings.Newline {
		case NewlineCRLF:
			if r.value != '\r' {
				return r
			}
			r2 := in.next()
			switch r2.kind {
			case readEOF:
				return r
			case readFault:
				return r2
			}
			if r2.value != '\n' {
				// lone '\r' is an ordinary byte
				in.unread(r2.value)
				return r
			}
		case NewlineLF:
			if r.value != '\n' {
				return r
			}
		}

		if !in.settings.IgnoreNewline {
			return readResult{kind: readValue, value: '\n'}
		}
	}
}

// readDigit decodes a decimal number terminated by the configured newline.
// The accumulator is a byte and wraps on overflow.
func (in *Interpreter) readDigit() readResult {
	var acc byte
	sawCR := false
	for {
		r := in.next()
		if r.kind != readValue {
			return r
		}
		b := r.value

		switch in.settings.Newline {
		case NewlineCRLF:
			switch {
			case b == '\r' && !sawCR:
				sawCR = true
			case b == '\n' && sawCR:
				return readResult{kind: readValue, value: acc}
			case isDigit(b) && !sawCR:
				acc = acc*10 + (b - '0')
			default:
				return readResult{kind: readMalformed}
			}
		case NewlineLF:
			switch {
			case b == '\n':
				return readResult{kind: readValue, value: acc}
			case isDigit(b):
				acc = acc*10 + (b - '0')
			default:
				return readResult{kind: readMalformed}
			}
		}
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
