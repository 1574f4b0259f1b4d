package scanner

import (
	"bufio"
	"errors"
)

// ErrContinue is a signal, not a failure. A split function wrapped by
// ExitByAdvance returns it to say: I consumed input I have no token
// for, call me again on the rest. It must never escape to the scanner.
var ErrContinue = errors.New("split func continue")

// ExitByAdvance wraps a bufio.SplitFunc so that consuming input without
// producing a token does not end the scan.
//
// A bare bufio.Scanner stops the moment a split function returns a nil
// token at EOF, even when unconsumed input remains past the advance
// point. That makes split functions that skip worthless input painful
// to write: once a small file is fully buffered every call is at EOF,
// and the first skipped line would silently end the scan, discarding
// the rest of the file. The wrapper keeps calling the split function on
// the remaining data, adding up the advances, until it produces a
// token, stops advancing, exhausts the data, or fails for real.
//
// Returning ErrContinue forces another round even when the split
// function made no progress, which lets it settle internal state
// between calls. A split function that returns ErrContinue forever
// without advancing will spin, so don't.
func ExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		total := 0
		for {
			advance, token, err := split(data, atEOF)
			if !errors.Is(err, ErrContinue) &&
				(token != nil || advance == 0 || len(data)-advance <= 0 || err != nil) {
				return total + advance, token, err
			}

			data = data[advance:]
			total += advance
		}
	}
}
