package blocklist

import (
	"bufio"
	"bytes"
	"io"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineSize       = 1 << 20
)

// newLineScanner returns a scanner that ends a line at "\n", "\r\n" or a
// lone "\r". A line longer than maxLineSize is yielded as an empty line.
func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)
	splitter := &lineSplitter{max: maxLineSize}
	scanner.Split(splitter.split)
	return scanner
}

type lineSplitter struct {
	max        int
	discarding bool
}

func (s *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	advance, line, ok := cutLine(data, atEOF)
	if ok {
		if s.discarding {
			s.discarding = false
			return advance, []byte{}, nil
		}
		return advance, line, nil
	}

	// The buffer is full and holds no line break; drop the bytes and keep
	// dropping until the line ends.
	if len(data) >= s.max {
		s.discarding = true
		return len(data), nil, nil
	}
	return 0, nil, nil
}

// cutLine returns the first line of data without its terminator.
func cutLine(data []byte, atEOF bool) (int, []byte, bool) {
	i := bytes.IndexAny(data, "\r\n")
	if i == -1 {
		if atEOF {
			return len(data), data, true
		}
		return 0, nil, false
	}
	if data[i] == '\n' {
		return i + 1, data[:i], true
	}
	if i+1 < len(data) {
		if data[i+1] == '\n' {
			return i + 2, data[:i], true
		}
		return i + 1, data[:i], true
	}
	// A trailing CR may be the first half of CRLF.
	if atEOF {
		return i + 1, data[:i], true
	}
	return 0, nil, false
}
