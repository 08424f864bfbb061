package ballot

import (
	"bufio"
	"errors"
	"io"
)

// RowReader iterates CSV byte records over a stream. Each call to Read
// overwrites an internal record buffer and returns field slices borrowed
// from it; they are valid only until the next call. After warm-up, Read
// performs no per-row heap allocation for well-formed rows that fit the
// reused line buffer.
//
// Quoting follows RFC 4180 ("" inside a quoted field is a literal quote)
// because AEC ticket/candidate names in the header may contain commas; the
// dequoting is done in place over the same backing array, so it never
// allocates either.
type RowReader struct {
	br     *bufio.Reader
	line   []byte
	fields [][]byte
	eof    bool
}

// NewRowReader wraps r. The caller retains ownership of r's lifetime.
func NewRowReader(r io.Reader) *RowReader {
	return &RowReader{
		br:     bufio.NewReaderSize(r, 64*1024),
		line:   make([]byte, 0, 512),
		fields: make([][]byte, 0, 32),
	}
}

// Read returns the next record's fields. The returned slice and its
// elements are only valid until the next call to Read. Read returns
// io.EOF once the stream is exhausted, with a nil field slice.
func (rr *RowReader) Read() ([][]byte, error) {
	if rr.eof {
		return nil, io.EOF
	}
	if err := rr.readLine(); err != nil {
		return nil, err
	}
	rr.fields = splitFields(rr.line, rr.fields)
	return rr.fields, nil
}

// readLine fills rr.line with the next newline-terminated record, stripped
// of its trailing \r\n or \n, growing rr.line's backing array only when a
// record is longer than any seen so far.
func (rr *RowReader) readLine() error {
	rr.line = rr.line[:0]
	for {
		chunk, err := rr.br.ReadSlice('\n')
		rr.line = append(rr.line, chunk...)
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			rr.eof = true
			if len(rr.line) == 0 {
				return io.EOF
			}
			break
		}
		return err
	}
	n := len(rr.line)
	if n > 0 && rr.line[n-1] == '\n' {
		n--
	}
	if n > 0 && rr.line[n-1] == '\r' {
		n--
	}
	rr.line = rr.line[:n]
	return nil
}

// splitFields splits line on unquoted commas, dequoting any RFC 4180
// quoted fields in place, and appends the resulting borrowed slices to
// fields[:0].
//
// An unterminated quote (no closing '"' before the line ends) is not
// reported as an error: the field simply runs to the end of the line,
// the same as a row with too few columns. Malformed CSV is expected to
// surface downstream as a short-row rejection or a header/schema mismatch
// rather than from this function directly.
func splitFields(line []byte, fields [][]byte) [][]byte {
	fields = fields[:0]
	n := len(line)
	i := 0
	for i <= n {
		if i < n && line[i] == '"' {
			start := i + 1
			read, write := start, start
			for read < n {
				if line[read] == '"' {
					if read+1 < n && line[read+1] == '"' {
						line[write] = '"'
						write++
						read += 2
						continue
					}
					read++ // skip closing quote
					break
				}
				line[write] = line[read]
				write++
				read++
			}
			fields = append(fields, line[start:write])
			// skip any trailing bytes up to the next comma (malformed input safety net)
			for read < n && line[read] != ',' {
				read++
			}
			i = read + 1
		} else {
			start := i
			for i < n && line[i] != ',' {
				i++
			}
			fields = append(fields, line[start:i])
			i++
		}
	}
	return fields
}
