package ballot

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, csv string) [][]string {
	t.Helper()
	rr := NewRowReader(bytes.NewBufferString(csv))
	var out [][]string
	for {
		fields, err := rr.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = string(f)
		}
		out = append(out, row)
	}
	return out
}

func TestRowReaderSplitsPlainFields(t *testing.T) {
	rows := readAll(t, "a,b,c\n1,2,3\n")
	require.Equal(t, [][]string{{"a", "b", "c"}, {"1", "2", "3"}}, rows)
}

func TestRowReaderHandlesQuotedCommaAndEscapedQuote(t *testing.T) {
	rows := readAll(t, `a,"b, with comma","c ""quoted"" word"` + "\n")
	require.Equal(t, [][]string{{"a", "b, with comma", `c "quoted" word`}}, rows)
}

func TestRowReaderHandlesCRLF(t *testing.T) {
	rows := readAll(t, "a,b\r\nc,d\r\n")
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}

func TestRowReaderHandlesTrailingLineWithoutNewline(t *testing.T) {
	rows := readAll(t, "a,b\nc,d")
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}

func TestRowReaderHandlesEmptyFields(t *testing.T) {
	rows := readAll(t, "a,,c\n")
	require.Equal(t, [][]string{{"a", "", "c"}}, rows)
}

func TestRowReaderReturnsEOFOnEmptyInput(t *testing.T) {
	rr := NewRowReader(bytes.NewBufferString(""))
	_, err := rr.Read()
	require.ErrorIs(t, err, io.EOF)
}
