package export

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV writes two metadata lines, the header and one line per entry.
// Every field is quoted.
func WriteCSV(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)
	lines := append(r.metadata(), header)
	lines = append(lines, r.rows()...)
	for _, fields := range lines {
		for i, f := range fields {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quote(f))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// quote wraps a field in double quotes, doubling any quote inside it.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
