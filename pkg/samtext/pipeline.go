package samtext

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Lines in real SAM files carry full read sequences; allow long ones.
const maxLineSize = 64 * 1024 * 1024

// Stats counts what flowed through one pipeline run.
type Stats struct {
	HeaderLines int
	Records     int
	Dropped     int
}

// Run streams SAM text from r to w in a single pass, holding one record
// in memory at a time. Header lines ('@'-prefixed) pass through
// untouched; every alignment line is decoded, run through the filters
// in order (a false return drops the record), and re-encoded. A
// malformed alignment fails the run with its line number.
func Run(r io.Reader, w io.Writer, filters ...Filter) (Stats, error) {
	var stats Stats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), maxLineSize)
	bw := bufio.NewWriter(w)

	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()

		if strings.HasPrefix(line, "@") {
			stats.HeaderLines++
			if err := writeLine(bw, line); err != nil {
				return stats, err
			}
			continue
		}

		rec, err := ParseRecord(line)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", lineno, err)
		}

		keep := true
		for _, f := range filters {
			if !f(rec) {
				keep = false
				break
			}
		}
		if !keep {
			stats.Dropped++
			continue
		}

		stats.Records++
		if err := writeLine(bw, rec.String()); err != nil {
			return stats, err
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	return stats, nil
}

func writeLine(bw *bufio.Writer, line string) error {
	if _, err := bw.WriteString(line); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
