// Package manifest reads plain-text batch manifests: one entry per
// line, blank lines and #-prefixed comment lines ignored.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse returns the non-comment, non-blank lines of r in order.
func Parse(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return lines, nil
}

// ReadFile parses the manifest at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
