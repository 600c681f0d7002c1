package dialect

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tracegen/internal/symbols"
)

// Generate writes one probe block per (target, symbol) pair to w, in input
// order, with a blank line between consecutive blocks. It returns the
// number of blocks written.
func Generate(w io.Writer, kind Kind, targets []symbols.TraceTarget) (int, error) {
	tmpl, ok := kind.template()
	if !ok {
		return 0, fmt.Errorf("unsupported dialect %v", kind)
	}

	bw := bufio.NewWriter(w)
	blocks := 0
	for _, t := range targets {
		for _, sym := range t.Symbols {
			if blocks > 0 {
				if err := bw.WriteByte('\n'); err != nil {
					return blocks, err
				}
			}
			if _, err := fmt.Fprintf(bw, tmpl, t.Path, sym); err != nil {
				return blocks, err
			}
			blocks++
		}
	}
	if err := bw.Flush(); err != nil {
		return blocks, err
	}
	return blocks, nil
}

// Render is Generate into a string.
func Render(kind Kind, targets []symbols.TraceTarget) (string, error) {
	var sb strings.Builder
	if _, err := Generate(&sb, kind, targets); err != nil {
		return "", err
	}
	return sb.String(), nil
}
