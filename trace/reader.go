package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes bounds a single log line.
const maxLineBytes = 1 << 20

// ReadLines splits r into trimmed, non-empty lines.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return lines, nil
}

// LoadFile reads a trace file from disk.
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	lines, err := ReadLines(file)
	if err != nil {
		return nil, fmt.Errorf("trace %s: %w", path, err)
	}
	return lines, nil
}
