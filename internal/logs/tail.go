package logs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const defaultPollInterval = 250 * time.Millisecond

// Filter keeps lines containing every non-empty term.
type Filter []string

func (f Filter) Match(line string) bool {
	for _, term := range f {
		if term != "" && !strings.Contains(line, term) {
			return false
		}
	}
	return true
}

// Last returns up to n trailing lines of path that pass filter, together
// with the offset just past the last complete line. A missing file yields
// no lines and offset 0.
func Last(path string, n int, filter Filter) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	var (
		ring   = make([]string, max(n, 0))
		count  int
		next   int
		offset int64
	)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		line = strings.TrimRight(line, "\r\n")
		if n <= 0 || !filter.Match(line) {
			continue
		}
		ring[next] = line
		next = (next + 1) % n
		if count < n {
			count++
		}
	}

	lines := make([]string, 0, count)
	start := 0
	if count == n {
		start = next
	}
	for i := 0; i < count; i++ {
		lines = append(lines, ring[(start+i)%max(n, 1)])
	}
	return lines, offset, nil
}

// Follow polls path starting at offset and calls emit for every complete
// line that passes filter. It returns nil once ctx is done. A file that
// shrinks below offset is read again from the start.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, filter Filter, emit func(string)) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		lines, next, err := readComplete(path, offset)
		if err != nil {
			return err
		}
		offset = next
		for _, line := range lines {
			if filter.Match(line) {
				emit(line)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readComplete(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, offset, fmt.Errorf("read log file: %w", err)
	}

	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, offset, nil
	}
	chunk := strings.TrimRight(string(data[:end]), "\r")
	lines := strings.Split(chunk, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, offset + int64(end) + 1, nil
}
