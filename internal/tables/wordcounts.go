package tables

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
)

// ReadWordCounts parses a `word count` per line list. The file is mapped
// rather than read so large lists are not copied twice.
func ReadWordCounts(ctx context.Context, path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat word list: %w", err)
	}
	if st.Size() == 0 {
		return map[string]int64{}, nil
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to map word list %s: %w", path, err)
	}
	defer data.Unmap()
	return parseWordCounts(ctx, path, data)
}

func parseWordCounts(ctx context.Context, path string, data []byte) (map[string]int64, error) {
	counts := make(map[string]int64)
	lineNo := 0
	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		lineNo++
		if lineNo%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: %w: expected `word count`", path, lineNo, ErrMalformedRow)
		}
		count, err := strconv.ParseInt(string(fields[1]), 10, 64)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%s:%d: %w: invalid count %q", path, lineNo, ErrMalformedRow, fields[1])
		}
		word := string(fields[0])
		if _, ok := counts[word]; ok {
			return nil, fmt.Errorf("%s:%d: %w: %s", path, lineNo, ErrDuplicateKey, word)
		}
		counts[word] = count
	}
	return counts, nil
}
