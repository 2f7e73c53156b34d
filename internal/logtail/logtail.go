package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// chunkSize is how much of the file is read per step when walking back from
// the end.
var chunkSize int64 = 64 * 1024

// Read returns at most maxLines from the end of the file at path, oldest
// first. A non-positive maxLines returns the whole file. A missing file
// yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read log: %s is a directory", path)
	}

	var data []byte
	if maxLines <= 0 {
		data, err = io.ReadAll(file)
	} else {
		data, err = tail(file, info.Size(), maxLines)
	}
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := splitLines(data)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// tail reads backwards from size in chunks until the buffer holds more than
// maxLines line breaks or the start of the file is reached. The first line
// of the result may be partial; Read drops it.
func tail(r io.ReaderAt, size int64, maxLines int) ([]byte, error) {
	var (
		buf    []byte
		breaks int
	)
	for offset := size; offset > 0 && breaks <= maxLines; {
		n := min(chunkSize, offset)
		offset -= n
		chunk := make([]byte, n)
		if _, err := r.ReadAt(chunk, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		breaks += bytes.Count(chunk, []byte{'\n'})
		buf = append(chunk, buf...)
	}
	return buf, nil
}

func splitLines(data []byte) []string {
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
