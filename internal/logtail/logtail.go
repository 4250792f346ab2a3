package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const maxLineBytes = 1024 * 1024

// Tail returns the last n lines of the file at path, oldest first. A missing
// file has no lines. n <= 0 returns every line.
func Tail(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var ring ringBuffer
	ring.size = n
	for scanner.Scan() {
		ring.push(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return ring.lines(), nil
}

// ringBuffer keeps the most recent size lines; size <= 0 keeps all of them.
type ringBuffer struct {
	size  int
	buf   []string
	start int
}

func (r *ringBuffer) push(line string) {
	if r.size <= 0 || len(r.buf) < r.size {
		r.buf = append(r.buf, line)
		return
	}
	r.buf[r.start] = line
	r.start = (r.start + 1) % r.size
}

func (r *ringBuffer) lines() []string {
	out := make([]string, 0, len(r.buf))
	out = append(out, r.buf[r.start:]...)
	return append(out, r.buf[:r.start]...)
}

// Print writes lines to w in console format, skipping JSON events whose level
// is below min.
func Print(w io.Writer, lines []string, min zerolog.Level, color bool) error {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.RFC3339,
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		level, ok := eventLevel(trimmed)
		if !ok {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
			continue
		}
		if level < min {
			continue
		}
		if _, err := console.Write([]byte(trimmed)); err != nil {
			return fmt.Errorf("format log line: %w", err)
		}
	}
	return nil
}

// eventLevel reports the level of a zerolog JSON event. ok is false for lines
// that are not JSON objects.
func eventLevel(line string) (zerolog.Level, bool) {
	if !strings.HasPrefix(line, "{") {
		return zerolog.NoLevel, false
	}
	var event struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return zerolog.NoLevel, false
	}
	level, err := zerolog.ParseLevel(event.Level)
	if err != nil || event.Level == "" {
		return zerolog.InfoLevel, true
	}
	return level, true
}
