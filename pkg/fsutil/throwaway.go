package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

// ThrowawayPrefix starts the name of every throwaway file.
const ThrowawayPrefix = "gojanitor_"

// Throwaway is a short-lived file handed to an external tool.
type Throwaway struct {
	Path string
}

// ThrowawayName returns a collision-resistant file name salted with the
// current time and a KSUID. ext may be given with or without a leading dot.
func ThrowawayName(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	name := ThrowawayPrefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + ksuid.New().String()
	if ext != "" {
		name += "." + ext
	}
	return name
}

// WriteThrowaway creates a throwaway file in dir holding content.
// The file is created exclusively so two concurrent runs in the same
// directory never share a file. On a write failure the partial file is
// removed before returning.
func WriteThrowaway(dir, ext string, content []byte) (*Throwaway, error) {
	path := filepath.Join(dir, ThrowawayName(ext))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, DefaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("create throwaway file: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write throwaway file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("close throwaway file: %w", err)
	}

	return &Throwaway{Path: path}, nil
}

// Read returns the current content of the file.
func (t *Throwaway) Read() ([]byte, error) {
	content, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("read throwaway file: %w", err)
	}
	return content, nil
}

// Remove deletes the file. A file that is already gone is not an error.
func (t *Throwaway) Remove() error {
	err := os.Remove(t.Path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("remove throwaway file: %w", err)
}
