// Package device defines the Device Source boundary the Runner reads raw
// IPTS buffers from. Device discovery and
// ioctl mode switching are explicitly out of scope; this package only
// supplies the interface and a minimal file-backed implementation, enough
// to exercise the boundary without pretending to own hardware access.
package device

import (
	"os"

	"github.com/pkg/errors"
)

// Source supplies raw device buffers to the Runner. Read should block until
// a full buffer is available, mirroring a blocking character-device read.
type Source interface {
	Read(buf []byte) (int, error)
	Close() error
}

// FileSource reads buffers from an already-opened file or character device.
// It does nothing to discover, configure, or mode-switch the underlying
// device; the caller is responsible for opening it in the correct mode.
type FileSource struct {
	f *os.File
}

// OpenFile opens path for reading and wraps it as a Source.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open device source %q", path)
	}
	return &FileSource{f: f}, nil
}

// Read fills buf from the underlying file.
func (s *FileSource) Read(buf []byte) (int, error) {
	n, err := s.f.Read(buf)
	if err != nil {
		return n, errors.Wrap(err, "read device source")
	}
	return n, nil
}

// Close releases the underlying file descriptor.
func (s *FileSource) Close() error {
	return errors.Wrap(s.f.Close(), "close device source")
}
