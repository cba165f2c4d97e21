package device

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrEndOfStream is the sentinel a Source returns from Read once its input
// is exhausted (e.g. a capture file replay reaching EOF), distinguishing a
// clean end of input from a real device failure.
var ErrEndOfStream = errors.New("device: end of stream")

// CaptureSource replays a capture file written as a sequence of
// length-prefixed buffers (a little-endian uint32 length followed by that
// many raw bytes, repeated), the format cmd/iptsreplay consumes. It is a
// device.Source so a capture can be fed through the exact same Runner a
// live device would use.
type CaptureSource struct {
	f *os.File
}

// OpenCapture opens a capture file for replay.
func OpenCapture(path string) (*CaptureSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open capture %q", path)
	}
	return &CaptureSource{f: f}, nil
}

// Read decodes the next length-prefixed record into buf. It returns
// ErrEndOfStream once the file is exhausted.
func (s *CaptureSource) Read(buf []byte) (int, error) {
	var length uint32
	if err := binary.Read(s.f, binary.LittleEndian, &length); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrEndOfStream
		}
		return 0, errors.Wrap(err, "read capture record length")
	}

	if int(length) > len(buf) {
		return 0, errors.Errorf("capture record of %d bytes exceeds buffer of %d", length, len(buf))
	}

	n, err := io.ReadFull(s.f, buf[:length])
	if err != nil {
		return n, errors.Wrap(err, "read capture record body")
	}
	return n, nil
}

// Close releases the underlying file descriptor.
func (s *CaptureSource) Close() error {
	return errors.Wrap(s.f.Close(), "close capture")
}
