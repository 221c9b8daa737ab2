package objects

import (
	"bytes"
	"errors"
	"io"
	"io/fs"

	"github.com/klauspost/compress/zlib"
)

// DefaultCompressionLevel matches zlib's default trade-off.
const DefaultCompressionLevel = zlib.DefaultCompression

// Compress wraps data in a self-delimiting zlib stream.
func Compress(data []byte, level int) ([]byte, error) {
	var buffer bytes.Buffer

	writer, err := NewCompressWriter(&buffer, level)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	// Close flushes buffered data and writes the adler-32 trailer
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// NewCompressWriter returns a zlib writer on w. Callers must Close it to terminate the stream.
func NewCompressWriter(w io.Writer, level int) (io.WriteCloser, error) {
	writer, err := zlib.NewWriterLevel(w, level)
	if err != nil {
		return nil, newError("compress", ErrIO, err)
	}
	return writer, nil
}

// Decompress returns a reader that inflates r incrementally.
// Read errors are reported as ErrTruncatedStream or ErrCorruptStream.
func Decompress(r io.Reader) io.ReadCloser {
	return &decompressReader{source: r}
}

type decompressReader struct {
	source io.Reader
	zr     io.ReadCloser
	read   int64 // decompressed bytes delivered so far
	err    error
}

func (d *decompressReader) Read(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}

	if d.zr == nil {
		zr, err := zlib.NewReader(d.source)
		if err != nil {
			d.err = classifyStreamError(err, 0)
			return 0, d.err
		}
		d.zr = zr
	}

	n, err := d.zr.Read(p)
	d.read += int64(n)
	if err != nil && !errors.Is(err, io.EOF) {
		d.err = classifyStreamError(err, d.read)
		return n, d.err
	}
	return n, err
}

func (d *decompressReader) Close() error {
	if d.zr == nil {
		return nil
	}
	return d.zr.Close()
}

// classifyStreamError maps codec failures onto the store's error kinds.
func classifyStreamError(err error, offset int64) error {
	var pathErr *fs.PathError
	kind := ErrCorruptStream
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		kind = ErrTruncatedStream
	case errors.As(err, &pathErr):
		// the file failed, not the codec
		kind = ErrIO
	}
	return &ObjectError{Op: "decompress", Kind: kind, Offset: offset, Err: err}
}
