package objects

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/KostasZigo/gogit-odb/internal/constants"
)

// Header is the "<kind> <size>\0" prefix that frames every object.
type Header struct {
	Kind Kind
	Size int64
}

func (h Header) String() string {
	return fmt.Sprintf("%s %d", h.Kind, h.Size)
}

// EncodeHeader returns the framing prefix for a payload of the given size.
func EncodeHeader(kind Kind, size int64) []byte {
	return fmt.Appendf(nil, "%s %d\x00", kind, size)
}

// Encode frames payload as "<kind> <len(payload)>\0<payload>".
func Encode(kind Kind, payload []byte) []byte {
	header := EncodeHeader(kind, int64(len(payload)))
	data := make([]byte, 0, len(header)+len(payload))
	data = append(data, header...)
	return append(data, payload...)
}

// ReadHeader consumes the framing prefix from r and leaves r positioned at the payload.
func ReadHeader(r *bufio.Reader) (Header, error) {
	header, _, err := readHeader(r)
	return header, err
}

// Decode parses a framed object from r. The payload is returned only after
// its length has been checked against the header and the stream has ended.
func Decode(r io.Reader) (*RawObject, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	header, headerLen, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	payload, err := readPayload(br, header, headerLen)
	if err != nil {
		return nil, err
	}

	return &RawObject{Kind: header.Kind, Payload: payload}, nil
}

// readHeader returns the parsed header and the number of bytes it occupied.
func readHeader(r *bufio.Reader) (Header, int64, error) {
	var token []byte
	spaceAt := -1

	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return Header{}, 0, framingError(ErrMalformedHeader, int64(len(token)), "stream ends inside header")
		}
		if err != nil {
			return Header{}, 0, err
		}

		if b == constants.NullByte {
			if spaceAt < 0 {
				return Header{}, 0, framingError(ErrMalformedHeader, int64(len(token)), "no space before NUL")
			}
			break
		}
		if b == constants.HeaderSeparator && spaceAt < 0 {
			spaceAt = len(token)
		}

		token = append(token, b)
		if len(token) >= constants.MaxHeaderLength {
			return Header{}, 0, framingError(ErrMalformedHeader, int64(len(token)), "header exceeds %d bytes", constants.MaxHeaderLength)
		}
	}

	kindToken := string(token[:spaceAt])
	sizeToken := string(token[spaceAt+1:])

	size, err := parseSize(sizeToken)
	if err != nil {
		return Header{}, 0, &ObjectError{Op: "decode", Kind: ErrInvalidSize, Offset: int64(spaceAt + 1), Err: err}
	}

	kind, ok := kindsByName[kindToken]
	if !ok {
		return Header{}, 0, framingError(ErrUnknownKind, 0, "kind token %q", kindToken)
	}

	// +1 for the NUL terminator
	return Header{Kind: kind, Size: size}, int64(len(token)) + 1, nil
}

// parseSize accepts only non-empty ASCII decimal digits that fit in an int64.
func parseSize(token string) (int64, error) {
	if token == "" {
		return 0, errors.New("empty size token")
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, fmt.Errorf("size token %q contains non-digit %q", token, token[i])
		}
	}
	size, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("size token %q: %w", token, err)
	}
	return size, nil
}

// readPayload buffers exactly header.Size bytes and then requires end of stream.
// The buffer grows with the data actually delivered, not with the declared size.
func readPayload(r io.Reader, header Header, headerLen int64) ([]byte, error) {
	var buffer bytes.Buffer

	n, err := io.CopyN(&buffer, r, header.Size)
	if errors.Is(err, io.EOF) {
		return nil, framingError(ErrSizeMismatch, headerLen+n, "declared %d bytes, stream holds %d", header.Size, n)
	}
	if err != nil {
		return nil, err
	}

	// Draining to EOF also lets the codec verify its trailer.
	var probe [1]byte
	for {
		m, err := r.Read(probe[:])
		if m > 0 {
			return nil, framingError(ErrSizeMismatch, headerLen+header.Size, "trailing data after %d-byte payload", header.Size)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return buffer.Bytes(), nil
}

func framingError(kind error, offset int64, format string, args ...any) *ObjectError {
	return &ObjectError{Op: "decode", Kind: kind, Offset: offset, Err: fmt.Errorf(format, args...)}
}
