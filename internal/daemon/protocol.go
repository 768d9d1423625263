// Package daemon implements the long-lived server that holds accelerator
// device state across requests, and the client that talks to it over a
// unix-domain socket using fixed-size binary records (spec.md §4.10).
package daemon

import (
	"encoding/binary"
	"fmt"
	"io"

	lzo "github.com/lzoblock/lzo1x"
)

// maxPathLen bounds the fixed-size path fields in the wire records.
const maxPathLen = 256

// maxMessageLen bounds the fixed-size message field in a Response.
const maxMessageLen = 256

// Op identifies the requested operation.
type Op byte

const (
	OpCompress   Op = 'C'
	OpDecompress Op = 'D'
)

// requestSize is the encoded size of a Request: 1-byte op + 1 pad byte +
// two fixed path buffers + int32 level + uint64 input size.
const requestSize = 1 + 1 + maxPathLen + maxPathLen + 4 + 8

// responseSize is the encoded size of a Response: int32 status + uint64
// output size + uint64 elapsed microseconds + fixed message buffer.
const responseSize = 4 + 8 + 8 + maxMessageLen

// Request is one client request: compress or decompress input_path into
// output_path at the given level, with input_size informing buffer
// preallocation.
type Request struct {
	Operation  Op
	InputPath  string
	OutputPath string
	Level      int32
	InputSize  uint64
}

// LabelForDaemon maps a numeric compression level to a variant label using
// the daemon's own table (distinct from the CPU driver's lzo.LevelToLabel):
// 1..3→X, 4..6→K, 7..8→L, 9+→O. One kernel per label is held by the
// daemon; selecting a variant is a table lookup, not a recompilation.
func (r Request) LabelForDaemon() lzo.Label {
	switch {
	case r.Level <= 3:
		return lzo.LabelX
	case r.Level <= 6:
		return lzo.LabelK
	case r.Level <= 8:
		return lzo.LabelL
	default:
		return lzo.LabelO
	}
}

// Encode writes the fixed-size wire form of r to w.
func (r Request) Encode(w io.Writer) error {
	buf := make([]byte, requestSize)
	buf[0] = byte(r.Operation)
	if err := putFixedString(buf[2:2+maxPathLen], r.InputPath); err != nil {
		return fmt.Errorf("daemon: encode input path: %w", err)
	}
	if err := putFixedString(buf[2+maxPathLen:2+2*maxPathLen], r.OutputPath); err != nil {
		return fmt.Errorf("daemon: encode output path: %w", err)
	}
	off := 2 + 2*maxPathLen
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(r.Level))
	binary.LittleEndian.PutUint64(buf[off+4:off+12], r.InputSize)

	_, err := w.Write(buf)
	return err
}

// DecodeRequest reads one fixed-size Request from r.
func DecodeRequest(r io.Reader) (Request, error) {
	buf := make([]byte, requestSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Request{}, fmt.Errorf("daemon: read request: %w", err)
	}

	off := 2 + 2*maxPathLen
	return Request{
		Operation:  Op(buf[0]),
		InputPath:  getFixedString(buf[2 : 2+maxPathLen]),
		OutputPath: getFixedString(buf[2+maxPathLen : 2+2*maxPathLen]),
		Level:      int32(binary.LittleEndian.Uint32(buf[off : off+4])),
		InputSize:  binary.LittleEndian.Uint64(buf[off+4 : off+12]),
	}, nil
}

// Response is the daemon's fixed-size reply: outcome status, the size of
// the output produced, elapsed service time, and a diagnostic message.
type Response struct {
	Status        int32
	OutputSize    uint64
	ElapsedMicros uint64
	Message       string
}

// Encode writes the fixed-size wire form of resp to w.
func (resp Response) Encode(w io.Writer) error {
	buf := make([]byte, responseSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(resp.Status))
	binary.LittleEndian.PutUint64(buf[4:12], resp.OutputSize)
	binary.LittleEndian.PutUint64(buf[12:20], resp.ElapsedMicros)
	if err := putFixedString(buf[20:20+maxMessageLen], resp.Message); err != nil {
		return fmt.Errorf("daemon: encode message: %w", err)
	}

	_, err := w.Write(buf)
	return err
}

// DecodeResponse reads one fixed-size Response from r.
func DecodeResponse(r io.Reader) (Response, error) {
	buf := make([]byte, responseSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Response{}, fmt.Errorf("daemon: read response: %w", err)
	}

	return Response{
		Status:        int32(binary.LittleEndian.Uint32(buf[0:4])),
		OutputSize:    binary.LittleEndian.Uint64(buf[4:12]),
		ElapsedMicros: binary.LittleEndian.Uint64(buf[12:20]),
		Message:       getFixedString(buf[20 : 20+maxMessageLen]),
	}, nil
}

func putFixedString(dst []byte, s string) error {
	if len(s) > len(dst)-1 {
		return fmt.Errorf("daemon: value %q exceeds fixed field width %d", s, len(dst)-1)
	}
	clear(dst)
	copy(dst, s)
	return nil
}

func getFixedString(src []byte) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}
	return string(src[:n])
}
