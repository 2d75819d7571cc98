package util

/*
Encoding utilities for the snapshot format. The buffer-based write functions
do not check lengths - it is necessary to ensure buffers passed to them are
large enough, or a panic may result. The reader-based decode functions are
used on the decode path, where stream truncation must surface as an error
rather than a panic.

All integers and floats are little-endian. Strings and byte payloads are
length-prefixed with a uint32.
*/

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// U8 writes a uint8 to dst and returns the written length.
func U8(dst []byte, src uint8) int {
	dst[0] = src
	return 1
}

// U32 writes a uint32 to dst and returns the written length.
func U32(dst []byte, src uint32) int {
	binary.LittleEndian.PutUint32(dst, src)
	return 4
}

// U64 writes a uint64 to dst and returns the written length.
func U64(dst []byte, src uint64) int {
	binary.LittleEndian.PutUint64(dst, src)
	return 8
}

// I32 writes an int32 to dst and returns the written length.
func I32(dst []byte, src int32) int {
	binary.LittleEndian.PutUint32(dst, uint32(src))
	return 4
}

// I64 writes an int64 to dst and returns the written length.
func I64(dst []byte, src int64) int {
	binary.LittleEndian.PutUint64(dst, uint64(src))
	return 8
}

// F32 writes a float32 to dst and returns the written length.
func F32(dst []byte, src float32) int {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(src))
	return 4
}

// F64 writes a float64 to dst and returns the written length.
func F64(dst []byte, src float64) int {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(src))
	return 8
}

// Bool writes a bool to dst and returns the written length.
func Bool(dst []byte, src bool) int {
	if src {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
	return 1
}

// WritePrefixedString writes a length-prefixed string to buf and returns the
// written length.
func WritePrefixedString(buf []byte, s string) int {
	if len(buf) < 4+len(s) {
		panic("buffer too small")
	}
	binary.LittleEndian.PutUint32(buf, uint32(len(s)))
	return 4 + copy(buf[4:], s)
}

// ReadU8 reads a uint8 from src into x, returning the consumed length.
func ReadU8(src []byte, x *uint8) int {
	*x = src[0]
	return 1
}

// ReadU32 reads a uint32 from src into x, returning the consumed length.
func ReadU32(src []byte, x *uint32) int {
	*x = binary.LittleEndian.Uint32(src)
	return 4
}

// ReadU64 reads a uint64 from src into x, returning the consumed length.
func ReadU64(src []byte, x *uint64) int {
	*x = binary.LittleEndian.Uint64(src)
	return 8
}

// ReadI32 reads an int32 from src into x, returning the consumed length.
func ReadI32(src []byte, x *int32) int {
	*x = int32(binary.LittleEndian.Uint32(src))
	return 4
}

// ReadI64 reads an int64 from src into x, returning the consumed length.
func ReadI64(src []byte, x *int64) int {
	*x = int64(binary.LittleEndian.Uint64(src))
	return 8
}

// ReadF32 reads a float32 from src into x, returning the consumed length.
func ReadF32(src []byte, x *float32) int {
	*x = math.Float32frombits(binary.LittleEndian.Uint32(src))
	return 4
}

// ReadBool reads a bool from src into x, returning the consumed length.
func ReadBool(src []byte, x *bool) int {
	*x = src[0] != 0
	return 1
}

// EncodeU8 writes a uint8 to w.
func EncodeU8(w io.Writer, x uint8) error {
	if _, err := w.Write([]byte{x}); err != nil {
		return fmt.Errorf("failed to encode uint8: %w", err)
	}
	return nil
}

// EncodeU32 writes a uint32 to w.
func EncodeU32(w io.Writer, x uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], x)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("failed to encode uint32: %w", err)
	}
	return nil
}

// EncodeU64 writes a uint64 to w.
func EncodeU64(w io.Writer, x uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("failed to encode uint64: %w", err)
	}
	return nil
}

// EncodeI32 writes an int32 to w.
func EncodeI32(w io.Writer, x int32) error {
	return EncodeU32(w, uint32(x))
}

// EncodeI64 writes an int64 to w.
func EncodeI64(w io.Writer, x int64) error {
	return EncodeU64(w, uint64(x))
}

// EncodeF32 writes a float32 to w.
func EncodeF32(w io.Writer, x float32) error {
	return EncodeU32(w, math.Float32bits(x))
}

// EncodeF64 writes a float64 to w.
func EncodeF64(w io.Writer, x float64) error {
	return EncodeU64(w, math.Float64bits(x))
}

// EncodeBool writes a bool to w.
func EncodeBool(w io.Writer, x bool) error {
	if x {
		return EncodeU8(w, 1)
	}
	return EncodeU8(w, 0)
}

// EncodePrefixedString writes a length-prefixed string to w.
func EncodePrefixedString(w io.Writer, s string) error {
	if err := EncodeU32(w, uint32(len(s))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("failed to encode string: %w", err)
	}
	return nil
}

// EncodePrefixedBytes writes a length-prefixed byte payload to w.
func EncodePrefixedBytes(w io.Writer, b []byte) error {
	if err := EncodeU32(w, uint32(len(b))); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	return nil
}

// DecodeU8 reads a uint8 from r.
func DecodeU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("failed to decode uint8: %w", err)
	}
	return buf[0], nil
}

// DecodeU32 reads a uint32 from r.
func DecodeU32(r io.Reader) (uint32, error) {
	var x uint32
	if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
		return 0, fmt.Errorf("failed to decode uint32: %w", err)
	}
	return x, nil
}

// DecodeU64 reads a uint64 from r.
func DecodeU64(r io.Reader) (uint64, error) {
	var x uint64
	if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
		return 0, fmt.Errorf("failed to decode uint64: %w", err)
	}
	return x, nil
}

// DecodeI32 reads an int32 from r.
func DecodeI32(r io.Reader) (int32, error) {
	x, err := DecodeU32(r)
	if err != nil {
		return 0, fmt.Errorf("failed to decode int32: %w", err)
	}
	return int32(x), nil
}

// DecodeI64 reads an int64 from r.
func DecodeI64(r io.Reader) (int64, error) {
	x, err := DecodeU64(r)
	if err != nil {
		return 0, fmt.Errorf("failed to decode int64: %w", err)
	}
	return int64(x), nil
}

// DecodeF32 reads a float32 from r.
func DecodeF32(r io.Reader) (float32, error) {
	x, err := DecodeU32(r)
	if err != nil {
		return 0, fmt.Errorf("failed to decode float32: %w", err)
	}
	return math.Float32frombits(x), nil
}

// DecodeF64 reads a float64 from r.
func DecodeF64(r io.Reader) (float64, error) {
	x, err := DecodeU64(r)
	if err != nil {
		return 0, fmt.Errorf("failed to decode float64: %w", err)
	}
	return math.Float64frombits(x), nil
}

// DecodeBool reads a bool from r. Any nonzero byte is true.
func DecodeBool(r io.Reader) (bool, error) {
	x, err := DecodeU8(r)
	if err != nil {
		return false, fmt.Errorf("failed to decode bool: %w", err)
	}
	return x != 0, nil
}

// DecodePrefixedString reads a length-prefixed string from r.
func DecodePrefixedString(r io.Reader) (string, error) {
	length, err := DecodeU32(r)
	if err != nil {
		return "", fmt.Errorf("failed to read string length: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("failed to read string: %w", err)
	}
	return string(buf), nil
}

// DecodePrefixedBytes reads a length-prefixed byte payload from r.
func DecodePrefixedBytes(r io.Reader) ([]byte, error) {
	length, err := DecodeU32(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload length: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return buf, nil
}
