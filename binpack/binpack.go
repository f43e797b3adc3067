package binpack

import (
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"math"

	"github.com/wagiedev/pipe-go/internal/errors"
)

// ByteOrder selects the byte order of the encoding.
type ByteOrder string

const (
	// Little encodes the least significant byte first.
	Little ByteOrder = "little"
	// Big encodes the most significant byte first.
	Big ByteOrder = "big"
)

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// ConfigurationError reports an unsupported size or byte order.
type ConfigurationError = errors.ConfigurationError

var (
	// ErrValueOutOfRange indicates a value does not fit the requested encoding
	// or the requested result type.
	ErrValueOutOfRange = stderrors.New("value out of range")

	// ErrBufferSize indicates the buffer length does not match the size.
	ErrBufferSize = stderrors.New("buffer size mismatch")
)

// format is a validated encoding.
type format struct {
	size   int
	order  binary.ByteOrder
	signed bool
}

func newFormat(size int, order ByteOrder, signed bool) (*format, error) {
	f := &format{size: size, signed: signed}

	switch order {
	case Little:
		f.order = binary.LittleEndian
	case Big:
		f.order = binary.BigEndian
	default:
		return nil, &ConfigurationError{
			Field:  "byte order",
			Value:  fmt.Sprintf("%q", string(order)),
			Reason: `must be either "little" or "big"`,
		}
	}

	switch size {
	case 16, 32, 64:
	default:
		return nil, &ConfigurationError{
			Field:  "size",
			Value:  size,
			Reason: "supported sizes are 16, 32 and 64",
		}
	}

	return f, nil
}

// limits returns the representable range of the format. For unsigned
// formats only the upper bound applies.
func (f *format) limits() (int64, uint64) {
	if f.signed {
		lo := int64(-1) << (f.size - 1)

		return lo, uint64(-(lo + 1))
	}

	if f.size == 64 {
		return 0, math.MaxUint64
	}

	return 0, uint64(1)<<f.size - 1
}

// Pack encodes value as a size-bit integer.
func Pack[T Integer](value T, size int, order ByteOrder, signed bool) ([]byte, error) {
	f, err := newFormat(size, order, signed)
	if err != nil {
		return nil, err
	}

	lo, hi := f.limits()

	var bits uint64

	if value < 0 {
		v := int64(value)
		if !f.signed || v < lo {
			return nil, fmt.Errorf("pack %d into %s: %w", v, f, ErrValueOutOfRange)
		}

		bits = uint64(v)
	} else {
		v := uint64(value)
		if v > hi {
			return nil, fmt.Errorf("pack %d into %s: %w", v, f, ErrValueOutOfRange)
		}

		bits = v
	}

	buf := make([]byte, size/8)

	switch size {
	case 16:
		f.order.PutUint16(buf, uint16(bits))
	case 32:
		f.order.PutUint32(buf, uint32(bits))
	case 64:
		f.order.PutUint64(buf, bits)
	}

	return buf, nil
}

// Unpack decodes a size-bit integer from buf, which must be exactly size/8
// bytes long, into T.
func Unpack[T Integer](buf []byte, size int, order ByteOrder, signed bool) (T, error) {
	f, err := newFormat(size, order, signed)
	if err != nil {
		return 0, err
	}

	if len(buf) != size/8 {
		return 0, fmt.Errorf("unpack %s from %d bytes: %w", f, len(buf), ErrBufferSize)
	}

	var bits uint64

	switch size {
	case 16:
		bits = uint64(f.order.Uint16(buf))
	case 32:
		bits = uint64(f.order.Uint32(buf))
	case 64:
		bits = f.order.Uint64(buf)
	}

	if f.signed {
		// Sign-extend from size bits.
		shift := 64 - size
		v := int64(bits<<shift) >> shift

		return convert[T](v < 0, v, uint64(v))
	}

	return convert[T](false, 0, bits)
}

// convert narrows a decoded value into T, failing if it does not fit.
func convert[T Integer](negative bool, signed int64, unsigned uint64) (T, error) {
	if negative {
		out := T(signed)
		if out >= 0 || int64(out) != signed {
			return 0, fmt.Errorf("unpack %d into %T: %w", signed, out, ErrValueOutOfRange)
		}

		return out, nil
	}

	out := T(unsigned)
	if out < 0 || uint64(out) != unsigned {
		return 0, fmt.Errorf("unpack %d into %T: %w", unsigned, out, ErrValueOutOfRange)
	}

	return out, nil
}

func (f *format) String() string {
	sign := "unsigned"
	if f.signed {
		sign = "signed"
	}

	return fmt.Sprintf("%s %d-bit %s", sign, f.size, f.order)
}

// P16 packs a 16-bit integer.
func P16[T Integer](value T, order ByteOrder, signed bool) ([]byte, error) {
	return Pack(value, 16, order, signed)
}

// U16 unpacks a 16-bit integer.
func U16[T Integer](buf []byte, order ByteOrder, signed bool) (T, error) {
	return Unpack[T](buf, 16, order, signed)
}

// P32 packs a 32-bit integer.
func P32[T Integer](value T, order ByteOrder, signed bool) ([]byte, error) {
	return Pack(value, 32, order, signed)
}

// U32 unpacks a 32-bit integer.
func U32[T Integer](buf []byte, order ByteOrder, signed bool) (T, error) {
	return Unpack[T](buf, 32, order, signed)
}

// P64 packs a 64-bit integer.
func P64[T Integer](value T, order ByteOrder, signed bool) ([]byte, error) {
	return Pack(value, 64, order, signed)
}

// U64 unpacks a 64-bit integer.
func U64[T Integer](buf []byte, order ByteOrder, signed bool) (T, error) {
	return Unpack[T](buf, 64, order, signed)
}
