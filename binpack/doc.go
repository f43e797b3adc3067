// Package binpack packs and unpacks fixed-width integers.
//
// Values are encoded as exactly size/8 bytes for size 16, 32 or 64 in
// little- or big-endian order, signed (two's complement) or unsigned.
// Parameters are validated before any encoding happens; an unsupported size
// or byte order is reported as a ConfigurationError.
//
//	buf, err := binpack.P32(0xdeadbeef, binpack.Little, false)
//	v, err := binpack.U32[uint32](buf, binpack.Little, false)
package binpack
