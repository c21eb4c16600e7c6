// Package packedindex implements the variable-length delta encoding of vertex
// indices.
//
// Each index is stored as the difference from the previous index, starting
// from 0. A delta is stored either in one byte, when the high bit is clear, or
// in three bytes, when the high bit of the first byte is set:
//
//     0xxxxxxx                    short form
//     1hhhhhhh mmmmmmmm llllllll  long form, delta = h<<16 | m<<8 | l
//
// The running value is kept modulo 2^23, so a long form delta can also move
// the value backwards by wrapping around.
package packedindex

import (
	"github.com/robloxapi/rbxmesh/errors"
)

// Mask is applied to the running value after each delta.
const Mask = 1<<23 - 1

// Variant selects how the short form is interpreted.
type Variant uint8

const (
	// Unsigned reads the short form as a delta in 0..127.
	Unsigned Variant = iota
	// Signed reads bit 0x40 of the short form as a sign bit, giving a delta
	// in -64..63.
	Signed
)

func (v Variant) String() string {
	switch v {
	case Unsigned:
		return "Unsigned"
	case Signed:
		return "Signed"
	default:
		return "Invalid"
	}
}

func (v Variant) short(b byte) uint32 {
	if v == Signed && b&0x40 != 0 {
		return uint32(int32(b) - 0x80)
	}
	return uint32(b)
}

// Decode decodes exactly count indices from data. It fails with
// ErrUnexpectedEOF when data runs out first and with ErrUnusedData when bytes
// remain afterward.
func Decode(variant Variant, count int, data []byte) ([]uint32, error) {
	// Every index consumes at least one byte.
	if count > len(data) {
		return nil, errors.ErrUnexpectedEOF
	}
	indices := make([]uint32, count)
	var acc uint32
	i := 0
	for n := range indices {
		if i >= len(data) {
			return nil, errors.ErrUnexpectedEOF
		}
		b := data[i]
		var delta uint32
		if b&0x80 == 0 {
			delta = variant.short(b)
			i++
		} else {
			if i+3 > len(data) {
				return nil, errors.ErrUnexpectedEOF
			}
			delta = uint32(b&0x7F)<<16 | uint32(data[i+1])<<8 | uint32(data[i+2])
			i += 3
		}
		acc = (acc + delta) & Mask
		indices[n] = acc
	}
	if i != len(data) {
		return nil, errors.ErrUnusedData
	}
	return indices, nil
}

// Encode encodes indices, using the short form wherever the variant can
// represent the delta. Indices must fit in 23 bits.
func Encode(variant Variant, indices []uint32) ([]byte, error) {
	data := make([]byte, 0, len(indices))
	var acc uint32
	for _, index := range indices {
		if index > Mask {
			return nil, errors.New("index exceeds 23 bits")
		}
		delta := (index - acc) & Mask
		switch {
		case variant == Unsigned && delta < 0x80,
			variant == Signed && (delta < 0x40 || delta >= Mask+1-0x40):
			data = append(data, byte(delta&0x7F))
		default:
			data = append(data, 0x80|byte(delta>>16), byte(delta>>8), byte(delta))
		}
		acc = index
	}
	return data, nil
}

// Split partitions indices by range markers. Markers must hold 2 or 3
// non-decreasing offsets, the last being len(indices). The primary range is
// markers[0]:markers[1]; the auxiliary range is markers[1]:markers[2], and is
// nil when only two markers are given.
func Split(indices []uint32, markers []uint32) (primary, auxiliary []uint32, err error) {
	if len(markers) != 2 && len(markers) != 3 {
		return nil, nil, errors.CountError{Field: "range markers", Declared: int64(len(markers)), Available: 3}
	}
	for i, m := range markers {
		if i > 0 && m < markers[i-1] {
			return nil, nil, errors.New("range markers are not in order")
		}
	}
	if last := markers[len(markers)-1]; int64(last) != int64(len(indices)) {
		return nil, nil, errors.CountError{Field: "range markers", Declared: int64(last), Available: int64(len(indices))}
	}
	primary = indices[markers[0]:markers[1]]
	if len(markers) == 3 {
		auxiliary = indices[markers[1]:markers[2]]
	}
	return primary, auxiliary, nil
}
