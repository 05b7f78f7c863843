package descriptor

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/wippyai/wasm-descriptor/errors"
)

// Width is the number of output bytes every descriptor occupies.
const Width = 4

// Max is the exclusive upper bound of a descriptor value. Four decimal
// digits is all the fixed-width form can carry.
const Max = 10000

// CustomStart is the first descriptor handed out to user-defined types.
// Everything below it is reserved for built-in boundaries.
const CustomStart = 1000

// SchemaVersion tags the wire revision of the emitted document.
const SchemaVersion = "1"

// Descriptor identifies how a type crosses the interface boundary.
type Descriptor uint32

// Bytes returns the fixed-width form: the decimal value right-aligned in
// four ASCII bytes, padded with spaces. The padding keeps the enclosing
// document valid JSON while letting a consumer index descriptors byte for
// byte. Values that do not fit are a contract violation.
func (d Descriptor) Bytes() [Width]byte {
	if d >= Max {
		panic(errors.DescriptorRange(uint32(d), Max))
	}
	out := [Width]byte{' ', ' ', ' ', ' '}
	v := uint32(d)
	for i := Width - 1; i >= 0; i-- {
		out[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return out
}

// String returns the decimal value.
func (d Descriptor) String() string {
	return strconv.FormatUint(uint64(d), 10)
}

// Borrowed returns the by-reference form of an owned descriptor.
func (d Descriptor) Borrowed() Descriptor {
	return d | 1
}

// IsCustom reports whether d was derived from a user-defined type name.
func (d Descriptor) IsCustom() bool {
	return d >= CustomStart && d < Max
}

// NameToDescriptor maps a user-defined type name to a stable descriptor in
// [CustomStart, Max). The result is always even so that Borrowed can flag
// the reference form in the low bit.
func NameToDescriptor(name string) uint32 {
	const slots = (Max - CustomStart) / 2
	h := xxhash.Sum64String(name)
	return CustomStart + uint32(h%slots)*2
}
