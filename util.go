package firmata

import (
	"fmt"
)

// Firmata data bytes carry 7 bits; multi-byte quantities are sent as
// little-endian sequences of 7-bit bytes.
const SevenBitMask byte = 0b01111111

// MaxWord is the largest value representable in a 14-bit protocol field.
const MaxWord uint16 = 1<<14 - 1

func TwoByteToByte(a, b byte) byte {
	return (a & SevenBitMask) | ((b & SevenBitMask) << 7)
}

func TwoByteToWord(a, b byte) uint16 {
	return uint16(a&SevenBitMask) | (uint16(b&SevenBitMask) << 7)
}

func ByteToTwoByte(b byte) (lsb, msb byte) {
	return b & SevenBitMask, (b >> 7) & SevenBitMask
}

func WordToTwoByte(w uint16) (lsb, msb byte) {
	return byte(w) & SevenBitMask, byte(w>>7) & SevenBitMask
}

// TwoByteString decodes a string sent as lo/hi byte pairs. An odd-length
// input has its trailing byte decoded as a single raw character, matching
// what boards actually emit when they truncate; intentional, do not reject.
func TwoByteString(bytes []byte) string {
	if len(bytes)%2 == 1 {
		bytes = append(bytes, 0)
	}

	var s string
	for i := 0; i < len(bytes); i += 2 {
		s += string(rune(TwoByteToByte(bytes[i], bytes[i+1])))
	}
	return s
}

func ByteSliceToTwoByteRepresentation(bytes []byte) []byte {
	d := make([]byte, len(bytes)*2)
	i := 0
	for _, b := range bytes {
		d[i], d[i+1] = ByteToTwoByte(b)
		i += 2
	}
	return d
}

// SprintHexArray formats a payload for diagnostics, e.g. "0xF0 0x79 0xF7".
func SprintHexArray(data []byte) string {
	s := ""
	if len(data) == 0 {
		return s
	}
	for _, b := range data {
		s += fmt.Sprintf("0x%02X ", b)
	}
	return s[:len(s)-1]
}

// SprintBinaryArray formats a payload as binary, useful when staring at port
// bitmaps.
func SprintBinaryArray(data []byte) string {
	s := ""
	if len(data) == 0 {
		return s
	}
	for _, b := range data {
		s += fmt.Sprintf("0b%08b ", b)
	}
	return s[:len(s)-1]
}
