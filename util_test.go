package firmata

import (
	"fmt"
	"testing"
)

func TestByteConversion(t *testing.T) {
	for i := uint16(0x00); i <= 0xFF; i++ {
		t.Run(fmt.Sprintf("0x%02X", i), func(t *testing.T) {
			a, b := ByteToTwoByte(byte(i))
			o := TwoByteToByte(a, b)
			if byte(i) != o {
				t.Errorf("ByteToTwoByte(0x%02X) = 0x%02X, 0x%02X => TwoByteToByte() = 0x%02X", i, a, b, o)
			}
		})
	}
}

func TestWordConversion(t *testing.T) {
	for i := uint16(0); i <= MaxWord; i++ {
		lsb, msb := WordToTwoByte(i)
		if lsb > SevenBitMask || msb > SevenBitMask {
			t.Fatalf("WordToTwoByte(%d) = 0x%02X, 0x%02X: byte exceeds 7 bits", i, lsb, msb)
		}
		if o := TwoByteToWord(lsb, msb); o != i {
			t.Fatalf("WordToTwoByte(%d) = 0x%02X, 0x%02X => TwoByteToWord() = %d", i, lsb, msb, o)
		}
	}
}

func TestTwoByteString(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		want  string
	}{
		{
			name:  "nil",
			bytes: nil,
			want:  "",
		},
		{
			name:  "empty",
			bytes: []byte{},
			want:  "",
		},
		{
			name: "test string",
			bytes: ByteSliceToTwoByteRepresentation([]byte{
				0x74, 0x65, 0x73, 0x74, 0x20, 0x73, 0x74, 0x72, 0x69, 0x6E, 0x67,
			}),
			want: "test string",
		},
		{
			name:  "odd trailing byte decodes as one raw char",
			bytes: []byte{0x68, 0x00, 0x69, 0x00, 0x21},
			want:  "hi!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TwoByteString(tt.bytes); got != tt.want {
				t.Errorf("TwoByteString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSprintHexArray(t *testing.T) {
	if got := SprintHexArray(nil); got != "" {
		t.Errorf("SprintHexArray(nil) = %q", got)
	}
	if got := SprintHexArray([]byte{0xF0, 0x79, 0xF7}); got != "0xF0 0x79 0xF7" {
		t.Errorf("SprintHexArray() = %q", got)
	}
}

func TestSprintBinaryArray(t *testing.T) {
	if got := SprintBinaryArray([]byte{0x05}); got != "0b00000101" {
		t.Errorf("SprintBinaryArray() = %q", got)
	}
}
