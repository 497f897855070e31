package opt4001

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeExpMSB(t *testing.T) {
	tests := []struct {
		given       []byte
		expExponent uint8
		expMSB      uint16
	}{
		{[]byte{0x00, 0x00}, 0, 0},
		{[]byte{0x00, 0x01}, 0, 1},
		{[]byte{0x10, 0x00}, 1, 0},
		{[]byte{0xBF, 0xFF}, 11, 0xFFF},
		{[]byte{0xFF, 0xFF}, 15, 0xFFF},
		{[]byte{0xA5, 0x3C}, 10, 0x53C},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			exponent, msb := decodeExpMSB(test.given[0], test.given[1])
			assert.Equal(t, test.expExponent, exponent)
			assert.Equal(t, test.expMSB, msb)
		})
	}
}

func TestDecodeLSBCounterCRC(t *testing.T) {
	tests := []struct {
		given      []byte
		expLSB     byte
		expCounter uint8
		expCRC     uint8
	}{
		{[]byte{0x00, 0x00}, 0x00, 0, 0},
		{[]byte{0xFF, 0x00}, 0xFF, 0, 0},
		{[]byte{0x00, 0xF0}, 0x00, 15, 0},
		{[]byte{0x00, 0x0F}, 0x00, 0, 15},
		{[]byte{0x42, 0x5A}, 0x42, 5, 10},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			lsb, counter, crc := decodeLSBCounterCRC(test.given[0], test.given[1])
			assert.Equal(t, test.expLSB, lsb)
			assert.Equal(t, test.expCounter, counter)
			assert.Equal(t, test.expCRC, crc)
		})
	}
}

// Any byte pair must survive a decode / repack round trip, otherwise the
// decoder is dropping or folding bits somewhere.
func TestDecodeRoundTrip(t *testing.T) {
	for b0 := 0; b0 <= 0xFF; b0++ {
		for _, b1 := range []byte{0x00, 0x01, 0x5A, 0xA5, 0xFF} {
			exponent, msb := decodeExpMSB(byte(b0), b1)
			assert.Equal(t, byte(b0), exponent<<4|byte(msb>>8))
			assert.Equal(t, b1, byte(msb))

			lsb, counter, crc := decodeLSBCounterCRC(byte(b0), b1)
			assert.Equal(t, byte(b0), lsb)
			assert.Equal(t, b1, counter<<4|crc)
		}
	}
}

func TestComputeLux(t *testing.T) {
	tests := []struct {
		name     string
		exponent uint8
		msb      uint16
		lsb      byte
		expected float64
	}{
		{"dark", 0, 0, 0, 0},
		{"single count", 0, 0, 1, 0.0004375},
		{"msb only", 0, 1, 0, 0.112},
		{"lsb with shift", 1, 0, 0xFF, 0.223125},
		{"full scale", 11, 0xFFF, 0xFF, float64(uint32(0xFFFFF)<<11) * 0.0004375},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.InDelta(t, test.expected, computeLux(test.exponent, test.msb, test.lsb), 1e-9)
		})
	}
}

// The lux reconstruction must be monotonic in each register field
// independently; a regression here means bits ended up in the wrong place.
func TestComputeLuxMonotonic(t *testing.T) {
	for exponent := uint8(0); exponent < 11; exponent++ {
		assert.LessOrEqual(t, computeLux(exponent, 0x123, 0x45), computeLux(exponent+1, 0x123, 0x45))
	}
	for msb := uint16(0); msb < 0xFFF; msb += 0x55 {
		assert.LessOrEqual(t, computeLux(3, msb, 0x45), computeLux(3, msb+1, 0x45))
	}
	for lsb := 0; lsb < 0xFF; lsb++ {
		assert.LessOrEqual(t, computeLux(3, 0x123, byte(lsb)), computeLux(3, 0x123, byte(lsb)+1))
	}
}

func TestCheckCRC(t *testing.T) {
	tests := []struct {
		name     string
		exponent uint8
		mantissa uint32
		counter  uint8
		crc      uint8
	}{
		{"all zero", 0, 0, 0, 0b0000},
		{"exponent bit 0", 1, 0, 0, 0b0001},
		{"exponent bit 3", 8, 0, 0, 0b0111},
		{"mantissa bit 3", 0, 1 << 3, 0, 0b1111},
		{"mantissa bit 19", 0, 1 << 19, 0, 0b1111},
		{"counter bit 1", 0, 0, 2, 0b0011},
		{"counter bit 3", 0, 0, 8, 0b0111},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.True(t, CheckCRC(test.exponent, test.mantissa, test.counter, test.crc))
			assert.False(t, CheckCRC(test.exponent, test.mantissa, test.counter, test.crc^0b1010))
		})
	}
}

func TestThresholdRoundTrip(t *testing.T) {
	tests := []struct {
		lux      float64
		expected uint16
	}{
		{0, 0x0000},
		// 256 ADC codes => mantissa 1, exponent 0
		{0.112, 0x0001},
		{1000, 0x28B8},
	}
	for _, test := range tests {
		encoded := encodeThreshold(test.lux)
		assert.Equal(t, test.expected, encoded)
		// decoded value never exceeds the requested threshold
		assert.LessOrEqual(t, decodeThreshold(encoded), test.lux+1e-9)
	}
}
