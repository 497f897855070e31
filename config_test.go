package opt4001

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigEncode(t *testing.T) {
	tests := []struct {
		given    Config
		expected uint16
	}{
		{Config{}, 0x0000},
		{DefaultConfig(), 0x3208},
		{Config{QuickWakeup: true}, 0x8000},
		{Config{Range: Range117KLux}, 0x2000},
		{Config{ConversionTime: Conversion800ms}, 0x02C0},
		{Config{OperatingMode: ModeContinuous}, 0x0030},
		{Config{Latch: true, IntPol: true, FaultCount: FaultCount8}, 0x000F},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#04x", test.expected), func(t *testing.T) {
			assert.Equal(t, test.expected, test.given.encode())
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	tests := []Config{
		{},
		DefaultConfig(),
		{
			QuickWakeup:    true,
			Range:          Range918Lux,
			ConversionTime: Conversion25ms,
			OperatingMode:  ModeOneShot,
			IntPol:         true,
			FaultCount:     FaultCount4,
		},
	}
	for _, cfg := range tests {
		assert.Equal(t, cfg, decodeConfig(cfg.encode()))
	}
}

func TestDecodeFlags(t *testing.T) {
	tests := []struct {
		given    uint16
		expected Flags
	}{
		{0x0000, Flags{}},
		{0x0004, Flags{ConversionReady: true}},
		{0x0008, Flags{Overload: true}},
		{0x0003, Flags{FlagHigh: true, FlagLow: true}},
		{0x000F, Flags{Overload: true, ConversionReady: true, FlagHigh: true, FlagLow: true}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#04x", test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, decodeFlags(test.given))
		})
	}
}
