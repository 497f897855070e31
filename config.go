package opt4001

// Configuration register bit layout (datasheet pages 30 and 31, 16-bit
// big-endian word):
//
//	15     QWAKE        quick wake-up from standby
//	13:10  RANGE        lux range selection
//	9:6    CONVERSION   conversion time selection
//	5:4    MODE         operating mode
//	3      LATCH        interrupt reporting mechanism
//	2      INT_POL      INT pin polarity
//	1:0    FAULT_COUNT  consecutive faults before threshold triggers

// Range selects the full-scale lux range. Ranges 0-8 are fixed, RangeAuto
// lets the device auto-range.
type Range uint8

const (
	Range459Lux Range = iota // 459 lux
	Range918Lux              // 918 lux
	Range1K8Lux              // 1.8 klux
	Range3K7Lux              // 3.7 klux
	Range7K3Lux              // 7.3 klux
	Range14KLux              // 14.7 klux
	Range29KLux              // 29.4 klux
	Range58KLux              // 58.7 klux
	Range117KLux             // 117.4 klux

	RangeAuto Range = 0b1100
)

// ConversionTime selects the per-sample conversion duration.
type ConversionTime uint8

const (
	Conversion600us ConversionTime = iota
	Conversion1ms
	Conversion1ms8
	Conversion3ms4
	Conversion6ms5
	Conversion12ms7
	Conversion25ms
	Conversion50ms
	Conversion100ms
	Conversion200ms
	Conversion400ms
	Conversion800ms
)

// OperatingMode selects how conversions are triggered.
type OperatingMode uint8

const (
	ModePowerDown OperatingMode = iota
	ModeForcedOneShot
	ModeOneShot
	ModeContinuous
)

// FaultCount is the number of consecutive threshold faults required before
// the interrupt mechanisms trigger: 1, 2, 4 or 8.
type FaultCount uint8

const (
	FaultCount1 FaultCount = iota
	FaultCount2
	FaultCount4
	FaultCount8
)

// Config is the explicit view of the configuration register. Bit packing is
// confined to encode/decodeConfig so device state is only ever mutated by
// writing a whole, named configuration.
type Config struct {
	QuickWakeup    bool           `yaml:"quick_wakeup"`
	Range          Range          `yaml:"range"`
	ConversionTime ConversionTime `yaml:"conversion_time"`
	OperatingMode  OperatingMode  `yaml:"operating_mode"`
	Latch          bool           `yaml:"latch"`
	IntPol         bool           `yaml:"int_pol"`
	FaultCount     FaultCount     `yaml:"fault_count"`
}

// DefaultConfig mirrors the power-on defaults the original vendor driver
// programs: auto-ranging, 100ms conversions, latched interrupts, device
// left powered down until an operating mode is chosen.
func DefaultConfig() Config {
	return Config{
		Range:          RangeAuto,
		ConversionTime: Conversion100ms,
		OperatingMode:  ModePowerDown,
		Latch:          true,
	}
}

func (c Config) encode() uint16 {
	var v uint16
	if c.QuickWakeup {
		v |= 1 << 15
	}
	v |= uint16(c.Range&0xF) << 10
	v |= uint16(c.ConversionTime&0xF) << 6
	v |= uint16(c.OperatingMode&0x3) << 4
	if c.Latch {
		v |= 1 << 3
	}
	if c.IntPol {
		v |= 1 << 2
	}
	v |= uint16(c.FaultCount & 0x3)
	return v
}

func decodeConfig(v uint16) Config {
	return Config{
		QuickWakeup:    v&(1<<15) != 0,
		Range:          Range(v >> 10 & 0xF),
		ConversionTime: ConversionTime(v >> 6 & 0xF),
		OperatingMode:  OperatingMode(v >> 4 & 0x3),
		Latch:          v&(1<<3) != 0,
		IntPol:         v&(1<<2) != 0,
		FaultCount:     FaultCount(v & 0x3),
	}
}
