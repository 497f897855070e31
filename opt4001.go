package opt4001

import (
	"context"
	"fmt"
	"math"
	"time"
)

// deviceID is the fixed identity pattern of the OPT4001 (DIDH field of the
// DEVICE_ID register).
const deviceID = 0x121

var ErrInvalidSlot = fmt.Errorf("opt4001: FIFO slot out of range (want 0-2)")
var ErrBadDeviceID = fmt.Errorf("opt4001: unexpected device id")

// Result is a full sample: calibrated illuminance plus the integrity
// metadata the device attaches to it. Counter is a free-running 0-15
// sequence bumped on every new sample; CRC is the 4-bit checksum computed
// over the exponent, mantissa and counter bits (see CheckCRC).
type Result struct {
	Lux     float64
	Counter uint8
	CRC     uint8

	exponent uint8
	mantissa uint32
}

// Valid recomputes the sample checksum from the raw register fields and
// compares it with CRC.
func (r Result) Valid() bool {
	return CheckCRC(r.exponent, r.mantissa, r.Counter, r.CRC)
}

type Opts struct {
	// Address is the 7-bit bus address (ADDR pin selectable, 0x44 default).
	Address byte
	// ReadyTimeout bounds the conversion-ready wait before a primary
	// result read.
	ReadyTimeout time.Duration
	// PollInterval is the pause between conversion-ready flag reads.
	PollInterval time.Duration
}

type Opt func(*Opts)

func WithAddress(address byte) Opt {
	return func(o *Opts) {
		o.Address = address
	}
}

func WithReadyTimeout(timeout time.Duration) Opt {
	return func(o *Opts) {
		o.ReadyTimeout = timeout
	}
}

func WithPollInterval(interval time.Duration) Opt {
	return func(o *Opts) {
		o.PollInterval = interval
	}
}

// OPT4001 represents a TI OPT4001 ambient light sensor (SOT-5X3 variant).
// Typical usage:
//
//	s := opt4001.New(bus)
//	if err := s.CheckID(ctx); err != nil { ... }
//	cfg := opt4001.DefaultConfig()
//	cfg.OperatingMode = opt4001.ModeContinuous
//	if err := s.Configure(ctx, cfg); err != nil { ... }
//	lux, err := s.Lux(ctx)
//
// The driver keeps no sample state; every accessor performs fresh register
// reads. Concurrent use must be serialized by the transport's own locking.
type OPT4001 struct {
	config    Opts
	transport I2CBus
}

func New(transport I2CBus, opts ...Opt) *OPT4001 {
	config := Opts{
		Address:      DefaultAddress,
		ReadyTimeout: 1100 * time.Millisecond,
		PollInterval: time.Millisecond,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &OPT4001{
		config:    config,
		transport: transport,
	}
}

// readRegister selects a register and reads its two bytes (high byte
// first) in one scoped transaction. The bus is released on every exit
// path; errors come straight from the transport, no retries.
func (s *OPT4001) readRegister(ctx context.Context, reg Register) (b0, b1 byte, err error) {
	var buf [2]byte
	defer func() {
		_ = s.transport.Release(ctx)
	}()
	err = s.transport.WriteToAddr(ctx, s.config.Address, []byte{byte(reg)})
	if err != nil {
		return 0, 0, fmt.Errorf("opt4001: could not select register %#02x: %w", byte(reg), err)
	}
	err = s.transport.ReadFromAddr(ctx, s.config.Address, buf[:])
	if err != nil {
		return 0, 0, fmt.Errorf("opt4001: could not read register %#02x: %w", byte(reg), err)
	}
	return buf[0], buf[1], nil
}

func (s *OPT4001) writeRegister(ctx context.Context, reg Register, value uint16) error {
	defer func() {
		_ = s.transport.Release(ctx)
	}()
	err := s.transport.WriteToAddr(ctx, s.config.Address, []byte{byte(reg), byte(value >> 8), byte(value)})
	if err != nil {
		return fmt.Errorf("opt4001: could not write register %#02x: %w", byte(reg), err)
	}
	return nil
}

// CheckID reads the DEVICE_ID register and verifies the fixed identity
// pattern (DIDL must be 0, DIDH must be 0x121). Call it once after wiring
// the sensor up to catch address clashes with lookalike parts.
func (s *OPT4001) CheckID(ctx context.Context) error {
	b0, b1, err := s.readRegister(ctx, RegDeviceID)
	if err != nil {
		return err
	}
	didl := (b0 >> 4) & 0x3
	didh := uint16(b0&0xF)<<8 | uint16(b1)
	if didl != 0 || didh != deviceID {
		return fmt.Errorf("%w: DIDL=%d DIDH=%#03x", ErrBadDeviceID, didl, didh)
	}
	return nil
}

// Configure writes the configuration register.
func (s *OPT4001) Configure(ctx context.Context, cfg Config) error {
	return s.writeRegister(ctx, RegConfiguration, cfg.encode())
}

// ReadConfig reads the configuration register back into its struct form.
func (s *OPT4001) ReadConfig(ctx context.Context) (Config, error) {
	b0, b1, err := s.readRegister(ctx, RegConfiguration)
	if err != nil {
		return Config{}, err
	}
	return decodeConfig(uint16(b0)<<8 | uint16(b1)), nil
}

// ReadFlags reads and decodes the FLAGS register. Reading clears the
// latched bits.
func (s *OPT4001) ReadFlags(ctx context.Context) (Flags, error) {
	b0, b1, err := s.readRegister(ctx, RegFlags)
	if err != nil {
		return Flags{}, err
	}
	return decodeFlags(uint16(b0)<<8 | uint16(b1)), nil
}

// Lux reads the primary result registers and returns the calibrated
// illuminance. It waits for the conversion-ready flag first (see
// waitConversionReady for the timeout semantics).
func (s *OPT4001) Lux(ctx context.Context) (float64, error) {
	if err := s.waitConversionReady(ctx); err != nil {
		return 0, err
	}
	return s.readLux(ctx, RegResultH, RegResultL)
}

// Result reads the primary result registers and returns the calibrated
// illuminance together with the sample counter and checksum.
func (s *OPT4001) Result(ctx context.Context) (Result, error) {
	if err := s.waitConversionReady(ctx); err != nil {
		return Result{}, err
	}
	return s.readResult(ctx, RegResultH, RegResultL)
}

// LuxFIFO returns the illuminance latched in FIFO slot 0, 1 or 2. FIFO
// slots hold historical samples, so no conversion-ready wait is performed.
func (s *OPT4001) LuxFIFO(ctx context.Context, slot int) (float64, error) {
	if slot < 0 || slot >= len(fifoRegisters) {
		return 0, ErrInvalidSlot
	}
	regs := fifoRegisters[slot]
	return s.readLux(ctx, regs[0], regs[1])
}

// ResultFIFO returns the full sample latched in FIFO slot 0, 1 or 2.
func (s *OPT4001) ResultFIFO(ctx context.Context, slot int) (Result, error) {
	if slot < 0 || slot >= len(fifoRegisters) {
		return Result{}, ErrInvalidSlot
	}
	regs := fifoRegisters[slot]
	return s.readResult(ctx, regs[0], regs[1])
}

func (s *OPT4001) readLux(ctx context.Context, high, low Register) (float64, error) {
	h0, h1, err := s.readRegister(ctx, high)
	if err != nil {
		return 0, err
	}
	l0, _, err := s.readRegister(ctx, low)
	if err != nil {
		return 0, err
	}
	exponent, resultMSB := decodeExpMSB(h0, h1)
	return computeLux(exponent, resultMSB, l0), nil
}

func (s *OPT4001) readResult(ctx context.Context, high, low Register) (Result, error) {
	h0, h1, err := s.readRegister(ctx, high)
	if err != nil {
		return Result{}, err
	}
	l0, l1, err := s.readRegister(ctx, low)
	if err != nil {
		return Result{}, err
	}
	exponent, resultMSB := decodeExpMSB(h0, h1)
	resultLSB, counter, crc := decodeLSBCounterCRC(l0, l1)
	return Result{
		Lux:      computeLux(exponent, resultMSB, resultLSB),
		Counter:  counter,
		CRC:      crc,
		exponent: exponent,
		mantissa: uint32(resultMSB)<<8 | uint32(resultLSB),
	}, nil
}

// waitConversionReady polls the conversion-ready flag until it is set or
// the timeout elapses. On timeout it returns nil and lets the caller read
// whatever sample is latched; the vendor driver behaves the same way and
// auto-ranging conversions can legitimately take longer than one cycle.
// Flag read failures and context cancellation do abort the wait.
func (s *OPT4001) waitConversionReady(ctx context.Context) error {
	deadline := time.Now().Add(s.config.ReadyTimeout)
	for time.Now().Before(deadline) {
		flags, err := s.ReadFlags(ctx)
		if err != nil {
			return err
		}
		if flags.ConversionReady {
			return nil
		}
		timer := time.NewTimer(s.config.PollInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return nil
}

// SetLowThreshold programs the low comparison threshold, in lux. The
// register only holds a 12-bit mantissa with a coarse exponent, so the
// programmed value is the closest representable one, clamped to the
// register's ceiling.
func (s *OPT4001) SetLowThreshold(ctx context.Context, lux float64) error {
	return s.writeRegister(ctx, RegThresholdL, encodeThreshold(lux))
}

// SetHighThreshold programs the high comparison threshold, in lux.
func (s *OPT4001) SetHighThreshold(ctx context.Context, lux float64) error {
	return s.writeRegister(ctx, RegThresholdH, encodeThreshold(lux))
}

// Thresholds reads back both comparison thresholds, in lux.
func (s *OPT4001) Thresholds(ctx context.Context) (low, high float64, err error) {
	b0, b1, err := s.readRegister(ctx, RegThresholdL)
	if err != nil {
		return 0, 0, err
	}
	low = decodeThreshold(uint16(b0)<<8 | uint16(b1))
	b0, b1, err = s.readRegister(ctx, RegThresholdH)
	if err != nil {
		return 0, 0, err
	}
	high = decodeThreshold(uint16(b0)<<8 | uint16(b1))
	return low, high, nil
}

// Threshold registers share the exponent/mantissa format of the result
// registers with an extra implicit <<8, trading resolution for range.

func encodeThreshold(lux float64) uint16 {
	if lux < 0 {
		lux = 0
	}
	adcCodes := uint64(math.Round(lux / luxPerCount))
	mantissa := adcCodes >> 8
	var exponent uint16
	for mantissa > 0xFFF && exponent < 0xF {
		mantissa >>= 1
		exponent++
	}
	if mantissa > 0xFFF {
		mantissa = 0xFFF
	}
	return exponent<<12 | uint16(mantissa)
}

func decodeThreshold(v uint16) float64 {
	exponent := v >> 12
	mantissa := uint64(v & 0xFFF)
	return float64(mantissa<<(8+exponent)) * luxPerCount
}
