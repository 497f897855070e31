package opt4001

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus is a scripted I2CBus: a register-address write selects a
// register, the following read returns its two bytes. It tracks traffic so
// tests can assert on access patterns.
type fakeBus struct {
	regs     map[Register][2]byte
	selected Register
	reads    map[Register]int
	writes   int
	releases int
	failWith error
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		regs:  make(map[Register][2]byte),
		reads: make(map[Register]int),
	}
}

func (b *fakeBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if b.failWith != nil {
		return b.failWith
	}
	b.writes++
	switch len(buffer) {
	case 1:
		b.selected = Register(buffer[0])
	case 3:
		b.regs[Register(buffer[0])] = [2]byte{buffer[1], buffer[2]}
	}
	return nil
}

func (b *fakeBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if b.failWith != nil {
		return b.failWith
	}
	b.reads[b.selected]++
	pair := b.regs[b.selected]
	copy(buffer, pair[:])
	return nil
}

func (b *fakeBus) Release(ctx context.Context) error {
	b.releases++
	return nil
}

func (b *fakeBus) setReady() {
	b.regs[RegFlags] = [2]byte{0x00, 0x04}
}

func TestLux(t *testing.T) {
	bus := newFakeBus()
	bus.setReady()
	bus.regs[RegResultH] = [2]byte{0x00, 0x01}
	bus.regs[RegResultL] = [2]byte{0x00, 0x00}

	s := New(bus)
	lux, err := s.Lux(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.112, lux, 1e-9)
}

func TestResult(t *testing.T) {
	bus := newFakeBus()
	bus.setReady()
	bus.regs[RegResultH] = [2]byte{0x10, 0x00}
	bus.regs[RegResultL] = [2]byte{0xFF, 0x53}

	s := New(bus)
	res, err := s.Result(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.223125, res.Lux, 1e-9)
	assert.Equal(t, uint8(5), res.Counter)
	assert.Equal(t, uint8(3), res.CRC)
}

func TestResultValid(t *testing.T) {
	bus := newFakeBus()
	bus.setReady()
	// mantissa bit 3 set, counter 0 => checksum 0b1111
	bus.regs[RegResultH] = [2]byte{0x00, 0x00}
	bus.regs[RegResultL] = [2]byte{0x08, 0x0F}

	s := New(bus)
	res, err := s.Result(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Valid())

	bus.regs[RegResultL] = [2]byte{0x08, 0x0E}
	res, err = s.Result(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Valid())
}

func TestFIFO(t *testing.T) {
	bus := newFakeBus()
	bus.regs[RegFIFO1H] = [2]byte{0x00, 0x01}
	bus.regs[RegFIFO1L] = [2]byte{0x00, 0x20}

	s := New(bus)
	lux, err := s.LuxFIFO(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.112, lux, 1e-9)

	res, err := s.ResultFIFO(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.112, res.Lux, 1e-9)
	assert.Equal(t, uint8(2), res.Counter)

	// FIFO slots hold latched history, no conversion-ready polling
	assert.Equal(t, 0, bus.reads[RegFlags])
}

func TestFIFOInvalidSlot(t *testing.T) {
	bus := newFakeBus()
	s := New(bus)

	for _, slot := range []int{-1, 3, 42} {
		_, err := s.LuxFIFO(context.Background(), slot)
		assert.ErrorIs(t, err, ErrInvalidSlot)
		_, err = s.ResultFIFO(context.Background(), slot)
		assert.ErrorIs(t, err, ErrInvalidSlot)
	}
	// rejected before any bus traffic
	assert.Equal(t, 0, bus.writes)
}

func TestLuxReadyTimeoutFallsThrough(t *testing.T) {
	bus := newFakeBus()
	// conversion-ready never set
	bus.regs[RegResultH] = [2]byte{0x00, 0x01}
	bus.regs[RegResultL] = [2]byte{0x00, 0x00}

	s := New(bus, WithReadyTimeout(10*time.Millisecond), WithPollInterval(time.Millisecond))
	lux, err := s.Lux(context.Background())
	// the driver reads whatever is latched instead of failing
	require.NoError(t, err)
	assert.InDelta(t, 0.112, lux, 1e-9)
	assert.Greater(t, bus.reads[RegFlags], 1)
}

func TestLuxBusError(t *testing.T) {
	bus := newFakeBus()
	bus.failWith = ErrBusBusy

	s := New(bus)
	_, err := s.Lux(context.Background())
	assert.ErrorIs(t, err, ErrBusBusy)
	// bus released on the error path too
	assert.Equal(t, 1, bus.releases)
}

func TestCheckID(t *testing.T) {
	bus := newFakeBus()
	bus.regs[RegDeviceID] = [2]byte{0x01, 0x21}

	s := New(bus)
	require.NoError(t, s.CheckID(context.Background()))

	bus.regs[RegDeviceID] = [2]byte{0x11, 0x21}
	assert.ErrorIs(t, s.CheckID(context.Background()), ErrBadDeviceID)

	bus.regs[RegDeviceID] = [2]byte{0x01, 0x22}
	assert.ErrorIs(t, s.CheckID(context.Background()), ErrBadDeviceID)
}

func TestConfigureReadBack(t *testing.T) {
	bus := newFakeBus()
	s := New(bus)

	cfg := DefaultConfig()
	cfg.OperatingMode = ModeContinuous
	cfg.Range = Range918Lux
	require.NoError(t, s.Configure(context.Background(), cfg))

	got, err := s.ReadConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestThresholds(t *testing.T) {
	bus := newFakeBus()
	s := New(bus)

	require.NoError(t, s.SetLowThreshold(context.Background(), 0.112))
	require.NoError(t, s.SetHighThreshold(context.Background(), 1000))

	low, high, err := s.Thresholds(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.112, low, 1e-9)
	// high is the closest representable value below the request
	assert.InDelta(t, 999.936, high, 1e-6)
}

func TestWaitConversionReadyCancel(t *testing.T) {
	bus := newFakeBus()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(bus)
	_, err := s.Lux(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
