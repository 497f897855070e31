package opt4001

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// AddressableReader reads len(buffer) bytes from a device on the bus.
type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

// AddressableWriter writes buffer to a device on the bus. Release frees the
// bus engine after a transaction; implementations that need no explicit
// release return nil.
type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the transport the driver talks to. Every register access is a
// register-address write followed immediately by a two byte read, so both
// sides are required.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
