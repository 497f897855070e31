package opt4001

// Register is a 16-bit logical register of the OPT4001, addressed by a
// single byte. The map follows page 25 of the datasheet.
type Register byte

const (
	RegResultH       Register = 0x00
	RegResultL       Register = 0x01
	RegFIFO0H        Register = 0x02
	RegFIFO0L        Register = 0x03
	RegFIFO1H        Register = 0x04
	RegFIFO1L        Register = 0x05
	RegFIFO2H        Register = 0x06
	RegFIFO2L        Register = 0x07
	RegThresholdL    Register = 0x08
	RegThresholdH    Register = 0x09
	RegConfiguration Register = 0x0A
	RegFlags         Register = 0x0C
	RegDeviceID      Register = 0x11
)

// DefaultAddress is the 7-bit bus address the SOT-5X3 variant ships with.
const DefaultAddress = 0x44

// fifoRegisters maps a FIFO slot to its high/low register pair.
var fifoRegisters = [3][2]Register{
	{RegFIFO0H, RegFIFO0L},
	{RegFIFO1H, RegFIFO1L},
	{RegFIFO2H, RegFIFO2L},
}
