package opt4001

// luxPerCount is the lux value of a single ADC code, fixed by the analog
// front end of the SOT-5X3 variant (datasheet pages 17 and 18).
const luxPerCount = 0.0004375

// decodeExpMSB splits a high result register (RESULT_H or FIFO_x_H) into
// its exponent (bits 15-12) and the 12 most significant mantissa bits
// (bits 11-0). The device only emits exponents 0-11; 12-15 are passed
// through untouched.
func decodeExpMSB(b0, b1 byte) (exponent uint8, resultMSB uint16) {
	exponent = (b0 >> 4) & 0xF
	resultMSB = uint16(b0&0xF)<<8 | uint16(b1)
	return exponent, resultMSB
}

// decodeLSBCounterCRC splits a low result register (RESULT_L or FIFO_x_L)
// into the 8 least significant mantissa bits (bits 15-8), the rolling
// sample counter (bits 7-4) and the checksum nibble (bits 3-0).
func decodeLSBCounterCRC(b0, b1 byte) (resultLSB byte, counter, crc uint8) {
	resultLSB = b0
	counter = (b1 >> 4) & 0xF
	crc = b1 & 0xF
	return resultLSB, counter, crc
}

// computeLux reconstructs the linear ADC code from the floating-point style
// register fields and scales it to lux:
//
//	lux = (((RESULT_MSB << 8) + RESULT_LSB) << EXPONENT) * 437.5E-6
func computeLux(exponent uint8, resultMSB uint16, resultLSB byte) float64 {
	mantissa := uint64(resultMSB)<<8 | uint64(resultLSB)
	// 64-bit so the reserved exponents 12-15 still shift without wrapping
	adcCodes := mantissa << exponent
	return float64(adcCodes) * luxPerCount
}

// CheckCRC recomputes the 4-bit checksum the device appends to every sample
// and compares it with the received crc nibble. With E the exponent bits,
// R the 20-bit mantissa and C the counter bits (datasheet page 18):
//
//	X[0] = XOR(E[3:0], R[19:0], C[3:0])
//	X[1] = XOR(C[1], C[3], R[1], R[3], ..., R[19], E[1], E[3])
//	X[2] = XOR(C[3], R[3], R[7], R[11], R[15], R[19], E[3])
//	X[3] = XOR(R[3], R[11], R[19])
func CheckCRC(exponent uint8, mantissa uint32, counter, crc uint8) bool {
	x0 := parity(uint32(exponent&0xF)) ^ parity(mantissa&0xFFFFF) ^ parity(uint32(counter&0xF))
	x1 := bit(uint32(counter), 1) ^ bit(uint32(counter), 3) ^ bit(uint32(exponent), 1) ^ bit(uint32(exponent), 3)
	for i := 1; i < 20; i += 2 {
		x1 ^= bit(mantissa, i)
	}
	x2 := bit(uint32(counter), 3) ^ bit(uint32(exponent), 3)
	for i := 3; i < 20; i += 4 {
		x2 ^= bit(mantissa, i)
	}
	x3 := bit(mantissa, 3) ^ bit(mantissa, 11) ^ bit(mantissa, 19)
	return crc&0xF == x0|x1<<1|x2<<2|x3<<3
}

func bit(v uint32, n int) uint8 {
	return uint8(v>>n) & 1
}

func parity(v uint32) uint8 {
	var p uint8
	for v != 0 {
		p ^= uint8(v & 1)
		v >>= 1
	}
	return p
}
