package opt4001

// Flags is the decoded FLAGS register.
type Flags struct {
	// Overload signals a saturated measurement.
	Overload bool
	// ConversionReady is set when a new conversion has completed and is
	// cleared by reading the flags.
	ConversionReady bool
	// FlagHigh and FlagLow report threshold crossings, in the mode selected
	// by Config.Latch.
	FlagHigh bool
	FlagLow  bool
}

func decodeFlags(v uint16) Flags {
	return Flags{
		Overload:        v&(1<<3) != 0,
		ConversionReady: v&(1<<2) != 0,
		FlagHigh:        v&(1<<1) != 0,
		FlagLow:         v&1 != 0,
	}
}
