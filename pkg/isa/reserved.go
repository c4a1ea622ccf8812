package isa

// fillReserved inserts a RESERVED spacer slot into every gap in a
// format's bitmask: above the first slot if it doesn't reach the top
// bit, between any two consecutive slots whose bit ranges are not
// adjacent, and below the last slot if it doesn't reach bit 0.
func fillReserved(formats []*Format, length int) {
	for _, f := range formats {
		f.Bitmask = fillReservedOne(f.Bitmask, length)
	}
}

func fillReservedOne(bitmask []Slot, length int) []Slot {
	if len(bitmask) == 0 {
		return []Slot{{Name: NameReserved, MSB: length - 1, LSB: 0, Value: reservedValue()}}
	}
	out := make([]Slot, 0, len(bitmask)+2)
	if first := bitmask[0]; first.MSB < length-1 {
		out = append(out, Slot{Name: NameReserved, MSB: length - 1, LSB: first.MSB + 1, Value: reservedValue()})
	}
	for i := 0; i < len(bitmask)-1; i++ {
		a1, a2 := bitmask[i], bitmask[i+1]
		out = append(out, a1)
		if a1.LSB-a2.MSB > 1 {
			out = append(out, Slot{Name: NameReserved, MSB: a1.LSB - 1, LSB: a2.MSB + 1, Value: reservedValue()})
		}
	}
	out = append(out, bitmask[len(bitmask)-1])
	if last := out[len(out)-1]; last.LSB > 0 {
		out = append(out, Slot{Name: NameReserved, MSB: last.LSB - 1, LSB: 0, Value: reservedValue()})
	}
	return out
}

// stripReserved removes every RESERVED slot, the inverse of fillReserved.
// Stripping then re-adding RESERVED slots is the identity on the
// non-reserved slots.
func stripReserved(formats []*Format) {
	for _, f := range formats {
		f.removeNamed(NameReserved)
	}
}
