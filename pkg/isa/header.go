package isa

import (
	"fmt"
	"math/bits"

	"github.com/sirupsen/logrus"
)

// ceilLog2 returns ceil(log2(n)) for n >= 1, defined as 0 for n == 1.
func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// placeHeaders assigns the top bits of every format to a format selector
// F (omitted when there is only one format) and, for formats with more
// than one instruction, an OPCODE slot immediately below it.
func placeHeaders(desc *Description, log *logrus.Entry) error {
	log.Info("placing format and opcode headers")

	numFormats := len(desc.Formats)
	fBits := ceilLog2(numFormats)
	omitF := numFormats == 1

	if !omitF && fBits > desc.Length {
		return &InfeasibilityError{Msg: fmt.Sprintf(
			"format selector alone needs %d bits, exceeding word length %d", fBits, desc.Length)}
	}

	for _, f := range desc.Formats {
		lsb := desc.Length
		if !omitF {
			lsb = desc.Length - fBits
			f.Bitmask = append(f.Bitmask, Slot{
				Name: NameFormat,
				MSB:  desc.Length - 1,
				LSB:  lsb,
				Value: bitsValue(zeroPad(f.Index, fBits)),
			})
		}

		if len(f.Instructions) > 1 {
			opcodeBits := ceilLog2(len(f.Instructions))
			opMSB := lsb - 1
			opLSB := lsb - opcodeBits
			if opLSB < 0 {
				return &InfeasibilityError{Msg: fmt.Sprintf(
					"format %q: header (F=%d bits, OPCODE=%d bits) exceeds word length %d",
					f.Name, fBits, opcodeBits, desc.Length)}
			}

			m := make(map[string]string, len(f.Instructions))
			for i, insn := range f.Instructions {
				if _, dup := m[insn]; dup {
					return &InputSchemaError{Msg: fmt.Sprintf("format %q declares instruction %q twice", f.Name, insn)}
				}
				m[insn] = zeroPad(i, opcodeBits)
			}
			f.Bitmask = append(f.Bitmask, Slot{
				Name: NameOpcode,
				MSB:  opMSB,
				LSB:  opLSB,
				Value: opcodeMapValue(m),
			})
		}
	}

	return nil
}

// zeroPad renders v as a zero-padded binary string of the given width.
// width == 0 renders the empty string, matching the omitted-header case.
func zeroPad(v, width int) string {
	if width <= 0 {
		return ""
	}
	return fmt.Sprintf("%0*b", width, v)
}
