package isa

import (
	"encoding/json"
	"io"
	"path/filepath"
)

// OutputField is one entry of an instruction's "fields" array in the
// JSON output.
type OutputField struct {
	Name  string `json:"name"`
	MSB   int    `json:"msb"`
	LSB   int    `json:"lsb"`
	Value Value  `json:"value"`
}

// OutputEntry is one instruction's entry in the JSON output: its
// mnemonic and its format's full bitmask, with the OPCODE slot (if any)
// specialized to this instruction's own encoding.
type OutputEntry struct {
	Insn   string        `json:"insn"`
	Fields []OutputField `json:"fields"`
}

// BuildOutput flattens a Layout into the ordered list of instruction
// entries: one entry per mnemonic, in format declaration order and,
// within a multi-instruction format, in declaration order of its
// instructions.
func BuildOutput(layout *Layout) []OutputEntry {
	var entries []OutputEntry
	for _, f := range layout.Formats {
		opcodeIdx, opcodeMap := findOpcodeSlot(f)
		if opcodeMap == nil {
			entries = append(entries, OutputEntry{
				Insn:   f.Instructions[0],
				Fields: renderFields(f.Bitmask, -1, ""),
			})
			continue
		}
		for _, insn := range f.Instructions {
			entries = append(entries, OutputEntry{
				Insn:   insn,
				Fields: renderFields(f.Bitmask, opcodeIdx, opcodeMap[insn]),
			})
		}
	}
	return entries
}

// findOpcodeSlot locates the OPCODE slot, if any, returning its index
// within the bitmask and its mnemonic->encoding map.
func findOpcodeSlot(f *Format) (int, map[string]string) {
	for i, s := range f.Bitmask {
		if s.Name == NameOpcode {
			return i, s.Value.OpcodeMap
		}
	}
	return -1, nil
}

// renderFields copies a format's bitmask into OutputFields, specializing
// the slot at opcodeIdx (if >= 0) to the single binary encoding bits.
func renderFields(bitmask []Slot, opcodeIdx int, bits string) []OutputField {
	out := make([]OutputField, len(bitmask))
	for i, s := range bitmask {
		v := s.Value
		if i == opcodeIdx {
			v = bitsValue(bits)
		}
		out[i] = OutputField{Name: s.Name, MSB: s.MSB, LSB: s.LSB, Value: v}
	}
	return out
}

// WriteJSON writes entries to w as indented JSON.
func WriteJSON(w io.Writer, entries []OutputEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(entries)
}

// OutputPath applies the "output_<input_filename>" naming convention,
// prefixing the base name only and preserving the input's directory.
func OutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	return filepath.Join(dir, "output_"+base)
}
