package isa

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"
)

// rawInput mirrors the external JSON schema exactly: fields is an array
// of single-key objects so that declaration order (which drives priority
// tie-breaking) survives JSON decoding.
type rawInput struct {
	Length       int                    `json:"length"`
	Fields       []map[string]any       `json:"fields"`
	Instructions []rawInstructionsGroup `json:"instructions"`
}

type rawInstructionsGroup struct {
	Format   string   `json:"format"`
	Insns    []string `json:"insns"`
	Operands []string `json:"operands"`
	Comment  string   `json:"comment"`
}

var fieldSpecGE = regexp.MustCompile(`^>=\d+$`)

// ReadDescription reads and validates an ISA description from the file at
// path. It returns InputIOError if the file cannot be read, or
// InputSchemaError / FieldSpecError if its contents are malformed.
func ReadDescription(path string, log *logrus.Entry) (*Description, error) {
	log.WithField("path", path).Info("parsing input file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputIOError{Path: path, Err: err}
	}

	var raw rawInput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InputSchemaError{Msg: "malformed JSON", Err: err}
	}

	desc, err := parseDescription(&raw, log)
	if err != nil {
		return nil, err
	}
	log.Info("loaded ISA description")
	return desc, nil
}

func parseDescription(raw *rawInput, log *logrus.Entry) (*Description, error) {
	log.Debug("parsing length")
	if raw.Length <= 0 {
		return nil, &InputSchemaError{Msg: fmt.Sprintf("length must be positive, got %d", raw.Length)}
	}
	desc := &Description{Length: raw.Length}

	log.Debug("parsing fields")
	if err := parseFields(desc, raw.Fields); err != nil {
		return nil, err
	}

	log.Debug("parsing instructions")
	if err := parseFormats(desc, raw.Instructions); err != nil {
		return nil, err
	}

	assignPriorities(desc)
	warnUnreferencedFields(desc, log)

	return desc, nil
}

func parseFields(desc *Description, raw []map[string]any) error {
	for _, entry := range raw {
		for name, spec := range entry {
			if _, dup := desc.fieldByName(name); dup {
				return &InputSchemaError{Msg: fmt.Sprintf("duplicate field %q", name)}
			}
			min, max, err := parseFieldSpec(name, spec, desc.Length)
			if err != nil {
				return err
			}
			desc.Fields = append(desc.Fields, &Field{Name: name, Min: min, Max: max})
		}
	}
	return nil
}

// fieldByName looks up a field by name among those already parsed,
// without building the index used post-load (the index is populated
// lazily by Description.field and would be stale mid-parse).
func (d *Description) fieldByName(name string) (*Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// parseFieldSpec parses a field width declaration: either an exact width
// (decimal integer, as a JSON number or a numeric string) or a ">=N"
// string meaning "width between N and the word length, inclusive".
func parseFieldSpec(name string, spec any, length int) (min, max int, err error) {
	switch v := spec.(type) {
	case float64:
		n := int(v)
		if float64(n) != v || n < 0 {
			return 0, 0, &FieldSpecError{Field: name, Msg: fmt.Sprintf("width %v is not a non-negative integer", v)}
		}
		min, max = n, n
	case string:
		if fieldSpecGE.MatchString(v) {
			n, convErr := strconv.Atoi(v[2:])
			if convErr != nil {
				return 0, 0, &FieldSpecError{Field: name, Msg: fmt.Sprintf("invalid >=N spec %q", v)}
			}
			min, max = n, length
		} else if n, convErr := strconv.Atoi(v); convErr == nil {
			min, max = n, n
		} else {
			return 0, 0, &FieldSpecError{Field: name, Msg: fmt.Sprintf("spec %q is neither an integer nor >=N", v)}
		}
	default:
		return 0, 0, &FieldSpecError{Field: name, Msg: fmt.Sprintf("unsupported spec type %T", spec)}
	}

	if min < 1 {
		return 0, 0, &FieldSpecError{Field: name, Msg: fmt.Sprintf("min width must be >= 1, got %d", min)}
	}
	if min > max {
		return 0, 0, &FieldSpecError{Field: name, Msg: fmt.Sprintf("min %d exceeds max %d", min, max)}
	}
	if max > length {
		return 0, 0, &FieldSpecError{Field: name, Msg: fmt.Sprintf("max width %d exceeds word length %d", max, length)}
	}
	return min, max, nil
}

func parseFormats(desc *Description, raw []rawInstructionsGroup) error {
	for i, g := range raw {
		if g.Format == "" {
			return &InputSchemaError{Msg: fmt.Sprintf("instructions[%d] missing \"format\"", i)}
		}
		if len(g.Insns) == 0 {
			return &InputSchemaError{Msg: fmt.Sprintf("format %q declares no instructions", g.Format)}
		}
		for _, existing := range desc.Formats {
			if existing.Name == g.Format {
				return &InputSchemaError{Msg: fmt.Sprintf("duplicate format %q", g.Format)}
			}
		}
		for _, op := range g.Operands {
			if _, ok := desc.fieldByName(op); !ok {
				return &InputSchemaError{Msg: fmt.Sprintf("format %q references undeclared field %q", g.Format, op)}
			}
		}
		desc.Formats = append(desc.Formats, &Format{
			Name:         g.Format,
			Instructions: append([]string(nil), g.Insns...),
			Operands:     append([]string(nil), g.Operands...),
			Comment:      g.Comment,
			Index:        i,
		})
	}
	if len(desc.Formats) == 0 {
		return &InputSchemaError{Msg: "no instruction formats declared"}
	}
	return nil
}

func warnUnreferencedFields(desc *Description, log *logrus.Entry) {
	for _, f := range desc.Fields {
		if f.Priority == 0 {
			log.WithField("field", f.Name).Warn("field is never used as an operand and will not be placed")
		}
	}
}
