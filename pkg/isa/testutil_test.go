package isa

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "test")
}

// mustParse builds a Description from an inline JSON description,
// failing the test on any parse/validation error.
func mustParse(t *testing.T, src string) *Description {
	t.Helper()
	var raw rawInput
	if err := json.Unmarshal([]byte(src), &raw); err != nil {
		t.Fatalf("invalid test fixture JSON: %v", err)
	}
	desc, err := parseDescription(&raw, testLogger())
	if err != nil {
		t.Fatalf("parseDescription: %v", err)
	}
	return desc
}

func slotByName(bitmask []Slot, name string) (Slot, bool) {
	for _, s := range bitmask {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

func formatByName(formats []*Format, name string) *Format {
	for _, f := range formats {
		if f.Name == name {
			return f
		}
	}
	return nil
}
