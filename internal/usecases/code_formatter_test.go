package usecases_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"parcel-ledger.backend/internal/usecases"
)

var (
	intraAreaCode = regexp.MustCompile(`^[A-Z]+-\d{3,}$`)
	interAreaCode = regexp.MustCompile(`^[A-Z]+-\d{3,}-[A-Z]+$`)
	fallbackCode  = regexp.MustCompile(`^PKG-[0-9A-F]{8}$`)
)

func TestFormatCode(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		destination string
		sequence    int64
		intra       bool
		want        string
	}{
		{"inter first", "NRB", "KSM", 1, false, "NRB-001-KSM"},
		{"inter second", "NRB", "KSM", 2, false, "NRB-002-KSM"},
		{"intra first", "NRB", "NRB", 1, true, "NRB-001"},
		{"padding", "MSA", "KSM", 42, false, "MSA-042-KSM"},
		{"three digits", "MSA", "KSM", 999, false, "MSA-999-KSM"},
		{"grows past 999", "MSA", "KSM", 1000, false, "MSA-1000-KSM"},
		{"intra grows", "NRB", "", 123456, true, "NRB-123456"},
		{"missing destination", "NRB", "", 7, false, "NRB-007-UNK"},
		{"blank destination", "NRB", "   ", 7, false, "NRB-007-UNK"},
		{"normalised", " nrb ", "ksm", 3, false, "NRB-003-KSM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecases.FormatCode(tt.origin, tt.destination, tt.sequence, tt.intra))
		})
	}
}

func TestFormatCode_ShapeHoldsForAllSequences(t *testing.T) {
	for _, seq := range []int64{1, 9, 10, 99, 100, 999, 1000, 99999} {
		assert.Regexp(t, intraAreaCode, usecases.FormatCode("NRB", "NRB", seq, true))
		assert.Regexp(t, interAreaCode, usecases.FormatCode("NRB", "KSM", seq, false))
		assert.Regexp(t, interAreaCode, usecases.FormatCode("NRB", "", seq, false))
	}
}

func TestFallbackCode_Shape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := usecases.FallbackCode()
		assert.Regexp(t, fallbackCode, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45, "fallback codes are random")
}
