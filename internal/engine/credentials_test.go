package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCredentials(t *testing.T) {
	cases := []struct {
		name string
		want []string
	}{
		{"Dela Cruz, PhD, LPT", []string{"PHD", "LPT"}},
		{"Santos, M.S.I.T.", []string{"MSIT"}},
		{"Garcia, Jr.", nil},
		{"Reyes", nil},
		{"Lim, MBA CPA", []string{"MBA", "CPA"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractCredentials(tc.name))
		})
	}
}

func TestCredentialScore(t *testing.T) {
	cases := []struct {
		name string
		want float64
	}{
		{"Reyes", 0.4},                    // base only, no suffix segment
		{"Garcia, Jr.", 0.4},              // stoplist tokens do not count
		{"Santos, MAED", 0.65},            // one masters
		{"Dela Cruz, PhD", 1.0},           // doctorate alone hits the cap
		{"Lim, LPT", 0.52},                // one license
		{"Tan, Atty.", 0.9},               // 0.4 + 0.5
		{"Uy, CPA", 0.85},                 // 0.4 + 0.45
		{"Go, Engr.", 0.58},               // 0.4 + 0.18
		{"Chua, Engr. Arch.", 0.7},        // professional bonus capped at 0.3
		{"Velasco, MAED MED MAT", 0.9},    // masters capped at 0.5
		{"Cruz, LPT RN RMT RPH", 0.76},    // licenses capped at 0.36
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, CredentialScore(tc.name), 1e-9)
		})
	}
}

func TestCredentialScoreClamped(t *testing.T) {
	score := CredentialScore("Dr. Big, PhD EdD Atty CPA MBA LPT")
	assert.Equal(t, 1.0, score)
}
