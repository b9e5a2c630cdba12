package engine

import (
	"math"
	"regexp"
	"strings"
)

// Credential tiers recognised in the post-nominal suffix of the
// "Lastname, Credentials" display name. Only that segment is parsed;
// free-text titles and department names produce too many false
// positives.
var (
	doctorateCredentials = tokenSet("PHD", "EDD", "SCD", "DRPH", "DBA", "DPA", "DENG", "DIT", "DIS", "DSM")
	mastersCredentials   = tokenSet("MAED", "MED", "MAT", "MSC", "MSIT", "MSCS", "MIT", "MENG", "MBA", "MPA", "MPM", "MMATH", "MTECH")
	licenseCredentials   = tokenSet("LPT", "RN", "RMT", "RPH", "RSW", "RCH", "RCRIM", "RGC", "REE", "RME", "RCE", "RCHE", "RA", "RLA", "RL")

	// Generation suffixes, honorifics and particles that share the
	// suffix segment with real credentials.
	credentialStoplist = tokenSet("JR", "SR", "II", "III", "IV", "V", "MR", "MS", "MRS", "DE", "LA", "DEL", "VAN", "VON")
)

var credentialSplitPattern = regexp.MustCompile(`[\s,]+`)

// ExtractCredentials returns the recognisable credential tokens from a
// display name, upper-cased and stripped of periods.
func ExtractCredentials(displayName string) []string {
	_, after, found := strings.Cut(displayName, ",")
	if !found {
		return nil
	}
	var tokens []string
	for _, tok := range credentialSplitPattern.Split(after, -1) {
		tok = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(tok), ".", ""))
		if len(tok) < 2 || len(tok) > 12 {
			continue
		}
		if credentialStoplist[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// CredentialScore grades an instructor's formal qualifications into
// [0,1] from their display-name suffix. Everyone starts at a 0.4 base;
// doctorates dominate, professional licenses and masters degrees
// accumulate with diminishing caps.
func CredentialScore(displayName string) float64 {
	tokens := ExtractCredentials(displayName)

	var doctorates, masters, licenses float64
	var attorney, cpa, engineer, architect bool
	for _, tok := range tokens {
		switch {
		case doctorateCredentials[tok]:
			doctorates++
		case mastersCredentials[tok]:
			masters++
		case licenseCredentials[tok]:
			licenses++
		case tok == "ATTY" || tok == "JD":
			attorney = true
		case tok == "CPA":
			cpa = true
		case tok == "ENGR":
			engineer = true
		case tok == "ARCH":
			architect = true
		}
	}

	score := 0.4
	score += math.Min(0.9, doctorates*0.6)
	if attorney {
		score += 0.5
	}
	if cpa {
		score += 0.45
	}
	score += math.Min(0.5, masters*0.25)
	score += math.Min(0.36, licenses*0.12)

	var professional float64
	if engineer {
		professional += 0.18
	}
	if architect {
		professional += 0.18
	}
	score += math.Min(0.3, professional)

	return clamp01(score)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func tokenSet(tokens ...string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}
