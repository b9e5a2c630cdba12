package engine

import (
	"math"
	"strings"

	"github.com/campusops/faculty-loading-api/internal/models"
)

const (
	neutralMatchScore  = 0.5
	nearExactThreshold = 0.94
	similarRowCutoff   = 0.75
)

// CourseSimilarity measures how close the candidate course is to
// anything in an instructor's history, in [0.5,1.0]. An exact code
// match (case, space and punctuation insensitive) is 1.0 outright;
// otherwise the best historical row under a fuzzy blend wins, with
// anything at or below 0.5 collapsing to the neutral 0.5.
func CourseSimilarity(candCode, candTitle string, history []models.ScheduleEntry) float64 {
	normCode := normalizeToken(candCode)
	best := 0.0
	for i := range history {
		row := &history[i]
		if normCode != "" && normCode == normalizeToken(row.Code) {
			return 1.0
		}
		score, nearExact := rowSimilarity(candCode, candTitle, row)
		if nearExact {
			return 1.0
		}
		if score > best {
			best = score
		}
	}
	if best <= neutralMatchScore {
		return neutralMatchScore
	}
	return math.Min(1, best)
}

// SimilarTermCount counts the distinct historical terms in which the
// instructor taught a course similar to the candidate. Feeds the
// term-experience component of the fitness score.
func SimilarTermCount(candCode, candTitle string, history []models.ScheduleEntry) int {
	normCode := normalizeToken(candCode)
	terms := make(map[string]bool)
	for i := range history {
		row := &history[i]
		term := normalizeTerm(row.Term)
		if term == "" || terms[term] {
			continue
		}
		if normCode != "" && normCode == normalizeToken(row.Code) {
			terms[term] = true
			continue
		}
		score, nearExact := rowSimilarity(candCode, candTitle, row)
		if nearExact || score >= similarRowCutoff {
			terms[term] = true
		}
	}
	return len(terms)
}

// rowSimilarity blends token-level Levenshtein ratios (weight 0.75)
// with whole-string bigram-Dice similarity (weight 0.25). Within each
// blend the code comparison outweighs the title, more so when the code
// carries digits and is therefore a strong identifier.
func rowSimilarity(candCode, candTitle string, row *models.ScheduleEntry) (score float64, nearExact bool) {
	codeWeight := 0.82
	if strings.ContainsAny(candCode, "0123456789") {
		codeWeight = 0.88
	}
	titleWeight := 1 - codeWeight

	codeLev := bestTokenLevenshtein(candCode, row.Code)
	titleLev := bestTokenLevenshtein(candTitle, row.Title)
	codeDice := bigramDice(normalizeToken(candCode), normalizeToken(row.Code))
	titleDice := bigramDice(normalizeToken(candTitle), normalizeToken(row.Title))

	if codeLev >= nearExactThreshold || codeDice >= nearExactThreshold {
		return 1.0, true
	}

	tokenBlend := codeWeight*codeLev + titleWeight*titleLev
	diceBlend := codeWeight*codeDice + titleWeight*titleDice
	return 0.75*tokenBlend + 0.25*diceBlend, false
}

// bestTokenLevenshtein averages, over the candidate's tokens, the best
// Levenshtein ratio against any token of the other string.
func bestTokenLevenshtein(a, b string) float64 {
	tokensA := similarityTokens(a)
	tokensB := similarityTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	var sum float64
	for _, ta := range tokensA {
		best := 0.0
		for _, tb := range tokensB {
			if r := levenshteinRatio(ta, tb); r > best {
				best = r
			}
		}
		sum += best
	}
	return sum / float64(len(tokensA))
}

func similarityTokens(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := fields[:0]
	for _, f := range fields {
		if t := normalizeToken(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with the two-row dynamic
// programming form.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// bigramDice is the Sørensen–Dice coefficient over character bigrams.
func bigramDice(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}
	bigrams := make(map[string]int)
	for i := 0; i+2 <= len(a); i++ {
		bigrams[a[i:i+2]]++
	}
	matches := 0
	for i := 0; i+2 <= len(b); i++ {
		bg := b[i : i+2]
		if bigrams[bg] > 0 {
			bigrams[bg]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(len(a)+len(b)-2)
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
