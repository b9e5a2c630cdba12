package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusops/faculty-loading-api/internal/models"
)

func TestCourseSimilarityExactCode(t *testing.T) {
	history := []models.ScheduleEntry{
		entry("h1", "CS 101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM", withTitle("Intro to Computing")),
	}
	// Case, space and punctuation insensitive.
	assert.Equal(t, 1.0, CourseSimilarity("cs-101", "Anything", history))
}

func TestCourseSimilarityNoHistoryIsNeutral(t *testing.T) {
	assert.Equal(t, 0.5, CourseSimilarity("CS101", "Intro to Computing", nil))
}

func TestCourseSimilarityDissimilarCollapsesToNeutral(t *testing.T) {
	history := []models.ScheduleEntry{
		entry("h1", "PE1", "A", "1st", "Reyes, Maria", "Mon", "8-9AM", withTitle("Physical Education")),
	}
	assert.Equal(t, 0.5, CourseSimilarity("CS101", "Data Structures", history))
}

func TestCourseSimilarityNearExactCodeSnapsToOne(t *testing.T) {
	// One substitution in a long code keeps the Levenshtein ratio at or
	// above the near-exact threshold.
	history := []models.ScheduleEntry{
		entry("h1", "ACCOUNTANCYGE1011", "A", "1st", "Reyes, Maria", "Mon", "8-9AM", withTitle("Accounting Elective")),
	}
	assert.Equal(t, 1.0, CourseSimilarity("ACCOUNTANCYGE1012", "Accounting Elective", history))
}

func TestCourseSimilarityCloseCourseBeatsNeutral(t *testing.T) {
	history := []models.ScheduleEntry{
		entry("h1", "CS102", "A", "1st", "Reyes, Maria", "Mon", "8-9AM", withTitle("Computer Programming 2")),
	}
	score := CourseSimilarity("CS103", "Computer Programming 3", history)
	assert.Greater(t, score, 0.5)
	assert.LessOrEqual(t, score, 1.0)
}

func TestSimilarTermCount(t *testing.T) {
	history := []models.ScheduleEntry{
		entry("h1", "CS101", "A", "1st", "Reyes, Maria", "Mon", "8-9AM"),
		entry("h2", "CS101", "B", "2nd", "Reyes, Maria", "Tue", "8-9AM"),
		entry("h3", "CS101", "C", "2nd", "Reyes, Maria", "Wed", "1-3PM"),
		entry("h4", "PE1", "D", "3rd", "Reyes, Maria", "Fri", "7-8:30AM", withTitle("Physical Education")),
	}
	// CS101 appears in two distinct terms; PE1 is not similar.
	assert.Equal(t, 2, SimilarTermCount("CS101", "Intro to Computing", history))
	assert.Equal(t, 0, SimilarTermCount("GE9", "Ethics", history))
}

func TestLevenshteinRatio(t *testing.T) {
	assert.Equal(t, 1.0, levenshteinRatio("cs101", "cs101"))
	assert.InDelta(t, 0.8, levenshteinRatio("cs101", "cs102"), 1e-9)
	assert.Equal(t, 1.0, levenshteinRatio("", ""))
	assert.Equal(t, 0.0, levenshteinRatio("abc", "xyz"))
}

func TestBigramDice(t *testing.T) {
	assert.Equal(t, 1.0, bigramDice("night", "night"))
	assert.InDelta(t, 0.25, bigramDice("night", "nacht"), 1e-9)
	assert.Equal(t, 0.0, bigramDice("a", "ab"))
}
