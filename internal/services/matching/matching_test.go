package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
)

func TestPercentage(t *testing.T) {
	worker := []string{"plumbing", "electrical"}

	assert.Equal(t, 50, Percentage([]string{"plumbing", "carpentry"}, worker))
	assert.Equal(t, 0, Percentage([]string{"painting"}, worker))
	assert.Equal(t, 100, Percentage([]string{"Plumbing ", "ELECTRICAL"}, worker))
	assert.Equal(t, 33, Percentage([]string{"plumbing", "a", "b"}, worker))
	assert.Equal(t, 67, Percentage([]string{"plumbing", "electrical", "b"}, worker))

	// duplicates count once
	assert.Equal(t, 50, Percentage([]string{"plumbing", "plumbing", "roofing"}, worker))
}

func TestPercentageEmptyRequired(t *testing.T) {
	assert.Equal(t, 0, Percentage(nil, []string{"plumbing"}))
	assert.Equal(t, 0, Percentage([]string{" ", ""}, []string{"plumbing"}))
}

func TestRank(t *testing.T) {
	jobs := []models.Job{
		{Title: "half", RequiredSkills: []string{"plumbing", "carpentry"}},
		{Title: "none", RequiredSkills: []string{"painting"}},
		{Title: "full", RequiredSkills: []string{"electrical"}},
		{Title: "half-2", RequiredSkills: []string{"electrical", "roofing"}},
		{Title: "empty"},
	}

	got := Rank(jobs, []string{"plumbing", "electrical"})

	titles := make([]string, 0, len(got))
	for _, r := range got {
		titles = append(titles, r.Job.Title)
	}
	assert.Equal(t, []string{"full", "half", "half-2"}, titles)
	assert.Equal(t, []int{100, 50, 50}, []int{got[0].MatchPercentage, got[1].MatchPercentage, got[2].MatchPercentage})
}

func TestRankNoSkills(t *testing.T) {
	jobs := []models.Job{{RequiredSkills: []string{"x"}}}
	assert.Empty(t, Rank(jobs, nil))
}
