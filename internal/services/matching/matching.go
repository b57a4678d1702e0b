package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
)

// Ranked is an open job together with how well a worker's skills cover it.
type Ranked struct {
	Job             models.Job `json:"job"`
	MatchPercentage int        `json:"matchPercentage"`
}

func skillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// Percentage returns round(100 * |required ∩ skills| / |required|).
// Skills compare case-insensitively; a job with no required skills matches 0%.
func Percentage(required, skills []string) int {
	req := skillSet(required)
	if len(req) == 0 {
		return 0
	}
	have := skillSet(skills)

	matches := 0
	for s := range req {
		if _, ok := have[s]; ok {
			matches++
		}
	}
	return int(math.Round(100 * float64(matches) / float64(len(req))))
}

// Rank drops jobs with no overlap and orders the rest by match, best first.
// Ties keep the input order.
func Rank(jobs []models.Job, skills []string) []Ranked {
	out := make([]Ranked, 0, len(jobs))
	for _, j := range jobs {
		p := Percentage(j.RequiredSkills, skills)
		if p == 0 {
			continue
		}
		out = append(out, Ranked{Job: j, MatchPercentage: p})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].MatchPercentage > out[b].MatchPercentage
	})
	return out
}
