// Package match implements the skill-overlap heuristic behind the
// "top jobs for you" view.
package match

import (
	"sort"
	"strings"

	"careercrafter/internal/types"
)

// Policy defaults applied when the caller passes non-positive values.
const (
	DefaultThreshold = 30.0
	DefaultTopJobs   = 5
)

// Score computes the percentage of requiredSkills covered by
// candidateTags, in [0, 100].
//
// A required skill counts as matched when it is a case-insensitive
// substring of any candidate tag, or any candidate tag is a
// case-insensitive substring of it. The containment is deliberately
// loose ("Java" matches "JavaScript"); exact or token-based matching
// would change the observable ranking.
func Score(candidateTags []string, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 || len(candidateTags) == 0 {
		return 0
	}

	tags := make([]string, 0, len(candidateTags))
	for _, t := range candidateTags {
		tags = append(tags, strings.ToLower(t))
	}

	matched := 0
	for _, skill := range requiredSkills {
		s := strings.ToLower(skill)
		for _, tag := range tags {
			if strings.Contains(tag, s) || strings.Contains(s, tag) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(requiredSkills)) * 100
}

// TopJobs ranks jobs against candidateTags and keeps the best matches.
//
// Jobs scoring at least threshold are sorted descending by score and
// the top limit are returned. When no job reaches the threshold the
// result falls back to the top limit jobs by application count, a
// popularity proxy, each still carrying its (sub-threshold) score.
func TopJobs(candidateTags []string, jobs []types.Job, threshold float64, limit int) []types.RankedJob {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if limit <= 0 {
		limit = DefaultTopJobs
	}

	ranked := make([]types.RankedJob, 0, len(jobs))
	for _, job := range jobs {
		ranked = append(ranked, types.RankedJob{
			Job:   job,
			Score: Score(candidateTags, job.RequiredSkills),
		})
	}

	qualified := make([]types.RankedJob, 0, len(ranked))
	for _, rj := range ranked {
		if rj.Score >= threshold {
			qualified = append(qualified, rj)
		}
	}

	if len(qualified) > 0 {
		sort.SliceStable(qualified, func(i, j int) bool {
			return qualified[i].Score > qualified[j].Score
		})
		if len(qualified) > limit {
			qualified = qualified[:limit]
		}
		return qualified
	}

	// Nothing qualified: surface the most applied-to jobs instead.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Job.Applications > ranked[j].Job.Applications
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
