// Package feed merges job postings and hired updates into the home
// feed.
package feed

import (
	"math/rand/v2"

	"careercrafter/internal/types"
)

// Assembler builds shuffled feeds. The zero value is not usable; use
// NewAssembler.
type Assembler struct {
	rng *rand.Rand
}

// NewAssembler returns an assembler backed by its own PCG source.
func NewAssembler() *Assembler {
	return NewAssemblerWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewAssemblerWithSource returns an assembler with a caller-supplied
// source, so the shuffle order can be pinned in tests.
func NewAssemblerWithSource(src rand.Source) *Assembler {
	return &Assembler{rng: rand.New(src)}
}

// Assemble tags every job as a job_post and every hired post as a
// hired_post, concatenates both, and shuffles the result uniformly so
// neither content type dominates the visual order.
//
// The output is always the full multiset of inputs; only the order is
// random. Two calls with identical inputs generally differ in order.
func (a *Assembler) Assemble(jobs []types.Job, hiredPosts []types.HiredPost) []types.FeedItem {
	items := make([]types.FeedItem, 0, len(jobs)+len(hiredPosts))

	for i := range jobs {
		job := jobs[i]
		items = append(items, types.FeedItem{Kind: types.FeedItemJobPost, Job: &job})
	}
	for i := range hiredPosts {
		post := hiredPosts[i]
		items = append(items, types.FeedItem{Kind: types.FeedItemHiredPost, HiredPost: &post})
	}

	// Fisher-Yates.
	for i := len(items) - 1; i > 0; i-- {
		j := a.rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}

	return items
}
