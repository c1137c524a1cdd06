package feed

import (
	"math/rand/v2"
	"testing"

	"careercrafter/internal/types"
)

func TestAssembleMultisetInvariant(t *testing.T) {
	tests := []struct {
		name  string
		jobs  int
		posts int
	}{
		{name: "empty", jobs: 0, posts: 0},
		{name: "jobs only", jobs: 4, posts: 0},
		{name: "posts only", jobs: 0, posts: 3},
		{name: "mixed", jobs: 5, posts: 7},
		{name: "single of each", jobs: 1, posts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := make([]types.Job, tt.jobs)
			for i := range jobs {
				jobs[i] = types.Job{ID: string(rune('a' + i))}
			}
			posts := make([]types.HiredPost, tt.posts)
			for i := range posts {
				posts[i] = types.HiredPost{ID: string(rune('A' + i))}
			}

			items := NewAssembler().Assemble(jobs, posts)

			if len(items) != tt.jobs+tt.posts {
				t.Fatalf("got %d items, want %d", len(items), tt.jobs+tt.posts)
			}

			seenJobs := make(map[string]bool)
			seenPosts := make(map[string]bool)
			for _, item := range items {
				switch item.Kind {
				case types.FeedItemJobPost:
					if item.Job == nil || item.HiredPost != nil {
						t.Fatalf("job_post item carries wrong payload: %+v", item)
					}
					seenJobs[item.Job.ID] = true
				case types.FeedItemHiredPost:
					if item.HiredPost == nil || item.Job != nil {
						t.Fatalf("hired_post item carries wrong payload: %+v", item)
					}
					seenPosts[item.HiredPost.ID] = true
				default:
					t.Fatalf("unexpected feed item kind %q", item.Kind)
				}
			}
			if len(seenJobs) != tt.jobs {
				t.Errorf("got %d distinct jobs, want %d", len(seenJobs), tt.jobs)
			}
			if len(seenPosts) != tt.posts {
				t.Errorf("got %d distinct posts, want %d", len(seenPosts), tt.posts)
			}
		})
	}
}

func TestAssembleDeterministicWithPinnedSource(t *testing.T) {
	jobs := []types.Job{{ID: "j1"}, {ID: "j2"}, {ID: "j3"}}
	posts := []types.HiredPost{{ID: "p1"}, {ID: "p2"}}

	first := NewAssemblerWithSource(rand.NewPCG(1, 2)).Assemble(jobs, posts)
	second := NewAssemblerWithSource(rand.NewPCG(1, 2)).Assemble(jobs, posts)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind {
			t.Fatalf("order differs at %d with identical sources", i)
		}
		if first[i].Kind == types.FeedItemJobPost && first[i].Job.ID != second[i].Job.ID {
			t.Fatalf("order differs at %d with identical sources", i)
		}
	}
}

func TestAssembleDoesNotMutateInputs(t *testing.T) {
	jobs := []types.Job{{ID: "j1"}, {ID: "j2"}}
	posts := []types.HiredPost{{ID: "p1"}}

	NewAssembler().Assemble(jobs, posts)

	if jobs[0].ID != "j1" || jobs[1].ID != "j2" || posts[0].ID != "p1" {
		t.Error("input slices were reordered")
	}
}
