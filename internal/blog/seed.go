package blog

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// SeedStats reports what a Seed call created.
type SeedStats struct {
	Authors    int
	Posts      int
	ByStatus   map[string]int
	ByCategory map[string]int
}

var (
	seedCategories = []string{"Technology", "Travel", "Food", "Science", "Art", "Music"}

	seedWords = []string{
		"signal", "harbor", "lantern", "meadow", "compass", "ember",
		"orchard", "summit", "drift", "quarry", "willow", "beacon",
		"ledger", "canyon", "mosaic", "tide", "garnet", "prairie",
		"anchor", "thicket", "sparrow", "granite", "meridian", "fable",
	}

	seedAuthors = []string{
		"ada", "brook", "casey", "devon", "ellis", "finley",
		"harper", "indigo", "jules", "kiran", "logan", "marlow",
	}
)

// Seed populates the store with authorCount authors spread over
// postCount generated posts. Output is deterministic for a given seed.
// Statuses are weighted roughly 70% published, 20% draft, 10% archived.
func (s *Store) Seed(ctx context.Context, authorCount, postCount int, seed int64) (*SeedStats, error) {
	if authorCount < 1 || postCount < 0 {
		return nil, fmt.Errorf("seed: need at least one author and a non-negative post count")
	}
	rng := rand.New(rand.NewSource(seed))

	authors := make([]string, authorCount)
	for i := range authors {
		authors[i] = fmt.Sprintf("%s_%d", seedAuthors[i%len(seedAuthors)], i)
	}

	stats := &SeedStats{
		Authors:    authorCount,
		ByStatus:   map[string]int{StatusDraft: 0, StatusPublished: 0, StatusArchived: 0},
		ByCategory: map[string]int{},
	}

	now := time.Now().UTC()
	for i := 0; i < postCount; i++ {
		title := seedSentence(rng, 4+rng.Intn(3))
		status := seedStatus(rng)
		created := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		category := seedCategories[rng.Intn(len(seedCategories))]

		post := Post{
			Title:     title,
			Slug:      fmt.Sprintf("%s-%d", slugify(title), i),
			Body:      seedBody(rng),
			Author:    authors[rng.Intn(len(authors))],
			Status:    status,
			Category:  category,
			Tags:      strings.Join(seedTags(rng), ","),
			ViewCount: rng.Intn(1000),
			Likes:     rng.Intn(500),
			CreatedAt: created,
			UpdatedAt: created,
		}
		if status == StatusPublished {
			t := created
			post.PublishedAt = &t
		}
		if err := s.Insert(ctx, &post); err != nil {
			return nil, err
		}

		stats.Posts++
		stats.ByStatus[status]++
		stats.ByCategory[category]++
	}
	return stats, nil
}

func seedStatus(rng *rand.Rand) string {
	switch n := rng.Intn(10); {
	case n < 7:
		return StatusPublished
	case n < 9:
		return StatusDraft
	default:
		return StatusArchived
	}
}

func seedSentence(rng *rand.Rand, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = seedWords[rng.Intn(len(seedWords))]
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

func seedBody(rng *rand.Rand) string {
	paragraphs := make([]string, 2+rng.Intn(4))
	for i := range paragraphs {
		paragraphs[i] = seedSentence(rng, 12+rng.Intn(10)) + "."
	}
	return strings.Join(paragraphs, "\n\n")
}

func seedTags(rng *rand.Rand) []string {
	tags := make([]string, 2+rng.Intn(3))
	for i := range tags {
		tags[i] = seedWords[rng.Intn(len(seedWords))]
	}
	return tags
}

func slugify(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}
