// Package mockdata generates random but plausible blog content, used by
// "inkpot init --sample" to produce larger seed files for trying things out.
package mockdata

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/inkpot/internal/seed"
)

// Generator builds seed files from fixed word lists.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the clock.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a deterministic generator, for tests.
func NewGeneratorWithSeed(seedValue int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seedValue)),
	}
}

var (
	topics = []string{"technology", "travel", "cooking", "gardening", "music", "books"}

	adjectives = []string{"Amazing", "Quiet", "Fantastic", "Unexpected", "Remarkable", "Simple"}
	nouns      = []string{"Journey", "Recipe", "Discovery", "Weekend", "Experiment", "Lesson"}

	firstNames = []string{"John", "Jane", "Alex", "Taylor", "Jordan", "Casey", "Morgan", "Riley"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}

	paragraphs = []string{
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
		"Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur.",
		"Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.",
	}

	remarks = []string{
		"Thanks for sharing!",
		"I tried this last week.",
		"Great write-up.",
		"Looking forward to the next one.",
	}
)

// Generate returns a seed file with up to len(topics) categories, the given
// number of posts and between zero and maxComments comments per post. Every
// post references one of the generated categories by name.
func (g *Generator) Generate(categories, posts, maxComments int) *seed.File {
	if categories < 1 {
		categories = 1
	}
	if categories > len(topics) {
		categories = len(topics)
	}

	title := cases.Title(language.English)
	file := &seed.File{}

	for i := 0; i < categories; i++ {
		file.Categories = append(file.Categories, seed.CategoryEntry{Name: title.String(topics[i])})
	}

	for i := 0; i < posts; i++ {
		category := file.Categories[g.rng.Intn(len(file.Categories))].Name
		entry := seed.PostEntry{
			Title:    g.title(),
			Content:  paragraphs[g.rng.Intn(len(paragraphs))],
			Category: category,
		}

		if maxComments > 0 {
			for c := g.rng.Intn(maxComments + 1); c > 0; c-- {
				entry.Comments = append(entry.Comments, seed.CommentEntry{
					Author:  g.author(),
					Content: remarks[g.rng.Intn(len(remarks))],
				})
			}
		}

		file.Posts = append(file.Posts, entry)
	}

	return file
}

func (g *Generator) title() string {
	return fmt.Sprintf("%s %s",
		adjectives[g.rng.Intn(len(adjectives))],
		nouns[g.rng.Intn(len(nouns))])
}

func (g *Generator) author() string {
	return fmt.Sprintf("%s %s",
		firstNames[g.rng.Intn(len(firstNames))],
		lastNames[g.rng.Intn(len(lastNames))])
}
