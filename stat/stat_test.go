package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revelaction/corefbridge/span"
	"github.com/revelaction/corefbridge/standoff"
	"github.com/revelaction/corefbridge/storage"
)

func TestAggregate(t *testing.T) {
	h := NewHandler()

	h.Aggregate(storage.Doc{
		Name: "a",
		Text: "  pt has breast cancer now\n\nthe tumor grew\n",
		Ann: &standoff.Document{
			Entities: []standoff.Entity{
				{ID: 1, Type: "problem", Spans: []span.Span{{Begin: 9, End: 22}}},
				{ID: 2, Type: "person", Spans: []span.Span{{Begin: 2, End: 4}}},
				{ID: 3, Type: "problem", Spans: []span.Span{{Begin: 28, End: 31}, {Begin: 32, End: 37}}, IsSplit: true},
				{ID: 4, Type: "problem", Spans: []span.Span{{Begin: 38, End: 42}}},
			},
			Relations: []standoff.Relation{
				{ID: 1, Type: "coref_problem", Arg1: 3, Arg2: 1},
				{ID: 2, Type: "coref_problem", Arg1: 4, Arg2: 3},
			},
		},
	})
	h.Aggregate(storage.Doc{Name: "b", Text: "she left\n"})

	s := h.Get()
	assert.Equal(t, 2, s.NumDocs)
	assert.Equal(t, 3, s.NumSentences)
	assert.Equal(t, 10, s.NumTokens)
	assert.Equal(t, 3, s.TokensPerSentenceMean)
	assert.Equal(t, 4, s.NumMentions)
	assert.Equal(t, 1, s.NumSplit)
	assert.Equal(t, 1, s.NumChains)
	assert.Equal(t, 3, s.NumChained)
	assert.Equal(t, map[int]int{3: 1}, s.ChainSizeDis)
	assert.Equal(t, []int{3}, s.ChainSizes())
	assert.Equal(t, map[string]int{"problem": 3, "person": 1}, s.MentionTypes)
}

func TestAggregateEmpty(t *testing.T) {
	h := NewHandler()
	h.Aggregate(storage.Doc{Name: "empty"})

	s := h.Get()
	assert.Equal(t, 1, s.NumDocs)
	assert.Equal(t, 0, s.TokensPerSentenceMean)
}
