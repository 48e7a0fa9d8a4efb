package stat

import (
	"slices"

	"github.com/revelaction/corefbridge/storage"
	"github.com/revelaction/corefbridge/token"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs      int `json:"docs"`
	NumSentences int `json:"sentences"`
	NumTokens    int `json:"tokens"`
	NumMentions  int `json:"mentions"`
	NumChains    int `json:"chains"`

	// Mentions that belong to a chain
	NumChained int `json:"chained_mentions"`

	// Entities with more than one span
	NumSplit int `json:"split_mentions"`

	TokensPerSentenceMean int `json:"tokens_per_sentence_mean"`

	// chain size -> number of chains
	ChainSizeDis map[int]int `json:"chain_size_distribution"`

	MentionTypes map[string]int `json:"mention_types"`
}

func (h *Handler) Get() Stats {
	return h.stats
}

// ChainSizes returns the chain sizes seen, ascending.
func (s Stats) ChainSizes() []int {
	sizes := make([]int, 0, len(s.ChainSizeDis))
	for size := range s.ChainSizeDis {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	return sizes
}

func NewHandler() *Handler {
	stats := Stats{ChainSizeDis: map[int]int{}, MentionTypes: map[string]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds doc to the corpus counts. Sentences are the text lines
// holding at least one token.
func (h *Handler) Aggregate(doc storage.Doc) {
	h.stats.NumDocs++

	for _, toks := range token.Tokenize(doc.Text).Lines() {
		n := 0
		for _, t := range toks {
			if !t.Empty() {
				n++
			}
		}
		if n > 0 {
			h.stats.NumSentences++
			h.stats.NumTokens += n
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}

	if doc.Ann == nil {
		return
	}

	for _, e := range doc.Ann.Entities {
		h.stats.NumMentions++
		h.stats.MentionTypes[e.Type]++
		if e.IsSplit {
			h.stats.NumSplit++
		}
	}

	for _, c := range doc.Chains() {
		h.stats.NumChains++
		h.stats.NumChained += len(c.Members)
		h.stats.ChainSizeDis[len(c.Members)]++
	}
}
