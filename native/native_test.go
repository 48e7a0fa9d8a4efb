package native

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/logging"
	"github.com/revelaction/corefbridge/token"
)

const conFile = `c="breast cancer" 3:2 3:3||t="problem"
c="her" 5:0 5:0||t="person"
not a concept
c="breast cancer" 3:2 3:3||t="problem"
c="the tumor" 7:4 7:5||t="problem"
`

const chainsFile = `c="breast cancer" 3:2 3:3||c="the tumor" 7:4 7:5||c="it" 9:1 9:1||t="coref problem"
c="her" 5:0 5:0||c="patient" 1:0 1:0||t="coref person"
`

func TestParseConcepts(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	concepts, err := ParseConcepts(strings.NewReader(conFile), logging.NewLoggerFromCore(core))
	require.NoError(t, err)
	require.Len(t, concepts, 3)

	assert.Equal(t, Concept{
		Mention: Mention{Text: "breast cancer", Start: token.Coord{Line: 3, Token: 2}, End: token.Coord{Line: 3, Token: 3}},
		Type:    "problem",
	}, concepts[0])
	assert.Equal(t, "the tumor", concepts[2].Text)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "skipping duplicate concept", logs.All()[0].Message)
	assert.EqualValues(t, 4, logs.All()[0].ContextMap()["line"])
}

func TestParseConceptsCRLF(t *testing.T) {
	concepts, err := ParseConcepts(strings.NewReader("c=\"x\" 1:0 1:0||t=\"test\"\r\n"), logging.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, concepts, 1)
	assert.Equal(t, "test", concepts[0].Type)
}

func TestMentionKey(t *testing.T) {
	m := Mention{Text: "Breast Cancer", Start: token.Coord{Line: 3, Token: 2}, End: token.Coord{Line: 3, Token: 3}}
	assert.Equal(t, "breast cancer#3:2#3:3", m.Key())
}

func TestParseChainsPairs(t *testing.T) {
	chains, err := ParseChains(strings.NewReader(chainsFile))
	require.NoError(t, err)
	require.Len(t, chains, 2)

	assert.Equal(t, "problem", chains[0].Type)
	require.Len(t, chains[0].Mentions, 3)

	pairs := chains[0].Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "breast cancer#3:2#3:3", pairs[0].First.Key())
	assert.Equal(t, "the tumor#7:4#7:5", pairs[0].Second.Key())
	assert.Equal(t, "the tumor#7:4#7:5", pairs[1].First.Key())
	assert.Equal(t, "it#9:1#9:1", pairs[1].Second.Key())
	assert.Equal(t, "coref_problem", pairs[1].Label)

	assert.Nil(t, ChainRecord{Mentions: chains[0].Mentions[:1]}.Pairs())
}

func TestParseChainsMalformed(t *testing.T) {
	_, err := ParseChains(strings.NewReader(`c="a" 1:0 1:0||c="b" 2:0 2:0||t="problem"`))
	assert.True(t, errors.Is(err, errs.ErrMalformedRecord))

	_, err = ParseChains(strings.NewReader(`c="a" 1:0||c="b" 2:0 2:0||t="coref problem"`))
	assert.True(t, errors.Is(err, errs.ErrMalformedRecord))
}

func TestWriteConceptsRoundTrip(t *testing.T) {
	concepts, err := ParseConcepts(strings.NewReader(conFile), logging.NewNopLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteConcepts(&buf, concepts))

	again, err := ParseConcepts(&buf, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, concepts, again)
}

func TestWriteChainsSortsMembers(t *testing.T) {
	chains, err := ParseChains(strings.NewReader(chainsFile))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteChains(&buf, chains))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `c="breast cancer" 3:2 3:3||c="the tumor" 7:4 7:5||c="it" 9:1 9:1||t="coref problem"`, lines[0])
	assert.Equal(t, `c="patient" 1:0 1:0||c="her" 5:0 5:0||t="coref person"`, lines[1])

	// input order is untouched
	assert.Equal(t, "her", chains[1].Mentions[0].Text)
}
