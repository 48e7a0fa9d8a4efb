package conll

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/corefbridge/chain"
	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/span"
	"github.com/revelaction/corefbridge/standoff"
	"github.com/revelaction/corefbridge/token"
)

func entities(spans ...span.Span) *standoff.Document {
	doc := &standoff.Document{}
	for i, s := range spans {
		doc.Entities = append(doc.Entities, standoff.Entity{ID: i + 1, Spans: []span.Span{s}, Type: "problem"})
	}
	return doc
}

func markerStrings(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Markers.String()
	}
	return out
}

func TestSentences(t *testing.T) {
	ix := token.Tokenize("  pt has\n\nbreast cancer\n")

	sentences, err := Sentences(ix)
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	assert.Equal(t, Row{Sentence: 1, Word: "pt", Begin: 2, End: 4, Native: []token.Coord{{Line: 1, Token: 1}}}, sentences[0][0])
	// the blank line 2 leaves a gap in the numbering
	assert.Equal(t, 3, sentences[1][1].Sentence)
	assert.Equal(t, "cancer", sentences[1][1].Word)
	assert.Equal(t, []token.Coord{{Line: 3, Token: 1}}, sentences[1][1].Native)
}

func TestEncodeDecodeScenario(t *testing.T) {
	sentences, err := Sentences(token.Tokenize("a b c d e f g h\n"))
	require.NoError(t, err)

	// tokens 2 to 5: "c d e f"
	doc := entities(span.Span{Begin: 4, End: 11})
	chains := []chain.Chain{{ID: 0, Members: []int{1}}}

	require.NoError(t, Encode(sentences, chains, doc))
	assert.Equal(t, []string{"-", "-", "(0", "-", "-", "0)", "-", "-"}, markerStrings(sentences[0]))

	mentions, err := Decode(&Document{ID: "d", Sentences: sentences})
	require.NoError(t, err)
	assert.Equal(t, []Mention{{Chain: 0, Sentence: 0, First: 2, Last: 5}}, mentions)
}

func TestEncodeMarkerOrder(t *testing.T) {
	sentences, err := Sentences(token.Tokenize("the patient said she was tired\nshe left\n"))
	require.NoError(t, err)

	// the 0-3 patient 4-11 said 12-16 she 17-20 was 21-24 tired 25-30 / she 31-34 left 35-39
	doc := entities(
		span.Span{Begin: 0, End: 11},  // the patient
		span.Span{Begin: 17, End: 20}, // she
		span.Span{Begin: 31, End: 34}, // she
		span.Span{Begin: 4, End: 11},  // patient
		span.Span{Begin: 17, End: 30}, // she was tired
	)
	chains := []chain.Chain{
		{ID: 0, Members: []int{1, 2, 3}},
		{ID: 1, Members: []int{4}},
		{ID: 2, Members: []int{5}},
	}

	require.NoError(t, Encode(sentences, chains, doc))
	assert.Equal(t, []string{"(0", "(1)|0)", "-", "(2|(0)", "-", "2)"}, markerStrings(sentences[0]))
	assert.Equal(t, []string{"(0)", "-"}, markerStrings(sentences[1]))

	mentions, err := Decode(&Document{Sentences: sentences})
	require.NoError(t, err)
	assert.Equal(t, []Mention{
		{Chain: 0, Sentence: 0, First: 0, Last: 1},
		{Chain: 1, Sentence: 0, First: 1, Last: 1},
		{Chain: 0, Sentence: 0, First: 3, Last: 3},
		{Chain: 2, Sentence: 0, First: 3, Last: 5},
		{Chain: 0, Sentence: 1, First: 0, Last: 0},
	}, mentions)
}

func TestEncodeErrors(t *testing.T) {
	sentences, err := Sentences(token.Tokenize("pt has\nbreast cancer\n"))
	require.NoError(t, err)
	chains := []chain.Chain{{ID: 0, Members: []int{1}}}

	// the space between "pt" and "has"
	err = Encode(sentences, chains, entities(span.Span{Begin: 2, End: 3}))
	assert.True(t, errors.Is(err, errs.ErrNoMappingFound))

	// "has\nbreast"
	err = Encode(sentences, chains, entities(span.Span{Begin: 3, End: 13}))
	assert.True(t, errors.Is(err, errs.ErrDisjointSpan))

	err = Encode(sentences, []chain.Chain{{ID: 0, Members: []int{7}}}, entities(span.Span{Begin: 0, End: 2}))
	assert.True(t, errors.Is(err, errs.ErrUnresolvedReference))
}

func TestDecodeUnbalanced(t *testing.T) {
	closeOnly := &Document{Sentences: [][]Row{{
		{Sentence: 1, Word: "a"},
		{Sentence: 1, Word: "b", Markers: Markers{Closes: []int{0}}},
	}}}
	_, err := Decode(closeOnly)
	assert.True(t, errors.Is(err, errs.ErrUnbalancedChain))

	openOnly := &Document{Sentences: [][]Row{
		{{Sentence: 1, Word: "a", Markers: Markers{Opens: []int{3}}}},
		{{Sentence: 2, Word: "b", Markers: Markers{Closes: []int{3}}}},
	}}
	_, err = Decode(openOnly)
	assert.True(t, errors.Is(err, errs.ErrUnbalancedChain))
}

func TestDecodeNested(t *testing.T) {
	doc := &Document{Sentences: [][]Row{{
		{Markers: Markers{Opens: []int{0}}},
		{Markers: Markers{Opens: []int{0}}},
		{Markers: Markers{Closes: []int{0}}},
		{Markers: Markers{Closes: []int{0}}},
	}}}

	mentions, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, []Mention{{0, 0, 0, 3}, {0, 0, 1, 2}}, mentions)
}

func TestMarkersString(t *testing.T) {
	cases := []struct {
		markers Markers
		want    string
	}{
		{Markers{}, "-"},
		{Markers{Opens: []int{2}, Singletons: []int{0, 1}, Closes: []int{3}}, "(2|(0)(1)|3)"},
		{Markers{Opens: []int{2, 4}}, "(2|(4"},
		{Markers{Singletons: []int{0, 1}}, "(0)(1)"},
		{Markers{Singletons: []int{1}, Closes: []int{0, 5}}, "(1)|0)|5)"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, c.markers.String())

		m, err := ParseMarkers(c.want)
		require.NoError(t, err)
		assert.Equal(t, c.markers, m)
	}
}

func TestSentencesNumberedByLine(t *testing.T) {
	var buf bytes.Buffer
	sentences, err := Sentences(token.Tokenize("a b\n\nc d\n"))
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assert.Equal(t, 1, sentences[0][0].Sentence)
	assert.Equal(t, 3, sentences[1][0].Sentence)
	assert.Equal(t, 3, sentences[1][1].Sentence)

	require.NoError(t, Write(&buf, &Document{ID: "d", Sentences: sentences}))
	assert.Equal(t, "#begin document (d);\n"+
		"1\ta\t0\t1\t1:0\t-\n"+
		"1\tb\t2\t3\t1:1\t-\n"+
		"\n"+
		"3\tc\t5\t6\t3:0\t-\n"+
		"3\td\t7\t8\t3:1\t-\n"+
		"#end document\n", buf.String())
}

func TestParseMarkers(t *testing.T) {
	m, err := ParseMarkers("(2|(0)(1)|3)")
	require.NoError(t, err)
	assert.Equal(t, Markers{Opens: []int{2}, Singletons: []int{0, 1}, Closes: []int{3}}, m)
	assert.Equal(t, "(2|(0)|(1)|3)", m.String())

	m, err = ParseMarkers("-")
	require.NoError(t, err)
	assert.True(t, m.Empty())

	for _, bad := range []string{"(", "12", "(a)", "0)|", "((1)"} {
		_, err := ParseMarkers(bad)
		assert.True(t, errors.Is(err, errs.ErrMalformedRecord), bad)
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	sentences, err := Sentences(token.Tokenize("the patient said she was tired\nshe left\n"))
	require.NoError(t, err)
	doc := entities(span.Span{Begin: 0, End: 11}, span.Span{Begin: 31, End: 34}, span.Span{Begin: 17, End: 20})
	require.NoError(t, Encode(sentences, chain.Build([]standoff.Relation{{ID: 1, Arg1: 2, Arg2: 1}, {ID: 2, Arg1: 3, Arg2: 2}}), doc))

	in := &Document{ID: "clinical-7", Sentences: sentences}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))
	require.NoError(t, Write(&buf, &Document{ID: "empty"}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "#begin document (clinical-7);\n1\tthe\t0\t3\t1:0\t(0\n"))
	assert.Contains(t, out, "1\ttired\t25\t30\t1:5\t-\n\n2\tshe\t31\t34\t2:0\t(0)\n")

	docs, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, *in, docs[0])
	assert.Equal(t, "empty", docs[1].ID)
	assert.Empty(t, docs[1].Sentences)

	before, err := Decode(in)
	require.NoError(t, err)
	after, err := Decode(&docs[0])
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"1\tpt\t0\t2\t1:0\t-\n",
		"#begin document (a);\n1\tpt\t0\t2\t-\n#end document\n",
		"#begin document (a);\n1\tpt\tx\t2\t1:0\t-\n#end document\n",
		"#begin document (a);\n1\tpt\t0\t2\t1:0\t-\n",
		"#end document\n",
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c))
		assert.True(t, errors.Is(err, errs.ErrMalformedRecord), c)
	}
}

func TestDocID(t *testing.T) {
	assert.Equal(t, "clinical-7", DocID("/tmp/out/clinical-7.conll"))
	assert.Equal(t, "report.txt", DocID("report.txt.ann"))
}
