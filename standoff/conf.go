package standoff

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
)

var PastelPalette = []string{"#efdccd", "#88aee1", "#d1f3c2", "#bfa0d0", "#b1d7b1", "#cdaede", "#72c8b8", "#e2c2f3", "#97be9b",
	"#f2c8e8", "#dee7bc", "#eddaac", "#d5b898", "#e9ad9f", "#79c9db", "#ecb1c2", "#97e0eb", "#d8b0a7", "#d3f1d6",
	"#95bbef", "#bfcbaa", "#aba7cf", "#b6eee2", "#ddb3d2", "#8dc3b8", "#d5d0fa", "#a6b79f", "#c0bbe4", "#d4efe9",
	"#9db3d6", "#c7bfad", "#a7dcf9", "#d2b9c0", "#95c4db", "#efd5dc", "#97b1ab", "#e6d6ee", "#a4beb8", "#b8cff2",
	"#b8d3cd", "#c3b3cb", "#c2e9f5", "#a8b3c4", "#d9e3f5", "#add4e0", "#c4cee0"}

var IntensePalette = []string{"#d040bb", "#52c539", "#bb46e0", "#8bba3c", "#5533c0", "#54be66", "#6c63da", "#b4b43b",
	"#742d90", "#42822b", "#e14498", "#4ecc99", "#e1435b", "#399b71", "#e75a30", "#808ae6", "#daae40", "#3f2f6a",
	"#e28b2f", "#4a62a8", "#b8351f", "#58c3b7", "#8c2425", "#59b6cf", "#b0385e", "#8fbf8f", "#d17bd7", "#737d28",
	"#912f6f", "#729563", "#9769ab", "#a4802b", "#69a6e0", "#a55e27", "#446c90", "#dd986a", "#368686", "#76341a",
	"#b79ed0", "#2f481b", "#d97fa1", "#37694a", "#6b263d", "#b8b274", "#724c6f", "#6b5121", "#d2968e", "#5f3629",
	"#82764b", "#b7645a"}

// attributes brat computes itself and that must not be declared
var implicitAttributes = []string{"LEMMA", "FORM"}

// Conf collects the labels used over a corpus, for the brat configuration
// files.
type Conf struct {
	entities   map[string]bool
	relations  map[string]bool
	attributes map[string]map[string]bool
}

func NewConf() *Conf {
	return &Conf{
		entities:   map[string]bool{},
		relations:  map[string]bool{},
		attributes: map[string]map[string]bool{},
	}
}

// Add collects the labels of doc.
func (c *Conf) Add(doc *Document) {
	for _, e := range doc.Entities {
		c.entities[e.Type] = true
	}
	for _, r := range doc.Relations {
		c.relations[r.Type] = true
	}
	for _, a := range doc.Attributes {
		if c.attributes[a.Name] == nil {
			c.attributes[a.Name] = map[string]bool{}
		}
		c.attributes[a.Name][a.Value] = true
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entities returns the entity types, sorted.
func (c *Conf) Entities() []string { return sortedKeys(c.entities) }

// Relations returns the relation types, sorted.
func (c *Conf) Relations() []string { return sortedKeys(c.relations) }

// Attributes returns the attribute names, sorted.
func (c *Conf) Attributes() []string { return sortedKeys(c.attributes) }

// AttributeValues returns the values seen for attribute name, sorted.
func (c *Conf) AttributeValues(name string) []string { return sortedKeys(c.attributes[name]) }

// AssignColors maps each label to a color of a shuffled copy of palette.
// Colors are reused when there are more labels than colors.
func AssignColors(labels, palette []string, rng *rand.Rand) map[string]string {
	colors := map[string]string{}
	if len(palette) == 0 {
		return colors
	}

	shuffled := slices.Clone(palette)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for i, l := range labels {
		colors[l] = shuffled[i%len(shuffled)]
	}
	return colors
}

// WriteAnnotationConf writes annotation.conf.
func WriteAnnotationConf(w io.Writer, c *Conf) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "[entities]")
	for _, e := range c.Entities() {
		fmt.Fprintln(bw, e)
	}

	fmt.Fprintln(bw, "[relations]")
	fmt.Fprintln(bw, "<OVERLAP>\tArg1:<ANY>, Arg2:<ANY>, <OVL-TYPE>:<ANY>")
	for _, r := range c.Relations() {
		fmt.Fprintf(bw, "%s\tArg1:<ANY>, Arg2:<ANY>\n", r)
	}

	fmt.Fprintln(bw, "[events]")

	fmt.Fprintln(bw, "[attributes]")
	for _, a := range c.Attributes() {
		if slices.Contains(implicitAttributes, a) {
			continue
		}
		values := c.AttributeValues(a)
		if len(values) == 1 && values[0] == "" {
			fmt.Fprintf(bw, "%s\tArg:<ANY>\n", a)
			continue
		}
		fmt.Fprintf(bw, "%s\tArg:<ANY>, Value:%s\n", a, strings.Join(values, "|"))
	}

	return bw.Flush()
}

// WriteVisualConf writes visual.conf. Entities take pastel colors and
// relations intense ones, both drawn from rng.
func WriteVisualConf(w io.Writer, c *Conf, rng *rand.Rand) error {
	bw := bufio.NewWriter(w)

	entities := c.Entities()
	relations := c.Relations()

	fmt.Fprintln(bw, "[labels]")
	for _, e := range entities {
		fmt.Fprintf(bw, "%s | %s\n", e, e)
	}
	for _, r := range relations {
		fmt.Fprintf(bw, "%s | %s\n", r, r)
	}

	fmt.Fprintln(bw, "[drawing]")
	entityColors := AssignColors(entities, PastelPalette, rng)
	for _, e := range entities {
		fmt.Fprintf(bw, "%s\tfgColor:black, bgColor:%s, borderColor:darken\n", e, entityColors[e])
	}

	for _, a := range c.Attributes() {
		glyphs := make([]string, len(c.AttributeValues(a)))
		for i := range glyphs {
			glyphs[i] = "*"
		}
		fmt.Fprintf(bw, "%s\tposition:left, glyph:%s\n", a, strings.Join(glyphs, "|"))
	}

	relationColors := AssignColors(relations, IntensePalette, rng)
	for _, r := range relations {
		fmt.Fprintf(bw, "%s\tcolor:%s, dashArray:3-3, arrowHead:triangle-5\n", r, relationColors[r])
	}

	return bw.Flush()
}
