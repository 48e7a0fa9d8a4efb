package conll

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/token"
)

var beginRe = regexp.MustCompile(`^#begin document \((.*)\);?$`)

const endLine = "#end document"

// DocID is the file name without its last extension.
func DocID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Write writes doc as one document block. Rows are
// sentence, word, begin, end, native coordinates and markers, tab separated.
func Write(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "#begin document (%s);\n", doc.ID)
	for i, rows := range doc.Sentences {
		for _, r := range rows {
			coords := "-"
			if len(r.Native) > 0 {
				coords = token.FormatCoords(r.Native)
			}
			fmt.Fprintf(bw, "%d\t%s\t%d\t%d\t%s\t%s\n", r.Sentence, r.Word, r.Begin, r.End, coords, r.Markers)
		}

		if i != len(doc.Sentences)-1 {
			fmt.Fprintln(bw)
		}
	}
	fmt.Fprintln(bw, endLine)

	return bw.Flush()
}

// Parse reads every document block of r. Sentences are separated by blank
// lines or by a change of the sentence number.
func Parse(r io.Reader) ([]Document, error) {
	var (
		docs    []Document
		current *Document
		rows    []Row
	)

	flush := func() {
		if current != nil && len(rows) > 0 {
			current.Sentences = append(current.Sentences, rows)
		}
		rows = nil
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := strings.TrimRight(s.Text(), "\r")

		if m := beginRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				return nil, fmt.Errorf("line %d: nested document: %w", lineNum, errs.ErrMalformedRecord)
			}
			current = &Document{ID: m[1]}
			continue
		}

		if line == endLine {
			if current == nil {
				return nil, fmt.Errorf("line %d: end without begin: %w", lineNum, errs.ErrMalformedRecord)
			}
			flush()
			docs = append(docs, *current)
			current = nil
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d: row outside a document: %w", lineNum, errs.ErrMalformedRecord)
		}

		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		if len(rows) > 0 && rows[len(rows)-1].Sentence != row.Sentence {
			flush()
		}
		rows = append(rows, row)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	if current != nil {
		return nil, fmt.Errorf("document %s not terminated: %w", current.ID, errs.ErrMalformedRecord)
	}

	return docs, nil
}

func parseRow(line string) (Row, error) {
	f := strings.Split(line, "\t")
	if len(f) != 6 {
		return Row{}, fmt.Errorf("%d columns: %w", len(f), errs.ErrMalformedRecord)
	}

	var nums [3]int
	for i, col := range []int{0, 2, 3} {
		n, err := strconv.Atoi(f[col])
		if err != nil {
			return Row{}, fmt.Errorf("%v: %w", err, errs.ErrMalformedRecord)
		}
		nums[i] = n
	}

	coords, err := token.ParseCoords(f[4])
	if err != nil {
		return Row{}, fmt.Errorf("%v: %w", err, errs.ErrMalformedRecord)
	}

	markers, err := ParseMarkers(f[5])
	if err != nil {
		return Row{}, err
	}

	return Row{
		Sentence: nums[0],
		Word:     f[1],
		Begin:    nums[1],
		End:      nums[2],
		Native:   coords,
		Markers:  markers,
	}, nil
}
