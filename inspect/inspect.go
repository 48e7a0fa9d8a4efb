package inspect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/corefbridge/render"
	"github.com/revelaction/corefbridge/storage"
)

const (
	quitCommand = "quit"
	listCommand = "list"

	maxSuggestions = 12
)

type Handler struct {
	DocRepo  storage.DocReader
	Renderer *render.Renderer
	Out      io.Writer
}

func NewHandler(dr storage.DocReader, r *render.Renderer) *Handler {
	return &Handler{
		DocRepo:  dr,
		Renderer: r,
		Out:      os.Stdout,
	}
}

func (h *Handler) Run() error {

	names, err := h.DocRepo.List("")
	if err != nil {
		return err
	}

	fmt.Fprintf(h.Out, "📄 %d docs. Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 list, quit\n", len(names))

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      📄 ", completer(names),
			prompt.OptionTitle("corefbridge inspect"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(maxSuggestions),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintf(h.Out, "Prefix set to %t\n", h.Renderer.HasPrefix)
				}}),
		)

		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}

		history = append(history, in)

		quit, err := h.Exec(in)
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(h.Out, "Error: %v\n", err)
		}
	}
}

// Exec runs one prompt line: "quit", "list [match]" or a document name.
func (h *Handler) Exec(in string) (bool, error) {
	fields := strings.Fields(in)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case quitCommand:
		return true, nil

	case listCommand:
		match := ""
		if len(fields) > 1 {
			match = fields[1]
		}
		names, err := h.DocRepo.List(match)
		if err != nil {
			return false, err
		}
		for _, n := range names {
			fmt.Fprintln(h.Out, n)
		}
		return false, nil
	}

	doc, err := h.DocRepo.Read(fields[0])
	if err != nil {
		return false, err
	}

	return false, h.Renderer.Render(doc)
}

func completer(names []string) func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {
		return suggest(names, in.TextBeforeCursor())
	}
}

// suggest completes the commands and the document names starting with, or
// else containing, the text before the cursor.
func suggest(names []string, before string) []prompt.Suggest {
	s := []prompt.Suggest{}

	// Nothing typed yet
	if before == "" || strings.Contains(before, " ") {
		return s
	}

	for _, cmd := range []string{listCommand, quitCommand} {
		if strings.HasPrefix(cmd, before) {
			s = append(s, prompt.Suggest{Text: cmd, Description: "🔧 " + cmd})
		}
	}

	for _, n := range names {
		if strings.HasPrefix(n, before) {
			s = append(s, prompt.Suggest{Text: n, Description: "📄"})
		}
	}

	if len(s) > 0 {
		return s
	}

	for _, n := range names {
		if strings.Contains(n, before) {
			s = append(s, prompt.Suggest{Text: n, Description: "📄"})
		}
	}

	return s
}
