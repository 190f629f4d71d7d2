package layout

import (
	"fmt"
	"io"

	"github.com/yaklabco/gofurigana/pkg/document"
	"github.com/yaklabco/gofurigana/pkg/furigana"
)

// Text writes the adjusted text as is, placeholders included.
type Text struct{}

// Render implements Renderer.
func (Text) Render(w io.Writer, res *furigana.Result) error {
	if _, err := io.WriteString(w, res.String()+"\n"); err != nil {
		return fmt.Errorf("write text output: %w", err)
	}
	return nil
}

// Markup writes the result back as inline ruby markup.
//
// A span whose base crosses a newline is written as one group containing the
// line break, e.g. "{b\nc|xyz}". ParseMarkup reads such groups back, but the
// Markdown extension only matches groups within a single line.
type Markup struct{}

// Render implements Renderer.
func (Markup) Render(w io.Writer, res *furigana.Result) error {
	markup, err := document.FormatMarkup(Strip(res))
	if err != nil {
		return fmt.Errorf("format markup: %w", err)
	}
	if _, err := io.WriteString(w, markup+"\n"); err != nil {
		return fmt.Errorf("write markup output: %w", err)
	}
	return nil
}
