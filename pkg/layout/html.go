package layout

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gofurigana/pkg/attributed"
	"github.com/yaklabco/gofurigana/pkg/furigana"
)

// HTML renders a result as a <div> of <ruby> elements. Placeholders are
// dropped; the browser reserves ruby width itself.
type HTML struct {
	Style Style
}

// Render implements Renderer.
func (h *HTML) Render(w io.Writer, res *furigana.Result) error {
	text := attributed.New(res.String())
	runes := []rune(res.String())

	var out strings.Builder
	fmt.Fprintf(&out, `<div class="furigana" style="%s">`, h.containerStyle())
	out.WriteByte('\n')

	cursor := 0
	for _, span := range res.Spans {
		if span.Range.Location < cursor || span.Range.End() > len(runes) {
			return fmt.Errorf("span at %s: %w", span.Range, attributed.ErrOutOfRange)
		}
		out.WriteString(htmlText(string(runes[cursor:span.Range.Location])))

		out.WriteString("<ruby>")
		out.WriteString(htmlText(spanBase(text, span)))
		out.WriteString("<rp>(</rp><rt")
		if style := h.readingStyle(); style != "" {
			fmt.Fprintf(&out, ` style="%s"`, style)
		}
		out.WriteString(">")
		out.WriteString(escapeHTML(span.Reading()))
		out.WriteString("</rt><rp>)</rp></ruby>")

		cursor = span.Range.End()
	}
	out.WriteString(htmlText(string(runes[cursor:])))
	out.WriteString("\n</div>\n")

	if _, err := io.WriteString(w, out.String()); err != nil {
		return fmt.Errorf("write html output: %w", err)
	}
	return nil
}

func (h *HTML) containerStyle() string {
	return "line-height: " + strconv.FormatFloat(h.Style.HostingLineHeightMultiple, 'g', -1, 64) +
		"; text-align: " + string(h.Style.Alignment)
}

func (h *HTML) readingStyle() string {
	if h.Style.TextOffsetMultiple == 0 {
		return ""
	}
	return "position: relative; top: " +
		strconv.FormatFloat(-h.Style.TextOffsetMultiple, 'g', -1, 64) + "em"
}

// htmlText escapes s and turns newlines into <br> elements.
func htmlText(s string) string {
	return strings.ReplaceAll(escapeHTML(s), "\n", "<br>\n")
}

func escapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
