package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindRuby is the node kind of Ruby.
//
//nolint:gochecknoglobals // goldmark node kinds are registered globals.
var KindRuby = ast.NewNodeKind("Ruby")

// Ruby is an inline node for {base|reading}.
type Ruby struct {
	ast.BaseInline

	// Base is the annotated text, unescaped.
	Base string

	// Reading is the annotation text, unescaped.
	Reading string
}

// NewRuby returns a Ruby node.
func NewRuby(base, reading string) *Ruby {
	return &Ruby{Base: base, Reading: reading}
}

// Kind implements ast.Node.
func (n *Ruby) Kind() ast.NodeKind {
	return KindRuby
}

// Dump implements ast.Node.
func (n *Ruby) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Base":    n.Base,
		"Reading": n.Reading,
	}, nil)
}

// rubyParser recognizes {base|reading} within a single line.
type rubyParser struct{}

// Trigger implements parser.InlineParser.
func (p *rubyParser) Trigger() []byte {
	return []byte{'{'}
}

// Parse implements parser.InlineParser. It returns nil when the line does
// not hold a complete group, leaving the brace as literal text.
func (p *rubyParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	base, reading, consumed, ok := scanRuby(line)
	if !ok {
		return nil
	}
	block.Advance(consumed)
	return NewRuby(base, reading)
}

// scanRuby matches a ruby group at the start of line and returns its
// unescaped parts and the number of bytes consumed.
func scanRuby(line []byte) (string, string, int, bool) {
	if len(line) == 0 || line[0] != '{' {
		return "", "", 0, false
	}

	var base, reading bytes.Buffer
	current := &base
	for i := 1; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && line[i+1] == '|':
			return "", "", 0, false
		case c == '\\' && i+1 < len(line) && isRubySpecial(line[i+1]):
			i++
			current.WriteByte(line[i])
		case c == '|' && current == &base:
			current = &reading
		case c == '}' && current == &reading:
			if reading.Len() == 0 {
				return "", "", 0, false
			}
			return base.String(), reading.String(), i + 1, true
		case c == '{' || c == '}' || c == '|' || c == '\n' || c == '\r':
			return "", "", 0, false
		default:
			current.WriteByte(c)
		}
	}
	return "", "", 0, false
}

func isRubySpecial(c byte) bool {
	return c == '{' || c == '}' || c == '|' || c == '\\'
}

// rubyHTMLRenderer renders Ruby nodes as <ruby> elements with <rp>
// fallbacks.
type rubyHTMLRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *rubyHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindRuby, r.renderRuby)
}

func (r *rubyHTMLRenderer) renderRuby(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n, _ := node.(*Ruby)

	_, _ = w.WriteString("<ruby>")
	_, _ = w.Write(util.EscapeHTML([]byte(n.Base)))
	_, _ = w.WriteString("<rp>(</rp><rt>")
	_, _ = w.Write(util.EscapeHTML([]byte(n.Reading)))
	_, _ = w.WriteString("</rt><rp>)</rp></ruby>")
	return ast.WalkSkipChildren, nil
}

// rubyExtension adds ruby groups to a goldmark.Markdown.
type rubyExtension struct{}

// RubyExtension enables {base|reading} ruby groups.
//
//nolint:gochecknoglobals // Extensions are conventionally package values.
var RubyExtension goldmark.Extender = &rubyExtension{}

// Extend implements goldmark.Extender.
func (e *rubyExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&rubyParser{}, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&rubyHTMLRenderer{}, 500),
	))
}
