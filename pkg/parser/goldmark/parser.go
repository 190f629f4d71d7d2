// Package goldmark reads ruby-annotated Markdown using the goldmark library.
//
// Ruby groups are written inline as {base|reading}. Extract turns a Markdown
// source into a document.Document of its visible text; Render converts it to
// HTML with <ruby> elements.
package goldmark

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gofurigana/pkg/document"
)

// Supported flavors. Anything else reads as CommonMark.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Parser reads ruby-annotated Markdown. It is safe for concurrent use.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New returns a parser for flavor.
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the flavor in use after defaulting.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse returns the goldmark AST of content.
//
//nolint:ireturn // ast.Node is goldmark's node interface.
func (p *Parser) Parse(ctx context.Context, content []byte) (ast.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}
	reader := text.NewReader(content)
	return p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext())), nil
}

// Extract returns the visible text of content with one annotation per ruby
// group. Blocks are separated by a newline; code, HTML and images are skipped.
func (p *Parser) Extract(ctx context.Context, content []byte) (*document.Document, error) {
	root, err := p.Parse(ctx, content)
	if err != nil {
		return nil, err
	}

	ext := &extractor{source: content, doc: &document.Document{}}
	if err := ast.Walk(root, ext.walk); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	ext.doc.Text = strings.TrimSuffix(ext.doc.Text, "\n")
	return ext.doc, nil
}

// Render converts content to HTML, rendering ruby groups as <ruby> elements.
func (p *Parser) Render(ctx context.Context, content []byte, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render cancelled: %w", err)
	}
	if err := p.md.Convert(content, w); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	return nil
}

// extractor collects visible text while walking the AST.
type extractor struct {
	source []byte
	doc    *document.Document
}

func (e *extractor) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock,
		ast.KindRawHTML, ast.KindCodeSpan, ast.KindImage:
		return ast.WalkSkipChildren, nil

	case ast.KindParagraph, ast.KindHeading, ast.KindTextBlock,
		east.KindTableHeader, east.KindTableRow:
		if !entering {
			e.newline()
		}

	case east.KindTableCell:
		if entering && node.PreviousSibling() != nil {
			e.doc.AppendText("\t")
		}

	case ast.KindText:
		if entering {
			n, _ := node.(*ast.Text)
			e.doc.AppendText(unescape(n.Segment.Value(e.source)))
			if n.SoftLineBreak() || n.HardLineBreak() {
				e.doc.AppendText("\n")
			}
		}

	case ast.KindString:
		if entering {
			n, _ := node.(*ast.String)
			e.doc.AppendText(unescape(n.Value))
		}

	case KindRuby:
		if entering {
			n, _ := node.(*Ruby)
			e.doc.AppendRuby(n.Base, n.Reading)
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (e *extractor) newline() {
	if e.doc.Text != "" && !strings.HasSuffix(e.doc.Text, "\n") {
		e.doc.AppendText("\n")
	}
}

// unescape resolves backslash escapes and character references the way the
// HTML renderer does.
func unescape(value []byte) string {
	if bytes.IndexByte(value, '\\') < 0 && bytes.IndexByte(value, '&') < 0 {
		return string(value)
	}
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}

func flavorOrDefault(flavor string) string {
	if flavor == FlavorGFM {
		return FlavorGFM
	}
	return FlavorCommonMark
}

// newGoldmarkInstance builds a goldmark instance with the ruby extension,
// plus the GFM extensions for the gfm flavor.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	extensions := []goldmark.Extender{RubyExtension}
	if flavor == FlavorGFM {
		extensions = append(extensions, extension.GFM)
	}
	return goldmark.New(goldmark.WithExtensions(extensions...))
}
