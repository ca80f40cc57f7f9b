// Package markdown parses a decision-log markdown document into an
// ordered sequence of decision records. Every level-2 heading starts a
// decision; [[Name]] tokens on the lead-in lines become participants;
// the rest of the block becomes the structured body.
package markdown

import (
	"bytes"
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/agentstation/decisionsync/pkg/decisions"
	"github.com/agentstation/decisionsync/pkg/errors"
)

// parserInstance is initialized once and reused. The configuration
// never changes and goldmark parsers are safe for concurrent use.
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func getParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New()
	})
	return parserInstance
}

var (
	participantToken = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	participantLine  = regexp.MustCompile(`^(?:\s*\[\[[^\]]+\]\]\s*)+$`)
)

// Parse converts raw markdown into decision records. The file name is
// used only for error reporting. Content before the first level-2
// heading is preamble, not a decision, and is discarded. An empty or
// duplicate title fails the whole parse with a ParseError naming the
// offending block.
func Parse(source []byte, file string) ([]decisions.Decision, error) {
	document := getParser().Parser().Parse(text.NewReader(source))

	set := decisions.NewSet()
	var current *decisions.Decision
	block := 0      // 1-based index of the decision being built
	leadIn := false // true until the first non-participant body block

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := set.Add(*current); err != nil {
			return &errors.ParseError{
				Format:  "markdown",
				File:    file,
				Block:   block,
				Title:   current.Title,
				Message: err.Error(),
			}
		}
		current = nil
		return nil
	}

	for node := document.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok && isDecisionHeading(heading, source) {
			if err := flush(); err != nil {
				return nil, err
			}
			block++
			title := strings.TrimSpace(decisions.PlainText(inlineSpans(heading, source)))
			if title == "" {
				return nil, &errors.ParseError{
					Format:  "markdown",
					File:    file,
					Block:   block,
					Message: "empty title",
				}
			}
			current = &decisions.Decision{Title: title, Origin: decisions.OriginMarkdown}
			leadIn = true
			continue
		}

		if current == nil {
			// Preamble before the first decision heading.
			continue
		}

		if leadIn {
			if paragraph, ok := node.(*ast.Paragraph); ok {
				plain := decisions.PlainText(inlineSpans(paragraph, source))
				if participantLine.MatchString(plain) {
					for _, match := range participantToken.FindAllStringSubmatch(plain, -1) {
						current.AddParticipant(match[1])
					}
					leadIn = false
					continue
				}
			}
			// Anything that is not a pure participant paragraph ends the
			// lead-in; [[Name]] deeper in the block stays literal text.
			leadIn = false
		}

		if converted, ok := bodyBlock(node, source); ok {
			current.Body = append(current.Body, converted)
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return set.List(), nil
}

// isDecisionHeading reports whether a heading opens a decision block:
// a level-2 ATX heading, i.e. a line starting with "## ". A setext
// heading (text underlined with ---) parses at the same level but is
// body content, not a boundary.
func isDecisionHeading(heading *ast.Heading, source []byte) bool {
	if heading.Level != 2 {
		return false
	}
	lines := heading.Lines()
	if lines.Len() == 0 {
		// A bare "##" marker with no text. Setext headings always carry
		// a content line, so this is ATX.
		return true
	}
	start := lines.At(0).Start
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	return bytes.HasPrefix(source[start:], []byte("## "))
}

// bodyBlock converts one top-level AST node into a body block. Nodes
// outside the paragraph/list vocabulary degrade to paragraphs of their
// text content; headings of other levels become strong paragraphs so
// they survive the round trip through the storage format.
func bodyBlock(node ast.Node, source []byte) (decisions.Block, bool) {
	switch typed := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		spans := inlineSpans(node, source)
		if len(spans) == 0 {
			return decisions.Block{}, false
		}
		return decisions.Block{Kind: decisions.BlockParagraph, Spans: spans}, true

	case *ast.List:
		kind := decisions.BlockBulletList
		if typed.IsOrdered() {
			kind = decisions.BlockOrderedList
		}
		items := listItems(typed, source)
		if len(items) == 0 {
			return decisions.Block{}, false
		}
		return decisions.Block{Kind: kind, Items: items}, true

	case *ast.Heading:
		spans := inlineSpans(node, source)
		if len(spans) == 0 {
			return decisions.Block{}, false
		}
		return decisions.Block{
			Kind:  decisions.BlockParagraph,
			Spans: []decisions.Span{{Text: decisions.PlainText(spans), Style: decisions.StyleStrong}},
		}, true

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := rawLines(node, source)
		if code == "" {
			return decisions.Block{}, false
		}
		return decisions.Block{
			Kind:  decisions.BlockParagraph,
			Spans: []decisions.Span{{Text: code, Style: decisions.StyleCode}},
		}, true

	case *ast.Blockquote:
		var spans []decisions.Span
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			spans = append(spans, inlineSpans(child, source)...)
		}
		spans = decisions.MergeSpans(spans)
		if len(spans) == 0 {
			return decisions.Block{}, false
		}
		return decisions.Block{Kind: decisions.BlockParagraph, Spans: spans}, true

	default:
		// Thematic breaks, raw HTML blocks, and anything else carry no
		// decision content.
		return decisions.Block{}, false
	}
}

// listItems extracts the items of a list. A list nested inside an item
// is flattened into the parent: the storage-format vocabulary carries
// one level of list structure.
func listItems(list *ast.List, source []byte) [][]decisions.Span {
	var items [][]decisions.Span
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var spans []decisions.Span
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				items = append(items, listItems(nested, source)...)
				continue
			}
			spans = append(spans, inlineSpans(child, source)...)
		}
		spans = decisions.MergeSpans(spans)
		if len(spans) > 0 {
			items = append(items, spans)
		}
	}
	return items
}

// inlineState tracks the inline styles in effect while walking a
// node's children. Counters rather than booleans handle nested
// emphasis, following the usual goldmark walking pattern.
type inlineState struct {
	source []byte
	bold   int
	italic int
	spans  []decisions.Span
}

// inlineSpans collects the inline content of a block node as styled
// spans. Soft and hard line breaks become single spaces: within a
// paragraph, line wrapping is presentation, not content.
func inlineSpans(node ast.Node, source []byte) []decisions.Span {
	state := &inlineState{source: source}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		state.walk(child)
	}
	return decisions.MergeSpans(state.spans)
}

func (s *inlineState) style() decisions.SpanStyle {
	switch {
	case s.bold > 0:
		return decisions.StyleStrong
	case s.italic > 0:
		return decisions.StyleEmphasis
	default:
		return decisions.StylePlain
	}
}

func (s *inlineState) append(text string, style decisions.SpanStyle) {
	if text == "" {
		return
	}
	s.spans = append(s.spans, decisions.Span{Text: text, Style: style})
}

func (s *inlineState) walk(node ast.Node) {
	switch typed := node.(type) {
	case *ast.Text:
		s.append(string(typed.Segment.Value(s.source)), s.style())
		if typed.SoftLineBreak() || typed.HardLineBreak() {
			s.append(" ", s.style())
		}

	case *ast.String:
		s.append(string(typed.Value), s.style())

	case *ast.CodeSpan:
		var code strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch inner := child.(type) {
			case *ast.Text:
				code.Write(inner.Segment.Value(s.source))
			case *ast.String:
				code.Write(inner.Value)
			}
		}
		s.append(code.String(), decisions.StyleCode)

	case *ast.Emphasis:
		if typed.Level >= 2 {
			s.bold++
		} else {
			s.italic++
		}
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			s.walk(child)
		}
		if typed.Level >= 2 {
			s.bold--
		} else {
			s.italic--
		}

	case *ast.Link:
		// Links degrade to their label text; the storage vocabulary has
		// no link element.
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			s.walk(child)
		}

	case *ast.AutoLink:
		s.append(string(typed.URL(s.source)), s.style())

	case *ast.RawHTML:
		// Inline HTML is dropped; authored markdown should not carry it
		// and rendering it would double-escape.

	default:
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			s.walk(child)
		}
	}
}

// rawLines joins the raw source lines of a code block.
func rawLines(node ast.Node, source []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}
