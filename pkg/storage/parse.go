package storage

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentstation/decisionsync/pkg/decisions"
	"github.com/agentstation/decisionsync/pkg/errors"
)

// Warning records a recoverable oddity met while parsing a remote
// body: unrecognized structure, an empty title, a duplicate title.
// Warnings are collected and reported, never fatal; the remote page
// is not guaranteed to be pristine.
type Warning struct {
	Block   int
	Title   string
	Message string
}

func (w Warning) String() string {
	if w.Title != "" {
		return fmt.Sprintf("block %d (%q): %s", w.Block, w.Title, w.Message)
	}
	return fmt.Sprintf("block %d: %s", w.Block, w.Message)
}

// Parse recovers decision records from a storage-format page body.
// Decision boundaries are h2 elements; content before the first h2 is
// the page header and is ignored. Structure outside the rendered
// vocabulary degrades to plain body content with a warning. Blocks
// with an empty or duplicate title are skipped with a warning.
func Parse(body string) ([]decisions.Decision, []Warning, error) {
	document, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, nil, errors.WrapIO("parse", "remote page body", err)
	}

	p := &bodyParser{seen: make(map[string]bool)}
	if root := findElement(document, "body"); root != nil {
		for node := root.FirstChild; node != nil; node = node.NextSibling {
			p.topLevel(node)
		}
	}
	p.flush()
	return p.records, p.warnings, nil
}

type bodyParser struct {
	records  []decisions.Decision
	warnings []Warning
	seen     map[string]bool

	current  *decisions.Decision
	block    int  // 1-based ordinal of the current h2 block
	leadIn   bool // participants paragraph still allowed
	skipping bool // current block is being discarded
}

func (p *bodyParser) warn(title, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{
		Block:   p.block,
		Title:   title,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *bodyParser) flush() {
	if p.current != nil {
		p.records = append(p.records, *p.current)
		p.current = nil
	}
}

func (p *bodyParser) topLevel(node *html.Node) {
	if node.Type == html.TextNode {
		text := strings.TrimSpace(node.Data)
		if text != "" && p.current != nil {
			p.current.Body = append(p.current.Body, decisions.Block{
				Kind:  decisions.BlockParagraph,
				Spans: []decisions.Span{{Text: text, Style: decisions.StylePlain}},
			})
			p.leadIn = false
		}
		return
	}
	if node.Type != html.ElementNode {
		return
	}

	if node.Data == "h2" {
		p.flush()
		p.block++
		p.skipping = false
		title := strings.TrimSpace(collectText(node))
		if title == "" {
			p.warn("", "empty title, block skipped")
			p.skipping = true
			return
		}
		if p.seen[title] {
			p.warn(title, "duplicate title, block skipped")
			p.skipping = true
			return
		}
		p.seen[title] = true
		p.current = &decisions.Decision{Title: title, Origin: decisions.OriginRemote}
		p.leadIn = true
		return
	}

	if p.current == nil || p.skipping {
		// Page header before the first h2, or a skipped block.
		return
	}

	switch node.Data {
	case "hr":
		// Decision separator.

	case "p":
		if p.leadIn {
			if names, ok := participantNames(node); ok {
				for _, name := range names {
					p.current.AddParticipant(name)
				}
				p.leadIn = false
				return
			}
			p.leadIn = false
		}
		spans := inlineContent(node)
		if len(spans) > 0 {
			p.current.Body = append(p.current.Body, decisions.Block{
				Kind:  decisions.BlockParagraph,
				Spans: spans,
			})
		}

	case "ul", "ol":
		kind := decisions.BlockBulletList
		if node.Data == "ol" {
			kind = decisions.BlockOrderedList
		}
		var items [][]decisions.Span
		for li := node.FirstChild; li != nil; li = li.NextSibling {
			if li.Type != html.ElementNode || li.Data != "li" {
				continue
			}
			if spans := inlineContent(li); len(spans) > 0 {
				items = append(items, spans)
			}
		}
		p.leadIn = false
		if len(items) > 0 {
			p.current.Body = append(p.current.Body, decisions.Block{Kind: kind, Items: items})
		}

	case "h1", "h3", "h4", "h5", "h6":
		p.leadIn = false
		text := strings.TrimSpace(collectText(node))
		if text != "" {
			p.current.Body = append(p.current.Body, decisions.Block{
				Kind:  decisions.BlockParagraph,
				Spans: []decisions.Span{{Text: text, Style: decisions.StyleStrong}},
			})
		}

	default:
		// Not part of the rendered vocabulary; flatten to text so the
		// content survives rather than aborting the parse.
		p.leadIn = false
		text := strings.Join(strings.Fields(collectSeparated(node)), " ")
		if text != "" {
			p.warn(p.current.Title, "unrecognized element <%s>, flattened to text", node.Data)
			p.current.Body = append(p.current.Body, decisions.Block{
				Kind:  decisions.BlockParagraph,
				Spans: []decisions.Span{{Text: text, Style: decisions.StylePlain}},
			})
		}
	}
}

// participantNames matches the rendered participants paragraph: a
// leading strong element whose text is exactly the label, followed by
// comma-separated names. A plain-text paragraph that merely starts
// with "Participants:" is body content; treating it as a participants
// line would strip the body and break the render/parse round trip.
func participantNames(node *html.Node) ([]string, bool) {
	label := node.FirstChild
	for label != nil && label.Type == html.TextNode && strings.TrimSpace(label.Data) == "" {
		label = label.NextSibling
	}
	if label == nil || label.Type != html.ElementNode {
		return nil, false
	}
	if label.Data != "strong" && label.Data != "b" {
		return nil, false
	}
	if strings.TrimSpace(collectText(label)) != participantsLabel {
		return nil, false
	}

	var rest strings.Builder
	for sibling := label.NextSibling; sibling != nil; sibling = sibling.NextSibling {
		rest.WriteString(collectText(sibling))
	}
	var names []string
	for _, name := range strings.Split(rest.String(), ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, true
}

// inlineContent converts the children of a block element to styled
// spans. Nested styling resolves with the same precedence as the
// markdown side: code over strong over emphasis.
func inlineContent(node *html.Node) []decisions.Span {
	var spans []decisions.Span
	var walk func(n *html.Node, bold, italic bool)
	walk = func(n *html.Node, bold, italic bool) {
		switch n.Type {
		case html.TextNode:
			text := strings.ReplaceAll(n.Data, "\n", " ")
			if text == "" {
				return
			}
			style := decisions.StylePlain
			if bold {
				style = decisions.StyleStrong
			} else if italic {
				style = decisions.StyleEmphasis
			}
			spans = append(spans, decisions.Span{Text: text, Style: style})
		case html.ElementNode:
			switch n.Data {
			case "strong", "b":
				bold = true
			case "em", "i":
				italic = true
			case "code":
				spans = append(spans, decisions.Span{Text: collectText(n), Style: decisions.StyleCode})
				return
			case "br":
				spans = append(spans, decisions.Span{Text: " ", Style: decisions.StylePlain})
				return
			}
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				walk(child, bold, italic)
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		walk(child, false, false)
	}
	return decisions.MergeSpans(spans)
}

// collectText flattens a node's text content.
func collectText(node *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return b.String()
}

// collectSeparated flattens text content with a space after every text
// node, so text from sibling elements (table cells, nested divs) does
// not run together. Callers collapse the whitespace afterwards.
func collectSeparated(node *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return b.String()
}

func findElement(node *html.Node, name string) *html.Node {
	if node.Type == html.ElementNode && node.Data == name {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, name); found != nil {
			return found
		}
	}
	return nil
}
