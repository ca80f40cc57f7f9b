// Package storage renders decision records to Confluence storage
// format and parses a storage body back into records. Render and Parse
// are structural inverses for content this package produced itself;
// Parse additionally tolerates hand-edited markup by degrading
// unrecognized structure to plain body content.
package storage

import (
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/agentstation/decisionsync/pkg/decisions"
)

// participantsLabel is the lead-in that marks a participants paragraph.
// The parser matches it case-sensitively; the renderer always emits it
// inside a strong element.
const participantsLabel = "Participants:"

// Header is the page preamble rendered before the first decision. The
// parser skips everything before the first h2, so the header never
// feeds back into reconciliation.
type Header struct {
	Title    string
	Intro    string
	SyncedAt time.Time
	Summary  string
}

// Render serializes records to a storage-format body: one h2 block per
// decision with an hr between consecutive blocks. The output contains
// no page header; see RenderPage.
func Render(records []decisions.Decision) string {
	var b strings.Builder
	for i, record := range records {
		if i > 0 {
			b.WriteString("<hr/>\n")
		}
		renderDecision(&b, &record)
	}
	return b.String()
}

// RenderPage serializes records with a page header in front. A nil
// header is equivalent to Render.
func RenderPage(records []decisions.Decision, header *Header) string {
	if header == nil {
		return Render(records)
	}
	var b strings.Builder
	if header.Title != "" {
		b.WriteString("<h1>")
		b.WriteString(html.EscapeString(header.Title))
		b.WriteString("</h1>\n")
	}
	if header.Intro != "" {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(header.Intro))
		b.WriteString("</p>\n")
	}
	if !header.SyncedAt.IsZero() {
		b.WriteString("<p><em>Last synchronized: ")
		b.WriteString(header.SyncedAt.UTC().Format(time.RFC3339))
		b.WriteString("</em></p>\n")
	}
	if header.Summary != "" {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(header.Summary))
		b.WriteString("</p>\n")
	}
	if len(records) > 0 {
		b.WriteString("<hr/>\n")
	}
	b.WriteString(Render(records))
	return b.String()
}

func renderDecision(b *strings.Builder, d *decisions.Decision) {
	b.WriteString("<h2>")
	b.WriteString(html.EscapeString(d.Title))
	b.WriteString("</h2>\n")

	if len(d.Participants) > 0 {
		b.WriteString("<p><strong>")
		b.WriteString(participantsLabel)
		b.WriteString("</strong> ")
		escaped := make([]string, len(d.Participants))
		for i, name := range d.Participants {
			escaped[i] = html.EscapeString(name)
		}
		b.WriteString(strings.Join(escaped, ", "))
		b.WriteString("</p>\n")
	}

	for _, block := range d.Body {
		renderBlock(b, block)
	}
}

func renderBlock(b *strings.Builder, block decisions.Block) {
	switch block.Kind {
	case decisions.BlockParagraph:
		b.WriteString("<p>")
		renderSpans(b, block.Spans)
		b.WriteString("</p>\n")
	case decisions.BlockBulletList, decisions.BlockOrderedList:
		tag := "ul"
		if block.Kind == decisions.BlockOrderedList {
			tag = "ol"
		}
		b.WriteString("<" + tag + ">\n")
		for _, item := range block.Items {
			b.WriteString("<li>")
			renderSpans(b, item)
			b.WriteString("</li>\n")
		}
		b.WriteString("</" + tag + ">\n")
	}
}

func renderSpans(b *strings.Builder, spans []decisions.Span) {
	for _, span := range decisions.MergeSpans(spans) {
		text := html.EscapeString(span.Text)
		switch span.Style {
		case decisions.StyleStrong:
			b.WriteString("<strong>" + text + "</strong>")
		case decisions.StyleEmphasis:
			b.WriteString("<em>" + text + "</em>")
		case decisions.StyleCode:
			b.WriteString("<code>" + text + "</code>")
		default:
			b.WriteString(text)
		}
	}
}
