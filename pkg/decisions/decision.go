// Package decisions defines the decision record model shared by the
// markdown parser, the storage-format parser, and the reconciler.
// A record is the unit of reconciliation: a title (the matching key),
// an ordered participant list, and a structured body.
package decisions

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Origin indicates where a decision record was derived from. It is
// never serialized; the reconciler uses it to tag merge results.
type Origin string

const (
	// OriginMarkdown marks records parsed from the local markdown file.
	OriginMarkdown Origin = "markdown"
	// OriginRemote marks records recovered from the remote page body.
	OriginRemote Origin = "remote"
	// OriginMerged marks records synthesized by the reconciler.
	OriginMerged Origin = "merged"
)

// SpanStyle is the inline formatting applied to a span of text.
type SpanStyle string

const (
	// StylePlain is unformatted text.
	StylePlain SpanStyle = "plain"
	// StyleStrong is bold text.
	StyleStrong SpanStyle = "strong"
	// StyleEmphasis is italic text.
	StyleEmphasis SpanStyle = "emphasis"
	// StyleCode is an inline code span.
	StyleCode SpanStyle = "code"
)

// Span is a run of text with a single inline style. Formatting is kept
// structured rather than flattened because it must round-trip through
// the storage-format renderer and parser.
type Span struct {
	Text  string
	Style SpanStyle
}

// BlockKind identifies a block-level content unit in a decision body.
type BlockKind string

const (
	// BlockParagraph is a paragraph of inline spans.
	BlockParagraph BlockKind = "paragraph"
	// BlockBulletList is an unordered list.
	BlockBulletList BlockKind = "bullet_list"
	// BlockOrderedList is a numbered list.
	BlockOrderedList BlockKind = "ordered_list"
)

// Block is one block-level content unit. Paragraphs carry Spans;
// lists carry Items, each item being its own span sequence.
type Block struct {
	Kind  BlockKind
	Spans []Span
	Items [][]Span
}

// Decision is one logged decision.
type Decision struct {
	Title        string
	Participants []string
	Body         []Block
	Origin       Origin
}

// Key returns the normalized matching key for the decision title.
func (d *Decision) Key() string {
	return NormalizeTitle(d.Title)
}

// AddParticipant appends a participant name, deduplicating by exact
// match while preserving first-appearance order.
func (d *Decision) AddParticipant(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for _, existing := range d.Participants {
		if existing == name {
			return
		}
	}
	d.Participants = append(d.Participants, name)
}

// NormalizeTitle produces the matching key for a title: Unicode NFC,
// leading/trailing whitespace trimmed, and internal whitespace runs
// collapsed to single spaces. Comparison stays case-sensitive.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(norm.NFC.String(title)), " ")
}

// MergeSpans canonicalizes a span sequence: empty spans are dropped and
// adjacent spans with the same style are joined. Both parsers run their
// output through this so that equal content always yields equal
// structure (and therefore equal fingerprints).
func MergeSpans(spans []Span) []Span {
	var merged []Span
	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		if len(merged) > 0 && merged[len(merged)-1].Style == span.Style {
			merged[len(merged)-1].Text += span.Text
			continue
		}
		merged = append(merged, span)
	}
	return merged
}

// PlainText flattens a span sequence to unformatted text. Used for
// participant-token scanning and log output, never for fingerprints.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, span := range spans {
		b.WriteString(span.Text)
	}
	return b.String()
}
