package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/decisionsync/pkg/decisions"
	"github.com/agentstation/decisionsync/pkg/errors"
	"github.com/agentstation/decisionsync/pkg/markdown"
)

func parse(t *testing.T, source string) []decisions.Decision {
	t.Helper()
	parsed, err := markdown.Parse([]byte(source), "decisions.md")
	require.NoError(t, err)
	return parsed
}

func TestParseParticipantExtraction(t *testing.T) {
	parsed := parse(t, "## Adopt X\n[[Alice]] [[Bob]]\n\nBody text.\n")

	require.Len(t, parsed, 1)
	d := parsed[0]
	assert.Equal(t, "Adopt X", d.Title)
	assert.Equal(t, []string{"Alice", "Bob"}, d.Participants)
	require.Len(t, d.Body, 1)
	assert.Equal(t, decisions.BlockParagraph, d.Body[0].Kind)
	assert.Equal(t, "Body text.", decisions.PlainText(d.Body[0].Spans))
	assert.Equal(t, decisions.OriginMarkdown, d.Origin)
}

func TestParseParticipantsAcrossLines(t *testing.T) {
	parsed := parse(t, "## Adopt X\n[[Alice]]\n[[Bob]]\n\nBody text.\n")

	require.Len(t, parsed, 1)
	assert.Equal(t, []string{"Alice", "Bob"}, parsed[0].Participants)
	require.Len(t, parsed[0].Body, 1)
}

func TestParseParticipantDuplicatesCollapsed(t *testing.T) {
	parsed := parse(t, "## Adopt X\n[[Alice]] [[Alice]] [[Bob]]\n")

	require.Len(t, parsed, 1)
	assert.Equal(t, []string{"Alice", "Bob"}, parsed[0].Participants)
}

func TestParseTokenInBodyStaysLiteral(t *testing.T) {
	// [[Name]] only counts on the lead-in lines; a later paragraph that
	// mentions the token keeps it as text.
	parsed := parse(t, "## Adopt X\n\nIntro paragraph.\n\n[[Alice]]\n")

	require.Len(t, parsed, 1)
	d := parsed[0]
	assert.Empty(t, d.Participants)
	require.Len(t, d.Body, 2)
	assert.Equal(t, "[[Alice]]", decisions.PlainText(d.Body[1].Spans))
}

func TestParseMixedLeadInParagraphIsBody(t *testing.T) {
	// A first paragraph that is not purely participant tokens is body,
	// including its tokens.
	parsed := parse(t, "## Adopt X\n[[Alice]] decided this.\n")

	require.Len(t, parsed, 1)
	d := parsed[0]
	assert.Empty(t, d.Participants)
	require.Len(t, d.Body, 1)
	assert.Equal(t, "[[Alice]] decided this.", decisions.PlainText(d.Body[0].Spans))
}

func TestParseDiscardsPreamble(t *testing.T) {
	source := "# Decision Log\n\nIntro prose.\n\n## Adopt X\n\nBody.\n"
	parsed := parse(t, source)

	require.Len(t, parsed, 1)
	assert.Equal(t, "Adopt X", parsed[0].Title)
	require.Len(t, parsed[0].Body, 1)
}

func TestParseMultipleDecisionsInOrder(t *testing.T) {
	source := "## First\n\nA.\n\n## Second\n[[Carol]]\n\nB.\n\n## Third\n\nC.\n"
	parsed := parse(t, source)

	require.Len(t, parsed, 3)
	assert.Equal(t, "First", parsed[0].Title)
	assert.Equal(t, "Second", parsed[1].Title)
	assert.Equal(t, "Third", parsed[2].Title)
	assert.Equal(t, []string{"Carol"}, parsed[1].Participants)
}

func TestParseInlineStyles(t *testing.T) {
	parsed := parse(t, "## Adopt X\n\nUse **bold**, *italic* and `code` here.\n")

	require.Len(t, parsed, 1)
	require.Len(t, parsed[0].Body, 1)
	spans := parsed[0].Body[0].Spans
	assert.Equal(t, []decisions.Span{
		{Text: "Use ", Style: decisions.StylePlain},
		{Text: "bold", Style: decisions.StyleStrong},
		{Text: ", ", Style: decisions.StylePlain},
		{Text: "italic", Style: decisions.StyleEmphasis},
		{Text: " and ", Style: decisions.StylePlain},
		{Text: "code", Style: decisions.StyleCode},
		{Text: " here.", Style: decisions.StylePlain},
	}, spans)
}

func TestParseSoftBreaksBecomeSpaces(t *testing.T) {
	parsed := parse(t, "## Adopt X\n\nline one\nline two\n")

	require.Len(t, parsed, 1)
	require.Len(t, parsed[0].Body, 1)
	assert.Equal(t, "line one line two", decisions.PlainText(parsed[0].Body[0].Spans))
}

func TestParseLists(t *testing.T) {
	source := "## Adopt X\n\n- first\n- second\n\n1. alpha\n2. beta\n"
	parsed := parse(t, source)

	require.Len(t, parsed, 1)
	body := parsed[0].Body
	require.Len(t, body, 2)

	assert.Equal(t, decisions.BlockBulletList, body[0].Kind)
	require.Len(t, body[0].Items, 2)
	assert.Equal(t, "first", decisions.PlainText(body[0].Items[0]))
	assert.Equal(t, "second", decisions.PlainText(body[0].Items[1]))

	assert.Equal(t, decisions.BlockOrderedList, body[1].Kind)
	require.Len(t, body[1].Items, 2)
	assert.Equal(t, "alpha", decisions.PlainText(body[1].Items[0]))
}

func TestParseSubheadingBecomesStrongParagraph(t *testing.T) {
	parsed := parse(t, "## Adopt X\n\n### Rationale\n\nBecause.\n")

	require.Len(t, parsed, 1)
	body := parsed[0].Body
	require.Len(t, body, 2)
	assert.Equal(t, []decisions.Span{{Text: "Rationale", Style: decisions.StyleStrong}}, body[0].Spans)
}

func TestParseLinkDegradesToLabel(t *testing.T) {
	parsed := parse(t, "## Adopt X\n\nSee [the doc](https://example.com/doc).\n")

	require.Len(t, parsed, 1)
	require.Len(t, parsed[0].Body, 1)
	assert.Equal(t, "See the doc.", decisions.PlainText(parsed[0].Body[0].Spans))
}

func TestParseSetextUnderlineDoesNotSplit(t *testing.T) {
	// A body line underlined with --- parses as a level-2 setext
	// heading, but only "## " lines open decisions; the underlined text
	// stays in the current body as a strong paragraph.
	parsed := parse(t, "## Adopt X\n\nBody intro.\n\nSome phrase\n---\n\nTail.\n")

	require.Len(t, parsed, 1)
	d := parsed[0]
	assert.Equal(t, "Adopt X", d.Title)
	require.Len(t, d.Body, 3)
	assert.Equal(t, []decisions.Span{{Text: "Some phrase", Style: decisions.StyleStrong}}, d.Body[1].Spans)
	assert.Equal(t, "Tail.", decisions.PlainText(d.Body[2].Spans))
}

func TestParseDuplicateTitleFails(t *testing.T) {
	_, err := markdown.Parse([]byte("## Adopt X\n\nA.\n\n## Adopt X\n\nB.\n"), "decisions.md")

	require.Error(t, err)
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "markdown", parseErr.Format)
	assert.Equal(t, "decisions.md", parseErr.File)
	assert.Equal(t, 2, parseErr.Block)
	assert.Contains(t, parseErr.Message, "Adopt X")
}

func TestParseEmptyTitleFails(t *testing.T) {
	_, err := markdown.Parse([]byte("##   \n\nBody.\n"), "decisions.md")

	require.Error(t, err)
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Block)
}

func TestParseTitleWhitespacePreserved(t *testing.T) {
	// Internal whitespace runs in a title are kept verbatim at parse
	// time; collapsing is the reconciler's matching concern.
	parsed := parse(t, "## Launch  v2\n\nBody.\n")

	require.Len(t, parsed, 1)
	assert.Equal(t, "Launch  v2", parsed[0].Title)
}

func TestParseEmptyDocument(t *testing.T) {
	parsed := parse(t, "just prose, no decisions\n")
	assert.Empty(t, parsed)
}

func TestParseDecisionWithoutBody(t *testing.T) {
	parsed := parse(t, "## Adopt X\n[[Alice]]\n")

	require.Len(t, parsed, 1)
	assert.Equal(t, []string{"Alice"}, parsed[0].Participants)
	assert.Empty(t, parsed[0].Body)
}
