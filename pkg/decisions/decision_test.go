package decisions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/decisionsync/pkg/decisions"
)

func paragraph(text string) decisions.Block {
	return decisions.Block{
		Kind:  decisions.BlockParagraph,
		Spans: []decisions.Span{{Text: text, Style: decisions.StylePlain}},
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Adopt X", "Adopt X"},
		{"leading and trailing space", "  Adopt X  ", "Adopt X"},
		{"internal run collapse", "Launch  v2", "Launch v2"},
		{"tabs and newlines", "Launch\tv2\n", "Launch v2"},
		{"case preserved", "ADOPT x", "ADOPT x"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decisions.NormalizeTitle(tc.input))
		})
	}
}

func TestAddParticipantDeduplicates(t *testing.T) {
	d := decisions.Decision{Title: "Adopt X"}
	d.AddParticipant("Alice")
	d.AddParticipant("Bob")
	d.AddParticipant("Alice")
	d.AddParticipant("  ")

	assert.Equal(t, []string{"Alice", "Bob"}, d.Participants)
}

func TestFingerprintExcludesTitle(t *testing.T) {
	a := decisions.Decision{
		Title:        "Adopt X",
		Participants: []string{"Alice"},
		Body:         []decisions.Block{paragraph("Body text.")},
	}
	b := a
	b.Title = "Completely different"

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.True(t, decisions.ContentEqual(&a, &b))
}

func TestFingerprintDetectsContentChange(t *testing.T) {
	base := decisions.Decision{
		Title:        "Adopt X",
		Participants: []string{"Alice"},
		Body:         []decisions.Block{paragraph("Body text.")},
	}

	changedBody := base
	changedBody.Body = []decisions.Block{paragraph("Other text.")}
	assert.NotEqual(t, base.Fingerprint(), changedBody.Fingerprint())

	changedParticipants := base
	changedParticipants.Participants = []string{"Alice", "Bob"}
	assert.NotEqual(t, base.Fingerprint(), changedParticipants.Fingerprint())
}

func TestFingerprintStableAcrossSpanFragmentation(t *testing.T) {
	// The same text split into adjacent plain spans must fingerprint
	// identically; MergeSpans canonicalizes before hashing.
	joined := decisions.Decision{Body: []decisions.Block{paragraph("Body text.")}}
	split := decisions.Decision{Body: []decisions.Block{{
		Kind: decisions.BlockParagraph,
		Spans: []decisions.Span{
			{Text: "Body ", Style: decisions.StylePlain},
			{Text: "text.", Style: decisions.StylePlain},
		},
	}}}

	assert.Equal(t, joined.Fingerprint(), split.Fingerprint())
}

func TestFingerprintDistinguishesStyle(t *testing.T) {
	plain := decisions.Decision{Body: []decisions.Block{paragraph("important")}}
	bold := decisions.Decision{Body: []decisions.Block{{
		Kind:  decisions.BlockParagraph,
		Spans: []decisions.Span{{Text: "important", Style: decisions.StyleStrong}},
	}}}

	assert.NotEqual(t, plain.Fingerprint(), bold.Fingerprint())
}

func TestFingerprintDistinguishesListKind(t *testing.T) {
	item := []decisions.Span{{Text: "one", Style: decisions.StylePlain}}
	bullet := decisions.Decision{Body: []decisions.Block{{Kind: decisions.BlockBulletList, Items: [][]decisions.Span{item}}}}
	ordered := decisions.Decision{Body: []decisions.Block{{Kind: decisions.BlockOrderedList, Items: [][]decisions.Span{item}}}}

	assert.NotEqual(t, bullet.Fingerprint(), ordered.Fingerprint())
}

func TestMergeSpans(t *testing.T) {
	spans := []decisions.Span{
		{Text: "a", Style: decisions.StylePlain},
		{Text: "", Style: decisions.StyleStrong},
		{Text: "b", Style: decisions.StylePlain},
		{Text: "c", Style: decisions.StyleCode},
	}

	merged := decisions.MergeSpans(spans)
	require.Len(t, merged, 2)
	assert.Equal(t, decisions.Span{Text: "ab", Style: decisions.StylePlain}, merged[0])
	assert.Equal(t, decisions.Span{Text: "c", Style: decisions.StyleCode}, merged[1])
}

func TestSetRejectsDuplicateTitles(t *testing.T) {
	set := decisions.NewSet()
	require.NoError(t, set.Add(decisions.Decision{Title: "Adopt X"}))
	require.NoError(t, set.Add(decisions.Decision{Title: "Adopt Y"}))

	err := set.Add(decisions.Decision{Title: "Adopt X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Adopt X")
	assert.Equal(t, 2, set.Len())
}

func TestSetRejectsEmptyTitle(t *testing.T) {
	set := decisions.NewSet()
	require.Error(t, set.Add(decisions.Decision{Title: "   "}))
}

func TestSetPreservesOrder(t *testing.T) {
	set := decisions.NewSet()
	for _, title := range []string{"C", "A", "B"} {
		require.NoError(t, set.Add(decisions.Decision{Title: title}))
	}

	var got []string
	for _, d := range set.List() {
		got = append(got, d.Title)
	}
	assert.Equal(t, []string{"C", "A", "B"}, got)

	d, ok := set.Get("A")
	require.True(t, ok)
	assert.Equal(t, "A", d.Title)
}
