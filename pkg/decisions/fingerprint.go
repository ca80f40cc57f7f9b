package decisions

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// contentDomainKey is the 32-byte key for BLAKE3 keyed hashing of
// decision content. The value is the ASCII encoding of the domain
// name, zero-padded to 32 bytes, so it stays readable in hex dumps.
// Changing it invalidates every fingerprint recovered from a page.
var contentDomainKey = [32]byte{
	'd', 'e', 'c', 'i', 's', 'i', 'o', 'n', 's', 'y', 'n', 'c', '.',
	'c', 'o', 'n', 't', 'e', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Fingerprint computes the content fingerprint of the decision: a hex
// encoded BLAKE3 keyed hash over a canonical encoding of the
// participant list and body. The title is deliberately excluded: it
// is the matching key, not content to compare. The fingerprint is a
// pure function of (participants, body) and is recomputed on every
// call, never cached.
func (d *Decision) Fingerprint() string {
	hasher, err := blake3.NewKeyed(contentDomainKey[:])
	if err != nil {
		// NewKeyed fails only on wrong key length, which the fixed-size
		// array rules out.
		panic("decisions: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	var scratch [binary.MaxVarintLen64]byte
	writeUvarint := func(v uint64) {
		n := binary.PutUvarint(scratch[:], v)
		hasher.Write(scratch[:n])
	}
	writeString := func(s string) {
		writeUvarint(uint64(len(s)))
		hasher.Write([]byte(s))
	}
	writeSpans := func(spans []Span) {
		spans = MergeSpans(spans)
		writeUvarint(uint64(len(spans)))
		for _, span := range spans {
			writeString(string(span.Style))
			writeString(span.Text)
		}
	}

	writeUvarint(uint64(len(d.Participants)))
	for _, participant := range d.Participants {
		writeString(participant)
	}

	writeUvarint(uint64(len(d.Body)))
	for _, block := range d.Body {
		writeString(string(block.Kind))
		switch block.Kind {
		case BlockParagraph:
			writeSpans(block.Spans)
		case BlockBulletList, BlockOrderedList:
			writeUvarint(uint64(len(block.Items)))
			for _, item := range block.Items {
				writeSpans(item)
			}
		}
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

// ContentEqual reports whether two decisions carry identical content,
// i.e. their fingerprints match. Titles are not compared.
func ContentEqual(a, b *Decision) bool {
	return a.Fingerprint() == b.Fingerprint()
}
