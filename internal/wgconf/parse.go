package wgconf

import (
	"fmt"
	"strings"
)

// Parse turns the full text of a configuration file into a Document.
// Section headers open a new section; every following non-header line belongs
// to the most recently opened section. Lines before the first header become
// the document preamble. Blank lines are preserved on the section they were
// read in, never attributed across a boundary.
//
// Parse fails only when the input cannot be tokenized as text at all; a
// document with zero peer sections is valid.
func Parse(text string) (*Document, error) {
	if strings.ContainsRune(text, 0) {
		return nil, fmt.Errorf("%w: input contains NUL bytes", ErrMalformed)
	}

	doc := &Document{}
	lines := strings.Split(text, "\n")
	// A trailing newline yields one empty trailing element; drop it so it is
	// not mistaken for a blank body line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	current := -1
	for _, line := range lines {
		if kind, ok := sectionHeader(line); ok {
			doc.Sections = append(doc.Sections, Section{Kind: kind})
			current = len(doc.Sections) - 1
			continue
		}
		if current < 0 {
			doc.Preamble = append(doc.Preamble, line)
			continue
		}
		doc.Sections[current].Lines = append(doc.Sections[current].Lines, line)
	}

	return doc, nil
}

// sectionHeader reports whether a line opens a new section and which kind.
// Only [Interface] and [Peer] are headers; any other bracketed line is an
// ordinary body line.
func sectionHeader(line string) (Kind, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.EqualFold(trimmed, "[Interface]"):
		return KindInterface, true
	case strings.EqualFold(trimmed, "[Peer]"):
		return KindPeer, true
	}
	return 0, false
}

// ParsePeerBlock parses a caller-supplied blob as exactly one standalone
// [Peer] section. The blob may carry leading or trailing blank lines but no
// other content outside the section, and the section must contain a
// PublicKey line so the document's identity invariant stays enforceable.
func ParsePeerBlock(text string) (Section, error) {
	doc, err := Parse(text)
	if err != nil {
		return Section{}, err
	}

	for _, line := range doc.Preamble {
		if strings.TrimSpace(line) != "" {
			return Section{}, fmt.Errorf("%w: peer block has content before the [Peer] header", ErrMalformed)
		}
	}
	if len(doc.Sections) != 1 {
		return Section{}, fmt.Errorf("%w: peer block must contain exactly one section, got %d", ErrMalformed, len(doc.Sections))
	}
	section := doc.Sections[0]
	if section.Kind != KindPeer {
		return Section{}, fmt.Errorf("%w: peer block section is [%s], want [Peer]", ErrMalformed, section.Kind)
	}
	if section.Identity() == "" {
		return Section{}, fmt.Errorf("%w: peer block has no PublicKey line", ErrMalformed)
	}
	return section, nil
}
