// Package wgconf models a WireGuard server configuration file as an ordered
// sequence of sections and implements the peer mutations wgpeerctl performs
// on it. Parsing is line-oriented and lossless for section content; rendering
// always produces the canonical (normalized) form.
package wgconf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed reports input that cannot be modeled as a sectioned
	// configuration document.
	ErrMalformed = errors.New("malformed configuration document")

	// ErrDuplicatePeer reports an add of an identity that is already present.
	ErrDuplicatePeer = errors.New("peer already present")

	// ErrDuplicateIdentity reports a pre-existing document where more than one
	// peer section carries the same public key.
	ErrDuplicateIdentity = errors.New("duplicate peer identity")
)

// Kind distinguishes the two section types a WireGuard config contains.
type Kind int

const (
	KindInterface Kind = iota
	KindPeer
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "Interface"
	case KindPeer:
		return "Peer"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Section is one named block: the header kind plus its raw body lines in
// file order. Blank lines read from disk are kept here so parsing stays
// lossless; Render drops them.
type Section struct {
	Kind  Kind
	Lines []string
}

// Identity returns the value of the section's PublicKey line, or "" if the
// section has none. Key matching is case-insensitive; the value is the
// trimmed remainder after the first "=".
func (s *Section) Identity() string {
	for _, line := range s.Lines {
		if v, ok := keyValue(line, "PublicKey"); ok {
			return v
		}
	}
	return ""
}

// Value returns the trimmed value of the first line whose key matches name.
func (s *Section) Value(name string) string {
	for _, line := range s.Lines {
		if v, ok := keyValue(line, name); ok {
			return v
		}
	}
	return ""
}

// keyValue splits a "Key = value" line and reports whether the key matches
// name (case-insensitive). Comment lines never match.
func keyValue(line, name string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	key, value, found := strings.Cut(trimmed, "=")
	if !found {
		return "", false
	}
	if !strings.EqualFold(strings.TrimSpace(key), name) {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// Document is the parsed configuration: optional preamble lines that appear
// before the first section header, then the sections in file order.
type Document struct {
	Preamble []string
	Sections []Section
}

// FindPeers returns the indexes of every peer section whose identity equals
// target, in document order.
func (d *Document) FindPeers(target string) []int {
	var matches []int
	for i := range d.Sections {
		s := &d.Sections[i]
		if s.Kind == KindPeer && s.Identity() == target {
			matches = append(matches, i)
		}
	}
	return matches
}

// PeerIdentities returns the identity of every peer section in order.
// Sections without a PublicKey line contribute an empty string.
func (d *Document) PeerIdentities() []string {
	var ids []string
	for i := range d.Sections {
		if d.Sections[i].Kind == KindPeer {
			ids = append(ids, d.Sections[i].Identity())
		}
	}
	return ids
}

// Validate checks the structural invariants a document must satisfy before
// it may be mutated or committed: at most one [Interface] section.
func (d *Document) Validate() error {
	interfaces := 0
	for i := range d.Sections {
		if d.Sections[i].Kind == KindInterface {
			interfaces++
		}
	}
	if interfaces > 1 {
		return fmt.Errorf("%w: %d [Interface] sections", ErrMalformed, interfaces)
	}
	return nil
}

// Render produces the canonical text form of the document: preamble first,
// then each section as its header followed by its non-blank body lines,
// sections separated by exactly one blank line, single trailing newline.
// Rendering an already-canonical document reproduces it byte for byte.
func (d *Document) Render() string {
	var b strings.Builder

	wrote := false
	for _, line := range d.Preamble {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
		wrote = true
	}

	for i := range d.Sections {
		if wrote {
			b.WriteString("\n")
		}
		b.WriteString("[")
		b.WriteString(d.Sections[i].Kind.String())
		b.WriteString("]\n")
		for _, line := range d.Sections[i].Lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		wrote = true
	}

	return b.String()
}
