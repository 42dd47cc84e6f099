package wgconf

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddPeerAppends(t *testing.T) {
	doc := mustParse(t, "[Interface]\nPrivateKey = X\n")

	section, err := ParsePeerBlock("[Peer]\nPublicKey = CCC\nAllowedIPs = 10.0.0.4/32\n")
	if err != nil {
		t.Fatalf("ParsePeerBlock: %v", err)
	}
	if err := doc.AddPeer(section); err != nil {
		t.Fatalf("AddPeer: %v", err)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Kind != KindInterface || doc.Sections[1].Kind != KindPeer {
		t.Errorf("section order = %s, %s; want Interface, Peer", doc.Sections[0].Kind, doc.Sections[1].Kind)
	}
	if got := doc.Sections[1].Identity(); got != "CCC" {
		t.Errorf("added identity = %q, want %q", got, "CCC")
	}
}

func TestAddPeerRejectsDuplicate(t *testing.T) {
	doc := mustParse(t, sampleConf)

	section, err := ParsePeerBlock("[Peer]\nPublicKey = AAA\nAllowedIPs = 10.0.0.9/32\n")
	if err != nil {
		t.Fatalf("ParsePeerBlock: %v", err)
	}
	if err := doc.AddPeer(section); !errors.Is(err, ErrDuplicatePeer) {
		t.Fatalf("AddPeer(duplicate) = %v, want ErrDuplicatePeer", err)
	}

	// The rejected add must not have changed the document.
	if diff := cmp.Diff([]string{"AAA", "BBB"}, doc.PeerIdentities()); diff != "" {
		t.Errorf("peer identities changed after rejected add (-want +got):\n%s", diff)
	}
}

func TestRemovePeerMiddle(t *testing.T) {
	doc := mustParse(t, "[Interface]\nPrivateKey = X\n\n[Peer]\nPublicKey = AAA\n\n[Peer]\nPublicKey = BBB\n\n[Peer]\nPublicKey = CCC\n")

	if removed := doc.RemovePeer("BBB"); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if diff := cmp.Diff([]string{"AAA", "CCC"}, doc.PeerIdentities()); diff != "" {
		t.Errorf("peer identities mismatch (-want +got):\n%s", diff)
	}
	if doc.Sections[0].Kind != KindInterface {
		t.Errorf("interface section no longer first")
	}
}

func TestRemovePeerIsIdempotent(t *testing.T) {
	doc := mustParse(t, sampleConf)

	if removed := doc.RemovePeer("AAA"); removed != 1 {
		t.Fatalf("first remove = %d, want 1", removed)
	}
	if removed := doc.RemovePeer("AAA"); removed != 0 {
		t.Fatalf("second remove = %d, want 0", removed)
	}
	if diff := cmp.Diff([]string{"BBB"}, doc.PeerIdentities()); diff != "" {
		t.Errorf("peer identities mismatch (-want +got):\n%s", diff)
	}
}

func TestRemovePeerNoMatchLeavesDocumentAlone(t *testing.T) {
	doc := mustParse(t, sampleConf)
	before := doc.Render()

	if removed := doc.RemovePeer("ZZZ"); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if after := doc.Render(); after != before {
		t.Errorf("document changed by no-op remove:\nbefore: %q\nafter:  %q", before, after)
	}
}

func TestRemovePeerHealsDuplicateIdentity(t *testing.T) {
	// Pre-existing corruption: the same key appears in two sections, with
	// another peer between them. Remove must take both in one pass.
	doc := mustParse(t, "[Interface]\nPrivateKey = X\n\n[Peer]\nPublicKey = AAA\n\n[Peer]\nPublicKey = BBB\n\n[Peer]\nPublicKey = AAA\n")

	if removed := doc.RemovePeer("AAA"); removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if diff := cmp.Diff([]string{"BBB"}, doc.PeerIdentities()); diff != "" {
		t.Errorf("peer identities mismatch (-want +got):\n%s", diff)
	}
}

func TestAddThenRemoveIsNoOpOnPeerSet(t *testing.T) {
	doc := mustParse(t, sampleConf)
	before := doc.PeerIdentities()

	section, err := ParsePeerBlock("[Peer]\nPublicKey = KKK\nAllowedIPs = 10.0.0.7/32\n")
	if err != nil {
		t.Fatalf("ParsePeerBlock: %v", err)
	}
	if err := doc.AddPeer(section); err != nil {
		t.Fatalf("AddPeer: %v", err)
	}
	if removed := doc.RemovePeer("KKK"); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	if diff := cmp.Diff(before, doc.PeerIdentities()); diff != "" {
		t.Errorf("peer set changed by add+remove (-before +after):\n%s", diff)
	}
}

func TestAddPeerRejectsNonPeerSection(t *testing.T) {
	doc := mustParse(t, "[Interface]\nPrivateKey = X\n")
	err := doc.AddPeer(Section{Kind: KindInterface, Lines: []string{"PrivateKey = Y"}})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}
