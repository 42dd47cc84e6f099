package wgconf

import "fmt"

// AddPeer appends a peer section to the document. Adding an identity that is
// already present is rejected with ErrDuplicatePeer; add is not an upsert.
func (d *Document) AddPeer(s Section) error {
	if s.Kind != KindPeer {
		return fmt.Errorf("%w: cannot add a [%s] section as a peer", ErrMalformed, s.Kind)
	}
	identity := s.Identity()
	if identity == "" {
		return fmt.Errorf("%w: peer section has no PublicKey line", ErrMalformed)
	}
	if len(d.FindPeers(identity)) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePeer, identity)
	}
	d.Sections = append(d.Sections, s)
	return nil
}

// RemovePeer deletes every peer section whose identity equals target and
// returns how many were removed. Zero matches is not an error: the desired
// end state already holds. More than one match means the document carried a
// duplicate identity; removing all of them restores the invariant.
// The [Interface] section is never touched.
func (d *Document) RemovePeer(target string) int {
	matches := d.FindPeers(target)
	if len(matches) == 0 {
		return 0
	}

	kept := d.Sections[:0]
	next := 0
	for i := range d.Sections {
		if next < len(matches) && matches[next] == i {
			next++
			continue
		}
		kept = append(kept, d.Sections[i])
	}
	d.Sections = kept
	return len(matches)
}
