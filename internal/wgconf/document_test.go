package wgconf

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestRenderNormalizesWhitespace(t *testing.T) {
	messy := "\n\n[Interface]\nPrivateKey = X\n\n\n\n[Peer]\n\nPublicKey = AAA\nAllowedIPs = 10.0.0.2/32\n\n\n"
	want := "[Interface]\nPrivateKey = X\n\n[Peer]\nPublicKey = AAA\nAllowedIPs = 10.0.0.2/32\n"

	got := mustParse(t, messy).Render()
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	inputs := []string{
		sampleConf,
		"\n\n[Interface]\nPrivateKey = X\n\n\n[Peer]\nPublicKey = AAA\n\n\n",
		"# preamble comment\n\n\n[Interface]\nPrivateKey = X\n",
		"",
	}
	for _, text := range inputs {
		once := mustParse(t, text).Render()
		twice := mustParse(t, once).Render()
		if once != twice {
			t.Errorf("normalize not idempotent for %q:\nonce:  %q\ntwice: %q", text, once, twice)
		}
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	doc := mustParse(t, "\n[Interface]\nPrivateKey = X\n\n\n[Peer]\n\nPublicKey = AAA\n# note\nAllowedIPs = 10.0.0.2/32\n")
	normalized := mustParse(t, doc.Render())

	reparsed := mustParse(t, normalized.Render())
	if diff := cmp.Diff(normalized, reparsed); diff != "" {
		t.Errorf("round trip mismatch (-normalized +reparsed):\n%s", diff)
	}
}

func TestRenderKeepsSectionLinesVerbatim(t *testing.T) {
	// Whatever formatting a peer block arrived with survives normalization,
	// apart from blank lines.
	text := "[Peer]\nPublicKey=AAA\n   AllowedIPs   =  10.0.0.2/32\n# trailing note\n"
	got := mustParse(t, text).Render()
	want := "[Peer]\nPublicKey=AAA\n   AllowedIPs   =  10.0.0.2/32\n# trailing note\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderPreambleSeparatedFromSections(t *testing.T) {
	got := mustParse(t, "# header comment\n[Interface]\nPrivateKey = X\n").Render()
	want := "# header comment\n\n[Interface]\nPrivateKey = X\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderHasNoLeadingOrTrailingBlankLines(t *testing.T) {
	got := mustParse(t, "\n\n\n[Interface]\nPrivateKey = X\n\n\n\n").Render()
	if strings.HasPrefix(got, "\n") {
		t.Errorf("rendered output starts with a blank line: %q", got)
	}
	if strings.HasSuffix(got, "\n\n") {
		t.Errorf("rendered output ends with a blank run: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("rendered output missing trailing newline: %q", got)
	}
}

func TestValidateRejectsMultipleInterfaceSections(t *testing.T) {
	doc := mustParse(t, "[Interface]\nPrivateKey = X\n\n[Interface]\nPrivateKey = Y\n")
	if err := doc.Validate(); err == nil {
		t.Fatal("expected error for two [Interface] sections")
	}

	doc = mustParse(t, sampleConf)
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
