package frameseq_test

import (
	"errors"
	"testing"

	"seqindex/internal/frameseq"
)

func TestEncodePadsToWidth(t *testing.T) {
	got, err := frameseq.Encode(frameseq.Notation{Stem: "shot_", Ext: ".dpx", First: 7, Last: 8, Width: 4})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "shot_[0007-0008].dpx" {
		t.Fatalf("Encode = %q", got)
	}

	n, err := frameseq.Decode(got)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n.Width != 4 || n.First != 7 || n.Last != 8 {
		t.Fatalf("Decode lost padding: %+v", n)
	}
}

func TestEncodeWidthOverflow(t *testing.T) {
	_, err := frameseq.Encode(frameseq.Notation{Stem: "s", Ext: ".dpx", First: 998, Last: 1000, Width: 3})
	if !errors.Is(err, frameseq.ErrWidthOverflow) {
		t.Fatalf("expected width overflow, got %v", err)
	}

	_, err = frameseq.Encode(frameseq.Notation{Stem: "s", Ext: ".dpx", First: 8, Last: 11, Width: 0})
	if !errors.Is(err, frameseq.ErrWidthOverflow) {
		t.Fatalf("expected unpadded fields of unequal width to fail, got %v", err)
	}
}

func TestEncodeRejectsBrackets(t *testing.T) {
	cases := map[string]frameseq.Notation{
		"stem open": {Stem: "shot[v2]_", Ext: ".dpx", First: 1, Last: 2, Width: 4},
		"ext open":  {Stem: "s_", Ext: ".d[px", First: 1, Last: 2, Width: 4},
		"ext close": {Stem: "s_", Ext: ".dp]x", First: 1, Last: 2, Width: 4},
	}
	for name, n := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := frameseq.Encode(n)
			if !errors.Is(err, frameseq.ErrNotation) {
				t.Fatalf("Encode(%+v) error = %v, want notation error", n, err)
			}
		})
	}

	got, err := frameseq.Encode(frameseq.Notation{Stem: "take]_", Ext: ".dpx", First: 1, Last: 2, Width: 2})
	if err != nil {
		t.Fatalf("Encode with ']' in stem: %v", err)
	}
	if _, err := frameseq.Decode(got); err != nil {
		t.Fatalf("Decode(%q): %v", got, err)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	inputs := []string{
		"shot2_[0547832-0547900].dpx",
		"shot_[1-3].dpx",
		"plate.v002.[1001-1100].exr",
		"[0000-0009].tif",
		"odd]stem_[10-20].cin",
		"100%_[001-002].ari",
	}
	for _, in := range inputs {
		n, err := frameseq.Decode(in)
		if err != nil {
			t.Fatalf("Decode(%q): %v", in, err)
		}
		out, err := frameseq.Encode(n)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", n, err)
		}
		if out != in {
			t.Fatalf("round trip mismatch: %q -> %q", in, out)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	inputs := map[string]string{
		"missing open":      "shot_0001-0002].dpx",
		"missing close":     "shot_[0001-0002.dpx",
		"extra open":        "shot_[[0001-0002].dpx",
		"extra in ext":      "shot_[0001-0002].d[px",
		"no dash":           "shot_[00010002].dpx",
		"empty first":       "shot_[-0002].dpx",
		"empty last":        "shot_[0001-].dpx",
		"non digit":         "shot_[00a1-0002].dpx",
		"second dash":       "shot_[0001-0002-0003].dpx",
		"unequal width":     "shot_[001-0002].dpx",
		"first after last":  "shot_[0009-0002].dpx",
		"missing extension": "shot_[0001-0002]",
		"extension no dot":  "shot_[0001-0002]dpx",
		"bare dot":          "shot_[0001-0002].",
		"huge":              "s[99999999999999999999-99999999999999999999].dpx",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := frameseq.Decode(in)
			if !errors.Is(err, frameseq.ErrNotation) {
				t.Fatalf("Decode(%q) error = %v, want notation error", in, err)
			}
			var ne *frameseq.NotationError
			if !errors.As(err, &ne) || ne.ErrorKind() != frameseq.KindNotationParse {
				t.Fatalf("expected *NotationError, got %T", err)
			}
		})
	}
}

func TestDecodeAllowsSingleFrameRange(t *testing.T) {
	n, err := frameseq.Decode("s_[05-05].dpx")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n.First != 5 || n.Last != 5 || n.Width != 2 {
		t.Fatalf("unexpected notation: %+v", n)
	}
}
