package address_test

import (
	"testing"

	"github.com/emqx/neuron-sub004/address"
)

func TestParseNoSuffix(t *testing.T) {
	o, err := address.Parse("1!400001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Kind != address.KindNone {
		t.Fatalf("expected KindNone, got %v", o.Kind)
	}
}

func TestRoundTripTable(t *testing.T) {
	cases := []string{
		".10H",
		".10L",
		".4D",
		".1E",
		"#B",
		"#L",
		"#BB",
		"#BL",
		"#LL",
		"#LB",
		".7", // bool bit offset
	}

	for _, suffix := range cases {
		marker := string(suffix[0])
		addr := "1!400001" + suffix
		o, err := address.Parse(addr)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", addr, err)
		}
		if o.Kind == address.KindNone {
			t.Fatalf("Parse(%q): expected a recognized kind", addr)
		}
		got := o.Render()
		if got != suffix {
			t.Fatalf("round-trip mismatch for %q: got %q", addr, got)
		}
		_ = marker
	}
}

func TestParseRejectsZeroLengthString(t *testing.T) {
	if _, err := address.Parse("1!4.0H"); err == nil {
		t.Fatalf("expected error for zero-length string sub-type")
	}
}

func TestParseRejectsUnknownHashSuffix(t *testing.T) {
	if _, err := address.Parse("1!4#ZZ"); err == nil {
		t.Fatalf("expected error for unknown '#' suffix")
	}
}

func TestDefaults(t *testing.T) {
	o, err := address.Parse("1!4#L")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Endian16 != address.Endian16Little {
		t.Fatalf("expected little endian default")
	}
}
