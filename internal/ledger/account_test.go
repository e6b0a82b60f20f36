package ledger

import (
	"testing"

	"github.com/hbarlink/internal/constants"
)

func TestIsAccountID(t *testing.T) {
	cases := map[string]bool{
		"0.0.1234":   true,
		"1.2.3":      true,
		"abc":        false,
		"0.0":        false,
		"0.0.1.2":    false,
		"0.0.-1":     false,
		" 0.0.1":     false,
		"0.0.1-abcd": false,
		"":           false,
	}
	for raw, want := range cases {
		if got := IsAccountID(raw); got != want {
			t.Fatalf("IsAccountID(%q) want %v got %v", raw, want, got)
		}
	}
}

func TestParseAccountIDTrims(t *testing.T) {
	id, err := ParseAccountID(" 0.0.1001 ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if id.String() != "0.0.1001" {
		t.Fatalf("want 0.0.1001 got %s", id.String())
	}
	if _, err := ParseAccountID("0.0.1.2"); err != ErrInvalidAccountID {
		t.Fatalf("want ErrInvalidAccountID got %v", err)
	}
}

func TestNormalizeNetwork(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: constants.LedgerNetworkTestnet},
		{raw: "MAINNET", want: constants.LedgerNetworkMainnet},
		{raw: " previewnet ", want: constants.LedgerNetworkPreviewnet},
		{raw: "devnet", wantErr: true},
	}
	for _, tc := range cases {
		got, err := NormalizeNetwork(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("network %q should fail", tc.raw)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("network %q want %s got %s err=%v", tc.raw, tc.want, got, err)
		}
	}
}

func TestDecodeTransaction(t *testing.T) {
	raw, err := DecodeTransaction(EncodeTransaction([]byte{1, 2, 3}))
	if err != nil || len(raw) != 3 {
		t.Fatalf("decode failed: %v", err)
	}
	if _, err := DecodeTransaction("%%%"); err == nil {
		t.Fatalf("invalid base64 should fail")
	}
	if _, err := DecodeTransaction(""); err == nil {
		t.Fatalf("empty payload should fail")
	}
}
