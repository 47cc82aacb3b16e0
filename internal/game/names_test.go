package game

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestNormalizeName(t *testing.T) {
	tests := map[string]struct {
		raw     string
		exp     string
		wantErr bool
	}{
		"plain":            {raw: "Ash", exp: "Ash"},
		"trimmed":          {raw: "  Ash\t", exp: "Ash"},
		"hyphen":           {raw: "Mary-Ann", exp: "Mary-Ann"},
		"digits":           {raw: "Ash2", exp: "Ash2"},
		"accented":         {raw: "Åsa", exp: "Åsa"},
		"composed to nfc":  {raw: "A\u030asa", exp: "\u00c5sa"},
		"empty":            {raw: "", wantErr: true},
		"one rune":         {raw: "Å", wantErr: true},
		"space inside":     {raw: "Ash Bo", wantErr: true},
		"starts with dash": {raw: "-Ash", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NormalizeName(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) {
					t.Fatalf("NormalizeName(%q) error = %v, want ErrInvalidName", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeName(%q) unexpected error: %v", tt.raw, err)
			}
			testutil.AssertEqual(t, "name", got, tt.exp)
		})
	}
}

func TestNameKeyFoldsCase(t *testing.T) {
	testutil.AssertEqual(t, "ascii", nameKey("ASH"), nameKey("ash"))
	testutil.AssertEqual(t, "unicode", nameKey("ÅSA"), nameKey("åsa"))
}
