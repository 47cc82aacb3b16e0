package worldmap

import (
	"strings"
	"testing"
)

func TestLayout_Validate(t *testing.T) {
	tests := map[string]struct {
		layout  Layout
		expErrs []string
	}{
		"valid": {
			layout: Layout{Name: "meadow", Rows: []string{"..", "T."}, Spawn: Coord{0, 0}},
		},
		"missing name": {
			layout:  Layout{Rows: []string{".."}},
			expErrs: []string{"name is required"},
		},
		"missing rows": {
			layout:  Layout{Name: "empty"},
			expErrs: []string{"rows are required"},
		},
		"bad spawn": {
			layout:  Layout{Name: "lake", Rows: []string{"~~"}, Spawn: Coord{0, 0}},
			expErrs: []string{"impassable water"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.layout.Validate()
			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected errors %v, got nil", tt.expErrs)
			}
			for _, exp := range tt.expErrs {
				if !strings.Contains(err.Error(), exp) {
					t.Errorf("error %q does not contain %q", err.Error(), exp)
				}
			}
		})
	}
}
