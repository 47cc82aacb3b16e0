package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-survive/internal/worldmap"
)

func meadow() *worldmap.Layout {
	return &worldmap.Layout{
		Name:  "Meadow",
		Rows:  []string{"..~", ".T.", ":::"},
		Spawn: worldmap.Coord{X: 1, Y: 1},
	}
}

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		asset   Asset[*worldmap.Layout]
		expErrs []string
	}{
		"valid layout": {
			asset: Asset[*worldmap.Layout]{Version: 1, Identifier: "meadow", Spec: meadow()},
		},
		"version not set": {
			asset:   Asset[*worldmap.Layout]{Identifier: "meadow", Spec: meadow()},
			expErrs: []string{"version must be set"},
		},
		"id not set": {
			asset:   Asset[*worldmap.Layout]{Version: 1, Spec: meadow()},
			expErrs: []string{"id must be set"},
		},
		"id with spaces": {
			asset:   Asset[*worldmap.Layout]{Version: 1, Identifier: "big meadow", Spec: meadow()},
			expErrs: []string{"id must be alphanumeric"},
		},
		"spec missing": {
			asset:   Asset[*worldmap.Layout]{Version: 1, Identifier: "meadow"},
			expErrs: []string{"spec must be set"},
		},
		"layout without rows": {
			asset:   Asset[*worldmap.Layout]{Version: 1, Identifier: "meadow", Spec: &worldmap.Layout{Name: "Empty"}},
			expErrs: []string{"rows are required"},
		},
		"everything wrong": {
			asset: Asset[*worldmap.Layout]{Identifier: "a_b", Spec: &worldmap.Layout{}},
			expErrs: []string{
				"version must be set",
				"id must be alphanumeric",
				"name is required",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected errors %v, got nil", tt.expErrs)
			}
			for _, e := range tt.expErrs {
				if !strings.Contains(err.Error(), e) {
					t.Errorf("error %q does not contain %q", err, e)
				}
			}
		})
	}
}

func TestAsset_Unmarshal(t *testing.T) {
	var a Asset[*worldmap.Layout]
	if err := json.Unmarshal([]byte(meadowAsset), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "id", a.Id(), Identifier("meadow"))
	testutil.AssertEqual(t, "version", a.Version, uint(1))
	testutil.AssertEqual(t, "rows", len(a.Spec.Rows), 3)
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
