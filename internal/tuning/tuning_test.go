package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestLoad(t *testing.T) {
	tests := map[string]struct {
		yaml   string
		check  func(t *testing.T, tu Tuning)
		expErr string
	}{
		"partial file keeps defaults": {
			yaml: "needs:\n  hunger_decay: 2\n",
			check: func(t *testing.T, tu Tuning) {
				testutil.AssertEqual(t, "hunger decay", tu.Needs.HungerDecay, 2.0)
				testutil.AssertEqual(t, "thirst decay", tu.Needs.ThirstDecay, Default().Needs.ThirstDecay)
				testutil.AssertEqual(t, "map radius", tu.Vision.MapRadius, Default().Vision.MapRadius)
			},
		},
		"vision override": {
			yaml: "vision:\n  map_radius: 4\n  max_map_radius: 6\n",
			check: func(t *testing.T, tu Tuning) {
				testutil.AssertEqual(t, "map radius", tu.Vision.MapRadius, 4)
				testutil.AssertEqual(t, "max map radius", tu.Vision.MaxMapRadius, 6)
			},
		},
		"invalid yaml": {
			yaml:   "needs: [",
			expErr: "parsing tuning",
		},
		"negative decay": {
			yaml:   "needs:\n  hunger_decay: -1\n",
			expErr: "needs decay must not be negative",
		},
		"sleep settings": {
			yaml: "needs:\n  sleep_restore: 10\n  sleep_below: 50\nclock:\n  tick_seconds: 60\n",
			check: func(t *testing.T, tu Tuning) {
				testutil.AssertEqual(t, "sleep restore", tu.Needs.SleepRestore, 10.0)
				testutil.AssertEqual(t, "sleep below", tu.Needs.SleepBelow, 50.0)
				testutil.AssertEqual(t, "energy decay", tu.Needs.EnergyDecay, Default().Needs.EnergyDecay)
				testutil.AssertEqual(t, "tick seconds", tu.Clock.TickSeconds, 60)
			},
		},
		"sleep threshold out of range": {
			yaml:   "needs:\n  sleep_below: 120\n",
			expErr: "sleep_below must be between 0 and 100",
		},
		"zero tick seconds": {
			yaml:   "clock:\n  tick_seconds: 0\n",
			expErr: "clock tick_seconds must be positive",
		},
		"map radius above max": {
			yaml:   "vision:\n  map_radius: 9\n  max_map_radius: 2\n",
			expErr: "max_map_radius must be at least map_radius",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tuning.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("writing tuning file: %v", err)
			}

			got, err := Load(path)
			if tt.expErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.expErr)
				}
				if !strings.Contains(err.Error(), tt.expErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.expErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault_Valid(t *testing.T) {
	d := Default()
	if err := d.Validate(); err != nil {
		t.Errorf("default tuning is invalid: %v", err)
	}
}
