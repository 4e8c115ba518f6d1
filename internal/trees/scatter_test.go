package trees

import (
	"testing"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/pkg/math"
)

// rampSurface rises along +X at a fixed grade.
type rampSurface struct {
	grade float32
	slope float32
}

func (s rampSurface) HeightAt(x, z float32) float32 { return x * s.grade }
func (s rampSurface) Slope(x, z float32) float32    { return s.slope }

func testTreeCfg() config.TreesConfig {
	return config.TreesConfig{
		Enabled:    true,
		Count:      60,
		MinSpacing: 3,
		MaxSlope:   0.3,
		MinHeight:  -100,
		MaxHeight:  100,
	}
}

func TestScatterDeterministic(t *testing.T) {
	cfg := testTreeCfg()
	surf := rampSurface{grade: 0.05, slope: 0.1}

	a := Scatter(42, 160, cfg, surf)
	b := Scatter(42, 160, cfg, surf)
	if len(a) == 0 {
		t.Fatal("scatter placed nothing")
	}
	if len(a) != len(b) {
		t.Fatalf("same seed placed %d then %d trees", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tree %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := Scatter(43, 160, cfg, surf)
	same := len(a) == len(c)
	if same {
		for i := range a {
			if a[i] != c[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatal("different seeds produced an identical scatter")
	}
}

func TestScatterRespectsSpacing(t *testing.T) {
	cfg := testTreeCfg()
	placed := Scatter(7, 160, cfg, rampSurface{grade: 0, slope: 0})

	s2 := cfg.MinSpacing * cfg.MinSpacing
	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			dx := placed[i].Position.X - placed[j].Position.X
			dz := placed[i].Position.Z - placed[j].Position.Z
			if dx*dx+dz*dz < s2 {
				t.Fatalf("trees %d and %d closer than spacing %v", i, j, cfg.MinSpacing)
			}
		}
	}
}

func TestScatterRespectsLimits(t *testing.T) {
	cfg := testTreeCfg()
	cfg.MinHeight = 1
	cfg.MaxHeight = 4
	surf := rampSurface{grade: 0.1, slope: 0.1} // height = x/10: band is x in [10, 40]

	placed := Scatter(11, 160, cfg, surf)
	if len(placed) == 0 {
		t.Fatal("no trees inside the height band")
	}
	for i, tree := range placed {
		if tree.Position.Y < cfg.MinHeight || tree.Position.Y > cfg.MaxHeight {
			t.Fatalf("tree %d height %v outside [%v, %v]", i, tree.Position.Y, cfg.MinHeight, cfg.MaxHeight)
		}
		if tree.Kind < 0 || tree.Kind >= Kinds {
			t.Fatalf("tree %d kind %d out of range", i, tree.Kind)
		}
		if tree.Scale < 0.8 || tree.Scale > 1.3 {
			t.Fatalf("tree %d scale %v out of range", i, tree.Scale)
		}
	}
}

func TestScatterRejectsSteepGround(t *testing.T) {
	cfg := testTreeCfg()
	placed := Scatter(5, 160, cfg, rampSurface{grade: 0, slope: 0.9})
	if len(placed) != 0 {
		t.Fatalf("placed %d trees on ground steeper than the limit", len(placed))
	}
}

func TestScatterDisabled(t *testing.T) {
	cfg := testTreeCfg()
	cfg.Enabled = false
	if placed := Scatter(1, 160, cfg, rampSurface{}); placed != nil {
		t.Fatalf("disabled scatter placed %d trees", len(placed))
	}
}

func TestScatterStaysInsideMargin(t *testing.T) {
	cfg := testTreeCfg()
	placed := Scatter(3, 100, cfg, rampSurface{grade: 0, slope: 0})

	limit := float32(100)/2 - 100*0.08
	for i, tree := range placed {
		if math.Abs(tree.Position.X) > limit || math.Abs(tree.Position.Z) > limit {
			t.Fatalf("tree %d at %v outside the rim margin", i, tree.Position)
		}
	}
}
