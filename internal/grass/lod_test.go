package grass

import "testing"

func TestSelectLOD(t *testing.T) {
	const near, far = 40, 90

	tests := []struct {
		name string
		dist float32
		want LOD
	}{
		{"zero distance", 0, LODHigh},
		{"inside near", 35, LODHigh},
		{"just under near", 39.999, LODHigh},
		{"exactly near", 40, LODLow},
		{"between thresholds", 65, LODLow},
		{"just under far", 89.999, LODLow},
		{"exactly far", 90, LODUltraLow},
		{"beyond far", 500, LODUltraLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectLOD(tt.dist, near, far)
			if got != tt.want {
				t.Errorf("SelectLOD(%v, %v, %v) = %v, want %v", tt.dist, near, far, got, tt.want)
			}
			// Selection is pure; a second call must agree.
			if again := SelectLOD(tt.dist, near, far); again != got {
				t.Errorf("SelectLOD not deterministic: %v then %v", got, again)
			}
		})
	}
}

func TestLODString(t *testing.T) {
	tests := []struct {
		lod  LOD
		want string
	}{
		{LODHigh, "high"},
		{LODLow, "low"},
		{LODUltraLow, "ultra-low"},
		{LOD(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.lod.String(); got != tt.want {
			t.Errorf("LOD(%d).String() = %q, want %q", int(tt.lod), got, tt.want)
		}
	}
}
