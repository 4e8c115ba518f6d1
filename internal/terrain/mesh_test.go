package terrain

import "testing"

func TestBuildMeshShape(t *testing.T) {
	f := NewHeightField(testWorld())
	const res = 16
	mesh := BuildMesh(f, 160, res)

	if got, want := len(mesh.Vertices), res*res; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	if got, want := len(mesh.Indices), (res-1)*(res-1)*6; got != want {
		t.Errorf("index count = %d, want %d", got, want)
	}

	for i, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Vertices) {
			t.Fatalf("index[%d] = %d out of range (%d vertices)", i, idx, len(mesh.Vertices))
		}
	}
}

func TestBuildMeshBounds(t *testing.T) {
	f := NewHeightField(testWorld())
	mesh := BuildMesh(f, 160, 32)

	if mesh.Bounds.Min[0] > -79 || mesh.Bounds.Max[0] < 79 {
		t.Errorf("X bounds %v..%v do not span the world", mesh.Bounds.Min[0], mesh.Bounds.Max[0])
	}
	if mesh.Bounds.Min[1] < 0 {
		t.Errorf("min height %v below zero", mesh.Bounds.Min[1])
	}
	if mesh.Bounds.Max[1] > f.MaxHeight() {
		t.Errorf("max height %v above field maximum %v", mesh.Bounds.Max[1], f.MaxHeight())
	}
}

func TestBuildMeshMinResolution(t *testing.T) {
	f := NewHeightField(testWorld())
	mesh := BuildMesh(f, 160, 1) // Clamped to 2
	if len(mesh.Vertices) != 4 {
		t.Errorf("resolution 1 should clamp to a 2x2 grid, got %d vertices", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 6 {
		t.Errorf("2x2 grid should produce 6 indices, got %d", len(mesh.Indices))
	}
}

func TestRampColorBands(t *testing.T) {
	tests := []struct {
		name      string
		relHeight float32
		slope     float32
	}{
		{"beach", 0.02, 0},
		{"meadow", 0.3, 0},
		{"rock", 0.7, 0},
		{"summit", 0.95, 0},
		{"cliff face", 0.3, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := rampColor(tt.relHeight, tt.slope)
			for i, ch := range c {
				if ch < 0 || ch > 1 {
					t.Errorf("channel %d = %v, outside [0, 1]", i, ch)
				}
			}
		})
	}

	// A steep face at meadow height should be gray, not green.
	flat := rampColor(0.3, 0)
	steep := rampColor(0.3, 0.9)
	if steep[1] >= flat[1] {
		t.Errorf("steep slope should reduce green: flat=%v steep=%v", flat[1], steep[1])
	}
}
