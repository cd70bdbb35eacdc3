package aspen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func indicesEqual(t *testing.T, got, want []uint16) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}
}

func TestExpandTriangleListPassthrough(t *testing.T) {
	in := []uint16{0, 1, 2, 0, 2, 3}
	out, err := expandTriangles(TopologyTriangleList, in)
	if err != nil {
		t.Fatal(err)
	}
	indicesEqual(t, out, in)

	if _, err := expandTriangles(TopologyTriangleList, []uint16{0, 1}); err == nil {
		t.Error("expected error for a partial triangle")
	}
}

func TestExpandTriangleFan(t *testing.T) {
	out, err := expandTriangles(TopologyTriangleFan, []uint16{0, 1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	indicesEqual(t, out, []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4})

	if _, err := expandTriangles(TopologyTriangleFan, []uint16{0, 1}); err == nil {
		t.Error("expected error for a fan with fewer than 3 indices")
	}
}

func TestExpandTriangleStrip(t *testing.T) {
	out, err := expandTriangles(TopologyTriangleStrip, []uint16{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	// Every other triangle swaps its leading pair to keep the winding.
	indicesEqual(t, out, []uint16{0, 1, 2, 2, 1, 3})
}

func TestExpandTriangleStripWithRestart(t *testing.T) {
	in := []uint16{0, 1, 2, PrimitiveRestartIndex, 3, 4, 5}
	out, err := expandTriangles(TopologyTriangleStrip, in)
	if err != nil {
		t.Fatal(err)
	}
	indicesEqual(t, out, []uint16{0, 1, 2, 3, 4, 5})

	// A run too short to form a triangle contributes nothing.
	in = []uint16{0, 1, PrimitiveRestartIndex, 2, 3, 4}
	out, err = expandTriangles(TopologyTriangleStrip, in)
	if err != nil {
		t.Fatal(err)
	}
	indicesEqual(t, out, []uint16{2, 3, 4})
}

func TestExpandNonTriangleTopologies(t *testing.T) {
	for _, topo := range []Topology{TopologyPointList, TopologyLineList} {
		out, err := expandTriangles(topo, []uint16{0, 1, 2, 3})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 0 {
			t.Errorf("%v produced triangles %v", topo, out)
		}
	}
}

func TestEdgeListLineList(t *testing.T) {
	edges := edgeList(TopologyLineList, []uint16{0, 1, 2, 3}, nil)
	if len(edges) != 2 {
		t.Fatalf("edges = %v, want 2 segments", edges)
	}
	if edges[0] != [2]uint16{0, 1} || edges[1] != [2]uint16{2, 3} {
		t.Errorf("edges = %v", edges)
	}
}

func TestEdgeListTriangleEdges(t *testing.T) {
	edges := edgeList(TopologyTriangleList, nil, []uint16{0, 1, 2})
	want := [][2]uint16{{0, 1}, {1, 2}, {2, 0}}
	if len(edges) != len(want) {
		t.Fatalf("edges = %v, want %v", edges, want)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Fatalf("edges = %v, want %v", edges, want)
		}
	}
}

func TestClampAndColor(t *testing.T) {
	if clamp01(-0.5) != 0 || clamp01(1.5) != 1 || clamp01(0.25) != 0.25 {
		t.Error("clamp01 out of spec")
	}
	c := toRGBA(mgl64.Vec3{1, 0, 2})
	if c.R != 255 || c.G != 0 || c.B != 255 || c.A != 255 {
		t.Errorf("color = %+v", c)
	}
}
