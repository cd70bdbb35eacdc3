package aspen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseMeshTriangleList(t *testing.T) {
	in := `# a quad
n quad
v -0.5 -0.5
v 0.5 -0.5
v 0.5 0.5
v -0.5 0.5
t 0 1 2
t 0 2 3
`
	data, err := ParseMesh(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if data.Name != "quad" {
		t.Errorf("name = %q, want quad", data.Name)
	}
	if data.Topology != TopologyTriangleList {
		t.Errorf("topology = %v, want triangle list", data.Topology)
	}
	if len(data.Positions) != 4 {
		t.Errorf("positions = %d, want 4", len(data.Positions))
	}
	want := []uint16{0, 1, 2, 0, 2, 3}
	if len(data.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", data.Indices, want)
	}
	for i := range want {
		if data.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", data.Indices, want)
		}
	}
	if !approxEqual(data.Positions[2].X(), 0.5) || !approxEqual(data.Positions[2].Y(), 0.5) {
		t.Errorf("position[2] = %v", data.Positions[2])
	}
}

func TestParseMeshFanFirstTripleThenSingles(t *testing.T) {
	in := `v 0 0
v 1 0
v 0 1
v -1 0
f 0 1 2
f 3
f 1
n wheel
`
	data, err := ParseMesh(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if data.Topology != TopologyTriangleFan {
		t.Errorf("topology = %v, want triangle fan", data.Topology)
	}
	want := []uint16{0, 1, 2, 3, 1}
	if len(data.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", data.Indices, want)
	}
	for i := range want {
		if data.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", data.Indices, want)
		}
	}
	if data.Name != "wheel" {
		t.Errorf("name = %q, want wheel (records in any order)", data.Name)
	}
}

func TestParseMeshFanArity(t *testing.T) {
	// First fan record must carry three indices.
	if _, err := ParseMesh(strings.NewReader("v 0 0\nv 1 0\nv 0 1\nf 0\n")); err == nil {
		t.Error("expected error for short first fan record")
	}
	// Later fan records carry exactly one.
	if _, err := ParseMesh(strings.NewReader("v 0 0\nv 1 0\nv 0 1\nf 0 1 2\nf 1 2\n")); err == nil {
		t.Error("expected error for wide later fan record")
	}
}

func TestParseMeshIndexOutOfRange(t *testing.T) {
	_, err := ParseMesh(strings.NewReader("v 0 0\nv 1 0\nt 0 1 7\n"))
	if err == nil {
		t.Fatal("expected out-of-range index error")
	}
}

func TestParseMeshRejectsUnknownRecord(t *testing.T) {
	_, err := ParseMesh(strings.NewReader("v 0 0\nq 1 2 3\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error = %v, want unknown record with line number", err)
	}
}

func TestParseMeshEmpty(t *testing.T) {
	if _, err := ParseMesh(strings.NewReader("# nothing here\n\n")); err == nil {
		t.Error("expected error for a mesh with no vertices")
	}
}

func TestFileMeshSource(t *testing.T) {
	dir := t.TempDir()
	content := "n disk\nv 0 0\nv 1 0\nv 0 1\nf 0 1 2\n"
	if err := os.WriteFile(filepath.Join(dir, "disk.msh"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	src := FileMeshSource(dir)
	data, err := src("disk")
	if err != nil {
		t.Fatal(err)
	}
	if data.Name != "disk" || len(data.Positions) != 3 {
		t.Errorf("data = %+v", data)
	}

	if _, err := src("missing"); err == nil {
		t.Error("expected error for a missing file")
	}
}
