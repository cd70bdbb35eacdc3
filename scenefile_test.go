package aspen

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const quadMeshFile = `n quad
v -0.5 -0.5
v 0.5 -0.5
v 0.5 0.5
v -0.5 0.5
t 0 1 2
t 0 2 3
`

func writeMeshDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "quad.msh"), []byte(quadMeshFile), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadSceneSharesResources(t *testing.T) {
	in := `# two instances, one mesh, one shader
2

quad
one
flat shaders/flat.vert shaders/flat.frag
1 0 0
2 2
0 10
5 5

quad
two
flat shaders/flat.vert shaders/flat.frag
0 1 0
1 1
45 0
-5 0
`
	r := &fakeRenderer{}
	scene, err := LoadScene(strings.NewReader(in), SceneConfig{
		Registry: NewRegistry(r),
		MeshDir:  writeMeshDir(t),
	})
	if err != nil {
		t.Fatal(err)
	}

	if scene.InstanceCount() != 2 {
		t.Fatalf("count = %d, want 2", scene.InstanceCount())
	}
	if r.uploads != 1 {
		t.Errorf("uploads = %d, want 1 for a shared mesh", r.uploads)
	}
	if r.compiles != 1 {
		t.Errorf("compiles = %d, want 1 for a shared shader", r.compiles)
	}

	one, ok := scene.Instance("one")
	if !ok {
		t.Fatal("instance one missing")
	}
	if !vec2Approx(one.Position, mgl64.Vec2{5, 5}) {
		t.Errorf("position = %v, want (5, 5)", one.Position)
	}
	if !vec2Approx(one.Scale, mgl64.Vec2{2, 2}) {
		t.Errorf("scale = %v, want (2, 2)", one.Scale)
	}
	if !approxEqual(one.Angle, 0) || !approxEqual(one.AngleSpeed, 10) {
		t.Errorf("angle = %f speed = %f, want 0 and 10", one.Angle, one.AngleSpeed)
	}
	if !approxEqual(one.Color.X(), 1) || !approxEqual(one.Color.Y(), 0) {
		t.Errorf("color = %v, want red", one.Color)
	}

	two, _ := scene.Instance("two")
	if one.Mesh() != two.Mesh() {
		t.Error("instances do not share the mesh")
	}
	if one.Shader() != two.Shader() {
		t.Error("instances do not share the shader")
	}
}

func TestLoadSceneStrictAbortsOnMissingMesh(t *testing.T) {
	in := `1

ghost
one
flat a.vert a.frag
1 1 1
1 1
0 0
0 0
`
	_, err := LoadScene(strings.NewReader(in), SceneConfig{
		Registry: NewRegistry(&fakeRenderer{}),
		MeshDir:  writeMeshDir(t),
	})
	if err == nil {
		t.Fatal("expected error for a missing mesh file")
	}
}

func TestLoadSceneLenientSkipsBrokenInstance(t *testing.T) {
	in := `2

ghost
broken
flat a.vert a.frag
1 1 1
1 1
0 0
0 0

quad
fine
flat a.vert a.frag
1 1 1
1 1
0 0
0 0
`
	scene, err := LoadScene(strings.NewReader(in), SceneConfig{
		Registry: NewRegistry(&fakeRenderer{}),
		MeshDir:  writeMeshDir(t),
		Lenient:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if scene.InstanceCount() != 1 {
		t.Fatalf("count = %d, want 1 after skipping the broken block", scene.InstanceCount())
	}
	if _, ok := scene.Instance("fine"); !ok {
		t.Error("surviving instance missing")
	}
}

func TestLoadSceneTruncated(t *testing.T) {
	in := `1

quad
one
flat a.vert a.frag
1 1 1
`
	_, err := LoadScene(strings.NewReader(in), SceneConfig{
		Registry: NewRegistry(&fakeRenderer{}),
		MeshDir:  writeMeshDir(t),
	})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestLoadSceneBadHeader(t *testing.T) {
	_, err := LoadScene(strings.NewReader("many\n"), SceneConfig{
		Registry: NewRegistry(&fakeRenderer{}),
	})
	if err == nil {
		t.Fatal("expected error for a non-numeric instance count")
	}
}

func TestLoadSceneMalformedBlockAbortsEvenLenient(t *testing.T) {
	in := `1

quad
one
flat a.vert
1 1 1
1 1
0 0
0 0
`
	_, err := LoadScene(strings.NewReader(in), SceneConfig{
		Registry: NewRegistry(&fakeRenderer{}),
		MeshDir:  writeMeshDir(t),
		Lenient:  true,
	})
	if err == nil {
		t.Fatal("expected error for a malformed shader record")
	}
}

func TestLoadSceneRequiresRegistry(t *testing.T) {
	if _, err := LoadScene(strings.NewReader("0\n"), SceneConfig{}); err == nil {
		t.Fatal("expected error without a registry")
	}
}
