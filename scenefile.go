package aspen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// SceneConfig configures LoadScene.
type SceneConfig struct {
	// Registry receives the meshes and shader programs the scene file
	// names. Required.
	Registry *Registry

	// MeshDir is the directory holding `<name>.msh` geometry files.
	MeshDir string

	// Lenient skips instances whose resources fail to load or resolve,
	// logging each skip to stderr, instead of failing the whole load.
	// Malformed blocks still abort: past one, the block framing is lost.
	// The default is strict: first error aborts.
	Lenient bool
}

// LoadScene parses the line-oriented scene description format and builds a
// Scene from it: a header line with the instance count, then one block per
// instance of
//
//	geometry-name
//	instance-name
//	shader-name vertex-shader-path fragment-shader-path
//	r g b
//	scale-x scale-y
//	angle-current angle-speed
//	position-x position-y
//
// Each block triggers get-or-create on the registry for its mesh and shader,
// so repeated names share one resource. Blank lines and `#` comments are
// skipped.
func LoadScene(r io.Reader, cfg SceneConfig) (*Scene, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("aspen: LoadScene requires a registry")
	}
	lr := &lineReader{sc: bufio.NewScanner(r)}

	header, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("scene header: %w", err)
	}
	count, err := strconv.Atoi(strings.Fields(header)[0])
	if err != nil || count < 0 {
		return nil, fmt.Errorf("scene line %d: bad instance count %q", lr.lineNo, header)
	}

	scene := NewScene(cfg.Registry)
	meshSource := FileMeshSource(cfg.MeshDir)

	for i := 0; i < count; i++ {
		name, icfg, err := readInstanceBlock(lr)
		if err != nil {
			return nil, err
		}
		if err := createInstance(scene, name, icfg, meshSource, cfg); err != nil {
			if !cfg.Lenient {
				return nil, err
			}
			fmt.Fprintf(os.Stderr, "[aspen] skipping instance %q: %v\n", name, err)
		}
	}
	return scene, nil
}

// createInstance resolves the block's resources through the registry and
// adds the instance. Resolution is strict here: the shader block names its
// own source paths, so a missing resource means a broken scene file.
func createInstance(s *Scene, name string, b instanceBlock, src MeshSource, cfg SceneConfig) error {
	if _, err := cfg.Registry.Mesh(b.cfg.Mesh, src); err != nil {
		return err
	}
	if _, err := cfg.Registry.Shader(b.cfg.Shader, b.vertexPath, b.fragmentPath); err != nil {
		return err
	}
	_, err := s.AddInstance(name, b.cfg)
	return err
}

// instanceBlock is one parsed scene-file block before resource resolution.
type instanceBlock struct {
	cfg          InstanceConfig
	vertexPath   string
	fragmentPath string
}

func readInstanceBlock(lr *lineReader) (string, instanceBlock, error) {
	var b instanceBlock

	meshName, err := lr.nextField()
	if err != nil {
		return "", b, fmt.Errorf("geometry name: %w", err)
	}
	b.cfg.Mesh = meshName

	name, err := lr.nextField()
	if err != nil {
		return "", b, fmt.Errorf("instance name: %w", err)
	}

	line, err := lr.next()
	if err != nil {
		return name, b, fmt.Errorf("instance %q shader record: %w", name, err)
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return name, b, fmt.Errorf("scene line %d: want `shader vertex-path fragment-path`, got %d fields", lr.lineNo, len(fields))
	}
	b.cfg.Shader = fields[0]
	b.vertexPath = fields[1]
	b.fragmentPath = fields[2]

	color, err := lr.nextFloats(3)
	if err != nil {
		return name, b, fmt.Errorf("instance %q color: %w", name, err)
	}
	b.cfg.Color = mgl64.Vec3{color[0], color[1], color[2]}

	scale, err := lr.nextFloats(2)
	if err != nil {
		return name, b, fmt.Errorf("instance %q scale: %w", name, err)
	}
	b.cfg.Scale = mgl64.Vec2{scale[0], scale[1]}

	orient, err := lr.nextFloats(2)
	if err != nil {
		return name, b, fmt.Errorf("instance %q orientation: %w", name, err)
	}
	b.cfg.Angle = orient[0]
	b.cfg.AngleSpeed = orient[1]

	pos, err := lr.nextFloats(2)
	if err != nil {
		return name, b, fmt.Errorf("instance %q position: %w", name, err)
	}
	b.cfg.Position = mgl64.Vec2{pos[0], pos[1]}

	return name, b, nil
}

// lineReader yields non-blank, non-comment lines with line numbers for
// diagnostics.
type lineReader struct {
	sc     *bufio.Scanner
	lineNo int
}

func (lr *lineReader) next() (string, error) {
	for lr.sc.Scan() {
		lr.lineNo++
		line := strings.TrimSpace(lr.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := lr.sc.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

func (lr *lineReader) nextField() (string, error) {
	line, err := lr.next()
	if err != nil {
		return "", err
	}
	return strings.Fields(line)[0], nil
}

func (lr *lineReader) nextFloats(n int) ([]float64, error) {
	line, err := lr.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, fmt.Errorf("scene line %d: want %d numbers, got %d", lr.lineNo, n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("scene line %d: %q: %w", lr.lineNo, f, err)
		}
		out[i] = v
	}
	return out, nil
}
