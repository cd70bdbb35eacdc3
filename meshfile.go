package aspen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ParseMesh reads the line-oriented geometry definition format:
//
//	v x y        vertex position
//	t i0 i1 i2   triangle index triple (topology becomes triangle-list)
//	f ...        triangle-fan indices: the first record is a triple, every
//	             later record a single index (topology becomes triangle-fan)
//	n name       assigns the mesh its lookup name
//
// Records may appear in any order. Blank lines and lines starting with `#`
// are skipped.
func ParseMesh(r io.Reader) (MeshData, error) {
	var data MeshData
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) != 3 {
				return MeshData{}, fmt.Errorf("mesh line %d: want `v x y`, got %d fields", lineNo, len(fields))
			}
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return MeshData{}, fmt.Errorf("mesh line %d: vertex x: %w", lineNo, err)
			}
			y, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return MeshData{}, fmt.Errorf("mesh line %d: vertex y: %w", lineNo, err)
			}
			data.Positions = append(data.Positions, mgl64.Vec2{x, y})
		case "t":
			data.Topology = TopologyTriangleList
			if len(fields) != 4 {
				return MeshData{}, fmt.Errorf("mesh line %d: want `t i0 i1 i2`, got %d fields", lineNo, len(fields))
			}
			if err := appendIndices(&data.Indices, fields[1:], lineNo); err != nil {
				return MeshData{}, err
			}
		case "f":
			data.Topology = TopologyTriangleFan
			// First fan record carries three indices, later ones a single.
			want := 1
			if len(data.Indices) == 0 {
				want = 3
			}
			if len(fields) != want+1 {
				return MeshData{}, fmt.Errorf("mesh line %d: want %d fan indices, got %d", lineNo, want, len(fields)-1)
			}
			if err := appendIndices(&data.Indices, fields[1:], lineNo); err != nil {
				return MeshData{}, err
			}
		case "n":
			if len(fields) != 2 {
				return MeshData{}, fmt.Errorf("mesh line %d: want `n name`", lineNo)
			}
			data.Name = fields[1]
		default:
			return MeshData{}, fmt.Errorf("mesh line %d: unknown record %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return MeshData{}, fmt.Errorf("read mesh: %w", err)
	}
	if len(data.Positions) == 0 {
		return MeshData{}, fmt.Errorf("mesh has no vertices")
	}
	for i, idx := range data.Indices {
		if int(idx) >= len(data.Positions) {
			return MeshData{}, fmt.Errorf("mesh index %d out of range (%d vertices)", i, len(data.Positions))
		}
	}
	return data, nil
}

func appendIndices(dst *[]uint16, fields []string, lineNo int) error {
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 16)
		if err != nil {
			return fmt.Errorf("mesh line %d: index %q: %w", lineNo, f, err)
		}
		*dst = append(*dst, uint16(v))
	}
	return nil
}

// FileMeshSource returns a MeshSource that reads `<dir>/<name>.msh`. The
// file read is synchronous and happens only on first reference, so the
// one-time frame spike stays at load points rather than hiding in the loop.
func FileMeshSource(dir string) MeshSource {
	return func(name string) (MeshData, error) {
		f, err := os.Open(filepath.Join(dir, name+".msh"))
		if err != nil {
			return MeshData{}, err
		}
		defer f.Close()
		return ParseMesh(f)
	}
}
