package aspen

import (
	"fmt"
	"slices"
)

// MeshSource produces the geometry for a named mesh on first reference.
// FileMeshSource is the usual implementation; tests supply their own.
type MeshSource func(name string) (MeshData, error)

// Registry is the name-keyed cache of immutable meshes and shader programs.
// At most one entry exists per name; entries are created lazily on first
// reference and live for the process lifetime (no eviction — growth is
// bounded by the number of distinct asset names, not instance count).
//
// Not safe for concurrent mutation: the frame loop owns it exclusively.
type Registry struct {
	renderer Renderer
	meshes   map[string]*Mesh
	shaders  map[string]*Shader
}

// NewRegistry creates an empty registry that uploads and compiles through the
// given renderer.
func NewRegistry(r Renderer) *Registry {
	return &Registry{
		renderer: r,
		meshes:   make(map[string]*Mesh),
		shaders:  make(map[string]*Shader),
	}
}

// Mesh returns the mesh registered under name, loading and uploading it via
// src on first reference. src is invoked at most once per distinct name; a
// failed load is not cached, so a later call may retry.
//
// If the loaded data carries its own name (an `n` record), it must match the
// requested name — a mismatch would register the mesh under a key nothing
// else can resolve.
func (reg *Registry) Mesh(name string, src MeshSource) (*Mesh, error) {
	if m, ok := reg.meshes[name]; ok {
		return m, nil
	}
	data, err := src(name)
	if err != nil {
		return nil, fmt.Errorf("load mesh %q: %w", name, err)
	}
	if data.Name != "" && data.Name != name {
		return nil, fmt.Errorf("load mesh %q: file names itself %q", name, data.Name)
	}
	handle, err := reg.renderer.UploadMesh(data)
	if err != nil {
		return nil, fmt.Errorf("upload mesh %q: %w", name, err)
	}
	m := &Mesh{
		Name:        name,
		Topology:    data.Topology,
		VertexCount: len(data.Positions),
		IndexCount:  len(data.Indices),
		Handle:      handle,
	}
	reg.meshes[name] = m
	return m, nil
}

// Shader returns the program registered under name, compiling it on first
// reference. Compile/link/validate failures surface as a *ShaderError from
// the renderer; nothing is cached on failure.
func (reg *Registry) Shader(name, vertexPath, fragmentPath string) (*Shader, error) {
	if s, ok := reg.shaders[name]; ok {
		return s, nil
	}
	handle, err := reg.renderer.CompileProgram(name, vertexPath, fragmentPath)
	if err != nil {
		return nil, err
	}
	s := &Shader{
		Name:         name,
		VertexPath:   vertexPath,
		FragmentPath: fragmentPath,
		Handle:       handle,
		Valid:        true,
	}
	reg.shaders[name] = s
	return s, nil
}

// LookupMesh returns the mesh registered under name without creating it.
func (reg *Registry) LookupMesh(name string) (*Mesh, bool) {
	m, ok := reg.meshes[name]
	return m, ok
}

// LookupShader returns the program registered under name without creating it.
func (reg *Registry) LookupShader(name string) (*Shader, bool) {
	s, ok := reg.shaders[name]
	return s, ok
}

// MeshNames returns the registered mesh names in lexicographic order.
func (reg *Registry) MeshNames() []string {
	names := make([]string, 0, len(reg.meshes))
	for name := range reg.meshes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
