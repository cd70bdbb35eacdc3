package aspen

import "github.com/go-gl/mathgl/mgl64"

// MeshHandle is a renderer-owned opaque token for uploaded geometry buffers.
type MeshHandle any

// ProgramHandle is a renderer-owned opaque token for a compiled shader
// program.
type ProgramHandle any

// Shader is an immutable compiled shader program reference. Shared by name
// the same way meshes are; Valid is true once the program has compiled,
// linked and validated.
type Shader struct {
	Name         string
	VertexPath   string
	FragmentPath string
	Handle       ProgramHandle
	Valid        bool
}

// Renderer is the external drawing collaborator. It owns all GPU state; the
// core only stores the opaque handles it returns and forwards them back at
// draw time. Implementations are not required to be safe for concurrent use
// — the frame loop is the only caller.
type Renderer interface {
	// UploadMesh creates GPU-resident buffers for the given geometry and
	// returns an opaque handle to them.
	UploadMesh(data MeshData) (MeshHandle, error)

	// CompileProgram compiles/links/validates a shader program from the
	// given source paths. On failure the returned error carries the
	// compiler log (see ShaderError).
	CompileProgram(name, vertexPath, fragmentPath string) (ProgramHandle, error)

	// Draw submits one instance: resolved geometry, resolved program, flat
	// color, the precomputed world-to-device matrix, and the draw mode. It
	// must not mutate any of its arguments.
	Draw(mesh *Mesh, shader *Shader, color mgl64.Vec3, transform mgl64.Mat3, mode DrawMode)
}
