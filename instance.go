package aspen

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// InstanceConfig is the creation-time description of an instance, matching
// one scene-file block. Mesh and Shader are lookup keys into the registry,
// not ownership.
type InstanceConfig struct {
	Mesh       string
	Shader     string
	Color      mgl64.Vec3
	Position   mgl64.Vec2
	Scale      mgl64.Vec2
	Angle      float64 // current angular displacement, degrees
	AngleSpeed float64 // degrees per second
}

// Instance is a single placed object: its own local transform parameters
// plus shared, read-only references into the registry. The references are
// resolved once at creation and cached — per-frame updates never touch the
// registry maps.
type Instance struct {
	Name string

	Position   mgl64.Vec2
	Scale      mgl64.Vec2
	Angle      float64 // degrees; grows without bound under free rotation
	AngleSpeed float64 // degrees per second
	Color      mgl64.Vec3

	mesh   *Mesh
	shader *Shader

	worldToDevice   mgl64.Mat3
	minimapToDevice mgl64.Mat3
}

// newInstance resolves the config's resource keys against the registry and
// caches the results. A key that was never registered yields
// ErrUnknownResource; the caller decides whether to skip or abort.
func newInstance(name string, cfg InstanceConfig, reg *Registry) (*Instance, error) {
	mesh, ok := reg.LookupMesh(cfg.Mesh)
	if !ok {
		return nil, fmt.Errorf("instance %q: mesh %q: %w", name, cfg.Mesh, ErrUnknownResource)
	}
	shader, ok := reg.LookupShader(cfg.Shader)
	if !ok {
		return nil, fmt.Errorf("instance %q: shader %q: %w", name, cfg.Shader, ErrUnknownResource)
	}
	return &Instance{
		Name:            name,
		Position:        cfg.Position,
		Scale:           cfg.Scale,
		Angle:           cfg.Angle,
		AngleSpeed:      cfg.AngleSpeed,
		Color:           cfg.Color,
		mesh:            mesh,
		shader:          shader,
		worldToDevice:   mgl64.Ident3(),
		minimapToDevice: mgl64.Ident3(),
	}, nil
}

// Mesh returns the resolved shared geometry definition.
func (o *Instance) Mesh() *Mesh { return o.mesh }

// Shader returns the resolved shared shader program.
func (o *Instance) Shader() *Shader { return o.shader }

// WorldToDevice returns the transform cached by the last update.
func (o *Instance) WorldToDevice() mgl64.Mat3 { return o.worldToDevice }

// MinimapToDevice returns the minimap transform cached by the last update.
func (o *Instance) MinimapToDevice() mgl64.Mat3 { return o.minimapToDevice }

// LocalTransform composes the instance's model-to-world matrix. Composition
// order is the one behavioral contract that must hold exactly: scale first,
// then rotate, then translate — p' = T·R·S·p. Swapping R and S changes the
// visual result for non-uniform scale.
func (o *Instance) LocalTransform() mgl64.Mat3 {
	return mgl64.Translate2D(o.Position.X(), o.Position.Y()).
		Mul3(mgl64.HomogRotate2D(mgl64.DegToRad(o.Angle))).
		Mul3(mgl64.Scale2D(o.Scale.X(), o.Scale.Y()))
}

// update advances the rotation and recomputes both cached device transforms
// from the camera matrices for the current frame. Called by Scene.Update
// strictly after the camera has updated.
func (o *Instance) update(dt float64, camMain, camMini mgl64.Mat3) {
	o.Angle += o.AngleSpeed * dt
	local := o.LocalTransform()
	o.worldToDevice = camMain.Mul3(local)
	o.minimapToDevice = camMini.Mul3(local)
}

// draw forwards the resolved handles and the cached transform to the
// renderer. It never recomputes: the transform is whatever the last update
// produced.
func (o *Instance) draw(r Renderer, minimap bool) {
	xform := o.worldToDevice
	if minimap {
		xform = o.minimapToDevice
	}
	r.Draw(o.mesh, o.shader, o.Color, xform, o.mesh.DrawMode())
}

// World-range and parameter bounds for randomly spawned instances.
const (
	randWorldRange = 5000.0 // positions land in [-range, +range]
	randScaleMin   = 50.0
	randScaleMax   = 400.0
	randAngleMax   = 360.0 // initial displacement in [-max, +max]
	randSpeedMax   = 30.0  // angular speed in [-max, +max]
)

// RandomConfig builds an InstanceConfig with randomized placement: position
// anywhere in the ±5000 world range, independent non-uniform scale in
// [50, 400], random initial angle and angular speed, random color.
func RandomConfig(rng *rand.Rand, meshKey, shaderKey string) InstanceConfig {
	symmetric := func(max float64) float64 { return (rng.Float64()*2 - 1) * max }
	return InstanceConfig{
		Mesh:   meshKey,
		Shader: shaderKey,
		Color:  mgl64.Vec3{rng.Float64(), rng.Float64(), rng.Float64()},
		Position: mgl64.Vec2{
			symmetric(randWorldRange),
			symmetric(randWorldRange),
		},
		Scale: mgl64.Vec2{
			randScaleMin + rng.Float64()*(randScaleMax-randScaleMin),
			randScaleMin + rng.Float64()*(randScaleMax-randScaleMin),
		},
		Angle:      symmetric(randAngleMax),
		AngleSpeed: symmetric(randSpeedMax),
	}
}
