package aspen

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Scene owns the set of live instances and the single active camera, and
// orchestrates the per-frame update order. Draw order is insertion order,
// which is deterministic — overdraw-dependent blending renders the same way
// every frame and every run.
type Scene struct {
	registry  *Registry
	camera    *Camera
	instances []*Instance
	byName    map[string]*Instance
}

// NewScene creates an empty scene over the given registry with a default
// camera.
func NewScene(reg *Registry) *Scene {
	return &Scene{
		registry: reg,
		camera:   newCamera(),
		byName:   make(map[string]*Instance),
	}
}

// Registry returns the scene's resource registry.
func (s *Scene) Registry() *Registry { return s.registry }

// Camera returns the scene's active camera.
func (s *Scene) Camera() *Camera { return s.camera }

// AddInstance creates an instance from the config and appends it to the draw
// order. The config's mesh and shader keys must already be registered;
// otherwise the error wraps ErrUnknownResource and the scene is unchanged.
// Instance names are unique within a scene.
func (s *Scene) AddInstance(name string, cfg InstanceConfig) (*Instance, error) {
	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("aspen: instance %q already exists", name)
	}
	o, err := newInstance(name, cfg, s.registry)
	if err != nil {
		return nil, err
	}
	s.instances = append(s.instances, o)
	s.byName[name] = o
	return o, nil
}

// RemoveInstance removes the named instance from the live set. Registry
// entries are unaffected — resources are independent of instance lifetime.
// If the removed instance was tracked, the camera detaches and goes free.
func (s *Scene) RemoveInstance(name string) bool {
	o, ok := s.byName[name]
	if !ok {
		return false
	}
	delete(s.byName, name)
	for i, it := range s.instances {
		if it == o {
			copy(s.instances[i:], s.instances[i+1:])
			s.instances[len(s.instances)-1] = nil
			s.instances = s.instances[:len(s.instances)-1]
			break
		}
	}
	if s.camera.tracked == o {
		s.camera.track(nil)
	}
	return true
}

// Instance returns the named instance.
func (s *Scene) Instance(name string) (*Instance, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// InstanceCount returns the number of live instances.
func (s *Scene) InstanceCount() int { return len(s.instances) }

// SetTracked attaches the camera to the named instance.
func (s *Scene) SetTracked(name string) error {
	o, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("aspen: track instance %q: no such instance", name)
	}
	s.camera.track(o)
	return nil
}

// Update advances the scene by one frame: the camera first, then every
// instance against the camera matrices just computed. The ordering is the
// scene's one hard invariant — an instance transform for frame N always
// incorporates the camera's post-update state for frame N.
func (s *Scene) Update(dt float64, in CameraInput, surfaceW, surfaceH int) {
	s.camera.update(dt, in, surfaceW, surfaceH)
	main := s.camera.worldToDevice
	mini := s.camera.minimapToDevice
	for _, o := range s.instances {
		o.update(dt, main, mini)
	}
}

// Drawable is one ready-to-render entry: the instance, its resolved shared
// resources, and the transform cached by the last update.
type Drawable struct {
	Instance  *Instance
	Mesh      *Mesh
	Shader    *Shader
	Transform mgl64.Mat3
}

// ForEachDrawable visits every instance in draw order with its resolved
// resources and main transform. The visitor returns false to stop early;
// calling ForEachDrawable again restarts from the beginning.
func (s *Scene) ForEachDrawable(visit func(Drawable) bool) {
	for _, o := range s.instances {
		d := Drawable{
			Instance:  o,
			Mesh:      o.mesh,
			Shader:    o.shader,
			Transform: o.worldToDevice,
		}
		if !visit(d) {
			return
		}
	}
}

// Draw submits every instance to the renderer using the main transforms
// cached by the last Update. Update and Draw never interleave within a
// frame: all transforms are computed before the first draw call.
func (s *Scene) Draw(r Renderer) {
	for _, o := range s.instances {
		o.draw(r, false)
	}
}

// DrawMinimap submits every instance using the fixed-scale minimap
// transforms. The caller points the renderer at the minimap viewport first.
func (s *Scene) DrawMinimap(r Renderer) {
	for _, o := range s.instances {
		o.draw(r, true)
	}
}
