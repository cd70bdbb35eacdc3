// Package aspen is a minimal real-time 2D scene manager.
//
// Aspen owns named, deduplicated collections of renderable geometry and
// shader programs (Registry), live placed objects that share those resources
// by name (Instance), and a movable, zoomable 2D camera (Camera) that derives
// a main and a minimap world-to-device transform every frame. A Scene ties
// the three together and enforces the per-frame ordering: camera state for a
// frame is fully computed before any instance transform, and all instance
// transforms are cached before any draw call is issued.
//
// Rendering is delegated to a Renderer collaborator. EbitenRenderer is the
// included implementation on top of Ebitengine; tests use lightweight fakes.
//
// Aspen is single-threaded by design: a Scene and everything it owns must be
// driven from one goroutine, the frame loop.
package aspen
