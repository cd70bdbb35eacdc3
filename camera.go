package aspen

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default camera parameters.
const (
	defaultZoomHeight  = 1000
	defaultMinHeight   = 500
	defaultMaxHeight   = 2000
	defaultZoomStep    = 5
	defaultLinearSpeed = 2
)

// panAnim holds active pan tweens for the free camera's X and Y.
type panAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera owns the view state and derives two transforms per frame: the main
// world-to-device matrix and a fixed-scale minimap variant.
//
// A camera starts free (axis-aligned view from the origin) until a tracked
// instance is assigned; from then on it is either first-person (view locked
// to the tracked instance's orientation and position) or third-person follow
// (axis-aligned view from a smoothed position chasing the tracked instance).
type Camera struct {
	// FirstPerson locks the view to the camera's orientation basis. When
	// false the camera follows the tracked instance from smoothedPosition.
	FirstPerson bool

	// Zoom bounds and step. ZoomHeight ping-pongs between MinHeight and
	// MaxHeight; keep MinHeight > 0 to avoid degenerate matrices.
	MinHeight float64
	MaxHeight float64
	ZoomStep  float64

	// LinearSpeed is the tracked instance's forward speed in world units
	// per second, scaled by MoveScale.
	LinearSpeed float64
	TurnScale   float64
	MoveScale   float64

	// FollowTimeConstant, when positive, switches third-person follow
	// smoothing to a framerate-independent exponential with that time
	// constant (seconds). At zero the raw per-frame delta time is used as
	// the lerp factor — the original behavior, which snaps on a slow frame.
	FollowTimeConstant float64

	tracked *Instance

	orientationAngle float64    // degrees, wrapped by exact reset at ±360
	right            mgl64.Vec2 // derived unit basis, orthogonal to up
	up               mgl64.Vec2
	smoothedPosition mgl64.Vec2 // third-person follow position
	aspectRatio      float64    // recomputed every frame from the surface
	zoomHeight       float64
	zoomDirection    int // +1 growing, -1 shrinking

	viewTransform   mgl64.Mat3
	worldToDevice   mgl64.Mat3
	minimapToDevice mgl64.Mat3

	zoomTween *gween.Tween
	panTween  *panAnim
}

// newCamera creates a camera with the default zoom range, unit basis, and
// identity transforms. Created by NewScene.
func newCamera() *Camera {
	return &Camera{
		MinHeight:       defaultMinHeight,
		MaxHeight:       defaultMaxHeight,
		ZoomStep:        defaultZoomStep,
		LinearSpeed:     defaultLinearSpeed,
		TurnScale:       1,
		MoveScale:       1,
		right:           mgl64.Vec2{1, 0},
		up:              mgl64.Vec2{0, 1},
		aspectRatio:     1,
		zoomHeight:      defaultZoomHeight,
		zoomDirection:   1,
		viewTransform:   mgl64.Ident3(),
		worldToDevice:   mgl64.Ident3(),
		minimapToDevice: mgl64.Ident3(),
	}
}

// Tracked returns the instance the camera is attached to, or nil.
func (c *Camera) Tracked() *Instance { return c.tracked }

// track attaches the camera to an instance and snaps the follow position to
// it so the first follow frame doesn't sweep across the world.
func (c *Camera) track(o *Instance) {
	c.tracked = o
	if o != nil {
		c.smoothedPosition = o.Position
	}
}

// OrientationAngle returns the camera's orientation in degrees.
func (c *Camera) OrientationAngle() float64 { return c.orientationAngle }

// Right returns the camera's unit right vector.
func (c *Camera) Right() mgl64.Vec2 { return c.right }

// Up returns the camera's unit up vector.
func (c *Camera) Up() mgl64.Vec2 { return c.up }

// ZoomHeight returns the current zoom window height in world units.
func (c *Camera) ZoomHeight() float64 { return c.zoomHeight }

// ZoomDirection returns +1 while the zoom height is growing, -1 while it is
// shrinking.
func (c *Camera) ZoomDirection() int { return c.zoomDirection }

// AspectRatio returns the surface aspect ratio seen by the last update.
func (c *Camera) AspectRatio() float64 { return c.aspectRatio }

// SmoothedPosition returns the third-person follow position.
func (c *Camera) SmoothedPosition() mgl64.Vec2 { return c.smoothedPosition }

// ViewTransform returns the view matrix computed by the last update.
func (c *Camera) ViewTransform() mgl64.Mat3 { return c.viewTransform }

// WorldToDevice returns the main world-to-device matrix for this frame.
func (c *Camera) WorldToDevice() mgl64.Mat3 { return c.worldToDevice }

// MinimapToDevice returns the minimap world-to-device matrix for this frame.
// The minimap always renders at MaxHeight, so its scale is fixed across the
// whole zoom range.
func (c *Camera) MinimapToDevice() mgl64.Mat3 { return c.minimapToDevice }

// ZoomTo animates the zoom height to the given value over duration seconds,
// clamped into [MinHeight, MaxHeight]. While the tween runs, the ping-pong
// zoom input is ignored.
func (c *Camera) ZoomTo(height float64, duration float32, easeFn ease.TweenFunc) {
	height = math.Max(c.MinHeight, math.Min(height, c.MaxHeight))
	c.zoomTween = gween.New(float32(c.zoomHeight), float32(height), duration, easeFn)
}

// PanTo animates the free camera to the given world position over duration
// seconds. Only meaningful while no instance is tracked; a tracked camera
// overwrites the follow position every frame.
func (c *Camera) PanTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.panTween = &panAnim{
		tweenX: gween.New(float32(c.smoothedPosition.X()), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.smoothedPosition.Y()), float32(y), duration, easeFn),
	}
}

// update advances the camera by one frame. Called from Scene.Update before
// any instance updates, so instances always compose with this frame's
// matrices.
func (c *Camera) update(dt float64, in CameraInput, surfaceW, surfaceH int) {
	// Aspect ratio tracks the output surface every frame; a zero-sized
	// surface keeps the previous ratio for this frame.
	if surfaceW > 0 && surfaceH > 0 {
		c.aspectRatio = float64(surfaceW) / float64(surfaceH)
	}

	if in.ToggleMode {
		c.FirstPerson = !c.FirstPerson
	}

	if c.tracked != nil {
		c.turn(dt, in)
		if in.MoveForward {
			step := c.LinearSpeed * dt * c.MoveScale
			c.tracked.Position = c.tracked.Position.Add(c.up.Mul(step))
		}
	}

	c.advancePan(dt)
	c.follow(dt)

	c.viewTransform = c.computeView()

	c.advanceZoom(dt, in)

	winToDevice := windowToDevice(c.aspectRatio, c.zoomHeight)
	c.worldToDevice = winToDevice.Mul3(c.viewTransform)
	miniToDevice := windowToDevice(c.aspectRatio, c.MaxHeight)
	c.minimapToDevice = miniToDevice.Mul3(c.viewTransform)
}

// turn integrates the orientation angle from the tracked instance's angular
// speed and recomputes the basis. The angle wraps by an exact reset to zero
// at ±360, not a modulo.
func (c *Camera) turn(dt float64, in CameraInput) {
	if !in.TurnLeft && !in.TurnRight {
		return
	}
	rate := c.tracked.AngleSpeed * dt * c.TurnScale
	if in.TurnLeft {
		c.orientationAngle += rate
	}
	if in.TurnRight {
		c.orientationAngle -= rate
	}
	if c.orientationAngle >= 360 || c.orientationAngle <= -360 {
		c.orientationAngle = 0
	}
	rad := mgl64.DegToRad(c.orientationAngle)
	sin, cos := math.Sincos(rad)
	c.right = mgl64.Vec2{cos, sin}
	c.up = mgl64.Vec2{-sin, cos}
}

// follow chases the tracked instance's position. With a zero time constant
// the lerp factor is the raw delta time (framerate-dependent on purpose);
// FollowTimeConstant > 0 selects the corrected exponential form.
func (c *Camera) follow(dt float64) {
	if c.tracked == nil {
		return
	}
	alpha := dt
	if c.FollowTimeConstant > 0 {
		alpha = 1 - math.Exp(-dt/c.FollowTimeConstant)
	}
	delta := c.tracked.Position.Sub(c.smoothedPosition)
	c.smoothedPosition = c.smoothedPosition.Add(delta.Mul(alpha))
}

// advancePan steps an active PanTo tween. A tracked camera drops the tween:
// follow owns the position.
func (c *Camera) advancePan(dt float64) {
	if c.panTween == nil {
		return
	}
	if c.tracked != nil {
		c.panTween = nil
		return
	}
	x, y := c.smoothedPosition.X(), c.smoothedPosition.Y()
	if !c.panTween.doneX {
		val, done := c.panTween.tweenX.Update(float32(dt))
		x = float64(val)
		c.panTween.doneX = done
	}
	if !c.panTween.doneY {
		val, done := c.panTween.tweenY.Update(float32(dt))
		y = float64(val)
		c.panTween.doneY = done
	}
	c.smoothedPosition = mgl64.Vec2{x, y}
	if c.panTween.doneX && c.panTween.doneY {
		c.panTween = nil
	}
}

// advanceZoom steps either an active ZoomTo tween or the ping-pong zoom.
// The direction flip is evaluated before applying the step, so the height
// reverses exactly at a bound instead of clamping and sticking there. The
// step result is still clamped: a finished tween can leave the height off
// the step grid, and an unclamped step from there would overshoot a bound.
func (c *Camera) advanceZoom(dt float64, in CameraInput) {
	if c.zoomTween != nil {
		val, done := c.zoomTween.Update(float32(dt))
		c.zoomHeight = float64(val)
		if done {
			c.zoomTween = nil
		}
		return
	}
	if !in.Zoom {
		return
	}
	if c.zoomHeight >= c.MaxHeight {
		c.zoomDirection = -1
	} else if c.zoomHeight <= c.MinHeight {
		c.zoomDirection = 1
	}
	c.zoomHeight += c.ZoomStep * float64(c.zoomDirection)
	c.zoomHeight = math.Max(c.MinHeight, math.Min(c.zoomHeight, c.MaxHeight))
}

// computeView builds the view matrix for the active mode.
//
// First-person: the camera coincides with the tracked instance and rotates
// with it, so the view rows are the orientation basis and the translation
// brings the tracked position to the origin.
//
// Otherwise (third-person follow, or free before anything is tracked): an
// axis-aligned basis from the smoothed position.
func (c *Camera) computeView() mgl64.Mat3 {
	if c.tracked != nil && c.FirstPerson {
		p := c.tracked.Position
		r, u := c.right, c.up
		return mgl64.Mat3{
			r.X(), u.X(), 0,
			r.Y(), u.Y(), 0,
			-r.Dot(p), -u.Dot(p), 1,
		}
	}
	return mgl64.Translate2D(-c.smoothedPosition.X(), -c.smoothedPosition.Y())
}

// windowToDevice maps the camera window (width = aspect·height, centered on
// the view origin) onto the ±1 device square.
func windowToDevice(aspectRatio, height float64) mgl64.Mat3 {
	return mgl64.Diag3(mgl64.Vec3{
		2 / (aspectRatio * height),
		2 / height,
		1,
	})
}
