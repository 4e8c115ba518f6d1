// Package character implements the playground character: a kinematic
// capsule moved over the collision world by a grounded/crouch/jump
// state machine that also picks the animation clip each frame.
package character

import (
	gomath "math"
	"time"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/collision"
	"github.com/softmeadow/glade/pkg/math"
)

// State identifies one node of the controller's state machine.
type State int

const (
	StateAirborne State = iota // In the air without a jump (walked off an edge)
	StateIdle                  // Grounded, no movement input
	StateMoving                // Grounded, walking or running
	StateCrouching
	StateJumpStart // Impulse applied, still within ground probe range
	StateJumpLoop  // Airborne from a jump
	StateJumpLand  // Transient landing recovery
)

func (s State) String() string {
	switch s {
	case StateAirborne:
		return "airborne"
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateCrouching:
		return "crouching"
	case StateJumpStart:
		return "jump-start"
	case StateJumpLoop:
		return "jump-loop"
	case StateJumpLand:
		return "jump-land"
	}
	return "unknown"
}

// Input is one frame's control sample. Move axes are world-space
// intent in [-1, 1]; the game layer resolves camera-relative input
// before it gets here. Jump and Crouch carry held state; the
// controller edge-triggers the jump itself.
type Input struct {
	MoveX  float32
	MoveZ  float32
	Run    bool
	Jump   bool
	Crouch bool
}

// Raycaster is the slice of the collision world the controller needs.
// *collision.World satisfies it.
type Raycaster interface {
	Raycast(origin, dir math.Vec3, maxDist float32, exclude collision.ColliderID) (*collision.Hit, error)
}

// Probe geometry. The ground ray starts slightly above the feet so a
// capsule resting exactly on the surface still registers a hit.
const (
	probeLift   = 0.1
	clearMargin = 0.05
)

// Controller drives the character. Position is the feet point on the
// ground surface; Yaw is the facing angle in radians around +Y.
type Controller struct {
	Position math.Vec3
	Yaw      float32

	cfg   config.CharacterConfig
	world Raycaster
	self  collision.ColliderID

	state     State
	grounded  bool
	crouching bool
	animation string

	velY   float32
	carryX float32 // Horizontal velocity, frozen at take-off while airborne
	carryZ float32

	jumpHeld bool
	standFor time.Duration // Consecutive clearance time while a stand is pending
	landFor  time.Duration // Remaining landing recovery

	walkPhase   float32
	crouchBlend float32
	speed       float32 // Current horizontal speed, for animation pacing
}

// New places a character at the given feet position, falling until the
// first ground probe connects. The collider id is the character's own
// box in the world, excluded from every probe; pass
// collision.NoCollider when the character has no collider.
func New(cfg config.CharacterConfig, world Raycaster, self collision.ColliderID, at math.Vec3) *Controller {
	return &Controller{
		Position:  at,
		cfg:       cfg,
		world:     world,
		self:      self,
		state:     StateAirborne,
		animation: "jump-loop",
	}
}

// State returns the current state machine node.
func (c *Controller) State() State { return c.state }

// Grounded reports the last ground probe result.
func (c *Controller) Grounded() bool { return c.grounded }

// Crouching reports whether the capsule is at crouch height.
func (c *Controller) Crouching() bool { return c.crouching }

// Animation returns the clip name for the current state, one of
// idle, walk, crouch-idle, crouch-walk, jump-start, jump-loop,
// jump-land.
func (c *Controller) Animation() string { return c.animation }

// Velocity returns the world-space velocity.
func (c *Controller) Velocity() math.Vec3 {
	return math.Vec3{X: c.carryX, Y: c.velY, Z: c.carryZ}
}

// WalkPhase is the accumulated stride cycle in radians, used by the
// procedural animation for limb swing.
func (c *Controller) WalkPhase() float32 { return c.walkPhase }

// CrouchBlend is the smoothed crouch amount in [0, 1].
func (c *Controller) CrouchBlend() float32 { return c.crouchBlend }

// Height returns the current capsule height.
func (c *Controller) Height() float32 {
	if c.crouching {
		return c.cfg.CrouchHeight
	}
	return c.cfg.CapsuleHeight
}

// Bounds returns the capsule's world AABB, for keeping the
// character's collider in sync.
func (c *Controller) Bounds() collision.AABB {
	r := c.cfg.CapsuleRadius
	return collision.NewAABB(
		c.Position.X-r, c.Position.Y, c.Position.Z-r,
		c.Position.X+r, c.Position.Y+c.Height(), c.Position.Z+r,
	)
}

// SetPosition teleports the character. Vertical velocity is dropped
// and the controller falls back to the ground from the new spot.
func (c *Controller) SetPosition(p math.Vec3) {
	c.Position = p
	c.velY = 0
	c.carryX = 0
	c.carryZ = 0
	c.grounded = false
	c.state = StateAirborne
	c.animation = "jump-loop"
}

// SetTuning applies a new character configuration, for live reload.
func (c *Controller) SetTuning(cfg config.CharacterConfig) {
	c.cfg = cfg
}

// Update advances the character by one frame. Probe results, input
// edges and timers all resolve here; nothing is deferred to callbacks.
func (c *Controller) Update(dt time.Duration, in Input) {
	if dt <= 0 {
		return
	}
	secs := float32(dt.Seconds())

	groundHit := c.probeGround()
	c.grounded = groundHit != nil

	c.updateCrouch(dt, in)
	c.updateMovement(secs, in)
	c.applyJump(in)
	c.integrate(secs, groundHit)
	c.transition(dt)
	c.animate(secs)

	c.jumpHeld = in.Jump
}

// probeGround casts the short downward ray from the feet. A raycast
// error counts as a miss.
func (c *Controller) probeGround() *collision.Hit {
	origin := math.Vec3{X: c.Position.X, Y: c.Position.Y + probeLift, Z: c.Position.Z}
	hit, err := c.world.Raycast(origin, math.Vec3{Y: -1}, probeLift+c.cfg.GroundProbe, c.self)
	if err != nil {
		return nil
	}
	return hit
}

// headroom casts upward from the crouched head and reports whether the
// capsule can return to standing height. A raycast error counts as an
// open ceiling.
func (c *Controller) headroom() bool {
	origin := math.Vec3{X: c.Position.X, Y: c.Position.Y + c.cfg.CrouchHeight, Z: c.Position.Z}
	need := c.cfg.CapsuleHeight - c.cfg.CrouchHeight + clearMargin
	hit, err := c.world.Raycast(origin, math.Vec3{Y: 1}, need, c.self)
	if err != nil {
		return true
	}
	return hit == nil
}

// updateCrouch handles crouch entry and the debounced stand. Standing
// requires headroom for the full debounce delay, counted from the
// first clear frame after the crouch control is released.
func (c *Controller) updateCrouch(dt time.Duration, in Input) {
	if in.Crouch {
		c.standFor = 0
		if c.grounded && !c.crouching {
			c.crouching = true
		}
		return
	}
	if !c.crouching {
		c.standFor = 0
		return
	}
	if !c.headroom() {
		c.standFor = 0
		return
	}
	c.standFor += dt
	if c.standFor >= c.cfg.StandDelay {
		c.crouching = false
		c.standFor = 0
	}
}

// updateMovement resolves the horizontal velocity. Grounded movement
// follows input directly; airborne movement keeps the take-off
// velocity.
func (c *Controller) updateMovement(secs float32, in Input) {
	if !c.grounded {
		return
	}

	speed := c.cfg.WalkSpeed
	switch {
	case c.crouching:
		speed = c.cfg.CrouchSpeed
	case in.Run:
		speed = c.cfg.RunSpeed
	}

	length := math.Sqrt(in.MoveX*in.MoveX + in.MoveZ*in.MoveZ)
	if length < 0.001 {
		c.carryX = 0
		c.carryZ = 0
		c.speed = 0
		return
	}
	if length > 1 {
		in.MoveX /= length
		in.MoveZ /= length
	}
	c.carryX = in.MoveX * speed
	c.carryZ = in.MoveZ * speed
	c.speed = math.Sqrt(c.carryX*c.carryX + c.carryZ*c.carryZ)

	target := float32(gomath.Atan2(float64(c.carryX), float64(c.carryZ)))
	turn := math.Clamp(secs*12, 0, 1)
	c.Yaw = math.LerpAngle(c.Yaw, target, turn)
}

// applyJump fires the vertical impulse on the rising edge of the jump
// control. A held control never re-triggers; crouching swallows the
// press.
func (c *Controller) applyJump(in Input) {
	if !in.Jump || c.jumpHeld {
		return
	}
	if !c.grounded || c.crouching {
		return
	}
	c.velY = c.cfg.JumpImpulse
	c.state = StateJumpStart
	c.landFor = 0
}

// integrate applies gravity and advances the position. While grounded
// and not ascending, the feet snap to the probe hit so the capsule
// tracks the terrain exactly.
func (c *Controller) integrate(secs float32, groundHit *collision.Hit) {
	airborne := !c.grounded || c.velY > 0
	if airborne {
		c.velY -= c.cfg.Gravity * secs
	}

	c.Position.X += c.carryX * secs
	c.Position.Z += c.carryZ * secs

	if airborne {
		c.Position.Y += c.velY * secs
		return
	}
	c.velY = 0
	if groundHit != nil {
		c.Position.Y = groundHit.Point.Y
	}
}

// transition runs the state machine proper. Landing fires when an
// airborne state sees the grounded flag come back while no longer
// rising; the velY guard keeps an ascent that grazes the probe from
// counting, and a hop too small to ever leave the probe still lands
// once it stops rising.
func (c *Controller) transition(dt time.Duration) {
	moving := c.carryX != 0 || c.carryZ != 0

	switch c.state {
	case StateJumpStart:
		if !c.grounded {
			c.state = StateJumpLoop
		} else if c.velY <= 0 {
			c.land()
		}
	case StateJumpLoop, StateAirborne:
		if c.grounded && c.velY <= 0 {
			c.land()
		}
	case StateJumpLand:
		c.landFor -= dt
		if c.landFor <= 0 {
			c.state = groundedState(moving, c.crouching)
		}
	default:
		if !c.grounded {
			c.state = StateAirborne
		} else {
			c.state = groundedState(moving, c.crouching)
		}
	}

	c.animation = c.pickAnimation(moving)
}

func (c *Controller) land() {
	c.state = StateJumpLand
	c.landFor = c.cfg.LandDuration
}

func groundedState(moving, crouching bool) State {
	if crouching {
		return StateCrouching
	}
	if moving {
		return StateMoving
	}
	return StateIdle
}

func (c *Controller) pickAnimation(moving bool) string {
	switch c.state {
	case StateCrouching:
		if moving {
			return "crouch-walk"
		}
		return "crouch-idle"
	case StateJumpStart:
		return "jump-start"
	case StateJumpLoop, StateAirborne:
		return "jump-loop"
	case StateJumpLand:
		return "jump-land"
	case StateMoving:
		return "walk"
	}
	return "idle"
}

// animate advances the procedural pose drivers: stride phase from the
// current speed, crouch blend toward the capsule height.
func (c *Controller) animate(secs float32) {
	const strideFreq = 2.2 // Stride cycles per unit of travel

	c.walkPhase += c.speed * strideFreq * secs
	for c.walkPhase > 2*math.Pi {
		c.walkPhase -= 2 * math.Pi
	}

	target := float32(0)
	if c.crouching {
		target = 1
	}
	blendRate := math.Clamp(secs/0.15, 0, 1)
	c.crouchBlend = math.Lerp(c.crouchBlend, target, blendRate)
}
