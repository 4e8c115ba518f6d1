package character

import (
	gomath "math"
	"time"

	"github.com/softmeadow/glade/pkg/math"
)

// Pose shape constants. The capsule mesh is authored at unit scale, so
// these are fractions of the rest height.
const (
	bobAmplitude  = 0.055 // Vertical stride bounce at full run speed
	crouchSquash  = 0.32  // Height lost at full crouch blend
	crouchBulge   = 0.18  // Width gained at full crouch blend
	recoilSquash  = 0.12  // Extra squash at the moment of landing
	recoilBulge   = 0.06
	recoilRecover = 0.28 // Seconds for the landing recoil to settle
)

// Pose turns the controller's animation drivers into a model matrix:
// stride bob while walking, squash while crouched, a recoil pulse on
// landing. It keeps the little state the controller does not carry,
// the recoil envelope.
type Pose struct {
	recoil     float32
	wasLanding bool
}

// Update advances the recoil envelope. Call once per frame after the
// controller update so the landing edge is seen the frame it happens.
func (p *Pose) Update(dt time.Duration, c *Controller) {
	landing := c.State() == StateJumpLand
	if landing && !p.wasLanding {
		p.recoil = 1
	}
	p.wasLanding = landing

	if p.recoil > 0 {
		p.recoil -= float32(dt.Seconds()) / recoilRecover
		if p.recoil < 0 {
			p.recoil = 0
		}
	}
}

// Recoil returns the current landing envelope, 1 at touchdown fading
// to 0.
func (p *Pose) Recoil() float32 { return p.recoil }

// Matrix builds the character model matrix at the controller's feet
// position. Scale is applied about the feet, so squash sinks the head,
// not the ground contact.
func (p *Pose) Matrix(c *Controller) math.Mat4 {
	bob := float32(0)
	if c.Grounded() {
		stride := float32(gomath.Abs(gomath.Sin(float64(c.WalkPhase()))))
		pace := math.Clamp(c.speed/c.cfg.RunSpeed, 0, 1)
		bob = bobAmplitude * stride * pace
	}

	squashY := 1 - crouchSquash*c.CrouchBlend() - recoilSquash*p.recoil
	bulge := 1 + crouchBulge*c.CrouchBlend() + recoilBulge*p.recoil

	pos := c.Position
	return math.Translate(pos.X, pos.Y+bob, pos.Z).
		Mul(math.RotateY(c.Yaw)).
		Mul(math.Scale(bulge, squashY, bulge))
}
