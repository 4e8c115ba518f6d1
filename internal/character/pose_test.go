package character

import (
	"testing"
	"time"

	"github.com/softmeadow/glade/internal/engine/collision"
	"github.com/softmeadow/glade/pkg/math"
)

func TestPoseIdleIsRigidTransform(t *testing.T) {
	caster := &scriptedCaster{}
	c := New(testCfg(), caster, collision.NoCollider, math.Vec3{X: 3, Z: -2})
	settle(t, c)

	var p Pose
	p.Update(frame, c)
	m := p.Matrix(c)

	feet := m.MulVec4(math.Vec4{0, 0, 0, 1})
	if abs(feet[0]-3) > 1e-4 || abs(feet[1]-c.Position.Y) > 1e-4 || abs(feet[2]+2) > 1e-4 {
		t.Fatalf("idle origin maps to %v, want feet position", feet)
	}
	head := m.MulVec4(math.Vec4{0, 1, 0, 1})
	if abs(head[1]-feet[1]-1) > 1e-4 {
		t.Fatalf("idle pose scales height: head-feet = %v, want 1", head[1]-feet[1])
	}
}

func TestPoseCrouchSquashesHeight(t *testing.T) {
	caster := &scriptedCaster{}
	c := New(testCfg(), caster, collision.NoCollider, math.Vec3{})
	settle(t, c)

	// Hold crouch until the blend saturates.
	for i := 0; i < 60; i++ {
		c.Update(frame, Input{Crouch: true})
	}
	if c.CrouchBlend() < 0.99 {
		t.Fatalf("crouch blend did not saturate: %v", c.CrouchBlend())
	}

	var p Pose
	p.Update(frame, c)
	m := p.Matrix(c)

	head := m.MulVec4(math.Vec4{0, 1, 0, 1})
	feet := m.MulVec4(math.Vec4{0, 0, 0, 1})
	height := head[1] - feet[1]
	if abs(height-(1-crouchSquash)) > 1e-3 {
		t.Fatalf("crouched height = %v, want %v", height, 1-crouchSquash)
	}

	side := m.MulVec4(math.Vec4{1, 0, 0, 1})
	width := math.Vec3{X: side[0] - feet[0], Y: side[1] - feet[1], Z: side[2] - feet[2]}.Length()
	if abs(width-(1+crouchBulge)) > 1e-3 {
		t.Fatalf("crouched width = %v, want %v", width, 1+crouchBulge)
	}
}

func TestPoseRecoilFiresOnLandingAndDecays(t *testing.T) {
	// Airborne for a stretch, then ground returns.
	script := []bool{true}
	for i := 0; i < 30; i++ {
		script = append(script, false)
	}
	script = append(script, true)
	caster := &scriptedCaster{ground: script}
	c := New(testCfg(), caster, collision.NoCollider, math.Vec3{})

	var p Pose
	sawRecoil := false
	for i := 0; i < 200; i++ {
		c.Update(frame, Input{})
		p.Update(frame, c)
		if c.State() == StateJumpLand && p.Recoil() > 0.9 {
			sawRecoil = true
			break
		}
	}
	if !sawRecoil {
		t.Fatal("recoil never reached its peak on landing")
	}

	// The envelope settles back to zero within the recovery window.
	for i := 0; i < 60; i++ {
		c.Update(frame, Input{})
		p.Update(frame, c)
	}
	if p.Recoil() != 0 {
		t.Fatalf("recoil did not decay: %v", p.Recoil())
	}
}

func TestPoseBobOnlyWhileMovingOnGround(t *testing.T) {
	caster := &scriptedCaster{}
	c := New(testCfg(), caster, collision.NoCollider, math.Vec3{})
	settle(t, c)

	var p Pose
	p.Update(frame, c)
	idleY := p.Matrix(c).MulVec4(math.Vec4{0, 0, 0, 1})[1]

	// Walk until the stride phase sits mid-swing, then compare heights.
	bobbed := false
	for i := 0; i < 120; i++ {
		c.Update(frame, Input{MoveX: 1})
		p.Update(frame, c)
		y := p.Matrix(c).MulVec4(math.Vec4{0, 0, 0, 1})[1]
		if y-idleY > bobAmplitude*0.3 {
			bobbed = true
			break
		}
	}
	if !bobbed {
		t.Fatal("walking never lifted the pose above the idle height")
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
