package physics

import (
	"math"
	"testing"
)

const eps = 1e-6

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func TestParticleAtRestStaysAtRest(t *testing.T) {
	b := Bounds{X: 0.03, Y: 0.03}
	p := NewParticle(0, 0, DefaultDamping)

	p.ComputePhysics(0, 0, 1.0, b)

	if p.Position() != (Vec2{}) {
		t.Errorf("expected position (0,0), got %+v", p.Position())
	}
	if p.Velocity() != (Vec2{}) {
		t.Errorf("expected velocity (0,0), got %+v", p.Velocity())
	}
}

func TestParticleStepInsideBounds(t *testing.T) {
	b := Bounds{X: 0.03, Y: 0.03}
	p := NewParticle(0.029, 0, DefaultDamping)
	p.SetVelocity(0.01, 0)

	// ax = -1.0/5 = -0.2
	p.ComputePhysics(1.0, 0, 0.1, b)

	if !near(p.Position().X, 0.029) {
		t.Errorf("expected x 0.029, got %.7f", p.Position().X)
	}
	if !near(p.Velocity().X, -0.01) {
		t.Errorf("expected vx -0.01, got %.7f", p.Velocity().X)
	}
}

func TestParticleClampZeroesVelocity(t *testing.T) {
	b := Bounds{X: 0.03, Y: 0.03}
	p := NewParticle(0.0299, 0, DefaultDamping)
	p.SetVelocity(0.05, 0)

	p.ComputePhysics(0, 0, 0.1, b)

	if p.Position().X != 0.03 {
		t.Errorf("expected x clamped to 0.03, got %.7f", p.Position().X)
	}
	if p.Velocity().X != 0 {
		t.Errorf("expected vx 0 after clamp, got %.7f", p.Velocity().X)
	}
}

func TestParticleClampAxesIndependently(t *testing.T) {
	b := Bounds{X: 0.03, Y: 0.05}
	p := NewParticle(0, 0, DefaultDamping)
	p.SetVelocity(-1, 0.1)

	p.ComputePhysics(0, 0, 0.1, b)

	if p.Position().X != -0.03 || p.Velocity().X != 0 {
		t.Errorf("expected x pinned at -0.03 with vx 0, got %+v %+v", p.Position(), p.Velocity())
	}
	if !near(p.Position().Y, 0.01) || !near(p.Velocity().Y, 0.1) {
		t.Errorf("expected y to move freely, got %+v %+v", p.Position(), p.Velocity())
	}
}

func TestSetPositionSymmetric(t *testing.T) {
	b := Bounds{X: 0.02, Y: 0.04}

	tests := []struct {
		name   string
		x, y   float32
		want   Vec2
		zeroVX bool
		zeroVY bool
	}{
		{"inside", 0.01, -0.01, Vec2{0.01, -0.01}, false, false},
		{"upper x", 0.5, 0, Vec2{0.02, 0}, true, false},
		{"lower x", -0.5, 0, Vec2{-0.02, 0}, true, false},
		{"upper y", 0, 0.5, Vec2{0, 0.04}, false, true},
		{"lower y", 0, -0.5, Vec2{0, -0.04}, false, true},
		{"exactly on wall", 0.02, -0.04, Vec2{0.02, -0.04}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParticle(0, 0, DefaultDamping)
			p.SetVelocity(1, 1)
			p.SetPosition(tt.x, tt.y, b)

			if p.Position() != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, p.Position())
			}
			if (p.Velocity().X == 0) != tt.zeroVX {
				t.Errorf("vx zeroed = %v, want %v", p.Velocity().X == 0, tt.zeroVX)
			}
			if (p.Velocity().Y == 0) != tt.zeroVY {
				t.Errorf("vy zeroed = %v, want %v", p.Velocity().Y == 0, tt.zeroVY)
			}
		})
	}
}

func TestZeroStepIsIdentity(t *testing.T) {
	b := Bounds{X: 0.03, Y: 0.03}
	p := NewParticle(0.01, -0.02, DefaultDamping)
	p.SetVelocity(0.2, -0.1)

	p.ComputePhysics(7, -3, 0, b)

	if p.Position() != (Vec2{0.01, -0.02}) {
		t.Errorf("expected unchanged position, got %+v", p.Position())
	}
	if p.Velocity() != (Vec2{0.2, -0.1}) {
		t.Errorf("expected unchanged velocity, got %+v", p.Velocity())
	}
}

func TestDampingScalesAcceleration(t *testing.T) {
	b := Bounds{X: 10, Y: 10}
	soft := NewParticle(0, 0, 10)
	hard := NewParticle(0, 0, 2)

	soft.ComputePhysics(-4, 0, 1, b)
	hard.ComputePhysics(-4, 0, 1, b)

	if !near(soft.Velocity().X, 0.4) {
		t.Errorf("expected soft vx 0.4, got %f", soft.Velocity().X)
	}
	if !near(hard.Velocity().X, 2) {
		t.Errorf("expected hard vx 2, got %f", hard.Velocity().X)
	}
}

func TestNonPositiveDampingFallsBack(t *testing.T) {
	p := NewParticle(0, 0, 0)
	if p.Damping() != DefaultDamping {
		t.Errorf("expected damping %v, got %v", DefaultDamping, p.Damping())
	}
}
