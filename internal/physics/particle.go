package physics

// DefaultDamping scales sensor acceleration down to the pseudo-acceleration
// that drives the balls. Empirical, not physically derived.
const DefaultDamping float32 = 5.0

type Vec2 struct {
	X, Y float32
}

// Particle holds one ball's position and velocity in simulation space.
type Particle struct {
	pos     Vec2
	vel     Vec2
	damping float32
}

// NewParticle places a particle at (x, y) at rest. The position is not
// clamped until the first physics step or an explicit SetPosition.
func NewParticle(x, y, damping float32) *Particle {
	if damping <= 0 {
		damping = DefaultDamping
	}
	return &Particle{pos: Vec2{x, y}, damping: damping}
}

func (p *Particle) Position() Vec2 { return p.pos }
func (p *Particle) Velocity() Vec2 { return p.vel }
func (p *Particle) Damping() float32 { return p.damping }

// SetVelocity overrides the velocity; hosts use it to seed scenarios.
func (p *Particle) SetVelocity(vx, vy float32) {
	p.vel = Vec2{vx, vy}
}

// SetPosition writes a candidate position and clamps each axis against b.
// An axis at or beyond its wall is pinned there with zero velocity.
func (p *Particle) SetPosition(x, y float32, b Bounds) {
	p.pos.X, p.vel.X = clampAxis(x, p.vel.X, b.X)
	p.pos.Y, p.vel.Y = clampAxis(y, p.vel.Y, b.Y)
}

// ComputePhysics advances the particle by dt seconds under sensor reading
// (sx, sy). The velocity update uses the unclamped acceleration; only the
// wall clamp can zero it.
func (p *Particle) ComputePhysics(sx, sy, dt float32, b Bounds) {
	ax := -sx / p.damping
	ay := -sy / p.damping

	x := p.pos.X + p.vel.X*dt + ax*dt*dt/2
	y := p.pos.Y + p.vel.Y*dt + ay*dt*dt/2

	p.vel.X += ax * dt
	p.vel.Y += ay * dt

	p.SetPosition(x, y, b)
}

func clampAxis(value, vel, bound float32) (float32, float32) {
	if value >= bound {
		return bound, 0
	}
	if value <= -bound {
		return -bound, 0
	}
	return value, vel
}
