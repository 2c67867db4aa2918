package game

import "time"

// BlobConfig holds the poison blob add-on stats.
type BlobConfig struct {
	Health          int
	Speed           float64
	ContactRange    float64
	PoisonPerTick   int
	PoisonInterval  time.Duration
	PoisonDuration  time.Duration
	DespawnDuration time.Duration
}

// DefaultBlobConfig returns the standard poison blob stats.
func DefaultBlobConfig() BlobConfig {
	return BlobConfig{
		Health:          30,
		Speed:           50,
		ContactRange:    24,
		PoisonPerTick:   2,
		PoisonInterval:  time.Second,
		PoisonDuration:  4 * time.Second,
		DespawnDuration: 400 * time.Millisecond,
	}
}

// PoisonBlob is an add-on enemy spawned during the final stand. It walks
// toward the player, poisons on contact, and can be killed by melee or
// ranged hits, despawning through a short shrink-out window.
type PoisonBlob struct {
	X float64

	cfg    BlobConfig
	phase  Phase
	health int
	sched  *Scheduler
}

// NewPoisonBlob spawns a blob at x.
func NewPoisonBlob(cfg BlobConfig, x float64) *PoisonBlob {
	return &PoisonBlob{
		X:      x,
		cfg:    cfg,
		phase:  PhaseWalking,
		health: cfg.Health,
		sched:  NewScheduler(),
	}
}

// Phase returns the blob's life-cycle state.
func (pb *PoisonBlob) Phase() Phase {
	return pb.phase
}

// Health returns the current health.
func (pb *PoisonBlob) Health() int {
	return pb.health
}

// TakeDamage applies damage from any source; blobs have no typed gate.
// Hits after the shrink-out started are no-ops.
func (pb *PoisonBlob) TakeDamage(amount int, _ DamageType) DamageResult {
	if amount <= 0 || pb.phase == PhaseDying || pb.phase == PhaseDead {
		return DamageResult{}
	}
	applied := amount
	if applied > pb.health {
		applied = pb.health
	}
	pb.health -= applied
	if pb.health <= 0 {
		pb.phase = PhaseDying
		pb.sched.After(pb.cfg.DespawnDuration, func() {
			pb.phase = PhaseDead
		})
	}
	return DamageResult{Applied: applied}
}

// Tick advances the blob toward the player and applies contact poison. A
// raised shield absorbs the contact and prevents the debuff.
func (pb *PoisonBlob) Tick(dt time.Duration, player *Player) {
	if pb.phase == PhaseDead {
		return
	}
	pb.sched.Advance(dt)
	if pb.phase != PhaseWalking {
		return
	}

	step := pb.cfg.Speed * dt.Seconds()
	switch {
	case player.X > pb.X+step:
		pb.X += step
	case player.X < pb.X-step:
		pb.X -= step
	default:
		pb.X = player.X
	}

	dist := pb.X - player.X
	if dist < 0 {
		dist = -dist
	}
	if dist <= pb.cfg.ContactRange && !player.Poisoned() {
		result := player.TakeDamage(pb.cfg.PoisonPerTick)
		if !result.Blocked {
			player.ApplyPoison(pb.cfg.PoisonPerTick, pb.cfg.PoisonInterval, pb.cfg.PoisonDuration)
		}
	}
}
