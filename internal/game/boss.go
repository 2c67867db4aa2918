package game

import (
	"math/rand"
	"time"
)

// Phase is the boss's life-cycle state. PhaseDead is the one canonical
// death signal; there is no separate liveness flag.
type Phase int

// Boss phases.
const (
	PhaseIdle Phase = iota
	PhaseWalking
	PhaseAttacking
	PhaseDying
	PhaseDead
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWalking:
		return "walking"
	case PhaseAttacking:
		return "attacking"
	case PhaseDying:
		return "dying"
	case PhaseDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Tint is the visual state derived from the active buff overlays. The two
// overlays are independent, so all four combinations are distinct values.
type Tint int

// Tint states.
const (
	TintNone Tint = iota
	TintMetalSkin
	TintPowerSurge
	TintBoth
)

// MusicSource reports playback state of the encounter's backing track. The
// final stand is keyed to it instead of to boss health.
type MusicSource interface {
	Position() time.Duration
	Playing() bool
}

// Buff multipliers applied while PowerSurge is active.
const (
	surgeSpeedMultiplier    = 1.6
	surgeShootCooldownScale = 0.6
	surgeDamageMultiplier   = 1.5
)

// BossConfig holds the tunable stats of one boss tier.
type BossConfig struct {
	MaxHealth      int
	WalkSpeed      float64
	AttackRange    float64
	AttackDamage   int
	AttackCooldown time.Duration
	AttackDuration time.Duration
	ShootRange     float64
	ShootDamage    int
	ShootCooldown  time.Duration
	DyingDuration  time.Duration

	MetalSkinInterval    time.Duration
	MetalSkinChance      float64
	MetalSkinMinDuration time.Duration
	MetalSkinMaxDuration time.Duration

	PowerSurge       bool
	SurgeInterval    time.Duration
	SurgeChance      float64
	SurgeMinDuration time.Duration
	SurgeMaxDuration time.Duration

	FinalBoss                bool
	FinalStandAt             time.Duration
	FinalStandHealth         int
	FinalStandAttackCooldown time.Duration
}

// DefaultBossConfig returns the stats of the standard boss tier.
func DefaultBossConfig() BossConfig {
	return BossConfig{
		MaxHealth:      300,
		WalkSpeed:      80,
		AttackRange:    60,
		AttackDamage:   20,
		AttackCooldown: 2 * time.Second,
		AttackDuration: 600 * time.Millisecond,
		ShootRange:     400,
		ShootDamage:    10,
		ShootCooldown:  1500 * time.Millisecond,
		DyingDuration:  800 * time.Millisecond,

		MetalSkinInterval:    5 * time.Second,
		MetalSkinChance:      0.25,
		MetalSkinMinDuration: 5 * time.Second,
		MetalSkinMaxDuration: 12 * time.Second,

		PowerSurge:       true,
		SurgeInterval:    6 * time.Second,
		SurgeChance:      0.2,
		SurgeMinDuration: 4 * time.Second,
		SurgeMaxDuration: 8 * time.Second,
	}
}

// FinalBossConfig returns the last encounter's stats, with the scripted
// final stand enabled.
func FinalBossConfig() BossConfig {
	cfg := DefaultBossConfig()
	cfg.MaxHealth = 500
	cfg.FinalBoss = true
	cfg.FinalStandAt = 120 * time.Second
	cfg.FinalStandHealth = 999999
	cfg.FinalStandAttackCooldown = 700 * time.Millisecond
	return cfg
}

// Boss is the encounter state machine. It only moves when Tick is called,
// all randomness comes from the injected source, and timed effects run on
// the internal scheduler, so every transition is reproducible in tests.
type Boss struct {
	X float64

	cfg    BossConfig
	phase  Phase
	health int
	clock  time.Duration
	sched  *Scheduler
	rng    *rand.Rand
	music  MusicSource

	metalSkinUntil time.Duration
	nextMetalRoll  time.Duration
	surgeUntil     time.Duration
	nextSurgeRoll  time.Duration
	lastAttackAt   time.Duration
	lastShotAt     time.Duration

	finalStand bool

	attackHandle *Handle

	// Hooks for the hosting scene. All optional.
	OnAttack   func(damage int)
	OnShoot    func(damage int)
	OnBlocked  func()
	OnDefeated func()
}

// NewBoss creates a boss with the given stats. music may be nil for
// non-final encounters.
func NewBoss(cfg BossConfig, rng *rand.Rand, music MusicSource) *Boss {
	return &Boss{
		cfg:           cfg,
		phase:         PhaseIdle,
		health:        cfg.MaxHealth,
		sched:         NewScheduler(),
		rng:           rng,
		music:         music,
		nextMetalRoll: cfg.MetalSkinInterval,
		nextSurgeRoll: cfg.SurgeInterval,
		lastAttackAt:  -cfg.AttackCooldown,
		lastShotAt:    -cfg.ShootCooldown,
	}
}

// Phase returns the current life-cycle state.
func (b *Boss) Phase() Phase {
	return b.phase
}

// Health returns the current health.
func (b *Boss) Health() int {
	return b.health
}

// MetalSkinActive reports whether the MetalSkin overlay is up.
func (b *Boss) MetalSkinActive() bool {
	return b.metalSkinUntil > b.clock
}

// SurgeActive reports whether the PowerSurge overlay is up.
func (b *Boss) SurgeActive() bool {
	return b.surgeUntil > b.clock
}

// InFinalStand reports whether the scripted end phase has started.
func (b *Boss) InFinalStand() bool {
	return b.finalStand
}

// Tint returns the visual state for the current overlay combination.
func (b *Boss) Tint() Tint {
	switch {
	case b.MetalSkinActive() && b.SurgeActive():
		return TintBoth
	case b.MetalSkinActive():
		return TintMetalSkin
	case b.SurgeActive():
		return TintPowerSurge
	default:
		return TintNone
	}
}

// Speed returns the walk speed with the surge multiplier applied. Base
// stats are never mutated; modified values are derived while the buff is
// up and revert on expiry for free.
func (b *Boss) Speed() float64 {
	if b.SurgeActive() {
		return b.cfg.WalkSpeed * surgeSpeedMultiplier
	}
	return b.cfg.WalkSpeed
}

// AttackDamage returns the melee damage with the surge multiplier applied.
func (b *Boss) AttackDamage() int {
	if b.SurgeActive() {
		return int(float64(b.cfg.AttackDamage) * surgeDamageMultiplier)
	}
	return b.cfg.AttackDamage
}

// ShootDamage returns the projectile damage with the surge multiplier applied.
func (b *Boss) ShootDamage() int {
	if b.SurgeActive() {
		return int(float64(b.cfg.ShootDamage) * surgeDamageMultiplier)
	}
	return b.cfg.ShootDamage
}

func (b *Boss) shootCooldown() time.Duration {
	cd := b.cfg.ShootCooldown
	if b.SurgeActive() {
		cd = time.Duration(float64(cd) * surgeShootCooldownScale)
	}
	return cd
}

func (b *Boss) attackCooldown() time.Duration {
	if b.finalStand {
		return b.cfg.FinalStandAttackCooldown
	}
	return b.cfg.AttackCooldown
}

// Tick advances the boss by dt with the player at the given distance.
// No-op once dying or dead apart from draining the exit transition timer.
func (b *Boss) Tick(dt time.Duration, playerDist float64) {
	if b.phase == PhaseDead {
		return
	}
	b.clock += dt
	b.sched.Advance(dt)
	if b.phase == PhaseDying || b.phase == PhaseDead {
		return
	}

	b.rollBuffs()

	if b.cfg.FinalBoss && b.music != nil {
		if !b.finalStand && b.music.Position() >= b.cfg.FinalStandAt {
			b.enterFinalStand()
		}
		// The final stand ends only when the track does, whatever the health.
		if b.finalStand && !b.music.Playing() {
			b.die()
			return
		}
	}

	if b.phase == PhaseAttacking {
		return
	}

	switch {
	case playerDist < b.cfg.AttackRange && b.clock-b.lastAttackAt >= b.attackCooldown():
		b.startAttack()
	case playerDist < b.cfg.ShootRange:
		b.phase = PhaseWalking
		if b.clock-b.lastShotAt >= b.shootCooldown() {
			b.lastShotAt = b.clock
			if b.OnShoot != nil {
				b.OnShoot(b.ShootDamage())
			}
		}
	default:
		b.phase = PhaseIdle
	}
}

// rollBuffs runs the periodic activation rolls for both overlays. Each
// roll happens at most once per interval, also when Tick is called with a
// large dt.
func (b *Boss) rollBuffs() {
	for b.clock >= b.nextMetalRoll {
		b.nextMetalRoll += b.cfg.MetalSkinInterval
		if !b.MetalSkinActive() && b.rng.Float64() < b.cfg.MetalSkinChance {
			b.metalSkinUntil = b.clock + b.randDuration(b.cfg.MetalSkinMinDuration, b.cfg.MetalSkinMaxDuration)
		}
	}
	if !b.cfg.PowerSurge {
		return
	}
	for b.clock >= b.nextSurgeRoll {
		b.nextSurgeRoll += b.cfg.SurgeInterval
		if !b.SurgeActive() && b.rng.Float64() < b.cfg.SurgeChance {
			b.surgeUntil = b.clock + b.randDuration(b.cfg.SurgeMinDuration, b.cfg.SurgeMaxDuration)
		}
	}
}

func (b *Boss) randDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(b.rng.Int63n(int64(max-min)))
}

func (b *Boss) startAttack() {
	b.phase = PhaseAttacking
	b.lastAttackAt = b.clock
	if b.OnAttack != nil {
		b.OnAttack(b.AttackDamage())
	}
	b.attackHandle = b.sched.After(b.cfg.AttackDuration, func() {
		if b.phase == PhaseAttacking {
			b.phase = PhaseWalking
		}
	})
}

// TakeDamage applies typed damage. While MetalSkin is up only sword damage
// lands; anything else is blocked without touching health. Hits on a dying
// or dead boss are no-ops because projectile and timer callbacks can
// arrive after despawn.
func (b *Boss) TakeDamage(amount int, typ DamageType) DamageResult {
	if amount <= 0 || b.phase == PhaseDying || b.phase == PhaseDead {
		return DamageResult{}
	}
	if b.MetalSkinActive() && typ != DamageSword {
		if b.OnBlocked != nil {
			b.OnBlocked()
		}
		return DamageResult{Blocked: true}
	}

	applied := amount
	if applied > b.health {
		applied = b.health
	}
	b.health -= applied

	if b.health <= 0 {
		if b.cfg.FinalBoss && !b.finalStand {
			b.enterFinalStand()
		} else if !b.finalStand {
			b.die()
		} else {
			// Unkillable during the final stand; top back up.
			b.health = b.cfg.FinalStandHealth
		}
	}
	return DamageResult{Applied: applied}
}

// enterFinalStand resets health to the unkillable value and drops the
// attack cooldown. From here the death condition is the music ending.
func (b *Boss) enterFinalStand() {
	b.finalStand = true
	b.health = b.cfg.FinalStandHealth
}

// die starts the exit transition: outstanding timers are cancelled, the
// phase goes to Dying for the fixed transition window, then Dead. The
// defeat hook fires once on reaching Dead.
func (b *Boss) die() {
	if b.phase == PhaseDying || b.phase == PhaseDead {
		return
	}
	if b.attackHandle != nil {
		b.attackHandle.Cancel()
	}
	b.phase = PhaseDying
	b.sched.After(b.cfg.DyingDuration, func() {
		b.phase = PhaseDead
		if b.OnDefeated != nil {
			b.OnDefeated()
		}
	})
}
