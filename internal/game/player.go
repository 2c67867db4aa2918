package game

import "time"

// Loadout is the ability state for one play session, owned by the player
// and injected into each encounter rather than looked up from a global
// registry.
type Loadout struct {
	HasShield     bool
	HasSword      bool
	HasGlider     bool
	HasDoubleJump bool
}

// poisonEffect is an active damage-over-time debuff on the player.
type poisonEffect struct {
	perTick  int
	interval time.Duration
	until    time.Duration
	nextTick time.Duration
}

// Player is the headless combat state of the player character: health, the
// shield block, and any poison debuffs. Movement and rendering live in the
// engine and are out of scope.
type Player struct {
	X         float64
	Health    int
	MaxHealth int
	Loadout   Loadout

	shieldRaised bool
	poisons      []poisonEffect
	clock        time.Duration
}

// NewPlayer creates a player at full health.
func NewPlayer(maxHealth int, loadout Loadout) *Player {
	return &Player{Health: maxHealth, MaxHealth: maxHealth, Loadout: loadout}
}

// RaiseShield blocks incoming damage while held. A no-op without the
// shield pickup.
func (p *Player) RaiseShield() {
	if p.Loadout.HasShield {
		p.shieldRaised = true
	}
}

// LowerShield stops blocking.
func (p *Player) LowerShield() {
	p.shieldRaised = false
}

// ShieldRaised reports whether the shield is currently absorbing damage.
func (p *Player) ShieldRaised() bool {
	return p.shieldRaised
}

// TakeDamage applies contact or projectile damage. A raised shield absorbs
// the hit fully, regardless of any buff on the attacker. Health floors at 0.
func (p *Player) TakeDamage(amount int) DamageResult {
	if amount <= 0 || p.Health <= 0 {
		return DamageResult{}
	}
	if p.shieldRaised {
		return DamageResult{Blocked: true}
	}
	applied := amount
	if applied > p.Health {
		applied = p.Health
	}
	p.Health -= applied
	return DamageResult{Applied: applied}
}

// ApplyPoison adds a damage-over-time debuff that deals perTick damage
// every interval until duration elapses. Poison ignores the shield once
// applied; the shield only prevents the contact that applies it.
func (p *Player) ApplyPoison(perTick int, interval, duration time.Duration) {
	p.poisons = append(p.poisons, poisonEffect{
		perTick:  perTick,
		interval: interval,
		until:    p.clock + duration,
		nextTick: p.clock + interval,
	})
}

// Poisoned reports whether any debuff is active.
func (p *Player) Poisoned() bool {
	return len(p.poisons) > 0
}

// Alive reports whether the player has health left.
func (p *Player) Alive() bool {
	return p.Health > 0
}

// Tick advances the player's virtual clock, applying due poison ticks and
// expiring finished debuffs.
func (p *Player) Tick(dt time.Duration) {
	p.clock += dt

	remaining := p.poisons[:0]
	for i := range p.poisons {
		poison := &p.poisons[i]
		for poison.nextTick <= p.clock && poison.nextTick <= poison.until {
			if p.Health > 0 {
				damage := poison.perTick
				if damage > p.Health {
					damage = p.Health
				}
				p.Health -= damage
			}
			poison.nextTick += poison.interval
		}
		if poison.until > p.clock {
			remaining = append(remaining, *poison)
		}
	}
	p.poisons = remaining
}
