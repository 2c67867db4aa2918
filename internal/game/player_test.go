package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlayerTakeDamage(t *testing.T) {
	p := NewPlayer(100, Loadout{})

	result := p.TakeDamage(30)
	assert.Equal(t, 30, result.Applied)
	assert.Equal(t, 70, p.Health)
}

func TestPlayerHealthFloorsAtZero(t *testing.T) {
	p := NewPlayer(20, Loadout{})

	result := p.TakeDamage(50)
	assert.Equal(t, 20, result.Applied)
	assert.Equal(t, 0, p.Health)
	assert.False(t, p.Alive())

	// Further hits on a downed player do nothing.
	result = p.TakeDamage(10)
	assert.Equal(t, 0, result.Applied)
}

func TestPlayerShieldAbsorbsFully(t *testing.T) {
	p := NewPlayer(100, Loadout{HasShield: true})
	p.RaiseShield()

	result := p.TakeDamage(40)
	assert.True(t, result.Blocked)
	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, 100, p.Health)

	p.LowerShield()
	result = p.TakeDamage(40)
	assert.False(t, result.Blocked)
	assert.Equal(t, 60, p.Health)
}

func TestPlayerShieldRequiresPickup(t *testing.T) {
	p := NewPlayer(100, Loadout{HasShield: false})
	p.RaiseShield()
	assert.False(t, p.ShieldRaised())

	result := p.TakeDamage(10)
	assert.False(t, result.Blocked)
	assert.Equal(t, 90, p.Health)
}

func TestPlayerPoisonTicks(t *testing.T) {
	p := NewPlayer(100, Loadout{})
	p.ApplyPoison(5, time.Second, 3*time.Second)

	p.Tick(time.Second)
	assert.Equal(t, 95, p.Health)

	p.Tick(time.Second)
	assert.Equal(t, 90, p.Health)

	p.Tick(time.Second)
	assert.Equal(t, 85, p.Health)
	assert.False(t, p.Poisoned(), "debuff should expire after its duration")

	p.Tick(10 * time.Second)
	assert.Equal(t, 85, p.Health)
}

func TestPlayerPoisonLargeStepAppliesAllDueTicks(t *testing.T) {
	p := NewPlayer(100, Loadout{})
	p.ApplyPoison(5, time.Second, 3*time.Second)

	p.Tick(time.Minute)
	assert.Equal(t, 85, p.Health)
	assert.False(t, p.Poisoned())
}
