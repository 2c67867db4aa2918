package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMusic is a scriptable MusicSource.
type fakeMusic struct {
	pos     time.Duration
	playing bool
}

func (m *fakeMusic) Position() time.Duration { return m.pos }
func (m *fakeMusic) Playing() bool           { return m.playing }

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// quietConfig disables both buff rolls so state-machine tests are not
// perturbed by random activations.
func quietConfig() BossConfig {
	cfg := DefaultBossConfig()
	cfg.MetalSkinChance = 0
	cfg.SurgeChance = 0
	return cfg
}

func TestBossStartsIdle(t *testing.T) {
	b := NewBoss(quietConfig(), testRNG(), nil)
	assert.Equal(t, PhaseIdle, b.Phase())
	assert.Equal(t, b.cfg.MaxHealth, b.Health())
}

func TestBossIdleWhenPlayerFar(t *testing.T) {
	b := NewBoss(quietConfig(), testRNG(), nil)
	b.Tick(100*time.Millisecond, 10000)
	assert.Equal(t, PhaseIdle, b.Phase())
}

func TestBossWalksAndShootsInShootRange(t *testing.T) {
	b := NewBoss(quietConfig(), testRNG(), nil)

	shots := 0
	b.OnShoot = func(int) { shots++ }

	// Inside shoot range, outside attack range.
	b.Tick(100*time.Millisecond, 200)
	assert.Equal(t, PhaseWalking, b.Phase())
	assert.Equal(t, 1, shots)

	// Next shot waits out the cooldown.
	b.Tick(100*time.Millisecond, 200)
	assert.Equal(t, 1, shots)
	b.Tick(b.cfg.ShootCooldown, 200)
	assert.Equal(t, 2, shots)
}

func TestBossShootsWithProjectileDamage(t *testing.T) {
	b := NewBoss(quietConfig(), testRNG(), nil)

	var dmg []int
	b.OnShoot = func(d int) { dmg = append(dmg, d) }

	b.Tick(100*time.Millisecond, 200)
	require.Equal(t, []int{b.cfg.ShootDamage}, dmg)
	assert.NotEqual(t, b.cfg.AttackDamage, dmg[0], "projectiles must use the shoot stat, not the melee stat")

	// The surge multiplier applies to the projectile stat too.
	b.surgeUntil = b.clock + time.Minute
	b.Tick(b.shootCooldown(), 200)
	require.Len(t, dmg, 2)
	assert.Equal(t, int(float64(b.cfg.ShootDamage)*surgeDamageMultiplier), dmg[1])
}

func TestBossAttacksInRangeThenRecovers(t *testing.T) {
	b := NewBoss(quietConfig(), testRNG(), nil)

	attacks := 0
	b.OnAttack = func(int) { attacks++ }

	b.Tick(100*time.Millisecond, 10)
	assert.Equal(t, PhaseAttacking, b.Phase())
	assert.Equal(t, 1, attacks)

	// The attack animation window runs out, back to Walking.
	b.Tick(b.cfg.AttackDuration, 10)
	assert.Equal(t, PhaseWalking, b.Phase())

	// Still on cooldown.
	b.Tick(100*time.Millisecond, 10)
	assert.Equal(t, 1, attacks)

	b.Tick(b.cfg.AttackCooldown, 10)
	assert.Equal(t, 2, attacks)
}

func TestBossMetalSkinBlocksNonSwordDamage(t *testing.T) {
	cfg := quietConfig()
	cfg.MetalSkinChance = 1.0 // deterministic activation on the first roll
	b := NewBoss(cfg, testRNG(), nil)

	blocked := 0
	b.OnBlocked = func() { blocked++ }

	b.Tick(cfg.MetalSkinInterval, 10000)
	require.True(t, b.MetalSkinActive())

	before := b.Health()
	for _, typ := range []DamageType{DamageContact, DamageProjectile, DamageArrow} {
		result := b.TakeDamage(25, typ)
		assert.True(t, result.Blocked, "type %s should be blocked", typ)
		assert.Equal(t, 0, result.Applied)
	}
	assert.Equal(t, before, b.Health(), "blocked hits must not alter health")
	assert.Equal(t, 3, blocked)

	// Sword damage always lands.
	result := b.TakeDamage(25, DamageSword)
	assert.False(t, result.Blocked)
	assert.Equal(t, 25, result.Applied)
	assert.Equal(t, before-25, b.Health())
}

func TestBossMetalSkinExpires(t *testing.T) {
	cfg := quietConfig()
	cfg.MetalSkinChance = 1.0
	b := NewBoss(cfg, testRNG(), nil)

	b.Tick(cfg.MetalSkinInterval, 10000)
	require.True(t, b.MetalSkinActive())

	b.cfg.MetalSkinChance = 0 // no re-activation while waiting out the buff
	b.Tick(cfg.MetalSkinMaxDuration+time.Second, 10000)
	require.False(t, b.MetalSkinActive())

	result := b.TakeDamage(10, DamageContact)
	assert.False(t, result.Blocked)
	assert.Equal(t, 10, result.Applied)
}

func TestBossPowerSurgeScalesStats(t *testing.T) {
	cfg := quietConfig()
	cfg.SurgeChance = 1.0
	b := NewBoss(cfg, testRNG(), nil)

	baseSpeed := b.Speed()
	baseDamage := b.AttackDamage()
	baseShootCD := b.shootCooldown()

	b.Tick(cfg.SurgeInterval, 10000)
	require.True(t, b.SurgeActive())

	assert.InDelta(t, baseSpeed*1.6, b.Speed(), 0.001)
	assert.Equal(t, int(float64(baseDamage)*1.5), b.AttackDamage())
	assert.Equal(t, time.Duration(float64(baseShootCD)*0.6), b.shootCooldown())

	// Derived stats revert once the buff expires.
	b.surgeUntil = b.clock
	assert.False(t, b.SurgeActive())
	assert.InDelta(t, baseSpeed, b.Speed(), 0.001)
	assert.Equal(t, baseDamage, b.AttackDamage())
	assert.Equal(t, baseShootCD, b.shootCooldown())
}

func TestBossTintCombinations(t *testing.T) {
	b := NewBoss(quietConfig(), testRNG(), nil)
	assert.Equal(t, TintNone, b.Tint())

	b.metalSkinUntil = b.clock + time.Minute
	assert.Equal(t, TintMetalSkin, b.Tint())

	b.surgeUntil = b.clock + time.Minute
	assert.Equal(t, TintBoth, b.Tint())

	b.metalSkinUntil = 0
	assert.Equal(t, TintPowerSurge, b.Tint())
}

func TestBossDeathTransition(t *testing.T) {
	cfg := quietConfig()
	b := NewBoss(cfg, testRNG(), nil)

	defeated := false
	b.OnDefeated = func() { defeated = true }

	b.TakeDamage(cfg.MaxHealth, DamageSword)
	assert.Equal(t, PhaseDying, b.Phase())
	assert.False(t, defeated)

	// Hits during the exit transition are no-ops.
	result := b.TakeDamage(50, DamageSword)
	assert.Equal(t, 0, result.Applied)

	b.Tick(cfg.DyingDuration, 10)
	assert.Equal(t, PhaseDead, b.Phase())
	assert.True(t, defeated)

	// Dead is terminal.
	b.Tick(time.Minute, 10)
	assert.Equal(t, PhaseDead, b.Phase())
}

func TestBossAttackTimerCancelledOnDeath(t *testing.T) {
	cfg := quietConfig()
	b := NewBoss(cfg, testRNG(), nil)

	b.Tick(100*time.Millisecond, 10)
	require.Equal(t, PhaseAttacking, b.Phase())

	// Die mid-attack: the animation-completion timer must not drag the
	// phase back to Walking.
	b.TakeDamage(cfg.MaxHealth, DamageSword)
	require.Equal(t, PhaseDying, b.Phase())

	b.Tick(cfg.AttackDuration+cfg.DyingDuration, 10)
	assert.Equal(t, PhaseDead, b.Phase())
}

func TestFinalBossEntersFinalStandAtZeroHealth(t *testing.T) {
	cfg := FinalBossConfig()
	cfg.MetalSkinChance = 0
	cfg.SurgeChance = 0
	music := &fakeMusic{playing: true}
	b := NewBoss(cfg, testRNG(), music)

	result := b.TakeDamage(cfg.MaxHealth, DamageSword)
	assert.Equal(t, cfg.MaxHealth, result.Applied)
	assert.True(t, b.InFinalStand())
	assert.Equal(t, cfg.FinalStandHealth, b.Health())
	assert.NotEqual(t, PhaseDying, b.Phase())
}

func TestFinalBossEntersFinalStandAtMusicMark(t *testing.T) {
	cfg := FinalBossConfig()
	cfg.MetalSkinChance = 0
	cfg.SurgeChance = 0
	music := &fakeMusic{pos: 119 * time.Second, playing: true}
	b := NewBoss(cfg, testRNG(), music)

	b.Tick(time.Second, 10000)
	assert.False(t, b.InFinalStand())

	music.pos = 120 * time.Second
	b.Tick(time.Second, 10000)
	assert.True(t, b.InFinalStand())
}

func TestFinalStandUnkillableByDamage(t *testing.T) {
	cfg := FinalBossConfig()
	cfg.MetalSkinChance = 0
	cfg.SurgeChance = 0
	music := &fakeMusic{playing: true}
	b := NewBoss(cfg, testRNG(), music)

	b.TakeDamage(cfg.MaxHealth, DamageSword)
	require.True(t, b.InFinalStand())

	// Massive overkill just tops health back up.
	b.TakeDamage(b.Health()+1000000, DamageSword)
	assert.Equal(t, cfg.FinalStandHealth, b.Health())
	assert.NotEqual(t, PhaseDying, b.Phase())
	assert.NotEqual(t, PhaseDead, b.Phase())
}

func TestFinalStandDiesWhenMusicStops(t *testing.T) {
	cfg := FinalBossConfig()
	cfg.MetalSkinChance = 0
	cfg.SurgeChance = 0
	music := &fakeMusic{pos: 120 * time.Second, playing: true}
	b := NewBoss(cfg, testRNG(), music)

	b.Tick(time.Second, 10000)
	require.True(t, b.InFinalStand())

	// Health is enormous; the track ending forces the death anyway.
	b.health = 9999
	music.playing = false
	b.Tick(time.Second, 10000)
	assert.Equal(t, PhaseDying, b.Phase())

	b.Tick(cfg.DyingDuration, 10000)
	assert.Equal(t, PhaseDead, b.Phase())
}

func TestFinalStandShortensAttackCooldown(t *testing.T) {
	cfg := FinalBossConfig()
	cfg.MetalSkinChance = 0
	cfg.SurgeChance = 0
	music := &fakeMusic{playing: true}
	b := NewBoss(cfg, testRNG(), music)

	b.TakeDamage(cfg.MaxHealth, DamageSword)
	require.True(t, b.InFinalStand())
	assert.Equal(t, cfg.FinalStandAttackCooldown, b.attackCooldown())
}

func TestBossNegativeDamageIgnored(t *testing.T) {
	b := NewBoss(quietConfig(), testRNG(), nil)
	before := b.Health()
	result := b.TakeDamage(-10, DamageSword)
	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, before, b.Health())
}
