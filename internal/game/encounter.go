package game

import (
	"math/rand"
	"time"
)

// EncounterConfig holds the arena-level knobs tying the boss, player and
// add-on spawns together.
type EncounterConfig struct {
	Boss             BossConfig
	Blob             BlobConfig
	BlobSpawnEvery   time.Duration
	BlobSpawnOffset  float64
	MaxBlobs         int
	BossContactRange float64
}

// DefaultEncounterConfig returns the final encounter's arena settings.
func DefaultEncounterConfig() EncounterConfig {
	return EncounterConfig{
		Boss:             FinalBossConfig(),
		Blob:             DefaultBlobConfig(),
		BlobSpawnEvery:   5 * time.Second,
		BlobSpawnOffset:  300,
		MaxBlobs:         4,
		BossContactRange: 40,
	}
}

// Encounter drives one boss fight: it advances the boss, the player and
// any live blobs on the shared virtual clock, spawns blobs during the
// final stand, and applies boss contact damage. The hosting scene only
// forwards frame deltas and input.
type Encounter struct {
	Boss   *Boss
	Player *Player

	cfg       EncounterConfig
	blobs     []*PoisonBlob
	clock     time.Duration
	lastSpawn time.Duration
	rng       *rand.Rand
}

// NewEncounter wires up a fight between the given player and a boss built
// from cfg.
func NewEncounter(cfg EncounterConfig, player *Player, rng *rand.Rand, music MusicSource) *Encounter {
	e := &Encounter{
		Boss:   NewBoss(cfg.Boss, rng, music),
		Player: player,
		cfg:    cfg,
		rng:    rng,
	}
	// One hit per attack wind-up, landing only if the player is still in
	// contact range when it starts.
	e.Boss.OnAttack = func(damage int) {
		if e.distanceToPlayer() <= e.cfg.BossContactRange {
			e.Player.TakeDamage(damage)
		}
	}
	return e
}

func (e *Encounter) distanceToPlayer() float64 {
	dist := e.Boss.X - e.Player.X
	if dist < 0 {
		dist = -dist
	}
	return dist
}

// Blobs returns the live poison blobs.
func (e *Encounter) Blobs() []*PoisonBlob {
	return e.blobs
}

// Over reports whether the fight ended: the boss reached its canonical
// dead state or the player ran out of health.
func (e *Encounter) Over() bool {
	return e.Boss.Phase() == PhaseDead || !e.Player.Alive()
}

// Tick advances the whole fight by one frame delta.
func (e *Encounter) Tick(dt time.Duration) {
	e.clock += dt

	e.Player.Tick(dt)
	e.Boss.Tick(dt, e.distanceToPlayer())

	e.spawnBlobs()
	live := e.blobs[:0]
	for _, blob := range e.blobs {
		blob.Tick(dt, e.Player)
		if blob.Phase() != PhaseDead {
			live = append(live, blob)
		}
	}
	e.blobs = live
}

// spawnBlobs adds a blob on the fixed cadence while the final stand runs.
func (e *Encounter) spawnBlobs() {
	if !e.Boss.InFinalStand() || e.Boss.Phase() == PhaseDying || e.Boss.Phase() == PhaseDead {
		return
	}
	if len(e.blobs) >= e.cfg.MaxBlobs || e.clock-e.lastSpawn < e.cfg.BlobSpawnEvery {
		return
	}
	e.lastSpawn = e.clock
	offset := e.cfg.BlobSpawnOffset
	if e.rng.Intn(2) == 0 {
		offset = -offset
	}
	e.blobs = append(e.blobs, NewPoisonBlob(e.cfg.Blob, e.Player.X+offset))
}
