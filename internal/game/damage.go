package game

// DamageType tags where a hit came from. MetalSkin only accepts sword
// damage, so acceptance is gated on the type, not the amount.
type DamageType int

// Damage types.
const (
	DamageContact DamageType = iota
	DamageProjectile
	DamageArrow
	DamageSword
)

// String returns the damage type name.
func (d DamageType) String() string {
	switch d {
	case DamageContact:
		return "contact"
	case DamageProjectile:
		return "projectile"
	case DamageArrow:
		return "arrow"
	case DamageSword:
		return "sword"
	default:
		return "unknown"
	}
}

// DamageResult reports what a hit actually did. A blocked hit leaves
// health unchanged and carries Blocked=true so the caller can flash a
// transient "blocked" message.
type DamageResult struct {
	Applied int
	Blocked bool
}
