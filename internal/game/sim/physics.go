package sim

import "github.com/cory-johannsen/neonsurge/internal/game/geom"

// BodyKind classifies what a physics body represents.
type BodyKind int

const (
	BodyActor BodyKind = iota
	BodyProjectile
	BodyPickup
)

// Body is one circle handed to the physics collaborator.
type Body struct {
	ID       string
	Kind     BodyKind
	Position geom.Vec
	Velocity geom.Vec
	Radius   float64
}

// Physics is the movement and collision collaborator. It integrates
// velocities and detects overlaps; the world only reacts to the overlaps
// reported in each Frame.
type Physics interface {
	// Position returns the current centre of id.
	Position(id string) (geom.Vec, bool)
	// Place adds b, replacing any body with the same ID.
	Place(b Body)
	// SetVelocity changes the velocity of id; unknown IDs are ignored.
	SetVelocity(id string, v geom.Vec)
	// Remove deletes id; unknown IDs are ignored.
	Remove(id string)
	// SetWalls replaces the static wall set.
	SetWalls(walls []geom.Rect)
}

// CollisionKind names the pair types the physics collaborator reports.
type CollisionKind int

const (
	// ProjectileActor: A is a projectile, B an actor.
	ProjectileActor CollisionKind = iota
	// ActorActor: A and B are actors, in either order.
	ActorActor
	// ProjectileWall: A is a projectile; B is empty.
	ProjectileWall
	// ActorPickup: A is an actor, B a pickup.
	ActorPickup
)

// String returns a short name for k.
func (k CollisionKind) String() string {
	switch k {
	case ProjectileActor:
		return "projectile-actor"
	case ActorActor:
		return "actor-actor"
	case ProjectileWall:
		return "projectile-wall"
	case ActorPickup:
		return "actor-pickup"
	default:
		return "unknown"
	}
}

// Collision is one overlap event.
type Collision struct {
	Kind CollisionKind
	A    string
	B    string
}
