package kernel

import (
	"fmt"
	"strings"

	"logistics/internal/pkg/errs"
)

// EntityKind is the closed set of things a job or carrier can point at.
type EntityKind int

const (
	// EntityNone marks a missing or no longer resolvable entity.
	EntityNone EntityKind = iota
	// EntityBuilding is a player building with an inventory.
	EntityBuilding
	// EntityCity is a city market that consumes deliveries.
	EntityCity
)

func (k EntityKind) String() string {
	switch k {
	case EntityBuilding:
		return "building"
	case EntityCity:
		return "city"
	case EntityNone:
		return "none"
	default:
		return "none"
	}
}

// ParseEntityKind is the inverse of EntityKind.String. Unknown names map to EntityNone.
func ParseEntityKind(s string) EntityKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "building":
		return EntityBuilding
	case "city":
		return EntityCity
	default:
		return EntityNone
	}
}

// EntityRef references a supplier or target by kind and stable key instead of
// holding the live object, so jobs never keep destroyed entities alive and can
// be persisted as-is.
type EntityRef struct {
	kind EntityKind
	key  UUID
}

// NoEntity returns the empty reference.
func NoEntity() EntityRef {
	return EntityRef{}
}

// NewEntityRef validates kind and key. EntityNone always yields NoEntity.
func NewEntityRef(kind EntityKind, key UUID) (EntityRef, error) {
	switch kind {
	case EntityNone:
		return NoEntity(), nil
	case EntityBuilding, EntityCity:
		if err := key.Validate(); err != nil {
			return EntityRef{}, err
		}
		return EntityRef{kind: kind, key: key}, nil
	default:
		return EntityRef{}, errs.NewValueIsInvalidErrorWithCause("entity kind", fmt.Errorf("%d is not a known kind", kind))
	}
}

// BuildingRef references a building by key. A nil key yields NoEntity.
func BuildingRef(key UUID) EntityRef {
	if key.IsZero() {
		return NoEntity()
	}
	return EntityRef{kind: EntityBuilding, key: key}
}

// CityRef references a city by key. A nil key yields NoEntity.
func CityRef(key UUID) EntityRef {
	if key.IsZero() {
		return NoEntity()
	}
	return EntityRef{kind: EntityCity, key: key}
}

// ParseEntityRef reads the "<kind>:<uuid>" form produced by String.
func ParseEntityRef(s string) (EntityRef, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == EntityNone.String() {
		return NoEntity(), nil
	}
	kindPart, keyPart, ok := strings.Cut(s, ":")
	if !ok {
		return EntityRef{}, errs.NewValueIsInvalidErrorWithCause("entity", fmt.Errorf("%q is not <kind>:<key>", s))
	}
	kind := ParseEntityKind(kindPart)
	if kind == EntityNone {
		return EntityRef{}, errs.NewValueIsInvalidErrorWithCause("entity", fmt.Errorf("unknown kind %q", kindPart))
	}
	key, err := UUIDFromString(keyPart)
	if err != nil {
		return EntityRef{}, errs.NewValueIsInvalidErrorWithCause("entity", err)
	}
	return NewEntityRef(kind, key)
}

// Kind returns the referenced entity kind.
func (r EntityRef) Kind() EntityKind {
	return r.kind
}

// Key returns the stable external key. It is the nil UUID for NoEntity.
func (r EntityRef) Key() UUID {
	return r.key
}

// IsNone reports whether r references nothing.
func (r EntityRef) IsNone() bool {
	return r.kind == EntityNone
}

// IsBuilding reports whether r references a building.
func (r EntityRef) IsBuilding() bool {
	return r.kind == EntityBuilding
}

// IsEqual compares kind and key. Two NoEntity references are not equal to
// each other, so cancellation by entity never matches unrelated dangling jobs.
func (r EntityRef) IsEqual(other EntityRef) bool {
	if r.IsNone() || other.IsNone() {
		return false
	}
	return r.kind == other.kind && r.key.IsEqual(other.key)
}

// String renders "<kind>:<uuid>" or "none".
func (r EntityRef) String() string {
	if r.IsNone() {
		return EntityNone.String()
	}
	return r.kind.String() + ":" + r.key.String()
}
