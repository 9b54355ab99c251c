package scene

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
)

// Version is written into every snapshot produced by ToJSON.
const Version = "1.0"

// ErrMalformedSnapshot is returned when a scene description cannot be loaded.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is a serialized, value-comparable copy of the whole scene.
type Snapshot struct {
	Version    string   `json:"version"`
	Background string   `json:"background"`
	Objects    []Object `json:"objects"`
}

// EmptySnapshot returns a scene with no objects and the given background.
func EmptySnapshot(background string) Snapshot {
	return Snapshot{Version: Version, Background: background, Objects: []Object{}}
}

// ParseSnapshot decodes and validates a JSON scene description. A missing
// version is read as Version; any other version is kept as given.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if s.Version == "" {
		s.Version = Version
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Validate checks that every object is one the scene knows how to draw.
func (s Snapshot) Validate() error {
	for i, o := range s.Objects {
		switch o.Type {
		case TypeRect, TypeCircle:
		case TypeLine, TypePath, TypePolygon:
			if len(o.Points) == 0 {
				return fmt.Errorf("%w: object %d (%s) has no points", ErrMalformedSnapshot, i, o.Type)
			}
		default:
			return fmt.Errorf("%w: object %d has unknown type %q", ErrMalformedSnapshot, i, o.Type)
		}
	}
	return nil
}

// Equal reports whether two snapshots describe the same scene.
// A nil and an empty object list are equal.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Version != other.Version || s.Background != other.Background || len(s.Objects) != len(other.Objects) {
		return false
	}
	for i := range s.Objects {
		if !s.Objects[i].equal(&other.Objects[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so callers cannot alias stored history entries.
func (s Snapshot) Clone() Snapshot {
	var c Snapshot
	if err := copier.CopyWithOption(&c, &s, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which two Snapshots are not.
		panic(fmt.Sprintf("scene: cloning snapshot: %v", err))
	}
	if c.Objects == nil {
		c.Objects = []Object{}
	}
	return c
}
