package tutor

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so state changes are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
// File ids must be content-independent and never reused: a count-seeded
// counter would collide after a partial deserialize followed by adds.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
