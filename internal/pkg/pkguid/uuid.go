package pkguid

import "github.com/google/uuid"

// UUID generates time-ordered UUIDv7 strings.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUIDv7. If the clock-based generator fails it
// falls back to a random UUIDv4.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
