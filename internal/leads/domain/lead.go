package domain

import (
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDPrefix marks identifiers minted by this service.
const IDPrefix = "RVN-"

var idPattern = regexp.MustCompile(`^RVN-[0-9A-F]{8}$`)

// NewID mints a lead identifier: the prefix plus the first 8 hex characters of
// a random UUID, upper-cased.
func NewID() string {
	return idFromUUID(uuid.New())
}

func idFromUUID(u uuid.UUID) string {
	return IDPrefix + strings.ToUpper(hex.EncodeToString(u[:4]))
}

// ValidID reports whether id has the minted shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// NormalizeID upper-cases and trims a client-supplied id.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Lead is a prospective customer tracked across tools.
type Lead struct {
	ID           string
	WorkspaceID  uuid.UUID
	Source       *string
	Status       *string
	JourneySteps []string
	AccountID    *uuid.UUID
	ContactID    *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Contact is the person behind a lead.
type Contact struct {
	ID        uuid.UUID
	AccountID *uuid.UUID
	Name      string
	Email     *string
	Phone     *string
}
