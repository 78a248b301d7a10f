package waitlist

import (
	"time"

	"github.com/google/uuid"
)

type JoinResult string

const (
	Joined        JoinResult = "JOINED"
	AlreadyJoined JoinResult = "ALREADY_JOINED"
)

type Entry struct {
	RequesterID uuid.UUID
	Key         Key
	EnqueuedAt  time.Time
}

// Membership is one waitlist a requester currently belongs to.
type Membership struct {
	Key      Key
	Position int
	Size     int
}
