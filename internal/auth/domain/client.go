package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClientApplication is a registered caller identity (an app build or frontend,
// not an end user). Refresh tokens are scoped to the client application that
// requested them and cannot be redeemed by a different one.
type ClientApplication struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
