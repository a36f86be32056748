package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an administrative login. TenantID is resolved from the account's
// tenant when the session is read.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	TenantID  uuid.UUID  `db:"-"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
