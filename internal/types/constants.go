package types

import "time"

const ContextUserKey = "user"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// InvitationTTL is how long an invitation stays valid after creation.
const InvitationTTL = 24 * time.Hour

var AllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}
