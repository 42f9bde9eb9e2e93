package model

import "github.com/google/uuid"

// AccessRequest carries the credentials presented for a recording analysis
// read. Either the bearer token or the share pair may be absent.
type AccessRequest struct {
	BearerToken string
	ShareableID string
	ClientCode  string
	RecordingID uuid.UUID
}

// AccessGrant is the outcome of a successful authorization decision.
// Identity is nil when access was granted through the share-code path.
type AccessGrant struct {
	Role     Role
	Identity *Identity
}
