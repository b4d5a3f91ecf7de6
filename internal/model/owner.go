package model

// OwnerKind discriminates who owns an attempt
type OwnerKind string

const (
	OwnerAccount OwnerKind = "account" // authenticated user
	OwnerGuest   OwnerKind = "guest"   // anonymous guest token
)

// Owner is the tagged union of a guest token and an account user.
// Services branch on Kind instead of scattering auth checks.
type Owner struct {
	Kind  OwnerKind `json:"kind" bson:"kind"`
	ID    string    `json:"id" bson:"id"`
	OrgID string    `json:"orgId,omitempty" bson:"orgId,omitempty"` // account owners only
}

// IsGuest reports whether the owner is an anonymous guest
func (o Owner) IsGuest() bool {
	return o.Kind == OwnerGuest
}

// Matches reports whether two owners refer to the same principal
func (o Owner) Matches(other Owner) bool {
	return o.Kind == other.Kind && o.ID == other.ID
}
