package types

// SessionUser is the identity snapshot materialized from a verified ID
// token, one per request. DisplayName and AvatarUrl are optional.
type SessionUser struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarUrl   string `json:"avatarUrl,omitempty"`
}
