// Package discourse is a thin client for the Discourse admin user API,
// built directly on the resilient request executor. It constructs URLs and
// decodes responses; retry and classification live entirely in httpclient.
package discourse

// User is a Discourse user record as returned by the admin list endpoint.
// Only the fields the selection predicate consumes are decoded.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Active     bool   `json:"active"`
	Staged     bool   `json:"staged"`
	Suspended  bool   `json:"suspended"`
	Admin      bool   `json:"admin"`
	Moderator  bool   `json:"moderator"`
	TrustLevel *int   `json:"trust_level"`
	// LastSeenAt is ISO-8601, possibly Z-suffixed, empty when never seen
	LastSeenAt string `json:"last_seen_at"`
}

// IsStaff reports whether the user is an admin or moderator
func (u *User) IsStaff() bool {
	return u.Admin || u.Moderator
}

// EffectiveTrustLevel returns the trust level, treating an absent value as 0
func (u *User) EffectiveTrustLevel() int {
	if u.TrustLevel == nil {
		return 0
	}
	return *u.TrustLevel
}
