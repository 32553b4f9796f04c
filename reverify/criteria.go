// Package reverify selects stale accounts from the admin directory and
// deactivates them so they must re-verify on next login.
package reverify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/discourse"
)

// Criteria is the pure selection predicate over user records.
type Criteria struct {
	// LastSeenBefore is the activity cutoff; only users last seen strictly
	// before it are targeted
	LastSeenBefore time.Time
	// TrustLevels is the set of trust levels to include; an absent trust
	// level on the record counts as level 0
	TrustLevels map[int]bool
	// ExcludeStaff skips admins and moderators
	ExcludeStaff bool
}

// ShouldTarget reports whether the user matches the retention criteria.
// Users without a parseable last_seen_at are never targeted: an account we
// cannot date is not an account we should deactivate.
func (c Criteria) ShouldTarget(u discourse.User) bool {
	if !u.Active || u.Staged || u.Suspended {
		return false
	}
	if c.ExcludeStaff && u.IsStaff() {
		return false
	}
	if len(c.TrustLevels) > 0 && !c.TrustLevels[u.EffectiveTrustLevel()] {
		return false
	}
	if u.LastSeenAt == "" {
		return false
	}
	lastSeen, err := ParseLastSeen(u.LastSeenAt)
	if err != nil {
		return false
	}
	return lastSeen.Before(c.LastSeenBefore)
}

// ParseLastSeen parses a Discourse last_seen_at timestamp: ISO-8601 with a
// Z suffix or numeric offset, with or without fractional seconds.
func ParseLastSeen(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last_seen_at %q: %w", value, err)
	}
	return t, nil
}

// ParseTrustLevels parses a comma-separated include list like "0,1,2,3,4"
// into a set.
func ParseTrustLevels(value string) (map[int]bool, error) {
	levels := make(map[int]bool)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		level, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid trust level %q", part)
		}
		levels[level] = true
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("trust level list %q is empty", value)
	}
	return levels, nil
}
