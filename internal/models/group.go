package models

// Group is a set of people sharing an expense ledger.
//
// The owner is implicitly a member and is not listed in Members.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// OwnerID is the user who created the group. The owner cannot be removed.
	OwnerID string

	// Members are the invited user IDs, excluding the owner.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// EffectiveMembers returns the owner followed by the invited members,
// without duplicates.
func (g *Group) EffectiveMembers() []string {
	seen := make(map[string]bool, len(g.Members)+1)
	out := make([]string, 0, len(g.Members)+1)
	for _, id := range append([]string{g.OwnerID}, g.Members...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// IsMember reports whether userID is the owner or an invited member.
func (g *Group) IsMember(userID string) bool {
	if userID == "" {
		return false
	}
	if userID == g.OwnerID {
		return true
	}
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsOwner reports whether userID owns the group.
func (g *Group) IsOwner(userID string) bool {
	return userID != "" && userID == g.OwnerID
}
