package auth

// Owned is implemented by every user-scoped resource (habits, goals,
// daily records). Handlers must verify ownership through AssertOwned
// before reading or mutating one.
type Owned interface {
	OwnedBy() uint64
}

// AssertOwned fails closed with ErrForbidden unless the resource's
// owner matches the acting principal. A zero principal never matches.
func AssertOwned(p Principal, r Owned) error {
	if p.UserID == 0 || p.UserID != r.OwnedBy() {
		return ErrForbidden
	}
	return nil
}

// AssertSameUser compares an explicit user ID from the request path
// against the principal. View endpoints that carry a {userId} segment
// use this instead of silently substituting the principal's own ID, so
// a mismatch stays visible to the caller.
func AssertSameUser(p Principal, userID uint64) error {
	if p.UserID == 0 || p.UserID != userID {
		return ErrForbidden
	}
	return nil
}
