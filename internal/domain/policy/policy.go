// Package policy holds the behavioural switches shared by the conversation
// and history services.
package policy

// Policy selects between the legacy client-compatible behaviour and the
// stricter alternatives.
type Policy struct {
	// EmptyListIsNotFound makes list operations fail with NotFound instead of
	// returning an empty page. Applies to the conversation list and to
	// per-conversation history; the bookmarked listing never fails on empty.
	EmptyListIsNotFound bool
	// RejectUnchangedTitle makes a rename to the current title a conflict.
	RejectUnchangedTitle bool
	// RequireTitleOnCreate disables auto-titling; creating without a title
	// becomes a missing-field error.
	RequireTitleOnCreate bool
}

// Compatible is the behaviour existing clients depend on.
func Compatible() Policy {
	return Policy{
		EmptyListIsNotFound:  true,
		RejectUnchangedTitle: true,
	}
}
