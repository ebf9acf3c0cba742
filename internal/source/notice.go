// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

// NoticeKind classifies a user-visible, non-fatal condition.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeWarning
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeInfo:
		return "info"
	case NoticeWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Notice is an observational event emitted during source selection:
// a cache hit ("loading file X from Y") or a miss ("not found locally,
// fetching remotely"). Notices never alter control flow or the returned
// result.
type Notice struct {
	Kind       NoticeKind
	Message    string
	Identifier string
}

// NotifyFunc receives notices. A nil NotifyFunc silently drops them.
type NotifyFunc func(Notice)

func (f NotifyFunc) emit(n Notice) {
	if f != nil {
		f(n)
	}
}
