package moderation

import "time"

type Action string

const (
	ActionNone       Action = "none"
	ActionDeleteWarn Action = "delete_warn"
	ActionDeleteMute Action = "delete_mute"
	ActionDeleteBan  Action = "delete_ban"
)

// Decision is the engine's verdict for a single message. It is immutable
// once produced; executing it (delete, restrict, ban, notice) is the
// caller's business, the engine never touches the transport.
type Decision struct {
	ID           string
	Action       Action
	MatchedTerms []string
	Severity     int
	Notice       string
	NoticeArgs   []any
	MuteDuration time.Duration
}

func (d Decision) IsNone() bool {
	return d.Action == ActionNone
}

var noDecision = Decision{Action: ActionNone}
