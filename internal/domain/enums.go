package domain

// LogStatus is the lifecycle state of a single task time log row.
type LogStatus string

const (
	LogInProgress LogStatus = "in_progress"
	LogPaused     LogStatus = "paused"
	LogCompleted  LogStatus = "completed"
)

// Valid reports whether s is one of the known log statuses.
func (s LogStatus) Valid() bool {
	switch s {
	case LogInProgress, LogPaused, LogCompleted:
		return true
	}
	return false
}

// SessionAction records which controller operation produced the row's
// latest write.
type SessionAction string

const (
	ActionStart  SessionAction = "start"
	ActionPause  SessionAction = "pause"
	ActionResume SessionAction = "resume"
	ActionStop   SessionAction = "stop"
)

// StatusTag is the single display status of an assigned task.
type StatusTag string

const (
	StatusInactive   StatusTag = "inactive"
	StatusInProgress StatusTag = "in_progress"
	StatusPaused     StatusTag = "paused"
	StatusCompleted  StatusTag = "completed"
	StatusNoExecutor StatusTag = "no_executor"
	StatusOverdue    StatusTag = "overdue"
	StatusNotStarted StatusTag = "not_started"
)

// AllStatusTags lists the closed set of display statuses in precedence order.
var AllStatusTags = []StatusTag{
	StatusInactive,
	StatusInProgress,
	StatusPaused,
	StatusCompleted,
	StatusNoExecutor,
	StatusOverdue,
	StatusNotStarted,
}

// Valid reports whether t belongs to the closed tag set. Manual overrides
// are stored free-form, so a tag read back from an override may be invalid.
func (t StatusTag) Valid() bool {
	for _, known := range AllStatusTags {
		if t == known {
			return true
		}
	}
	return false
}

// ParseStatusTag converts a stored status string into a tag.
func ParseStatusTag(s string) (StatusTag, bool) {
	t := StatusTag(s)
	return t, t.Valid()
}

// TagForLogStatus maps an aggregated log status onto its display tag.
func TagForLogStatus(s LogStatus) StatusTag {
	switch s {
	case LogInProgress:
		return StatusInProgress
	case LogPaused:
		return StatusPaused
	case LogCompleted:
		return StatusCompleted
	}
	return StatusTag(s)
}
