package game

// Status is the state of the match.
type Status int

const (
	_ Status = iota
	// NotStarted is the status of a match that is waiting for more players to join.
	NotStarted
	// InProgress is the status of a match that has been started but is not finished.
	InProgress
	// Finished is the status of a match that has played its last round.
	Finished
	// Deleted is the status of a match that has been removed and should not be displayed.
	Deleted
)

// String returns the display value for the status.
func (s Status) String() string {
	switch s {
	case NotStarted:
		return "Waiting for players"
	case InProgress:
		return "In Progress"
	case Finished:
		return "Finished"
	}
	return "?"
}
