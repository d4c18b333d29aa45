package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeAccountOpened     EventType = "Account.Opened"
	EventTypeAccountRenamed    EventType = "Account.Renamed"
	EventTypeAccountClosed     EventType = "Account.Closed"
	EventTypeTransferCompleted EventType = "Transfer.Completed"
	EventTypeInterestCredited  EventType = "Interest.Credited"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}
