package booking

// Status is the persisted approval status of a booking. It is distinct from
// the query-time interval classification in temporal.go.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsDecided reports whether the status is terminal.
func (s Status) IsDecided() bool {
	return s == StatusApproved || s == StatusRejected
}
