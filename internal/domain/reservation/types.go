package reservation

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusCompleted      Status = "COMPLETED"
	StatusCanceled       Status = "CANCELED"
	StatusPaymentExpired Status = "PAYMENT_EXPIRED"
)

// allowed next statuses per current status; terminal statuses have no entry
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled, StatusPaymentExpired},
	StatusConfirmed: {StatusCompleted, StatusCanceled},
}

// ActiveStatuses block the window for everybody else.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled, StatusPaymentExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	_, ok := transitions[s]
	return s.IsValid() && !ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
