package models

// Status is the lifecycle state of a case.
type Status string

const (
	StatusReceived     Status = "RECEIVED"
	StatusUnderReview  Status = "UNDER_REVIEW"
	StatusAwaitingInfo Status = "AWAITING_INFO"
	StatusResolved     Status = "RESOLVED"
	StatusRejected     Status = "REJECTED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusReceived,
	StatusUnderReview,
	StatusAwaitingInfo,
	StatusResolved,
	StatusRejected,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further reporter messages are accepted in s.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// Category classifies what a case is about.
type Category string

const (
	CategoryHarassment     Category = "HARASSMENT"
	CategoryDiscrimination Category = "DISCRIMINATION"
	CategoryFraud          Category = "FRAUD"
	CategoryCorruption     Category = "CORRUPTION"
	CategorySafety         Category = "SAFETY"
	CategoryOther          Category = "OTHER"
)

var categories = map[Category]bool{
	CategoryHarassment:     true,
	CategoryDiscrimination: true,
	CategoryFraud:          true,
	CategoryCorruption:     true,
	CategorySafety:         true,
	CategoryOther:          true,
}

func (c Category) Valid() bool {
	return categories[c]
}
