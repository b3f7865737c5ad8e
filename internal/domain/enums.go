package domain

// RangeStatus represents the lifecycle state of a receipt number range.
type RangeStatus string

const (
	RangeStatusDraft     RangeStatus = "draft"
	RangeStatusActive    RangeStatus = "active"
	RangeStatusLocked    RangeStatus = "locked"
	RangeStatusExhausted RangeStatus = "exhausted"
	RangeStatusArchived  RangeStatus = "archived"
)

// rangeTransitions lists the administrator-driven transitions. The
// active→exhausted transition is automatic during allocation and is not
// reachable through a status update request.
var rangeTransitions = map[RangeStatus][]RangeStatus{
	RangeStatusDraft:     {RangeStatusActive},
	RangeStatusActive:    {RangeStatusLocked},
	RangeStatusLocked:    {RangeStatusActive, RangeStatusArchived},
	RangeStatusExhausted: {RangeStatusArchived},
	RangeStatusArchived:  {},
}

// CanTransitionTo reports whether the status machine permits moving from s
// to target via an administrative request.
func (s RangeStatus) CanTransitionTo(target RangeStatus) bool {
	for _, t := range rangeTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s RangeStatus) IsTerminal() bool {
	return s == RangeStatusArchived
}

// PaymentMode is the accepted payment method for a donation.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeCard   PaymentMode = "card"
	PaymentModeBank   PaymentMode = "bank_transfer"
	PaymentModeCheque PaymentMode = "cheque"
)

// ValidPaymentModes is the closed set of accepted payment modes.
var ValidPaymentModes = map[PaymentMode]bool{
	PaymentModeCash:   true,
	PaymentModeUPI:    true,
	PaymentModeCard:   true,
	PaymentModeBank:   true,
	PaymentModeCheque: true,
}

// UserRole defines the role hierarchy within an organization.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
)

// AliasType discriminates donor alias index entries.
type AliasType string

const (
	AliasTypePhone AliasType = "PHONE"
	AliasTypePAN   AliasType = "PAN"
	AliasTypeEmail AliasType = "EMAIL"
)
