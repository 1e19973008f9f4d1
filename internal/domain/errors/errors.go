package errors

import "errors"

// Storage level errors.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// Not found family.
var (
	ErrUnregisteredMachine = errors.New("machine is not registered in the system")
	ErrProductNotFound     = errors.New("product does not exist")
	ErrOrderNotFound       = errors.New("order does not exist")
)

// Precondition family.
var (
	ErrMachineNotReady         = errors.New("machine is not READY for operation")
	ErrMachineNotDispensing    = errors.New("machine is not DISPENSING for operation")
	ErrProductUnavailable      = errors.New("product is not available in the machine")
	ErrInvalidStatusTransition = errors.New("order status can not be changed")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrInvalidPrice            = errors.New("unit price can not be negative")
	ErrInvalidID               = errors.New("id is invalid")
	ErrInvalidEmail            = errors.New("email is invalid")
	ErrTooManyCoins            = errors.New("coin quantity exceeds machine capacity")
)

// Payment family.
var (
	ErrInsufficientPayment = errors.New("payment is not enough for order")
	ErrInvalidPaymentType  = errors.New("payment type does not exist")
)

// Change family.
var (
	ErrNegativeChange    = errors.New("tendered coins are not enough for product price")
	ErrChangeUnavailable = errors.New("no change available for tendered coins")
)

// ErrNegativeQuantity guards coin and stock counters; upstream checks make it unreachable.
var ErrNegativeQuantity = errors.New("quantity can not be negative")

// Operator access.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation is not allowed for this owner")
)

// Kind groups domain errors by the way callers should react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindPreconditionFailed
	KindPaymentRejected
	KindChangeInfeasible
	KindInvariantViolation
	KindUnauthorized
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindPaymentRejected:
		return "payment_rejected"
	case KindChangeInfeasible:
		return "change_infeasible"
	case KindInvariantViolation:
		return "invariant_violation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindNotFound, []error{ErrUnregisteredMachine, ErrProductNotFound, ErrOrderNotFound, ErrNotFound}},
	{KindPreconditionFailed, []error{
		ErrMachineNotReady, ErrMachineNotDispensing, ErrProductUnavailable, ErrInvalidStatusTransition,
		ErrInvalidQuantity, ErrInvalidPrice, ErrInvalidID, ErrInvalidEmail, ErrTooManyCoins,
	}},
	{KindPaymentRejected, []error{ErrInsufficientPayment, ErrInvalidPaymentType}},
	{KindChangeInfeasible, []error{ErrNegativeChange, ErrChangeUnavailable}},
	{KindInvariantViolation, []error{ErrNegativeQuantity}},
	{KindUnauthorized, []error{ErrInvalidCredentials}},
	{KindForbidden, []error{ErrForbidden}},
	{KindConflict, []error{ErrAlreadyExists}},
}

// KindOf reports the family of err, walking wrapped errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, group := range kinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	return KindUnknown
}
