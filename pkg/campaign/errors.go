package campaign

import "errors"

// Campaign errors.
var (
	// ErrInvalidCount is returned when a batch asks for fewer than one email.
	ErrInvalidCount = errors.New("campaign: total count must be at least 1")

	// ErrInvalidWindow is returned when the batch end time is before its start time.
	ErrInvalidWindow = errors.New("campaign: end time is before start time")

	// ErrInvalidCampaign is returned when a batch has no campaign id.
	ErrInvalidCampaign = errors.New("campaign: campaign id is required")

	// ErrNilDelivery is returned when a batch has no delivery function.
	ErrNilDelivery = errors.New("campaign: delivery function is required")

	// ErrDuplicateUnit is returned when a unit id is already registered.
	ErrDuplicateUnit = errors.New("campaign: duplicate unit id")

	// ErrUnitNotFound is returned when a unit is not in the registry.
	ErrUnitNotFound = errors.New("campaign: unit not found")

	// ErrInvalidTransition is returned when a status change would move a unit backwards.
	ErrInvalidTransition = errors.New("campaign: invalid status transition")

	// ErrDeliveryPanic marks a delivery function that panicked.
	ErrDeliveryPanic = errors.New("campaign: delivery function panicked")

	// ErrMisfired marks a unit that fired too late to be delivered.
	ErrMisfired = errors.New("campaign: send time missed")

	// ErrExecutorRequired is returned when a scheduler is built without an executor.
	ErrExecutorRequired = errors.New("campaign: executor is required")
)
