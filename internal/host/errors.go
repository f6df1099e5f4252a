package host

import "errors"

var (
	// ErrNotFound reports a missing view, field, parameter or element.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly reports a write to a read-only parameter.
	ErrReadOnly = errors.New("parameter is read-only")

	// ErrNameInUse reports a rename colliding with another view.
	ErrNameInUse = errors.New("name already in use")

	// ErrNoValue reports a parameter that exists but holds no value.
	ErrNoValue = errors.New("parameter has no value")

	// ErrWrongType reports a typed read of a parameter of another type.
	ErrWrongType = errors.New("parameter has another storage type")

	// ErrFieldNotInSchedule reports a filter on a field the schedule lacks.
	ErrFieldNotInSchedule = errors.New("field not in schedule")

	// ErrTxClosed reports use of a committed or rolled back transaction,
	// or a second concurrent Begin.
	ErrTxClosed = errors.New("transaction closed")

	// ErrNotLoaded reports a link whose document cannot be opened.
	ErrNotLoaded = errors.New("linked document not loaded")
)
