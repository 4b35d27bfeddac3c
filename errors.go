package hotspot

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables, and can all follow the form:
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned or panicked.
var (
	ErrRegisterWrongType = Error{"Type is not recognized"}
	ErrRegisterNilReturn = Error{"Function return is nil"}

	// ErrScheduleParams results from a malformed flat schedule parameter list:
	// fewer than two values, or an odd count of middle elements.
	ErrScheduleParams = Error{"Malformed schedule parameters"}

	// ErrScheduleKernel results from an unrecognized annealing kernel name.
	ErrScheduleKernel = Error{"Unsupported schedule kernel"}

	// ErrScheduleRange results from querying a progress fraction outside the
	// span of a schedule's control points.
	ErrScheduleRange = Error{"Progress outside schedule range"}

	// ErrLossType results from an unrecognized loss preset.
	ErrLossType = Error{"Unrecognized loss type"}

	// ErrDivType results from an unrecognized divergence variant.
	ErrDivType = Error{"Unsupported divergence type"}

	// ErrNumeric results from NaN or Inf in predicted distances or gradients.
	// It is fatal for the training step; nothing retries it.
	ErrNumeric = Error{"NaN or Inf in loss inputs"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}
