package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// UnknownTypeError is returned by the widget factory for a type tag outside
// the known set. Per-widget and non-fatal to the rest of a layout.
type UnknownTypeError struct {
	ErrorMessage
	Type string
}

// DataUnavailableError signals that the record data source failed or timed
// out. Distinct from a valid empty result.
type DataUnavailableError struct {
	ErrorMessage
}

// InvariantViolationError is raised defensively when a read observes more
// than one default layout for a table.
type InvariantViolationError struct {
	ErrorMessage
	TableID string
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnknownTypeError(widgetType string) *UnknownTypeError {
	return &UnknownTypeError{
		ErrorMessage: ErrorMessage{Message: "unknown widget type: " + widgetType},
		Type:         widgetType,
	}
}

func NewDataUnavailableError(message string) *DataUnavailableError {
	return &DataUnavailableError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewInvariantViolationError(tableID string) *InvariantViolationError {
	return &InvariantViolationError{
		ErrorMessage: ErrorMessage{Message: "multiple default layouts for table " + tableID},
		TableID:      tableID,
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}
