package completion

import (
	"fmt"

	"github.com/google/uuid"
)

// JobNotFoundError is returned when the job ID does not exist.
type JobNotFoundError struct {
	JobID uuid.UUID
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job not found: %s", e.JobID)
}

// AlreadyProcessedError is returned when the job's completion has already
// been applied. Callers must treat this as a conflict, not a success: a
// retry after this error is safe to drop, but the duplicate submission
// itself should surface to the crew UI.
type AlreadyProcessedError struct {
	JobID uuid.UUID
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("job %s completion already processed", e.JobID)
}

// InvalidActualsError is returned when the submitted actuals payload fails
// validation. No mutation has occurred.
type InvalidActualsError struct {
	Reason string
}

func (e *InvalidActualsError) Error() string {
	return fmt.Sprintf("invalid actuals: %s", e.Reason)
}

// TransactionError wraps a persistence failure. The whole call is safe to
// retry from scratch since nothing was committed.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("completion transaction failed during %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
