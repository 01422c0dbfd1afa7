package extract

import "fmt"

// ValidationError marks a response body that failed schema validation:
// unparseable JSON or a shape mismatch. Both share one repair budget.
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response failed schema validation: %v", e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// RepairBudgetExceededError is terminal: the configured number of repair
// re-requests was spent without producing a schema-conformant response.
type RepairBudgetExceededError struct {
	Attempts int
	Last     error
}

func (e *RepairBudgetExceededError) Error() string {
	return fmt.Sprintf("repair budget exceeded after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RepairBudgetExceededError) Unwrap() error { return e.Last }
