package qa

import "fmt"

// MissingInputError indicates the invocation request lacked the required
// question key. No collaborator calls are made before it is returned.
type MissingInputError struct {
	Key string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input %q", e.Key)
}

// GraphQueryError indicates a graph store call failed. The store's error is
// carried unmodified and exposed via Unwrap.
type GraphQueryError struct {
	Op        string // "schema" or "query"
	Statement string // the generated statement, when Op is "query"
	Err       error
}

func (e *GraphQueryError) Error() string {
	if e.Statement != "" {
		return fmt.Sprintf("graph %s failed for statement %q: %v", e.Op, e.Statement, e.Err)
	}
	return fmt.Sprintf("graph %s failed: %v", e.Op, e.Err)
}

func (e *GraphQueryError) Unwrap() error { return e.Err }

// GenerationError indicates an LLM call failed. The client's error is carried
// unmodified and exposed via Unwrap.
type GenerationError struct {
	Stage string // "statement" or "answer"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
