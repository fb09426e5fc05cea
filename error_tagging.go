package flowcore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// OperatorMetaError exposes correlation metadata for an error raised while
// an operator processed a value: which operator, at which position in the
// pipeline, and which value (by valueId) triggered it.
type OperatorMetaError interface {
	error
	Unwrap() error
	OperatorName() string
	OperatorIndex() (int, bool)
	ValueID() (uuid.UUID, bool)
}

type operatorTaggedError struct {
	err      error
	name     string
	index    int
	hasIndex bool
	valueID  uuid.UUID
	hasValue bool
}

// newOperatorError wraps err with the operator that produced it. index and
// valueID are optional; pass hasIndex/hasValue false to omit them.
func newOperatorError(err error, name string, index int, hasIndex bool, valueID uuid.UUID, hasValue bool) error {
	if err == nil {
		return nil
	}
	return &operatorTaggedError{
		err: err, name: name, index: index, hasIndex: hasIndex, valueID: valueID, hasValue: hasValue,
	}
}

func (e *operatorTaggedError) Error() string { return e.err.Error() }
func (e *operatorTaggedError) Unwrap() error { return e.err }

func (e *operatorTaggedError) OperatorName() string { return e.name }

func (e *operatorTaggedError) OperatorIndex() (int, bool) { return e.index, e.hasIndex }

func (e *operatorTaggedError) ValueID() (uuid.UUID, bool) { return e.valueID, e.hasValue }

func (e *operatorTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "operator(name=%s,index=%d): %+v", e.name, e.index, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractOperatorName returns the operator name attached to err, if any.
func ExtractOperatorName(err error) (string, bool) {
	var ome OperatorMetaError
	if errors.As(err, &ome) {
		return ome.OperatorName(), true
	}
	return "", false
}

// ExtractOperatorIndex returns the operator's position in the pipeline
// attached to err, if any.
func ExtractOperatorIndex(err error) (int, bool) {
	var ome OperatorMetaError
	if errors.As(err, &ome) {
		return ome.OperatorIndex()
	}
	return 0, false
}
