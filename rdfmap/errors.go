package rdfmap

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeMapperNotFound indicates no mapper was registered or supplied
	// for a required type.
	ErrCodeMapperNotFound ErrorCode = "MAPPER_NOT_FOUND"
	// ErrCodeDatatypeMismatch indicates a literal datatype mismatch.
	ErrCodeDatatypeMismatch ErrorCode = "DATATYPE_MISMATCH"
	// ErrCodeDeserialization indicates a general conversion failure.
	ErrCodeDeserialization ErrorCode = "DESERIALIZATION_FAILED"
	// ErrCodeIncomplete indicates a strict-mode completeness violation.
	ErrCodeIncomplete ErrorCode = "INCOMPLETE_DESERIALIZATION"
	// ErrCodeRootResolution indicates a root subject resolution failure.
	ErrCodeRootResolution ErrorCode = "ROOT_RESOLUTION_FAILED"
)

// Root resolution sentinel errors. RootSubject fails with exactly one of
// these for any non-empty triple set it cannot resolve.
var (
	// ErrEmptyGraph indicates root resolution over an empty triple set.
	ErrEmptyGraph = errors.New("rdfmap: empty triples, no root subject")
	// ErrMultipleToplevel indicates more than one subject with no incoming edge.
	ErrMultipleToplevel = errors.New("rdfmap: multiple toplevel subjects")
	// ErrMultipleIRISubjects indicates a cyclic graph with more than one IRI subject.
	ErrMultipleIRISubjects = errors.New("rdfmap: multiple IRI subjects in cyclic graph")
	// ErrCyclicBlankNodes indicates a cyclic graph of blank nodes only.
	ErrCyclicBlankNodes = errors.New("rdfmap: cyclic blank nodes with no unique root candidate")
)

// Code returns the error code for an error, or empty string for nil.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var mapperNotFound *MapperNotFoundError
	if errors.As(err, &mapperNotFound) {
		return ErrCodeMapperNotFound
	}
	var mismatch *DatatypeMismatchError
	if errors.As(err, &mismatch) {
		return ErrCodeDatatypeMismatch
	}
	var incomplete *IncompleteDeserializationError
	if errors.As(err, &incomplete) {
		return ErrCodeIncomplete
	}

	switch {
	case errors.Is(err, ErrEmptyGraph),
		errors.Is(err, ErrMultipleToplevel),
		errors.Is(err, ErrMultipleIRISubjects),
		errors.Is(err, ErrCyclicBlankNodes):
		return ErrCodeRootResolution
	}

	return ErrCodeDeserialization
}

// MapperNotFoundError indicates no serializer or deserializer was registered
// or supplied for a required type.
type MapperNotFoundError struct {
	// Type is the target Go type.
	Type reflect.Type
	// Shape is the mapper shape that was required.
	Shape Shape
	// Serializing reports whether a serializer (true) or deserializer was
	// being resolved.
	Serializing bool
}

func (e *MapperNotFoundError) Error() string {
	side := "deserializer"
	if e.Serializing {
		side = "serializer"
	}
	return fmt.Sprintf("rdfmap: no %s %s registered for type %v", e.Shape, side, e.Type)
}

// DatatypeMismatchError indicates a literal's datatype does not match the
// deserializer's expected datatype. Bypassable per call.
type DatatypeMismatchError struct {
	// Actual is the datatype carried by the literal.
	Actual rdf.IRI
	// Expected is the datatype the deserializer handles.
	Expected rdf.IRI
	// TargetType is the Go type being produced.
	TargetType reflect.Type
	// Mapper identifies the deserializer.
	Mapper string
}

func (e *DatatypeMismatchError) Error() string {
	return fmt.Sprintf("rdfmap: datatype mismatch for %v: got <%s>, %s expects <%s>",
		e.TargetType, e.Actual.Value, e.Mapper, e.Expected.Value)
}

// DeserializationError is a general conversion failure: lexical parse error,
// missing required property, malformed collection structure.
type DeserializationError struct {
	// Message describes the failure.
	Message string
	// Err is the underlying error, if any.
	Err error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return "rdfmap: " + e.Message + ": " + e.Err.Error()
	}
	return "rdfmap: " + e.Message
}

func (e *DeserializationError) Unwrap() error { return e.Err }

func deserializationErrorf(format string, args ...interface{}) error {
	return &DeserializationError{Message: fmt.Sprintf(format, args...)}
}

// IncompleteDeserializationError is raised by strict-mode whole-graph decode
// when source triples were left unread. It carries the unread triples.
type IncompleteDeserializationError struct {
	// Unread holds every source triple no deserializer consumed.
	Unread []rdf.Triple
}

func (e *IncompleteDeserializationError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "rdfmap: incomplete deserialization: %d unread triple(s)", len(e.Unread))
	const maxListed = 5
	for i, t := range e.Unread {
		if i == maxListed {
			msg.WriteString("\n  ...")
			break
		}
		msg.WriteString("\n  ")
		msg.WriteString(t.String())
	}
	return msg.String()
}
