package rdfmap

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// Standard mappers for Go primitives. DefaultRegistry registers all of them,
// so a fresh Mapper handles string, bool, int, int64, float64, time.Time,
// []byte, and rdf.IRI properties out of the box.

// StringMapper maps string to xsd:string literals.
func StringMapper() *LiteralMapper[string] {
	return NewLiteralMapper(rdf.XSDString,
		func(v string) (string, error) { return v, nil },
		func(s string) (string, error) { return s, nil },
	)
}

// BoolMapper maps bool to xsd:boolean literals, accepting the canonical
// "true"/"false" forms as well as "1"/"0" on decode.
func BoolMapper() *LiteralMapper[bool] {
	return NewLiteralMapper(rdf.XSDBoolean,
		func(v bool) (string, error) { return strconv.FormatBool(v), nil },
		func(s string) (bool, error) {
			switch s {
			case "true", "1":
				return true, nil
			case "false", "0":
				return false, nil
			}
			return false, fmt.Errorf("invalid boolean lexical form %q", s)
		},
	)
}

// IntMapper maps int to xsd:integer literals.
func IntMapper() *LiteralMapper[int] {
	return NewLiteralMapper(rdf.XSDInteger,
		func(v int) (string, error) { return strconv.Itoa(v), nil },
		strconv.Atoi,
	)
}

// Int64Mapper maps int64 to xsd:long literals.
func Int64Mapper() *LiteralMapper[int64] {
	return NewLiteralMapper(rdf.XSDLong,
		func(v int64) (string, error) { return strconv.FormatInt(v, 10), nil },
		func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
	)
}

// Float64Mapper maps float64 to xsd:double literals.
func Float64Mapper() *LiteralMapper[float64] {
	return NewLiteralMapper(rdf.XSDDouble,
		func(v float64) (string, error) { return strconv.FormatFloat(v, 'g', -1, 64), nil },
		func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
	)
}

// TimeMapper maps time.Time to xsd:dateTime literals in RFC 3339 form.
func TimeMapper() *LiteralMapper[time.Time] {
	return NewLiteralMapper(rdf.XSDDateTime,
		func(v time.Time) (string, error) { return v.Format(time.RFC3339Nano), nil },
		func(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) },
	)
}

// BytesMapper maps []byte to xsd:base64Binary literals.
func BytesMapper() *LiteralMapper[[]byte] {
	return NewLiteralMapper(rdf.XSDBase64Binary,
		func(v []byte) (string, error) { return base64.StdEncoding.EncodeToString(v), nil },
		base64.StdEncoding.DecodeString,
	)
}

// IRITermMapper maps rdf.IRI values to IRI terms, so object properties can
// hold bare references without a resource mapper.
type IRITermMapper struct{}

// AsIRI returns the value itself after validation.
func (IRITermMapper) AsIRI(value any, ctx *SerializationContext) (rdf.IRI, error) {
	iri, ok := value.(rdf.IRI)
	if !ok {
		return rdf.IRI{}, fmt.Errorf("rdfmap: IRITermMapper cannot serialize %T", value)
	}
	if err := rdf.ValidateIRI(iri.Value); err != nil {
		return rdf.IRI{}, err
	}
	return iri, nil
}

// FromIRI returns the term itself.
func (IRITermMapper) FromIRI(term rdf.IRI, ctx *DeserializationContext) (any, error) {
	return term, nil
}

// DefaultRegistry returns a registry preloaded with the standard primitive
// mappers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	Register[string](r, StringMapper())
	Register[bool](r, BoolMapper())
	Register[int](r, IntMapper())
	Register[int64](r, Int64Mapper())
	Register[float64](r, Float64Mapper())
	Register[time.Time](r, TimeMapper())
	Register[[]byte](r, BytesMapper())
	Register[rdf.IRI](r, IRITermMapper{})
	return r
}
