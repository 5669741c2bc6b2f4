package rdfmap

import (
	"fmt"
	"reflect"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// LiteralMapper is the template base for literal mappers: a concrete mapper
// supplies only the typed-value to lexical-string conversions, the base
// supplies datatype tagging, datatype-match validation with a bypass, and
// rejection of language-tagged literals (overridable with AcceptLanguage).
type LiteralMapper[T any] struct {
	datatype   rdf.IRI
	format     func(T) (string, error)
	parse      func(string) (T, error)
	acceptLang bool
}

// NewLiteralMapper builds a literal mapper from a datatype and a pair of
// pure conversions.
func NewLiteralMapper[T any](datatype rdf.IRI, format func(T) (string, error), parse func(string) (T, error)) *LiteralMapper[T] {
	if datatype.IsZero() {
		datatype = rdf.XSDString
	}
	return &LiteralMapper[T]{datatype: datatype, format: format, parse: parse}
}

// AcceptLanguage makes FromLiteral accept language-tagged literals instead
// of rejecting them.
func (m *LiteralMapper[T]) AcceptLanguage() *LiteralMapper[T] {
	m.acceptLang = true
	return m
}

// Datatype returns the datatype the mapper handles.
func (m *LiteralMapper[T]) Datatype() rdf.IRI { return m.datatype }

// AsLiteral converts value into a literal tagged with the mapper's datatype.
func (m *LiteralMapper[T]) AsLiteral(value any, ctx *SerializationContext) (rdf.Literal, error) {
	typed, ok := value.(T)
	if !ok {
		return rdf.Literal{}, fmt.Errorf("rdfmap: %s cannot serialize %T", m.name(), value)
	}
	lexical, err := m.format(typed)
	if err != nil {
		return rdf.Literal{}, fmt.Errorf("rdfmap: %s: %w", m.name(), err)
	}
	return rdf.NewLiteral(lexical, m.datatype)
}

// FromLiteral converts a literal back into the mapped value, validating the
// literal's datatype against the mapper's unless bypassDatatypeCheck is set.
func (m *LiteralMapper[T]) FromLiteral(term rdf.Literal, ctx *DeserializationContext, bypassDatatypeCheck bool) (any, error) {
	if !bypassDatatypeCheck && term.Datatype != m.datatype {
		return nil, &DatatypeMismatchError{
			Actual:     term.Datatype,
			Expected:   m.datatype,
			TargetType: reflect.TypeFor[T](),
			Mapper:     m.name(),
		}
	}
	if term.Lang != "" && !m.acceptLang {
		return nil, deserializationErrorf("%s does not accept language-tagged literal %s", m.name(), term)
	}
	typed, err := m.parse(term.Lexical)
	if err != nil {
		return nil, &DeserializationError{
			Message: fmt.Sprintf("%s cannot parse %q", m.name(), term.Lexical),
			Err:     err,
		}
	}
	return typed, nil
}

func (m *LiteralMapper[T]) name() string {
	return fmt.Sprintf("LiteralMapper[%v]", reflect.TypeFor[T]())
}

// DatatypeOverride re-tags the literal produced by the registry's default
// mapper for T with a different datatype, leaving the lexical value
// untouched, and validates the tag on decode.
//
// An override adapter must never be registered as the registry's default
// mapper for T: it resolves T through the context's generic path, which the
// registry would resolve back to the adapter itself, recursing without
// bound. Supply it as an explicit per-property argument only.
type DatatypeOverride[T any] struct {
	datatype rdf.IRI
}

// NewDatatypeOverride returns a datatype override adapter for T.
func NewDatatypeOverride[T any](datatype rdf.IRI) *DatatypeOverride[T] {
	return &DatatypeOverride[T]{datatype: datatype}
}

// Datatype returns the overriding datatype.
func (m *DatatypeOverride[T]) Datatype() rdf.IRI { return m.datatype }

// AsLiteral serializes value with T's registered mapper and re-tags the
// result.
func (m *DatatypeOverride[T]) AsLiteral(value any, ctx *SerializationContext) (rdf.Literal, error) {
	ser, ok := ctx.registry.literalSerializerFor(reflect.TypeFor[T]())
	if !ok {
		return rdf.Literal{}, &MapperNotFoundError{Type: reflect.TypeFor[T](), Shape: ShapeLiteral, Serializing: true}
	}
	lit, err := ser.AsLiteral(value, ctx)
	if err != nil {
		return rdf.Literal{}, err
	}
	return rdf.NewLiteral(lit.Lexical, m.datatype)
}

// FromLiteral validates the overriding datatype, then delegates parsing to
// T's registered mapper with the datatype check bypassed.
func (m *DatatypeOverride[T]) FromLiteral(term rdf.Literal, ctx *DeserializationContext, bypassDatatypeCheck bool) (any, error) {
	if !bypassDatatypeCheck && term.Datatype != m.datatype {
		return nil, &DatatypeMismatchError{
			Actual:     term.Datatype,
			Expected:   m.datatype,
			TargetType: reflect.TypeFor[T](),
			Mapper:     fmt.Sprintf("DatatypeOverride[%v]", reflect.TypeFor[T]()),
		}
	}
	deser, ok := ctx.registry.literalDeserializerFor(reflect.TypeFor[T]())
	if !ok {
		return nil, &MapperNotFoundError{Type: reflect.TypeFor[T](), Shape: ShapeLiteral}
	}
	rebased, err := rdf.NewLiteral(term.Lexical, deser.Datatype())
	if err != nil {
		return nil, err
	}
	return deser.FromLiteral(rebased, ctx, true)
}

// LanguageOverride re-tags the literal produced by the registry's default
// mapper for T with a language, and validates the tag on decode. The same
// registration hazard applies as for DatatypeOverride.
type LanguageOverride[T any] struct {
	lang string
}

// NewLanguageOverride returns a language override adapter for T.
func NewLanguageOverride[T any](lang string) *LanguageOverride[T] {
	return &LanguageOverride[T]{lang: lang}
}

// Datatype returns rdf:langString.
func (m *LanguageOverride[T]) Datatype() rdf.IRI { return rdf.RDFLangString }

// AsLiteral serializes value with T's registered mapper and re-tags the
// result with the language.
func (m *LanguageOverride[T]) AsLiteral(value any, ctx *SerializationContext) (rdf.Literal, error) {
	ser, ok := ctx.registry.literalSerializerFor(reflect.TypeFor[T]())
	if !ok {
		return rdf.Literal{}, &MapperNotFoundError{Type: reflect.TypeFor[T](), Shape: ShapeLiteral, Serializing: true}
	}
	lit, err := ser.AsLiteral(value, ctx)
	if err != nil {
		return rdf.Literal{}, err
	}
	return rdf.NewLangLiteral(lit.Lexical, m.lang)
}

// FromLiteral validates datatype and language tag, then delegates parsing to
// T's registered mapper with the datatype check bypassed.
func (m *LanguageOverride[T]) FromLiteral(term rdf.Literal, ctx *DeserializationContext, bypassDatatypeCheck bool) (any, error) {
	if !bypassDatatypeCheck && term.Datatype != rdf.RDFLangString {
		return nil, &DatatypeMismatchError{
			Actual:     term.Datatype,
			Expected:   rdf.RDFLangString,
			TargetType: reflect.TypeFor[T](),
			Mapper:     fmt.Sprintf("LanguageOverride[%v]", reflect.TypeFor[T]()),
		}
	}
	if term.Lang != m.lang {
		return nil, deserializationErrorf("language tag %q does not match expected %q", term.Lang, m.lang)
	}
	deser, ok := ctx.registry.literalDeserializerFor(reflect.TypeFor[T]())
	if !ok {
		return nil, &MapperNotFoundError{Type: reflect.TypeFor[T](), Shape: ShapeLiteral}
	}
	rebased, err := rdf.NewLiteral(term.Lexical, deser.Datatype())
	if err != nil {
		return nil, err
	}
	return deser.FromLiteral(rebased, ctx, true)
}

// DelegatingLiteralMapper maps a domain type T through a primitive carrier
// type C via pure conversion functions, reusing C's registered literal
// mapper for term construction. It attaches a custom datatype to an
// effectively-primitive value without reimplementing literal encoding.
type DelegatingLiteralMapper[T, C any] struct {
	datatype rdf.IRI
	to       func(T) C
	from     func(C) (T, error)
}

// NewDelegatingLiteralMapper builds a delegating mapper tagging values with
// datatype.
func NewDelegatingLiteralMapper[T, C any](datatype rdf.IRI, to func(T) C, from func(C) (T, error)) *DelegatingLiteralMapper[T, C] {
	return &DelegatingLiteralMapper[T, C]{datatype: datatype, to: to, from: from}
}

// Datatype returns the custom datatype.
func (m *DelegatingLiteralMapper[T, C]) Datatype() rdf.IRI { return m.datatype }

// AsLiteral converts value to the carrier, serializes it with the carrier's
// registered mapper, and re-tags the datatype.
func (m *DelegatingLiteralMapper[T, C]) AsLiteral(value any, ctx *SerializationContext) (rdf.Literal, error) {
	typed, ok := value.(T)
	if !ok {
		return rdf.Literal{}, fmt.Errorf("rdfmap: %s cannot serialize %T", m.name(), value)
	}
	ser, ok := ctx.registry.literalSerializerFor(reflect.TypeFor[C]())
	if !ok {
		return rdf.Literal{}, &MapperNotFoundError{Type: reflect.TypeFor[C](), Shape: ShapeLiteral, Serializing: true}
	}
	lit, err := ser.AsLiteral(m.to(typed), ctx)
	if err != nil {
		return rdf.Literal{}, err
	}
	return rdf.NewLiteral(lit.Lexical, m.datatype)
}

// FromLiteral validates the custom datatype, parses the lexical form with
// the carrier's registered mapper, and converts the carrier back to T.
func (m *DelegatingLiteralMapper[T, C]) FromLiteral(term rdf.Literal, ctx *DeserializationContext, bypassDatatypeCheck bool) (any, error) {
	if !bypassDatatypeCheck && term.Datatype != m.datatype {
		return nil, &DatatypeMismatchError{
			Actual:     term.Datatype,
			Expected:   m.datatype,
			TargetType: reflect.TypeFor[T](),
			Mapper:     m.name(),
		}
	}
	deser, ok := ctx.registry.literalDeserializerFor(reflect.TypeFor[C]())
	if !ok {
		return nil, &MapperNotFoundError{Type: reflect.TypeFor[C](), Shape: ShapeLiteral}
	}
	rebased, err := rdf.NewLiteral(term.Lexical, deser.Datatype())
	if err != nil {
		return nil, err
	}
	carrier, err := deser.FromLiteral(rebased, ctx, true)
	if err != nil {
		return nil, err
	}
	typedCarrier, ok := carrier.(C)
	if !ok {
		return nil, deserializationErrorf("%s: carrier mapper produced %T, expected %v", m.name(), carrier, reflect.TypeFor[C]())
	}
	return m.from(typedCarrier)
}

func (m *DelegatingLiteralMapper[T, C]) name() string {
	return fmt.Sprintf("DelegatingLiteralMapper[%v,%v]", reflect.TypeFor[T](), reflect.TypeFor[C]())
}
