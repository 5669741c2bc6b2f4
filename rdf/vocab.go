package rdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Namespace prefixes for the core vocabularies.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// RDF vocabulary terms.
var (
	RDFType       = IRI{Value: RDFNamespace + "type"}
	RDFFirst      = IRI{Value: RDFNamespace + "first"}
	RDFRest       = IRI{Value: RDFNamespace + "rest"}
	RDFNil        = IRI{Value: RDFNamespace + "nil"}
	RDFList       = IRI{Value: RDFNamespace + "List"}
	RDFBag        = IRI{Value: RDFNamespace + "Bag"}
	RDFSeq        = IRI{Value: RDFNamespace + "Seq"}
	RDFAlt        = IRI{Value: RDFNamespace + "Alt"}
	RDFLangString = IRI{Value: RDFNamespace + "langString"}
	RDFXMLLiteral = IRI{Value: RDFNamespace + "XMLLiteral"}
)

// XSD datatype terms.
var (
	XSDString       = IRI{Value: XSDNamespace + "string"}
	XSDBoolean      = IRI{Value: XSDNamespace + "boolean"}
	XSDInteger      = IRI{Value: XSDNamespace + "integer"}
	XSDLong         = IRI{Value: XSDNamespace + "long"}
	XSDDecimal      = IRI{Value: XSDNamespace + "decimal"}
	XSDDouble       = IRI{Value: XSDNamespace + "double"}
	XSDDateTime     = IRI{Value: XSDNamespace + "dateTime"}
	XSDDate         = IRI{Value: XSDNamespace + "date"}
	XSDDuration     = IRI{Value: XSDNamespace + "duration"}
	XSDBase64Binary = IRI{Value: XSDNamespace + "base64Binary"}
	XSDAnyURI       = IRI{Value: XSDNamespace + "anyURI"}
)

// RDFMember returns the 1-indexed container membership property rdf:_n.
func RDFMember(n int) IRI {
	return IRI{Value: fmt.Sprintf("%s_%d", RDFNamespace, n)}
}

// RDFMemberIndex reports the 1-based index of a container membership
// property (rdf:_1, rdf:_2, ...), or false if the IRI is not one.
func RDFMemberIndex(p IRI) (int, bool) {
	rest, ok := strings.CutPrefix(p.Value, RDFNamespace+"_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
