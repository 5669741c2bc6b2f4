package rdf

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateIRI validates an IRI string.
//
// This is a pragmatic check rather than full RFC 3987 compliance: the IRI is
// parsed with url.Parse, the scheme is validated when present, and characters
// that must be percent-encoded are rejected.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("%w: empty IRI", ErrInvalidIRI)
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIRI, err)
	}

	if parsed.Scheme == "" {
		// Network-path references need a scheme; other relative IRIs are
		// accepted, the mapper's subjects are expected to be absolute but
		// relativization is a codec concern.
		if strings.HasPrefix(iri, "//") {
			return fmt.Errorf("%w: relative IRI without scheme: %s", ErrInvalidIRI, iri)
		}
	} else {
		first := parsed.Scheme[0]
		if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
			return fmt.Errorf("%w: scheme must start with a letter: %s", ErrInvalidIRI, iri)
		}
	}

	for i, r := range iri {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return fmt.Errorf("%w: control character at position %d: %s", ErrInvalidIRI, i, iri)
		}
		if r == '<' || r == '>' {
			return fmt.Errorf("%w: character %q at position %d should be percent-encoded: %s", ErrInvalidIRI, r, i, iri)
		}
	}

	return nil
}
