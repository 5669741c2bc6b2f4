package rdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	ld "github.com/piprate/json-gold/ld"
)

// JSONLDOptions configures JSON-LD processing.
type JSONLDOptions struct {
	// BaseIRI resolves relative IRIs during expansion. Relative-IRI handling
	// never leaves the codec; the graph handed to callers holds absolute IRIs.
	BaseIRI string
	// ProcessingMode controls JSON-LD version semantics: "json-ld-1.0" or
	// "json-ld-1.1".
	ProcessingMode string
	// CompactContext, when set, compacts encoder output against this context.
	CompactContext interface{}
}

func newJSONGoldOptions(opts JSONLDOptions) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	if opts.ProcessingMode != "" {
		goldOpts.ProcessingMode = opts.ProcessingMode
	}
	return goldOpts
}

// decodeJSONLD parses a JSON-LD document into triples. Statements in named
// graphs are flattened into the default graph; the mapper's data model is
// triple-only.
func decodeJSONLD(ctx context.Context, r io.Reader, opts JSONLDOptions) ([]Triple, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("jsonld: %w", err)
	}
	var document interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, wrapParseError("jsonld", string(data), 0, err)
	}

	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(document, newJSONGoldOptions(opts))
	if err != nil {
		return nil, wrapParseError("jsonld", "", 0, err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}

	serializer := &ld.NQuadRDFSerializer{}
	serialized, err := serializer.Serialize(dataset)
	if err != nil {
		return nil, wrapParseError("jsonld", "", 0, err)
	}
	nquads, ok := serialized.(string)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected N-Quads result %T", serialized)
	}
	return parseNQuadLines(nquads)
}

// encodeJSONLD writes triples as a JSON-LD document, optionally compacted
// against a supplied context.
func encodeJSONLD(ctx context.Context, w io.Writer, triples []Triple, opts JSONLDOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := newNTriplesEncoder(&buf)
	for _, t := range triples {
		if err := enc.Write(t); err != nil {
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}

	proc := ld.NewJsonLdProcessor()
	goldOpts := newJSONGoldOptions(opts)
	goldOpts.Format = "application/n-quads"
	document, err := proc.FromRDF(buf.String(), goldOpts)
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	if opts.CompactContext != nil {
		document, err = proc.Compact(document, opts.CompactContext, newJSONGoldOptions(opts))
		if err != nil {
			return fmt.Errorf("jsonld: %w", err)
		}
	}

	out, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// parseNQuadLines parses serialized N-Quads, dropping graph labels.
func parseNQuadLines(nquads string) ([]Triple, error) {
	var triples []Triple
	lineNo := 0
	for line := range linesOf(nquads) {
		lineNo++
		if line == "" || line[0] == '#' {
			continue
		}
		cursor := &ntCursor{input: line}
		subject, err := cursor.parseSubject()
		if err != nil {
			return nil, wrapParseError("jsonld", line, lineNo, err)
		}
		predicate, err := cursor.parseIRI()
		if err != nil {
			return nil, wrapParseError("jsonld", line, lineNo, err)
		}
		object, err := cursor.parseObject()
		if err != nil {
			return nil, wrapParseError("jsonld", line, lineNo, err)
		}
		cursor.skipWS()
		if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '.' {
			// Graph label; flatten into the default graph.
			if _, err := cursor.parseTerm(false); err != nil {
				return nil, wrapParseError("jsonld", line, lineNo, err)
			}
		}
		if !cursor.consume('.') {
			return nil, wrapParseError("jsonld", line, lineNo, fmt.Errorf("expected '.' at end of statement"))
		}
		triple, err := NewTriple(subject, predicate, object)
		if err != nil {
			return nil, wrapParseError("jsonld", line, lineNo, err)
		}
		triples = append(triples, triple)
	}
	return triples, nil
}

func linesOf(s string) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		start := 0
		for i := 0; i <= len(s); i++ {
			if i == len(s) || s[i] == '\n' {
				line := s[start:i]
				if n := len(line); n > 0 && line[n-1] == '\r' {
					line = line[:n-1]
				}
				if !yield(line) {
					return
				}
				start = i + 1
			}
		}
	}
}
