package rdf

import (
	"context"
	"io"
)

// DefaultMaxTriples bounds how many triples ParseGraph accepts before
// failing with ErrTripleLimitExceeded.
const DefaultMaxTriples int64 = 10_000_000

// Option configures codec behavior.
type Option func(*Options)

// Options configures parser/encoder behavior.
type Options struct {
	// MaxTriples limits the number of triples accepted while parsing.
	MaxTriples int64
	// JSONLD holds JSON-LD-specific options.
	JSONLD JSONLDOptions
}

func defaultCodecOptions() Options {
	return Options{MaxTriples: DefaultMaxTriples}
}

// OptMaxTriples sets the maximum number of triples to parse.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptBaseIRI sets the base IRI for JSON-LD expansion.
func OptBaseIRI(base string) Option {
	return func(opts *Options) {
		opts.JSONLD.BaseIRI = base
	}
}

// OptProcessingMode sets the JSON-LD processing mode.
func OptProcessingMode(mode string) Option {
	return func(opts *Options) {
		opts.JSONLD.ProcessingMode = mode
	}
}

// OptCompactContext compacts JSON-LD encoder output against ctx.
func OptCompactContext(ctx interface{}) Option {
	return func(opts *Options) {
		opts.JSONLD.CompactContext = ctx
	}
}

// ParseGraph reads an RDF document into an immutable graph.
// If ctx is nil, context.Background() is used.
func ParseGraph(ctx context.Context, r io.Reader, format Format, opts ...Option) (*Graph, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := defaultCodecOptions()
	for _, opt := range opts {
		opt(&options)
	}

	switch format {
	case FormatNTriples:
		dec := newNTriplesDecoder(r)
		defer dec.Close()
		var triples []Triple
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			triple, err := dec.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			triples = append(triples, triple)
			if options.MaxTriples > 0 && int64(len(triples)) > options.MaxTriples {
				return nil, ErrTripleLimitExceeded
			}
		}
		return NewGraph(triples...), nil
	case FormatJSONLD:
		triples, err := decodeJSONLD(ctx, r, options.JSONLD)
		if err != nil {
			return nil, err
		}
		if options.MaxTriples > 0 && int64(len(triples)) > options.MaxTriples {
			return nil, ErrTripleLimitExceeded
		}
		return NewGraph(triples...), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// WriteGraph writes a graph as an RDF document in the given format.
// If ctx is nil, context.Background() is used.
func WriteGraph(ctx context.Context, w io.Writer, g *Graph, format Format, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	options := defaultCodecOptions()
	for _, opt := range opts {
		opt(&options)
	}

	switch format {
	case FormatNTriples:
		enc := newNTriplesEncoder(w)
		for _, t := range g.Triples() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := enc.Write(t); err != nil {
				return err
			}
		}
		return enc.Close()
	case FormatJSONLD:
		return encodeJSONLD(ctx, w, g.Triples(), options.JSONLD)
	default:
		return ErrUnsupportedFormat
	}
}
