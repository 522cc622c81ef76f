// Package schema declares the shape of structured model output and produces
// values that conform to it.
//
// A [Descriptor] is an ordered, immutable list of named fields, each with a
// primitive [Kind]. Descriptors are declared once, at definition time, with
// [New] and the field constructors ([String], [Float], [Integer], [Mapping],
// [Enum]) or loaded from YAML with [Parse] and [LoadFile]. Nothing in this
// package inspects caller types at runtime.
//
// Two operations produce values:
//
//   - [Synthesize] builds the placeholder value used when a model could not be
//     reached or understood. String fields carry [ErrorSentinel] so downstream
//     consumers can detect degraded output (see [IsDegraded]).
//   - [Instantiate] turns a decoded, possibly partial payload into a [Value],
//     filling absent fields from the same per-field default table.
package schema
