// Package jsonschema provides the JSON Schema document type sent to model
// backends that support schema-constrained output.
//
// Schemas are built explicitly with [Object] and the property constructors
// ([String], [Number], [Integer], [Map], [Enum]); nothing here inspects Go
// types at runtime. The core schema package renders its descriptors through
// these helpers.
package jsonschema
