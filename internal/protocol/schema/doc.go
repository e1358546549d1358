// Package schema owns property definitions and the state they act on.
//
// Ownership boundary:
// - flag sets and the version aware flag query
// - property definitions (Base) and their marshalling contract
// - registries binding display names to definitions exactly once
// - property bags holding per object values and change tracking
//
// Concrete value encodings live in schema/props; object schemas in itemschema.
package schema
