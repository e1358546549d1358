// Package protocol owns the wire contract shared by the schema packages.
//
// Ownership boundary:
// - protocol version ordering and parsing
// - error kinds surfaced by property marshalling
//
// The XML ports live in xmlwire, property definitions, registries and bags in
// schema, and the concrete object schemas in itemschema.
package protocol
