// Package xmlwire provides the reader and writer ports property definitions
// use to move values between a property bag and XML.
//
// Ownership boundary:
// - element positioning and subtree skipping on the read side
// - element emission and prefixing on the write side
//
// Elements are matched by local name; namespace prefixes on the wire are
// accepted whether or not they are declared.
package xmlwire
