// Package props provides the concrete property definitions: scalar values
// carried as element text, string collections, and attribute carrying
// complex values such as item identifiers and time zones.
package props
