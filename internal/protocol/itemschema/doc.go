// Package itemschema declares the item and calendar item schemas.
//
// Definitions are package level values compared by identity. Both registries
// are built and initialized when the package is initialized, so every
// definition's display name is bound before any caller can observe it.
package itemschema
