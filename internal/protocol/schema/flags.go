package schema

import "strings"

// Flag is a behavioral capability or constraint of a property.
type Flag uint8

const (
	None Flag = iota
	CanRead
	CanWriteOnCreate
	CanWriteOnUpdate
	CanDelete
	CanFind
	Required
	AutoInstantiate
	MustBeExplicitlyLoaded
	ReuseInstance
	UpdateCollectionItems

	flagCount
)

var flagNames = [...]string{
	None:                   "None",
	CanRead:                "CanRead",
	CanWriteOnCreate:       "CanWriteOnCreate",
	CanWriteOnUpdate:       "CanWriteOnUpdate",
	CanDelete:              "CanDelete",
	CanFind:                "CanFind",
	Required:               "Required",
	AutoInstantiate:        "AutoInstantiate",
	MustBeExplicitlyLoaded: "MustBeExplicitlyLoaded",
	ReuseInstance:          "ReuseInstance",
	UpdateCollectionItems:  "UpdateCollectionItems",
}

func (f Flag) String() string {
	if f < flagCount {
		return flagNames[f]
	}
	return "Flag(?)"
}

// FlagSet is an immutable set of flags. The zero value holds only None.
type FlagSet struct {
	bits uint32
}

// NewFlagSet builds a set from flags. With no flags the set holds None.
func NewFlagSet(flags ...Flag) FlagSet {
	var fs FlagSet
	for _, f := range flags {
		if f < flagCount {
			fs.bits |= 1 << f
		}
	}
	return fs
}

// Has reports membership.
func (fs FlagSet) Has(f Flag) bool {
	if f == None && fs.bits == 0 {
		return true
	}
	if f >= flagCount {
		return false
	}
	return fs.bits&(1<<f) != 0
}

// Flags lists the members in declaration order.
func (fs FlagSet) Flags() []Flag {
	if fs.bits == 0 {
		return []Flag{None}
	}
	out := make([]Flag, 0, flagCount)
	for f := None; f < flagCount; f++ {
		if fs.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (fs FlagSet) String() string {
	flags := fs.Flags()
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = f.String()
	}
	return strings.Join(parts, "|")
}
