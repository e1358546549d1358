package schema

import (
	"testing"

	"github.com/danmuck/ewsctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
)

func TestFlagSetEmptyHoldsNone(t *testing.T) {
	testlog.Start(t)
	for _, fs := range []FlagSet{{}, NewFlagSet()} {
		assert.True(t, fs.Has(None))
		assert.False(t, fs.Has(CanRead), fs.String())
		assert.False(t, fs.Has(Required), fs.String())
		assert.Equal(t, "None", fs.String())
	}
}

func TestFlagSetMembership(t *testing.T) {
	testlog.Start(t)
	fs := NewFlagSet(CanWriteOnUpdate, CanRead, CanRead)
	assert.True(t, fs.Has(CanRead))
	assert.True(t, fs.Has(CanWriteOnUpdate))
	assert.False(t, fs.Has(None))
	assert.False(t, fs.Has(CanWriteOnCreate))
	assert.Equal(t, "CanRead|CanWriteOnUpdate", fs.String())
	assert.False(t, fs.Has(flagCount), "out of range flag reported as member")
}

func TestFlagSetIgnoresUnknownFlags(t *testing.T) {
	testlog.Start(t)
	fs := NewFlagSet(Flag(200))
	assert.True(t, fs.Has(None), "a set built only from unknown flags is empty")
	assert.Equal(t, "Flag(?)", Flag(200).String())
}
