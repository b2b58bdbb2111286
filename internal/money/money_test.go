package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_FractionalDollars(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$0.01", Format(1))
	assert.Equal(t, "$0.10", Format(10))
	assert.Equal(t, "$0.09", Format(9))
	assert.Equal(t, "$0.40", Format(40))
}

func TestFormat_WholeDollarsLeaveCentsOff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$50", Format(5000))
	assert.Equal(t, "$0", Format(0))
	assert.Equal(t, "$19", Format(1900))
}

func TestFormat_MixedAmounts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$19.99", Format(1999))
	assert.Equal(t, "$123.45", Format(12345))
}
