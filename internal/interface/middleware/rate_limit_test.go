package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemainingAfterNeverNegative(t *testing.T) {
	assert.Equal(t, 9, remainingAfter(10, 1))
	assert.Equal(t, 0, remainingAfter(10, 10))
	assert.Equal(t, 0, remainingAfter(10, 11))
	assert.Equal(t, 0, remainingAfter(10, 500))
}
