package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCents(t *testing.T) {
	assert.Equal(t, int64(3500), Cents(35))
	assert.Equal(t, int64(5597), Cents(55.97))
	// Floating point representation must not shave a cent.
	assert.Equal(t, int64(2499), Cents(24.99))
	assert.Equal(t, int64(10), Cents(0.1))
}
