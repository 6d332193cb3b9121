package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("BUYER")
	require.NoError(t, err)
	assert.Equal(t, RoleBuyer, role)

	role, err = ParseRole("SELLER")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, role)

	for _, bad := range []string{"", "buyer", "ADMIN", "SELLER "} {
		_, err := ParseRole(bad)
		assert.Error(t, err, "role %q must be rejected", bad)
	}
}
