package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/reconcile"
)

func TestParseEdit(t *testing.T) {
	pair, amount, err := parseEdit("stf-ravi:ev-1=4500.50")
	require.NoError(t, err)
	assert.Equal(t, reconcile.Pair{StaffID: "stf-ravi", EventID: "ev-1"}, pair)
	assert.True(t, amount.Equal(decimal.RequireFromString("4500.5")))

	// No event means the general pair.
	pair, amount, err = parseEdit("stf-ravi=0")
	require.NoError(t, err)
	assert.Equal(t, reconcile.Pair{StaffID: "stf-ravi"}, pair)
	assert.True(t, amount.IsZero())
}

func TestParseEdit_Rejects(t *testing.T) {
	for _, arg := range []string{"stf-ravi:ev-1", ":ev-1=100", "stf-ravi:ev-1=lots"} {
		_, _, err := parseEdit(arg)
		assert.Error(t, err, arg)
	}
}
