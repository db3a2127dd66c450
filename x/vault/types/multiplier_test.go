package types_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpvault/xpvault/x/vault/types"
)

func TestMultiplierTableLookup(t *testing.T) {
	assertT := assert.New(t)

	table := types.MultiplierTable{
		{Threshold: sdkmath.NewInt(100), Multiplier: 12_000},
		{Threshold: sdkmath.NewInt(500), Multiplier: 15_000},
	}
	require.NoError(t, table.Validate())

	tests := []struct {
		value int64
		want  uint32
	}{
		{value: 0, want: types.NeutralMultiplierBP},
		{value: 50, want: types.NeutralMultiplierBP},
		{value: 99, want: types.NeutralMultiplierBP},
		{value: 100, want: 12_000},
		{value: 499, want: 12_000},
		{value: 500, want: 15_000},
		{value: 10_000, want: 15_000},
	}
	for _, tt := range tests {
		assertT.Equal(tt.want, table.Lookup(sdkmath.NewInt(tt.value)), "value %d", tt.value)
		assertT.Equal(tt.want, table.LookupHeight(tt.value), "height %d", tt.value)
	}

	// an empty table is always neutral
	assertT.Equal(uint32(types.NeutralMultiplierBP), types.MultiplierTable{}.Lookup(sdkmath.NewInt(1_000)))
}

func TestMultiplierTableValidate(t *testing.T) {
	requireT := require.New(t)

	tests := []struct {
		name    string
		table   types.MultiplierTable
		wantErr error
	}{
		{
			name: "descending thresholds",
			table: types.MultiplierTable{
				{Threshold: sdkmath.NewInt(500), Multiplier: 15_000},
				{Threshold: sdkmath.NewInt(100), Multiplier: 12_000},
			},
			wantErr: types.ErrUnorderedMultiplierTable,
		},
		{
			name: "duplicate thresholds",
			table: types.MultiplierTable{
				{Threshold: sdkmath.NewInt(100), Multiplier: 12_000},
				{Threshold: sdkmath.NewInt(100), Multiplier: 15_000},
			},
			wantErr: types.ErrUnorderedMultiplierTable,
		},
		{
			name: "negative threshold",
			table: types.MultiplierTable{
				{Threshold: sdkmath.NewInt(-1), Multiplier: 12_000},
			},
			wantErr: types.ErrUnorderedMultiplierTable,
		},
		{
			name: "nil threshold",
			table: types.MultiplierTable{
				{Multiplier: 12_000},
			},
			wantErr: types.ErrUnorderedMultiplierTable,
		},
		{
			name: "zero multiplier",
			table: types.MultiplierTable{
				{Threshold: sdkmath.NewInt(100), Multiplier: 0},
			},
			wantErr: types.ErrInvalidParam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireT.ErrorIs(tt.table.Validate(), tt.wantErr)
		})
	}

	requireT.NoError(types.MultiplierTable{}.Validate())
	requireT.NoError(types.MultiplierTable{
		{Threshold: sdkmath.NewInt(0), Multiplier: 8_000},
		{Threshold: sdkmath.NewInt(100), Multiplier: 12_000},
	}.Validate())
}
