package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpvault/xpvault/x/vault/types"
)

func TestCreateVault(t *testing.T) {
	requireT := require.New(t)
	assertT := assert.New(t)
	f := newFixture(t)

	vaultID := f.createDefaultVault()
	assertT.EqualValues(0, vaultID)

	stored, err := f.keeper.GetVault(f.ctx, vaultID)
	requireT.NoError(err)
	assertT.Equal(testDenom, stored.Denom)
	assertT.True(stored.Active)
	assertT.False(stored.Closed)

	events := eventsOfType(f.ctx, types.EventTypeVaultCreated)
	requireT.Len(events, 1)
	assertT.Equal("0", eventAttribute(events[0], types.AttributeKeyVaultID))
	assertT.Equal(testDenom, eventAttribute(events[0], types.AttributeKeyDenom))

	// ids are monotonically increasing
	other := f.defaultVault()
	other.Denom = "uother"
	otherID, err := f.keeper.CreateVault(f.ctx, f.treasury.String(), other)
	requireT.NoError(err)
	assertT.EqualValues(1, otherID)
}

func TestCreateVaultAuthority(t *testing.T) {
	requireT := require.New(t)
	f := newFixture(t)

	_, err := f.keeper.CreateVault(f.ctx, randomAddress().String(), f.defaultVault())
	requireT.ErrorIs(err, types.ErrAccessDenied)
}

func TestCreateVaultRejectsInvalidConfig(t *testing.T) {
	requireT := require.New(t)
	f := newFixture(t)

	tests := []struct {
		name    string
		mutate  func(v *types.Vault)
		wantErr error
	}{
		{
			name:    "empty denom",
			mutate:  func(v *types.Vault) { v.Denom = "" },
			wantErr: types.ErrInvalidParam,
		},
		{
			name:    "zero min amount",
			mutate:  func(v *types.Vault) { v.MinAmount = sdkmath.ZeroInt() },
			wantErr: types.ErrInvalidParam,
		},
		{
			name:    "max below min",
			mutate:  func(v *types.Vault) { v.MaxAmount = sdkmath.NewInt(0) },
			wantErr: types.ErrInvalidParam,
		},
		{
			name:    "non-positive lock preset",
			mutate:  func(v *types.Vault) { v.LockPresets = []int64{100, 0} },
			wantErr: types.ErrInvalidDuration,
		},
		{
			name: "unordered time multiplier table",
			mutate: func(v *types.Vault) {
				v.TimeMultipliers = types.MultiplierTable{
					{Threshold: sdkmath.NewInt(500), Multiplier: 15000},
					{Threshold: sdkmath.NewInt(100), Multiplier: 12000},
				}
			},
			wantErr: types.ErrUnorderedMultiplierTable,
		},
		{
			name: "zero multiplier",
			mutate: func(v *types.Vault) {
				v.AmountMultipliers = types.MultiplierTable{
					{Threshold: sdkmath.NewInt(100), Multiplier: 0},
				}
			},
			wantErr: types.ErrInvalidParam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vault := f.defaultVault()
			tt.mutate(&vault)
			_, err := f.keeper.CreateVault(f.ctx, f.treasury.String(), vault)
			requireT.ErrorIs(err, tt.wantErr)
		})
	}
}

func TestCreateVaultDuplicateToken(t *testing.T) {
	requireT := require.New(t)
	f := newFixture(t)

	f.createDefaultVault()
	_, err := f.keeper.CreateVault(f.ctx, f.treasury.String(), f.defaultVault())
	requireT.ErrorIs(err, types.ErrDuplicateVaultForToken)
}

func TestCloseVault(t *testing.T) {
	requireT := require.New(t)
	assertT := assert.New(t)
	f := newFixture(t)

	vaultID := f.createDefaultVault()
	requireT.NoError(f.keeper.CloseVault(f.ctx, f.treasury, vaultID))

	stored, err := f.keeper.GetVault(f.ctx, vaultID)
	requireT.NoError(err)
	assertT.False(stored.Active)
	assertT.True(stored.Closed)

	requireT.Len(eventsOfType(f.ctx, types.EventTypeVaultClosed), 1)
	factoryEvents := eventsOfType(f.ctx, types.EventTypeVaultClosedByFactory)
	requireT.Len(factoryEvents, 1)
	assertT.Equal(testDenom, eventAttribute(factoryEvents[0], types.AttributeKeyDenom))

	// closing again is rejected
	requireT.ErrorIs(f.keeper.CloseVault(f.ctx, f.treasury, vaultID), types.ErrVaultInactive)

	// the token registration is freed, a replacement vault can be created
	replacementID, err := f.keeper.CreateVault(f.ctx, f.treasury.String(), f.defaultVault())
	requireT.NoError(err)
	assertT.NotEqual(vaultID, replacementID)
}

func TestCloseVaultAccess(t *testing.T) {
	requireT := require.New(t)
	f := newFixture(t)

	vaultID := f.createDefaultVault()

	requireT.ErrorIs(f.keeper.CloseVault(f.ctx, randomAddress(), vaultID), types.ErrAccessDenied)

	// the approved router may close vaults
	requireT.NoError(f.keeper.CloseVault(f.ctx, f.router, vaultID))
}

func TestCloseVaultNotFound(t *testing.T) {
	requireT := require.New(t)
	f := newFixture(t)

	requireT.ErrorIs(f.keeper.CloseVault(f.ctx, f.treasury, 42), types.ErrVaultNotFound)
}
