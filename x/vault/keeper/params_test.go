package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpvault/xpvault/x/vault/types"
)

func TestSetFees(t *testing.T) {
	requireT := require.New(t)
	assertT := assert.New(t)
	f := newFixture(t)

	requireT.NoError(f.keeper.SetFees(f.ctx, f.treasury.String(), 100, 25))

	params, err := f.keeper.GetParams(f.ctx)
	requireT.NoError(err)
	assertT.EqualValues(100, params.ProtocolFeeBP)
	assertT.EqualValues(25, params.CallerFeeBP)

	// the fee sum must stay below 100%
	requireT.ErrorIs(f.keeper.SetFees(f.ctx, f.treasury.String(), 9_000, 1_000), types.ErrInvalidParam)

	// rejected updates leave the previous values in place
	params, err = f.keeper.GetParams(f.ctx)
	requireT.NoError(err)
	assertT.EqualValues(100, params.ProtocolFeeBP)

	requireT.ErrorIs(f.keeper.SetFees(f.ctx, randomAddress().String(), 10, 10), types.ErrAccessDenied)
}

func TestSetApprovedRouter(t *testing.T) {
	requireT := require.New(t)
	assertT := assert.New(t)
	f := newFixture(t)

	replacement := randomAddress()
	requireT.NoError(f.keeper.SetApprovedRouter(f.ctx, f.treasury.String(), replacement.String()))

	params, err := f.keeper.GetParams(f.ctx)
	requireT.NoError(err)
	assertT.Equal(replacement.String(), params.ApprovedRouter)

	// the previous router lost its capability
	vaultID := f.createDefaultVault()
	requireT.ErrorIs(f.keeper.CloseVault(f.ctx, f.router, vaultID), types.ErrAccessDenied)
	requireT.NoError(f.keeper.CloseVault(f.ctx, replacement, vaultID))

	requireT.ErrorIs(
		f.keeper.SetApprovedRouter(f.ctx, randomAddress().String(), replacement.String()),
		types.ErrAccessDenied,
	)

	// an empty router revokes the approval entirely
	requireT.NoError(f.keeper.SetApprovedRouter(f.ctx, f.treasury.String(), ""))
	params, err = f.keeper.GetParams(f.ctx)
	requireT.NoError(err)
	assertT.Empty(params.ApprovedRouter)
}

func TestSetRouterEnabled(t *testing.T) {
	requireT := require.New(t)
	assertT := assert.New(t)
	f := newFixture(t)

	requireT.NoError(f.keeper.SetRouterEnabled(f.ctx, f.treasury.String(), false))
	params, err := f.keeper.GetParams(f.ctx)
	requireT.NoError(err)
	assertT.False(params.RouterEnabled)

	requireT.ErrorIs(f.keeper.SetRouterEnabled(f.ctx, randomAddress().String(), true), types.ErrAccessDenied)
}
