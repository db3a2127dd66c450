package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/xpvault/xpvault/x/vault/types"
)

// StakeFor creates a time-locked position owned by beneficiary. The caller
// identity must hold the stake capability (treasury, approved router or
// factory) and is the source of the deposited tokens. The operation is
// atomic: on any failure no tokens move and no ledger entry is created.
func (k Keeper) StakeFor(
	ctx context.Context,
	vaultID uint64,
	caller sdk.AccAddress,
	beneficiary sdk.AccAddress,
	amount sdkmath.Int,
	lockBlocks int64,
) (uint64, error) {
	if err := k.guard.enter(vaultID); err != nil {
		return 0, err
	}
	defer k.guard.exit(vaultID)

	vault, err := k.GetVault(ctx, vaultID)
	if err != nil {
		return 0, err
	}
	if !vault.Active || vault.Closed {
		return 0, errors.Wrapf(types.ErrVaultInactive, "vault %d does not accept deposits", vaultID)
	}
	if amount.IsNil() || amount.LT(vault.MinAmount) || amount.GT(vault.MaxAmount) {
		return 0, errors.Wrapf(
			types.ErrAmountOutOfBounds,
			"amount %s outside [%s, %s]", amount, vault.MinAmount, vault.MaxAmount,
		)
	}
	if !vault.AllowsDuration(lockBlocks) {
		return 0, errors.Wrapf(types.ErrInvalidDuration, "lock duration %d blocks", lockBlocks)
	}
	if err := k.assertApprovedInvoker(ctx, caller); err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeCache := sdkCtx.CacheContext()

	positionID, err := k.appendPosition(cacheCtx, vaultID, vault, caller, beneficiary, amount, lockBlocks)
	if err != nil {
		return 0, err
	}

	writeCache()
	return positionID, nil
}

func (k Keeper) appendPosition(
	ctx sdk.Context,
	vaultID uint64,
	vault types.Vault,
	caller sdk.AccAddress,
	beneficiary sdk.AccAddress,
	amount sdkmath.Int,
	lockBlocks int64,
) (uint64, error) {
	coins := sdk.NewCoins(sdk.NewCoin(vault.Denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, caller, types.ModuleName, coins); err != nil {
		return 0, errors.Wrapf(types.ErrTransferFailed, "pulling %s from %s: %s", coins, caller, err)
	}

	positionID, err := k.nextPositionID(ctx, vaultID)
	if err != nil {
		return 0, err
	}

	now := ctx.BlockHeight()
	position := types.Position{
		Owner:       beneficiary.String(),
		Amount:      amount,
		StartHeight: now,
		EndHeight:   now + lockBlocks,
	}
	if err := k.Positions.Set(ctx, collections.Join(vaultID, positionID), position); err != nil {
		return 0, err
	}

	active, err := k.getIDList(ctx, k.Active, vaultID, beneficiary)
	if err != nil {
		return 0, err
	}
	active.Append(positionID)
	if err := k.Active.Set(ctx, collections.Join(vaultID, beneficiary), active); err != nil {
		return 0, err
	}

	if err := k.Participants.Set(ctx, collections.Join(vaultID, beneficiary)); err != nil {
		return 0, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeStaked,
		sdk.NewAttribute(types.AttributeKeyVaultID, strconv.FormatUint(vaultID, 10)),
		sdk.NewAttribute(types.AttributeKeyPositionID, strconv.FormatUint(positionID, 10)),
		sdk.NewAttribute(types.AttributeKeyBeneficiary, position.Owner),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyStartHeight, strconv.FormatInt(position.StartHeight, 10)),
		sdk.NewAttribute(types.AttributeKeyEndHeight, strconv.FormatInt(position.EndHeight, 10)),
	))

	return positionID, nil
}

// nextPositionID allocates the next monotonically increasing position id of
// the vault's append-only ledger.
func (k Keeper) nextPositionID(ctx context.Context, vaultID uint64) (uint64, error) {
	count, err := k.PositionCounts.Get(ctx, vaultID)
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return 0, err
		}
		count = 0
	}
	if err := k.PositionCounts.Set(ctx, vaultID, count+1); err != nil {
		return 0, err
	}
	return count, nil
}

// getIDList reads an account's id list from the given index, yielding an
// empty list when none exists yet.
func (k Keeper) getIDList(
	ctx context.Context,
	index collections.Map[collections.Pair[uint64, sdk.AccAddress], types.PositionIDList],
	vaultID uint64,
	addr sdk.AccAddress,
) (types.PositionIDList, error) {
	list, err := index.Get(ctx, collections.Join(vaultID, addr))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.PositionIDList{}, nil
		}
		return types.PositionIDList{}, err
	}
	return list, nil
}
