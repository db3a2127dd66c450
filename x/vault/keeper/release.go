package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/xpvault/xpvault/pkg/detmap"
	"github.com/xpvault/xpvault/x/vault/types"
)

// feeSplit is the settlement arithmetic for one matured position. The three
// parts always sum to the position amount exactly.
type feeSplit struct {
	protocolFee sdkmath.Int
	callerFee   sdkmath.Int
	refund      sdkmath.Int
}

func (s feeSplit) total() sdkmath.Int {
	return s.protocolFee.Add(s.callerFee)
}

// splitFee computes the release fee tier. Self-release (caller == owner)
// pays only the protocol share; a third-party caller adds the caller share,
// paid to the caller as the settlement incentive.
func splitFee(amount sdkmath.Int, params types.Params, selfRelease bool) feeSplit {
	bpDenom := sdkmath.NewInt(types.BPDenominator)

	feeBP := uint64(params.ProtocolFeeBP)
	if !selfRelease {
		feeBP += uint64(params.CallerFeeBP)
	}

	protocolFee := amount.Mul(sdkmath.NewIntFromUint64(uint64(params.ProtocolFeeBP))).Quo(bpDenom)
	fee := amount.Mul(sdkmath.NewIntFromUint64(feeBP)).Quo(bpDenom)

	return feeSplit{
		protocolFee: protocolFee,
		callerFee:   fee.Sub(protocolFee),
		refund:      amount.Sub(fee),
	}
}

// ReleaseFor settles the user's eligible positions. The invoker identity is
// the gated channel driving the vault; the caller identity is credited as
// the settlement triggerer and decides the fee tier. Positions that are
// neither matured nor under emergency closure stay untouched.
func (k Keeper) ReleaseFor(
	ctx context.Context,
	vaultID uint64,
	invoker sdk.AccAddress,
	user sdk.AccAddress,
	caller sdk.AccAddress,
) error {
	if err := k.guard.enter(vaultID); err != nil {
		return err
	}
	defer k.guard.exit(vaultID)

	if err := k.assertApprovedInvoker(ctx, invoker); err != nil {
		return err
	}
	vault, err := k.GetVault(ctx, vaultID)
	if err != nil {
		return err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeCache := sdkCtx.CacheContext()

	if err := k.releaseUserPositions(cacheCtx, vaultID, vault, params, user, caller); err != nil {
		return err
	}

	writeCache()
	return nil
}

func (k Keeper) releaseUserPositions(
	ctx sdk.Context,
	vaultID uint64,
	vault types.Vault,
	params types.Params,
	user sdk.AccAddress,
	caller sdk.AccAddress,
) error {
	active, err := k.getIDList(ctx, k.Active, vaultID, user)
	if err != nil {
		return err
	}
	history, err := k.getIDList(ctx, k.History, vaultID, user)
	if err != nil {
		return err
	}

	now := ctx.BlockHeight()
	selfRelease := caller.Equals(user)

	// In-place iteration: removal swaps the last entry into the cursor slot,
	// so the cursor only advances when the current entry is kept.
	i := 0
	for i < len(active.IDs) {
		positionID := active.IDs[i]
		position, err := k.Positions.Get(ctx, collections.Join(vaultID, positionID))
		if err != nil {
			return err
		}
		if position.Claimed {
			i++
			continue
		}

		matured := position.MaturedAt(now)
		if !matured && !vault.Closed {
			i++
			continue
		}

		if matured {
			if err := k.settlePosition(ctx, vaultID, positionID, position, params, vault.Denom, user, caller, selfRelease); err != nil {
				return err
			}
		} else {
			if err := k.emergencyRelease(ctx, vaultID, positionID, position, vault.Denom, user); err != nil {
				return err
			}
		}

		position.Claimed = true
		if err := k.Positions.Set(ctx, collections.Join(vaultID, positionID), position); err != nil {
			return err
		}

		active.RemoveAt(i)
		history.Append(positionID)
	}

	if err := k.Active.Set(ctx, collections.Join(vaultID, user), active); err != nil {
		return err
	}
	return k.History.Set(ctx, collections.Join(vaultID, user), history)
}

// settlePosition pays out one matured position: protocol fee to the
// treasury, caller fee to a third-party caller, remainder to the owner.
func (k Keeper) settlePosition(
	ctx sdk.Context,
	vaultID uint64,
	positionID uint64,
	position types.Position,
	params types.Params,
	denom string,
	owner sdk.AccAddress,
	caller sdk.AccAddress,
	selfRelease bool,
) error {
	split := splitFee(position.Amount, params, selfRelease)

	if err := k.payOut(ctx, denom, sdk.MustAccAddressFromBech32(k.authority), split.protocolFee); err != nil {
		return err
	}
	if !selfRelease {
		if err := k.payOut(ctx, denom, caller, split.callerFee); err != nil {
			return err
		}
	}
	if err := k.payOut(ctx, denom, owner, split.refund); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeReleased,
		sdk.NewAttribute(types.AttributeKeyVaultID, strconv.FormatUint(vaultID, 10)),
		sdk.NewAttribute(types.AttributeKeyPositionID, strconv.FormatUint(positionID, 10)),
		sdk.NewAttribute(types.AttributeKeyUser, position.Owner),
		sdk.NewAttribute(types.AttributeKeyCaller, caller.String()),
		sdk.NewAttribute(types.AttributeKeyRefund, split.refund.String()),
		sdk.NewAttribute(types.AttributeKeyFee, split.total().String()),
	))
	k.Logger(ctx).Info(
		"position released",
		"vault_id", vaultID, "position_id", positionID, "refund", split.refund.String(), "fee", split.total().String(),
	)

	return nil
}

// emergencyRelease returns the full amount of an unmatured position in a
// closed vault, fee free.
func (k Keeper) emergencyRelease(
	ctx sdk.Context,
	vaultID uint64,
	positionID uint64,
	position types.Position,
	denom string,
	owner sdk.AccAddress,
) error {
	if err := k.payOut(ctx, denom, owner, position.Amount); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeEmergencyReleased,
		sdk.NewAttribute(types.AttributeKeyVaultID, strconv.FormatUint(vaultID, 10)),
		sdk.NewAttribute(types.AttributeKeyPositionID, strconv.FormatUint(positionID, 10)),
		sdk.NewAttribute(types.AttributeKeyUser, position.Owner),
		sdk.NewAttribute(types.AttributeKeyAmount, position.Amount.String()),
	))

	return nil
}

func (k Keeper) payOut(ctx sdk.Context, denom string, to sdk.AccAddress, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins); err != nil {
		return errors.Wrapf(types.ErrTransferFailed, "paying %s to %s: %s", coins, to, err)
	}
	return nil
}

// ReleaseAll sweeps the vault's entire position sequence and settles every
// matured, unclaimed position regardless of owner. The caller is always
// treated as a third party relative to each position's owner, so the full
// protocol-plus-caller fee tier applies even to the caller's own positions.
// Cost is linear in the total number of positions and borne by the caller.
func (k Keeper) ReleaseAll(
	ctx context.Context,
	vaultID uint64,
	invoker sdk.AccAddress,
	caller sdk.AccAddress,
) error {
	if err := k.guard.enter(vaultID); err != nil {
		return err
	}
	defer k.guard.exit(vaultID)

	if err := k.assertApprovedInvoker(ctx, invoker); err != nil {
		return err
	}
	vault, err := k.GetVault(ctx, vaultID)
	if err != nil {
		return err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeCache := sdkCtx.CacheContext()
	now := cacheCtx.BlockHeight()

	// Snapshot the matured, unclaimed positions first; settlement mutates
	// the map being iterated otherwise.
	type maturedPosition struct {
		id       uint64
		position types.Position
	}
	var matured []maturedPosition
	rng := collections.NewPrefixedPairRange[uint64, uint64](vaultID)
	if err := k.Positions.Walk(cacheCtx, rng, func(key collections.Pair[uint64, uint64], position types.Position) (bool, error) {
		if !position.Claimed && position.MaturedAt(now) {
			matured = append(matured, maturedPosition{id: key.K2(), position: position})
		}
		return false, nil
	}); err != nil {
		return err
	}

	settledByOwner := detmap.New[string, []uint64]()
	for _, entry := range matured {
		owner := sdk.MustAccAddressFromBech32(entry.position.Owner)
		if err := k.settlePosition(cacheCtx, vaultID, entry.id, entry.position, params, vault.Denom, owner, caller, false); err != nil {
			return err
		}

		entry.position.Claimed = true
		if err := k.Positions.Set(cacheCtx, collections.Join(vaultID, entry.id), entry.position); err != nil {
			return err
		}

		ids, _ := settledByOwner.Get(entry.position.Owner)
		settledByOwner.Set(entry.position.Owner, append(ids, entry.id))
	}

	// Move the settled ids from each owner's active list to history.
	if err := settledByOwner.RangeErr(func(ownerStr string, ids []uint64) error {
		owner := sdk.MustAccAddressFromBech32(ownerStr)
		return k.moveToHistory(cacheCtx, vaultID, owner, ids)
	}); err != nil {
		return err
	}

	writeCache()
	return nil
}

func (k Keeper) moveToHistory(ctx sdk.Context, vaultID uint64, owner sdk.AccAddress, ids []uint64) error {
	active, err := k.getIDList(ctx, k.Active, vaultID, owner)
	if err != nil {
		return err
	}
	history, err := k.getIDList(ctx, k.History, vaultID, owner)
	if err != nil {
		return err
	}

	for _, id := range ids {
		for i, activeID := range active.IDs {
			if activeID == id {
				active.RemoveAt(i)
				break
			}
		}
		history.Append(id)
	}

	if err := k.Active.Set(ctx, collections.Join(vaultID, owner), active); err != nil {
		return err
	}
	return k.History.Set(ctx, collections.Join(vaultID, owner), history)
}
