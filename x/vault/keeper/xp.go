package keeper

import (
	"context"
	"math"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/xpvault/xpvault/x/vault/types"
)

// computeXP derives the loyalty score of one position slice of token-blocks.
//
// A non-negative rate multiplies amount x elapsed ("points per token per
// block"); a negative rate divides by its magnitude ("points per |rate|
// token-blocks"). Both multiplier tables are composed in basis points and
// every division truncates; the accumulated rounding loss is accepted.
//
// The time multiplier is looked up by the full committed lock duration, not
// the elapsed time, so longer commitments earn a better rate from the first
// block.
func computeXP(vault types.Vault, amount sdkmath.Int, elapsedBlocks, lockPeriodBlocks int64) (sdkmath.Int, error) {
	if vault.XPRate == math.MinInt64 {
		return sdkmath.Int{}, errors.Wrap(types.ErrInvalidXPRate, "divisor magnitude is not representable")
	}
	if elapsedBlocks <= 0 {
		return sdkmath.ZeroInt(), nil
	}

	tokenBlocks := amount.Mul(sdkmath.NewInt(elapsedBlocks))

	var base sdkmath.Int
	if vault.XPRate >= 0 {
		base = tokenBlocks.Mul(sdkmath.NewInt(vault.XPRate))
	} else {
		base = tokenBlocks.Quo(sdkmath.NewInt(-vault.XPRate))
	}

	timeMult := vault.TimeMultipliers.LookupHeight(lockPeriodBlocks)
	amountMult := vault.AmountMultipliers.Lookup(amount)
	combined := uint64(timeMult) * uint64(amountMult) / types.BPDenominator

	return base.Mul(sdkmath.NewIntFromUint64(combined)).Quo(sdkmath.NewInt(types.BPDenominator)), nil
}

// positionXP evaluates one position at the given height. Elapsed time of an
// unsettled position is capped at the committed period; a settled position
// counts the full period exactly.
func positionXP(vault types.Vault, position types.Position, now int64) (sdkmath.Int, error) {
	lockPeriod := position.LockBlocks()

	elapsed := lockPeriod
	if !position.Claimed {
		elapsed = now - position.StartHeight
		if elapsed > lockPeriod {
			elapsed = lockPeriod
		}
	}

	return computeXP(vault, position.Amount, elapsed, lockPeriod)
}

// PositionXP returns the XP accrued by a single position at the current
// height.
func (k Keeper) PositionXP(ctx context.Context, vaultID, positionID uint64) (sdkmath.Int, error) {
	vault, err := k.GetVault(ctx, vaultID)
	if err != nil {
		return sdkmath.Int{}, err
	}
	position, err := k.Positions.Get(ctx, collections.Join(vaultID, positionID))
	if err != nil {
		return sdkmath.Int{}, err
	}

	return positionXP(vault, position, sdk.UnwrapSDKContext(ctx).BlockHeight())
}

// HolderXP returns the holder's total XP in the vault: accrual of every
// unsettled position plus the locked-in score of every settled one.
func (k Keeper) HolderXP(ctx context.Context, vaultID uint64, holder sdk.AccAddress) (sdkmath.Int, error) {
	vault, err := k.GetVault(ctx, vaultID)
	if err != nil {
		return sdkmath.Int{}, err
	}

	now := sdk.UnwrapSDKContext(ctx).BlockHeight()
	total := sdkmath.ZeroInt()

	for _, index := range []collections.Map[collections.Pair[uint64, sdk.AccAddress], types.PositionIDList]{k.Active, k.History} {
		list, err := k.getIDList(ctx, index, vaultID, holder)
		if err != nil {
			return sdkmath.Int{}, err
		}
		for _, positionID := range list.IDs {
			position, err := k.Positions.Get(ctx, collections.Join(vaultID, positionID))
			if err != nil {
				return sdkmath.Int{}, err
			}
			xp, err := positionXP(vault, position, now)
			if err != nil {
				return sdkmath.Int{}, err
			}
			total = total.Add(xp)
		}
	}

	return total, nil
}

// VaultTotalXP returns the XP accrued by every position in the vault's
// ledger. Full scan, intended for off-chain consumption.
func (k Keeper) VaultTotalXP(ctx context.Context, vaultID uint64) (sdkmath.Int, error) {
	vault, err := k.GetVault(ctx, vaultID)
	if err != nil {
		return sdkmath.Int{}, err
	}

	now := sdk.UnwrapSDKContext(ctx).BlockHeight()
	total := sdkmath.ZeroInt()

	rng := collections.NewPrefixedPairRange[uint64, uint64](vaultID)
	err = k.Positions.Walk(ctx, rng, func(_ collections.Pair[uint64, uint64], position types.Position) (bool, error) {
		xp, err := positionXP(vault, position, now)
		if err != nil {
			return true, err
		}
		total = total.Add(xp)
		return false, nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}

	return total, nil
}
