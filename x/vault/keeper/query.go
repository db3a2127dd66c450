package keeper

import (
	"context"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/xpvault/xpvault/x/vault/types"
)

// Read-only query surface. None of these acquire the vault's exclusive flag;
// they observe a single consistent snapshot of state.

// ActivePositions returns one page of the holder's unsettled positions.
// Offsets at or past the end of the list yield an empty page; the page is
// truncated at the end of the list.
func (k Keeper) ActivePositions(
	ctx context.Context,
	vaultID uint64,
	holder sdk.AccAddress,
	offset, limit uint64,
) ([]types.PositionEntry, error) {
	return k.pagePositions(ctx, k.Active, vaultID, holder, offset, limit)
}

// HistoryPositions returns one page of the holder's settled positions.
func (k Keeper) HistoryPositions(
	ctx context.Context,
	vaultID uint64,
	holder sdk.AccAddress,
	offset, limit uint64,
) ([]types.PositionEntry, error) {
	return k.pagePositions(ctx, k.History, vaultID, holder, offset, limit)
}

func (k Keeper) pagePositions(
	ctx context.Context,
	index collections.Map[collections.Pair[uint64, sdk.AccAddress], types.PositionIDList],
	vaultID uint64,
	holder sdk.AccAddress,
	offset, limit uint64,
) ([]types.PositionEntry, error) {
	if _, err := k.GetVault(ctx, vaultID); err != nil {
		return nil, err
	}

	list, err := k.getIDList(ctx, index, vaultID, holder)
	if err != nil {
		return nil, err
	}

	page := list.Page(offset, limit)
	entries := make([]types.PositionEntry, 0, len(page))
	for _, positionID := range page {
		position, err := k.Positions.Get(ctx, collections.Join(vaultID, positionID))
		if err != nil {
			return nil, err
		}
		entries = append(entries, types.PositionEntry{ID: positionID, Position: position})
	}

	return entries, nil
}

// VaultParticipants returns every account that has ever staked into the
// vault, in store order. Used for off-chain enumeration only, never access
// control.
func (k Keeper) VaultParticipants(ctx context.Context, vaultID uint64) ([]sdk.AccAddress, error) {
	var participants []sdk.AccAddress
	rng := collections.NewPrefixedPairRange[uint64, sdk.AccAddress](vaultID)
	err := k.Participants.Walk(ctx, rng, func(key collections.Pair[uint64, sdk.AccAddress]) (bool, error) {
		participants = append(participants, key.K2())
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// VaultStats computes the vault's analytics rollup by full scan.
func (k Keeper) VaultStats(ctx context.Context, vaultID uint64) (types.VaultStats, error) {
	vault, err := k.GetVault(ctx, vaultID)
	if err != nil {
		return types.VaultStats{}, err
	}

	stats := types.VaultStats{
		VaultID:       vaultID,
		Denom:         vault.Denom,
		TotalStaked:   sdkmath.ZeroInt(),
		AverageAmount: sdkmath.ZeroInt(),
		TotalXP:       sdkmath.ZeroInt(),
	}

	totalAmount := sdkmath.ZeroInt()
	rng := collections.NewPrefixedPairRange[uint64, uint64](vaultID)
	err = k.Positions.Walk(ctx, rng, func(_ collections.Pair[uint64, uint64], position types.Position) (bool, error) {
		stats.TotalPositions++
		totalAmount = totalAmount.Add(position.Amount)
		if !position.Claimed {
			stats.ActivePositions++
			stats.TotalStaked = stats.TotalStaked.Add(position.Amount)
		}
		return false, nil
	})
	if err != nil {
		return types.VaultStats{}, err
	}

	if stats.TotalPositions > 0 {
		stats.AverageAmount = totalAmount.Quo(sdkmath.NewIntFromUint64(stats.TotalPositions))
	}

	stats.TotalXP, err = k.VaultTotalXP(ctx, vaultID)
	if err != nil {
		return types.VaultStats{}, err
	}

	participants, err := k.VaultParticipants(ctx, vaultID)
	if err != nil {
		return types.VaultStats{}, err
	}
	stats.Participants = uint64(len(participants))

	return stats, nil
}

// VaultIDs returns every registered vault id in ascending order, including
// closed vaults still holding unreleased positions.
func (k Keeper) VaultIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := k.Vaults.Walk(ctx, nil, func(vaultID uint64, _ types.Vault) (bool, error) {
		ids = append(ids, vaultID)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
