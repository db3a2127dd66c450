package keeper

import (
	"context"
	"math"
	"sort"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/xpvault/xpvault/pkg/detmap"
	"github.com/xpvault/xpvault/x/vault/types"
)

// Router is the public-facing gateway in front of the factory and its
// vaults. It holds no ledger state of its own; it forwards calls under its
// own approved identity while re-attributing the beneficiary and caller
// identities, so fee and XP accounting always reflect the original end user.
//
// The enable/disable switch (persisted in Params) rejects user-facing
// mutations only. Admin forwarding and the read-only aggregation surface
// stay available while disabled.
type Router struct {
	keeper Keeper
	addr   sdk.AccAddress
}

// NewRouter returns a gateway bound to the given identity. Vault access
// checks pass only while that identity is the factory's approved router.
func NewRouter(keeper Keeper, addr sdk.AccAddress) Router {
	return Router{keeper: keeper, addr: addr}
}

// Address returns the router's own identity.
func (r Router) Address() sdk.AccAddress {
	return r.addr
}

func (r Router) assertEnabled(ctx context.Context) error {
	params, err := r.keeper.GetParams(ctx)
	if err != nil {
		return err
	}
	if !params.RouterEnabled {
		return errors.Wrap(types.ErrRouterDisabled, "user operations are rejected")
	}
	return nil
}

// Stake forwards a deposit: the router's caller becomes the position's
// beneficiary and the router itself is the vault-facing caller and token
// source.
func (r Router) Stake(
	ctx context.Context,
	user sdk.AccAddress,
	vaultID uint64,
	amount sdkmath.Int,
	lockBlocks int64,
) (uint64, error) {
	if err := r.assertEnabled(ctx); err != nil {
		return 0, err
	}
	return r.keeper.StakeFor(ctx, vaultID, r.addr, user, amount, lockBlocks)
}

// Release settles user's eligible positions with caller credited as the
// settlement triggerer. caller == user is a self-release and skips the
// caller fee.
func (r Router) Release(ctx context.Context, caller, user sdk.AccAddress, vaultID uint64) error {
	if err := r.assertEnabled(ctx); err != nil {
		return err
	}
	return r.keeper.ReleaseFor(ctx, vaultID, r.addr, user, caller)
}

// SweepAll settles every matured position of the vault with caller paid the
// full caller fee per position.
func (r Router) SweepAll(ctx context.Context, caller sdk.AccAddress, vaultID uint64) error {
	if err := r.assertEnabled(ctx); err != nil {
		return err
	}
	return r.keeper.ReleaseAll(ctx, vaultID, r.addr, caller)
}

// CloseVault forwards an emergency close under the router's identity. This
// is an admin operation and bypasses the enabled switch.
func (r Router) CloseVault(ctx context.Context, vaultID uint64) error {
	return r.keeper.CloseVault(ctx, r.addr, vaultID)
}

// AllXP returns the user's XP summed over every registered vault. The
// aggregate is best effort: a vault whose lookup fails contributes zero
// instead of failing the whole call.
func (r Router) AllXP(ctx context.Context, user sdk.AccAddress) (sdkmath.Int, error) {
	vaultIDs, err := r.keeper.VaultIDs(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}

	total := sdkmath.ZeroInt()
	for _, vaultID := range vaultIDs {
		xp, err := r.keeper.HolderXP(ctx, vaultID, user)
		if err != nil {
			r.logDegraded(ctx, vaultID, err)
			continue
		}
		total = total.Add(xp)
	}

	return total, nil
}

// AllPositions returns the user's unsettled positions grouped per vault. A
// failing vault yields an empty group instead of failing the aggregate.
func (r Router) AllPositions(ctx context.Context, user sdk.AccAddress) ([]types.VaultPositions, error) {
	vaultIDs, err := r.keeper.VaultIDs(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]types.VaultPositions, 0, len(vaultIDs))
	for _, vaultID := range vaultIDs {
		entries, err := r.keeper.ActivePositions(ctx, vaultID, user, 0, math.MaxUint64)
		if err != nil {
			r.logDegraded(ctx, vaultID, err)
			entries = nil
		}
		groups = append(groups, types.VaultPositions{VaultID: vaultID, Positions: entries})
	}

	return groups, nil
}

// Leaderboard ranks every participant of every vault by total XP,
// descending. Equal scores have no guaranteed relative order (the sort is
// not stable). Failing vaults contribute nothing.
func (r Router) Leaderboard(ctx context.Context) ([]types.LeaderboardEntry, error) {
	vaultIDs, err := r.keeper.VaultIDs(ctx)
	if err != nil {
		return nil, err
	}

	scores := detmap.New[string, sdkmath.Int]()
	for _, vaultID := range vaultIDs {
		participants, err := r.keeper.VaultParticipants(ctx, vaultID)
		if err != nil {
			r.logDegraded(ctx, vaultID, err)
			continue
		}
		for _, participant := range participants {
			xp, err := r.keeper.HolderXP(ctx, vaultID, participant)
			if err != nil {
				r.logDegraded(ctx, vaultID, err)
				continue
			}
			key := participant.String()
			if current, ok := scores.Get(key); ok {
				xp = xp.Add(current)
			}
			scores.Set(key, xp)
		}
	}

	board := lo.Map(scores.Keys(), func(addr string, _ int) types.LeaderboardEntry {
		xp, _ := scores.Get(addr)
		return types.LeaderboardEntry{Address: addr, XP: xp}
	})
	sort.Slice(board, func(i, j int) bool {
		return board[i].XP.GT(board[j].XP)
	})

	return board, nil
}

func (r Router) logDegraded(ctx context.Context, vaultID uint64, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	r.keeper.Logger(sdkCtx).Error("vault lookup degraded to default", "vault_id", vaultID, "error", err)
}
