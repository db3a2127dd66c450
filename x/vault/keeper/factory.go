package keeper

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/xpvault/xpvault/x/vault/types"
)

// CreateVault validates and registers a new vault for the given token.
// Exactly one active vault may exist per token at any time. Returns the new
// vault id.
func (k Keeper) CreateVault(ctx context.Context, authority string, vault types.Vault) (uint64, error) {
	if err := k.assertAuthority(authority); err != nil {
		return 0, err
	}
	if err := vault.Validate(); err != nil {
		return 0, err
	}

	registered, err := k.TokenVaults.Has(ctx, vault.Denom)
	if err != nil {
		return 0, err
	}
	if registered {
		return 0, errors.Wrapf(types.ErrDuplicateVaultForToken, "token %s", vault.Denom)
	}

	vault.Active = true
	vault.Closed = false

	vaultID, err := k.VaultSequence.Next(ctx)
	if err != nil {
		return 0, err
	}
	if err := k.Vaults.Set(ctx, vaultID, vault); err != nil {
		return 0, err
	}
	if err := k.TokenVaults.Set(ctx, vault.Denom, vaultID); err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeVaultCreated,
		sdk.NewAttribute(types.AttributeKeyVaultID, strconv.FormatUint(vaultID, 10)),
		sdk.NewAttribute(types.AttributeKeyDenom, vault.Denom),
	))
	k.Logger(sdkCtx).Info("vault created", "vault_id", vaultID, "denom", vault.Denom)

	return vaultID, nil
}

// CloseVault permanently shuts a vault: staking stops, unmatured positions
// become eligible for fee-free emergency release, and the token registration
// is cleared so a replacement vault can be created later.
func (k Keeper) CloseVault(ctx context.Context, invoker sdk.AccAddress, vaultID uint64) error {
	if err := k.guard.enter(vaultID); err != nil {
		return err
	}
	defer k.guard.exit(vaultID)

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	invokerStr := invoker.String()
	if invokerStr != k.authority && (params.ApprovedRouter == "" || invokerStr != params.ApprovedRouter) {
		return errors.Wrapf(types.ErrAccessDenied, "invoker %s may not close vaults", invokerStr)
	}

	vault, err := k.GetVault(ctx, vaultID)
	if err != nil {
		return err
	}
	if vault.Closed {
		return errors.Wrapf(types.ErrVaultInactive, "vault %d is already closed", vaultID)
	}

	vault.Active = false
	vault.Closed = true
	if err := k.Vaults.Set(ctx, vaultID, vault); err != nil {
		return err
	}
	if err := k.TokenVaults.Remove(ctx, vault.Denom); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeVaultClosed,
			sdk.NewAttribute(types.AttributeKeyVaultID, strconv.FormatUint(vaultID, 10)),
		),
		sdk.NewEvent(
			types.EventTypeVaultClosedByFactory,
			sdk.NewAttribute(types.AttributeKeyVaultID, strconv.FormatUint(vaultID, 10)),
			sdk.NewAttribute(types.AttributeKeyDenom, vault.Denom),
		),
	})
	k.Logger(sdkCtx).Info("vault closed", "vault_id", vaultID, "denom", vault.Denom)

	return nil
}
