package keeper

import (
	"context"

	"github.com/pkg/errors"

	"github.com/xpvault/xpvault/x/vault/types"
)

// GetParams returns the current vault factory parameters.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		return types.Params{}, err
	}
	return params, nil
}

// SetParams sets the vault factory parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.ValidateBasic(); err != nil {
		return err
	}
	return k.Params.Set(ctx, params)
}

// SetFees updates the global fee split. The fee sum invariant is enforced on
// every update.
func (k Keeper) SetFees(ctx context.Context, authority string, protocolFeeBP, callerFeeBP uint32) error {
	if err := k.assertAuthority(authority); err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	params.ProtocolFeeBP = protocolFeeBP
	params.CallerFeeBP = callerFeeBP

	return k.SetParams(ctx, params)
}

// SetApprovedRouter replaces the gateway identity allowed to mutate vault
// state on behalf of depositors. An empty router revokes the approval.
func (k Keeper) SetApprovedRouter(ctx context.Context, authority, router string) error {
	if err := k.assertAuthority(authority); err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	params.ApprovedRouter = router

	return errors.Wrap(k.SetParams(ctx, params), "set approved router")
}

// SetRouterEnabled flips the router's user-facing switch.
func (k Keeper) SetRouterEnabled(ctx context.Context, authority string, enabled bool) error {
	if err := k.assertAuthority(authority); err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	params.RouterEnabled = enabled

	return k.SetParams(ctx, params)
}
