package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Module errors.
// NOTE: Error status code must start from 2.
var (
	// ErrInvalidParam is returned when module parameters fail validation.
	ErrInvalidParam = sdkerrors.Register(ModuleName, 2, "invalid parameter")
	// ErrAccessDenied is returned when the direct invoker of a gated
	// operation is not the protocol treasury, the approved router or the
	// factory module account.
	ErrAccessDenied = sdkerrors.Register(ModuleName, 3, "access denied")
	// ErrVaultNotFound is returned when the referenced vault id is not registered.
	ErrVaultNotFound = sdkerrors.Register(ModuleName, 4, "vault not found")
	// ErrVaultInactive is returned when staking into an inactive or closed vault.
	ErrVaultInactive = sdkerrors.Register(ModuleName, 5, "vault inactive")
	// ErrAmountOutOfBounds is returned when the staked amount violates the
	// vault's min/max deposit bounds.
	ErrAmountOutOfBounds = sdkerrors.Register(ModuleName, 6, "amount out of bounds")
	// ErrInvalidDuration is returned for a zero lock duration or one that is
	// not a member of the vault's preset list.
	ErrInvalidDuration = sdkerrors.Register(ModuleName, 7, "invalid lock duration")
	// ErrDuplicateVaultForToken is returned when a vault already exists for the token.
	ErrDuplicateVaultForToken = sdkerrors.Register(ModuleName, 8, "vault already registered for token")
	// ErrUnorderedMultiplierTable is returned at construction time when the
	// multiplier thresholds are not strictly ascending.
	ErrUnorderedMultiplierTable = sdkerrors.Register(ModuleName, 9, "multiplier table thresholds not strictly ascending")
	// ErrTransferFailed is returned when the token collaborator declines a
	// transfer; the enclosing operation aborts with no state change.
	ErrTransferFailed = sdkerrors.Register(ModuleName, 10, "token transfer failed")
	// ErrReentrant is returned when a mutating operation enters a vault whose
	// exclusive flag is already held.
	ErrReentrant = sdkerrors.Register(ModuleName, 11, "reentrant vault operation")
	// ErrRouterDisabled is returned for user-facing router operations while
	// the router switch is off.
	ErrRouterDisabled = sdkerrors.Register(ModuleName, 12, "router disabled")
	// ErrInvalidXPRate is returned for an XP rate that cannot be applied,
	// such as the minimum representable value in divisor mode.
	ErrInvalidXPRate = sdkerrors.Register(ModuleName, 13, "invalid xp rate")
)
