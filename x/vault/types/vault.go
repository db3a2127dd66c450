package types

import (
	"math"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/samber/lo"
)

// Vault is the configuration of a single time-lock vault. Everything except
// the Active and Closed flags is immutable after creation.
type Vault struct {
	// Denom of the one fungible token the vault custodies.
	Denom string `json:"denom"`
	// MinAmount and MaxAmount bound a single deposit.
	MinAmount sdkmath.Int `json:"min_amount"`
	MaxAmount sdkmath.Int `json:"max_amount"`
	// XPRate scales XP accrual. Non-negative rates multiply token-blocks,
	// negative rates act as a divisor: XP per |rate| token-blocks.
	XPRate int64 `json:"xp_rate"`
	// LockPresets is the allowed set of lock durations in blocks. Empty
	// means any positive duration is accepted.
	LockPresets []int64 `json:"lock_presets,omitempty"`
	// TimeMultipliers is keyed by the committed lock duration in blocks.
	TimeMultipliers MultiplierTable `json:"time_multipliers,omitempty"`
	// AmountMultipliers is keyed by the staked amount.
	AmountMultipliers MultiplierTable `json:"amount_multipliers,omitempty"`
	// Active gates staking. Closed marks the vault permanently shut and
	// enables fee-free emergency release of unmatured positions.
	Active bool `json:"active"`
	Closed bool `json:"closed"`
}

// Validate checks the vault configuration invariants.
func (v Vault) Validate() error {
	if v.Denom == "" {
		return errorsmod.Wrap(ErrInvalidParam, "empty denom")
	}
	if v.MinAmount.IsNil() || v.MaxAmount.IsNil() || !v.MinAmount.IsPositive() || v.MaxAmount.LT(v.MinAmount) {
		return errorsmod.Wrap(ErrInvalidParam, "deposit bounds must satisfy 0 < min <= max")
	}
	// In divisor mode the magnitude of the rate is negated; the minimum
	// representable value has no positive counterpart.
	if v.XPRate == math.MinInt64 {
		return errorsmod.Wrap(ErrInvalidXPRate, "xp rate must be above the representable minimum")
	}
	for i, preset := range v.LockPresets {
		if preset <= 0 {
			return errorsmod.Wrapf(ErrInvalidDuration, "lock preset %d must be positive", i)
		}
	}
	if err := v.TimeMultipliers.Validate(); err != nil {
		return errorsmod.Wrap(err, "time multipliers")
	}
	if err := v.AmountMultipliers.Validate(); err != nil {
		return errorsmod.Wrap(err, "amount multipliers")
	}
	return nil
}

// AllowsDuration reports whether lockBlocks is a valid lock duration for the
// vault: positive and, when presets are configured, one of them.
func (v Vault) AllowsDuration(lockBlocks int64) bool {
	if lockBlocks <= 0 {
		return false
	}
	if len(v.LockPresets) == 0 {
		return true
	}
	return lo.Contains(v.LockPresets, lockBlocks)
}
