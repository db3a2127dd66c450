package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// NeutralMultiplierBP is the multiplier applied when no table entry matches.
const NeutralMultiplierBP = BPDenominator

// MultiplierEntry is one step of a multiplier table: every queried value at
// or above Threshold (up to the next entry's threshold) earns Multiplier.
type MultiplierEntry struct {
	// Threshold is the minimum value (lock blocks or staked amount) at which
	// the entry applies.
	Threshold sdkmath.Int `json:"threshold"`
	// Multiplier in basis points, 10000 bp = x1.0.
	Multiplier uint32 `json:"multiplier"`
}

// MultiplierTable is an ordered step function over thresholds. Thresholds
// must be strictly ascending; Validate rejects misconfigured tables at
// construction time instead of at query time.
type MultiplierTable []MultiplierEntry

// Validate checks the table invariants.
func (t MultiplierTable) Validate() error {
	for i, entry := range t {
		if entry.Threshold.IsNil() || entry.Threshold.IsNegative() {
			return errorsmod.Wrapf(ErrUnorderedMultiplierTable, "entry %d: threshold must be a non-negative integer", i)
		}
		if entry.Multiplier == 0 {
			return errorsmod.Wrapf(ErrInvalidParam, "entry %d: zero multiplier", i)
		}
		if i > 0 && !t[i-1].Threshold.LT(entry.Threshold) {
			return errorsmod.Wrapf(
				ErrUnorderedMultiplierTable,
				"entry %d: threshold %s not above previous %s", i, entry.Threshold, t[i-1].Threshold,
			)
		}
	}
	return nil
}

// Lookup returns the multiplier of the last entry whose threshold is at or
// below value, or the neutral multiplier when no entry qualifies.
func (t MultiplierTable) Lookup(value sdkmath.Int) uint32 {
	multiplier := uint32(NeutralMultiplierBP)
	for _, entry := range t {
		if entry.Threshold.GT(value) {
			break
		}
		multiplier = entry.Multiplier
	}
	return multiplier
}

// LookupHeight is Lookup over a block count.
func (t MultiplierTable) LookupHeight(blocks int64) uint32 {
	return t.Lookup(sdkmath.NewInt(blocks))
}
