package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Position is one deposit record. It is immutable once created except for
// the Claimed flag, which transitions false to true exactly once.
type Position struct {
	// Owner is the bech32 address of the economic owner (beneficiary).
	Owner string `json:"owner"`
	// Amount of the vault's token committed by the deposit.
	Amount sdkmath.Int `json:"amount"`
	// StartHeight and EndHeight delimit the committed lock window.
	StartHeight int64 `json:"start_height"`
	EndHeight   int64 `json:"end_height"`
	// Claimed marks the position settled.
	Claimed bool `json:"claimed"`
}

// Validate checks the position record invariants.
func (p Position) Validate() error {
	if _, err := sdk.AccAddressFromBech32(p.Owner); err != nil {
		return errorsmod.Wrapf(err, "invalid owner address %s", p.Owner)
	}
	if p.Amount.IsNil() || !p.Amount.IsPositive() {
		return errorsmod.Wrap(ErrInvalidParam, "position amount must be positive")
	}
	if p.EndHeight <= p.StartHeight {
		return errorsmod.Wrapf(ErrInvalidDuration, "lock window [%d, %d] is empty", p.StartHeight, p.EndHeight)
	}
	return nil
}

// MaturedAt reports whether the position's committed end height has been
// reached at the given height.
func (p Position) MaturedAt(height int64) bool {
	return height >= p.EndHeight
}

// LockBlocks returns the full committed lock duration.
func (p Position) LockBlocks() int64 {
	return p.EndHeight - p.StartHeight
}

// PositionIDList is an index of position ids belonging to one account within
// one vault. Order inside an active list carries no meaning: removal swaps
// the last entry into place and shrinks.
type PositionIDList struct {
	IDs []uint64 `json:"ids,omitempty"`
}

// Append adds an id to the list.
func (l *PositionIDList) Append(id uint64) {
	l.IDs = append(l.IDs, id)
}

// RemoveAt removes the entry at index i via swap-with-last-and-shrink.
func (l *PositionIDList) RemoveAt(i int) {
	last := len(l.IDs) - 1
	l.IDs[i] = l.IDs[last]
	l.IDs = l.IDs[:last]
}

// Page returns the sub-slice [offset, offset+limit), truncated at the end of
// the list. Offsets at or past the end yield an empty page.
func (l PositionIDList) Page(offset, limit uint64) []uint64 {
	length := uint64(len(l.IDs))
	if offset >= length {
		return []uint64{}
	}
	end := offset + limit
	// offset+limit may wrap around; a wrapped end is always past the list.
	if end < offset || end > length {
		end = length
	}
	return l.IDs[offset:end]
}
