package types

import (
	sdkmath "cosmossdk.io/math"
)

// PositionEntry pairs a position with its ledger id for query responses.
type PositionEntry struct {
	ID       uint64   `json:"id"`
	Position Position `json:"position"`
}

// VaultStats is the per-vault analytics rollup. Computed by full scan,
// intended for off-chain consumption.
type VaultStats struct {
	VaultID         uint64      `json:"vault_id"`
	Denom           string      `json:"denom"`
	TotalPositions  uint64      `json:"total_positions"`
	ActivePositions uint64      `json:"active_positions"`
	TotalStaked     sdkmath.Int `json:"total_staked"`
	AverageAmount   sdkmath.Int `json:"average_amount"`
	TotalXP         sdkmath.Int `json:"total_xp"`
	Participants    uint64      `json:"participants"`
}

// VaultPositions groups one vault's position entries in cross-vault reads.
type VaultPositions struct {
	VaultID   uint64          `json:"vault_id"`
	Positions []PositionEntry `json:"positions,omitempty"`
}

// LeaderboardEntry is one row of the cross-vault XP leaderboard.
type LeaderboardEntry struct {
	Address string      `json:"address"`
	XP      sdkmath.Int `json:"xp"`
}
