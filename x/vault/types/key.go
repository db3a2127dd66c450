package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name.
	ModuleName = "vault"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

// KVStore keys.
var (
	ParamsKey          = collections.NewPrefix(0)
	VaultsKey          = collections.NewPrefix(1)
	VaultSequenceKey   = collections.NewPrefix(2)
	TokenVaultsKey     = collections.NewPrefix(3)
	PositionsKey       = collections.NewPrefix(4)
	PositionCountsKey  = collections.NewPrefix(5)
	ActivePositionsKey = collections.NewPrefix(6)
	HistoryKey         = collections.NewPrefix(7)
	ParticipantsKey    = collections.NewPrefix(8)
)
