package keeper

import (
	"context"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/xpvault/xpvault/x/vault/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := k.Params.Set(ctx, genState.Params); err != nil {
		return err
	}
	if err := k.VaultSequence.Set(ctx, genState.VaultCount); err != nil {
		return err
	}

	for _, record := range genState.Vaults {
		if err := k.Vaults.Set(ctx, record.ID, record.Vault); err != nil {
			return err
		}
		// Closed vaults are deregistered; only open ones own their token.
		if !record.Vault.Closed {
			if err := k.TokenVaults.Set(ctx, record.Vault.Denom, record.ID); err != nil {
				return err
			}
		}
	}

	counts := make(map[uint64]uint64)
	for _, record := range genState.Positions {
		if err := k.Positions.Set(ctx, collections.Join(record.VaultID, record.ID), record.Position); err != nil {
			return err
		}
		if record.ID >= counts[record.VaultID] {
			counts[record.VaultID] = record.ID + 1
		}
	}
	for _, record := range genState.Vaults {
		if err := k.PositionCounts.Set(ctx, record.ID, counts[record.ID]); err != nil {
			return err
		}
	}

	for _, record := range genState.Active {
		addr := sdk.MustAccAddressFromBech32(record.Address)
		if err := k.Active.Set(ctx, collections.Join(record.VaultID, addr), types.PositionIDList{IDs: record.IDs}); err != nil {
			return err
		}
	}
	for _, record := range genState.History {
		addr := sdk.MustAccAddressFromBech32(record.Address)
		if err := k.History.Set(ctx, collections.Join(record.VaultID, addr), types.PositionIDList{IDs: record.IDs}); err != nil {
			return err
		}
	}

	for _, record := range genState.Participants {
		addr := sdk.MustAccAddressFromBech32(record.Address)
		if err := k.Participants.Set(ctx, collections.Join(record.VaultID, addr)); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis returns the module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	var err error

	genesis := types.DefaultGenesisState()
	genesis.Params, err = k.Params.Get(ctx)
	if err != nil {
		return nil, err
	}
	genesis.VaultCount, err = k.VaultSequence.Peek(ctx)
	if err != nil {
		return nil, err
	}

	if err := k.Vaults.Walk(ctx, nil, func(vaultID uint64, vault types.Vault) (bool, error) {
		genesis.Vaults = append(genesis.Vaults, types.VaultRecord{ID: vaultID, Vault: vault})
		return false, nil
	}); err != nil {
		return nil, err
	}

	if err := k.Positions.Walk(ctx, nil, func(key collections.Pair[uint64, uint64], position types.Position) (bool, error) {
		genesis.Positions = append(genesis.Positions, types.PositionRecord{
			VaultID:  key.K1(),
			ID:       key.K2(),
			Position: position,
		})
		return false, nil
	}); err != nil {
		return nil, err
	}

	if err := k.Active.Walk(ctx, nil, func(key collections.Pair[uint64, sdk.AccAddress], list types.PositionIDList) (bool, error) {
		genesis.Active = append(genesis.Active, types.IndexRecord{
			VaultID: key.K1(),
			Address: key.K2().String(),
			IDs:     list.IDs,
		})
		return false, nil
	}); err != nil {
		return nil, err
	}

	if err := k.History.Walk(ctx, nil, func(key collections.Pair[uint64, sdk.AccAddress], list types.PositionIDList) (bool, error) {
		genesis.History = append(genesis.History, types.IndexRecord{
			VaultID: key.K1(),
			Address: key.K2().String(),
			IDs:     list.IDs,
		})
		return false, nil
	}); err != nil {
		return nil, err
	}

	if err := k.Participants.Walk(ctx, nil, func(key collections.Pair[uint64, sdk.AccAddress]) (bool, error) {
		genesis.Participants = append(genesis.Participants, types.ParticipantRecord{
			VaultID: key.K1(),
			Address: key.K2().String(),
		})
		return false, nil
	}); err != nil {
		return nil, err
	}

	return genesis, nil
}
