package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// VaultRecord pairs a vault id with its configuration for genesis.
type VaultRecord struct {
	ID    uint64 `json:"id"`
	Vault Vault  `json:"vault"`
}

// PositionRecord locates one position in the global ledger.
type PositionRecord struct {
	VaultID  uint64   `json:"vault_id"`
	ID       uint64   `json:"id"`
	Position Position `json:"position"`
}

// IndexRecord is one account's active or history id list within a vault.
type IndexRecord struct {
	VaultID uint64   `json:"vault_id"`
	Address string   `json:"address"`
	IDs     []uint64 `json:"ids"`
}

// ParticipantRecord marks an account that has ever staked into a vault.
type ParticipantRecord struct {
	VaultID uint64 `json:"vault_id"`
	Address string `json:"address"`
}

// GenesisState is the module's exported ledger state.
type GenesisState struct {
	Params       Params              `json:"params"`
	VaultCount   uint64              `json:"vault_count"`
	Vaults       []VaultRecord       `json:"vaults,omitempty"`
	Positions    []PositionRecord    `json:"positions,omitempty"`
	Active       []IndexRecord       `json:"active,omitempty"`
	History      []IndexRecord       `json:"history,omitempty"`
	Participants []ParticipantRecord `json:"participants,omitempty"`
}

// DefaultGenesisState returns genesis state with default values.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// Validate validates genesis state.
func (m *GenesisState) Validate() error {
	if err := m.Params.ValidateBasic(); err != nil {
		return err
	}

	vaultIDs := make(map[uint64]bool, len(m.Vaults))
	for _, record := range m.Vaults {
		if record.ID >= m.VaultCount {
			return errorsmod.Wrapf(ErrInvalidParam, "vault id %d beyond vault count %d", record.ID, m.VaultCount)
		}
		if vaultIDs[record.ID] {
			return errorsmod.Wrapf(ErrInvalidParam, "duplicate vault id %d", record.ID)
		}
		vaultIDs[record.ID] = true
		if err := record.Vault.Validate(); err != nil {
			return errorsmod.Wrapf(err, "vault %d", record.ID)
		}
	}

	for _, record := range m.Positions {
		if !vaultIDs[record.VaultID] {
			return errorsmod.Wrapf(ErrVaultNotFound, "position %d references vault %d", record.ID, record.VaultID)
		}
		if err := record.Position.Validate(); err != nil {
			return errorsmod.Wrapf(err, "position %d of vault %d", record.ID, record.VaultID)
		}
	}

	// Every indexed position id must appear in exactly one of the owner's
	// active or history lists.
	seen := make(map[[2]uint64]string)
	for _, group := range [][]IndexRecord{m.Active, m.History} {
		for _, record := range group {
			if _, err := sdk.AccAddressFromBech32(record.Address); err != nil {
				return errorsmod.Wrapf(err, "invalid index address %s", record.Address)
			}
			for _, id := range record.IDs {
				key := [2]uint64{record.VaultID, id}
				if owner, dup := seen[key]; dup {
					return errorsmod.Wrapf(
						ErrInvalidParam,
						"position %d of vault %d indexed twice (%s and %s)", id, record.VaultID, owner, record.Address,
					)
				}
				seen[key] = record.Address
			}
		}
	}

	for _, record := range m.Participants {
		if _, err := sdk.AccAddressFromBech32(record.Address); err != nil {
			return errorsmod.Wrapf(err, "invalid participant address %s", record.Address)
		}
	}

	return nil
}
