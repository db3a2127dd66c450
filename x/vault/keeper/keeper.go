package keeper

import (
	"context"

	"cosmossdk.io/collections"
	sdkstore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"github.com/pkg/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/xpvault/xpvault/x/vault/types"
)

// Keeper owns the position ledger of every registered vault and acts as the
// factory that registers one vault per token.
type Keeper struct {
	storeService sdkstore.KVStoreService

	// authority is the protocol treasury: fee recipient and the only
	// identity allowed to run factory admin operations.
	authority string
	// factoryAddr is the module account; vault custody and the factory
	// identity in access checks.
	factoryAddr sdk.AccAddress

	bankKeeper types.BankKeeper

	// guard holds the per-vault exclusive entry flags.
	guard *entryGuard

	// collections
	Schema         collections.Schema
	Params         collections.Item[types.Params]
	VaultSequence  collections.Sequence
	Vaults         collections.Map[uint64, types.Vault]
	TokenVaults    collections.Map[string, uint64]
	Positions      collections.Map[collections.Pair[uint64, uint64], types.Position]
	PositionCounts collections.Map[uint64, uint64]
	Active         collections.Map[collections.Pair[uint64, sdk.AccAddress], types.PositionIDList]
	History        collections.Map[collections.Pair[uint64, sdk.AccAddress], types.PositionIDList]
	Participants   collections.KeySet[collections.Pair[uint64, sdk.AccAddress]]
}

// NewKeeper returns a new keeper object providing storage options required by
// the module.
func NewKeeper(
	storeService sdkstore.KVStoreService,
	authority string,
	bankKeeper types.BankKeeper,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		storeService: storeService,
		authority:    authority,
		factoryAddr:  authtypes.NewModuleAddress(types.ModuleName),
		bankKeeper:   bankKeeper,
		guard:        newEntryGuard(),

		Params: collections.NewItem(
			sb,
			types.ParamsKey,
			"params",
			types.JSONValue[types.Params]("params"),
		),
		VaultSequence: collections.NewSequence(
			sb,
			types.VaultSequenceKey,
			"vault_sequence",
		),
		Vaults: collections.NewMap(
			sb,
			types.VaultsKey,
			"vaults",
			collections.Uint64Key,
			types.JSONValue[types.Vault]("vault"),
		),
		TokenVaults: collections.NewMap(
			sb,
			types.TokenVaultsKey,
			"token_vaults",
			collections.StringKey,
			collections.Uint64Value,
		),
		Positions: collections.NewMap(
			sb,
			types.PositionsKey,
			"positions",
			collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key),
			types.JSONValue[types.Position]("position"),
		),
		PositionCounts: collections.NewMap(
			sb,
			types.PositionCountsKey,
			"position_counts",
			collections.Uint64Key,
			collections.Uint64Value,
		),
		Active: collections.NewMap(
			sb,
			types.ActivePositionsKey,
			"active_positions",
			collections.PairKeyCodec(collections.Uint64Key, sdk.AccAddressKey),
			types.JSONValue[types.PositionIDList]("position_id_list"),
		),
		History: collections.NewMap(
			sb,
			types.HistoryKey,
			"history_positions",
			collections.PairKeyCodec(collections.Uint64Key, sdk.AccAddressKey),
			types.JSONValue[types.PositionIDList]("position_id_list"),
		),
		Participants: collections.NewKeySet(
			sb,
			types.ParticipantsKey,
			"participants",
			collections.PairKeyCodec(collections.Uint64Key, sdk.AccAddressKey),
		),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// Logger returns the module logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// Authority returns the protocol treasury address string.
func (k Keeper) Authority() string {
	return k.authority
}

// FactoryAddress returns the module account address acting as the factory
// identity and vault custody account.
func (k Keeper) FactoryAddress() sdk.AccAddress {
	return k.factoryAddr
}

// GetVault returns the vault registered under id.
func (k Keeper) GetVault(ctx context.Context, vaultID uint64) (types.Vault, error) {
	vault, err := k.Vaults.Get(ctx, vaultID)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Vault{}, errors.Wrapf(types.ErrVaultNotFound, "vault %d", vaultID)
		}
		return types.Vault{}, err
	}
	return vault, nil
}

// assertApprovedInvoker checks the capability of the identity directly
// driving a vault mutation. Each layer validates the identity it receives;
// nothing is inherited from upstream.
func (k Keeper) assertApprovedInvoker(ctx context.Context, invoker sdk.AccAddress) error {
	invokerStr := invoker.String()
	if invokerStr == k.authority || invoker.Equals(k.factoryAddr) {
		return nil
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if params.ApprovedRouter != "" && invokerStr == params.ApprovedRouter {
		return nil
	}

	return errors.Wrapf(types.ErrAccessDenied, "invoker %s is not the treasury, approved router or factory", invokerStr)
}

// assertAuthority checks the protocol-only capability.
func (k Keeper) assertAuthority(authority string) error {
	if k.authority != authority {
		return errors.Wrapf(types.ErrAccessDenied, "expected %s, got %s", k.authority, authority)
	}
	return nil
}
