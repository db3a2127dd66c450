package keeper_test

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/xpvault/xpvault/x/vault/keeper"
	"github.com/xpvault/xpvault/x/vault/types"
)

const testDenom = "ulock"

// mockBankKeeper is an in-memory token collaborator. It tracks net flows per
// account, can be told to decline transfers, and can re-enter the keeper to
// exercise the reentrancy guard.
type mockBankKeeper struct {
	// net token flow per account (module accounts keyed "module:<name>");
	// positive means received.
	flows map[string]map[string]sdkmath.Int

	failTransfers bool
	// onPull runs inside SendCoinsFromAccountToModule before the transfer
	// is recorded.
	onPull func(ctx context.Context) error
}

func newMockBankKeeper() *mockBankKeeper {
	return &mockBankKeeper{flows: make(map[string]map[string]sdkmath.Int)}
}

func (b *mockBankKeeper) record(account string, amt sdk.Coins, sign int64) {
	if b.flows[account] == nil {
		b.flows[account] = make(map[string]sdkmath.Int)
	}
	for _, coin := range amt {
		current, ok := b.flows[account][coin.Denom]
		if !ok {
			current = sdkmath.ZeroInt()
		}
		b.flows[account][coin.Denom] = current.Add(coin.Amount.MulRaw(sign))
	}
}

func (b *mockBankKeeper) SendCoinsFromAccountToModule(
	ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins,
) error {
	if b.onPull != nil {
		if err := b.onPull(ctx); err != nil {
			return err
		}
	}
	if b.failTransfers {
		return errors.New("transfer declined")
	}
	b.record(senderAddr.String(), amt, -1)
	b.record("module:"+recipientModule, amt, 1)
	return nil
}

func (b *mockBankKeeper) SendCoinsFromModuleToAccount(
	ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins,
) error {
	if b.failTransfers {
		return errors.New("transfer declined")
	}
	b.record("module:"+senderModule, amt, -1)
	b.record(recipientAddr.String(), amt, 1)
	return nil
}

// balance returns the net flow of denom for the account.
func (b *mockBankKeeper) balance(account, denom string) sdkmath.Int {
	if b.flows[account] == nil {
		return sdkmath.ZeroInt()
	}
	amount, ok := b.flows[account][denom]
	if !ok {
		return sdkmath.ZeroInt()
	}
	return amount
}

func (b *mockBankKeeper) moduleBalance(denom string) sdkmath.Int {
	return b.balance("module:"+types.ModuleName, denom)
}

type fixture struct {
	t *testing.T

	ctx      sdk.Context
	keeper   keeper.Keeper
	bank     *mockBankKeeper
	treasury sdk.AccAddress
	router   sdk.AccAddress
}

func newFixture(t *testing.T) *fixture {
	key := storetypes.NewKVStoreKey(types.StoreKey)
	testCtx := testutil.DefaultContextWithDB(t, key, storetypes.NewTransientStoreKey("transient_test"))

	bank := newMockBankKeeper()
	treasury := randomAddress()
	router := randomAddress()

	k := keeper.NewKeeper(runtime.NewKVStoreService(key), treasury.String(), bank)

	ctx := testCtx.Ctx.WithBlockHeight(1)
	genesis := types.DefaultGenesisState()
	genesis.Params.ApprovedRouter = router.String()
	require.NoError(t, k.InitGenesis(ctx, *genesis))

	return &fixture{
		t:        t,
		ctx:      ctx,
		keeper:   k,
		bank:     bank,
		treasury: treasury,
		router:   router,
	}
}

func (f *fixture) setHeight(height int64) {
	f.ctx = f.ctx.WithBlockHeight(height)
}

func (f *fixture) defaultVault() types.Vault {
	return types.Vault{
		Denom:     testDenom,
		MinAmount: sdkmath.NewInt(1),
		MaxAmount: sdkmath.NewInt(10_000),
		XPRate:    1,
	}
}

func (f *fixture) createVault(vault types.Vault) uint64 {
	vaultID, err := f.keeper.CreateVault(f.ctx, f.treasury.String(), vault)
	require.NoError(f.t, err)
	return vaultID
}

func (f *fixture) createDefaultVault() uint64 {
	return f.createVault(f.defaultVault())
}

func (f *fixture) stake(vaultID uint64, beneficiary sdk.AccAddress, amount int64, lockBlocks int64) uint64 {
	positionID, err := f.keeper.StakeFor(f.ctx, vaultID, f.router, beneficiary, sdkmath.NewInt(amount), lockBlocks)
	require.NoError(f.t, err)
	return positionID
}

func (f *fixture) activeIDs(vaultID uint64, holder sdk.AccAddress) []uint64 {
	entries, err := f.keeper.ActivePositions(f.ctx, vaultID, holder, 0, 1_000)
	require.NoError(f.t, err)
	ids := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

func (f *fixture) historyIDs(vaultID uint64, holder sdk.AccAddress) []uint64 {
	entries, err := f.keeper.HistoryPositions(f.ctx, vaultID, holder, 0, 1_000)
	require.NoError(f.t, err)
	ids := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

func randomAddress() sdk.AccAddress {
	return sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address())
}

func eventsOfType(ctx sdk.Context, eventType string) []sdk.Event {
	var matched []sdk.Event
	for _, event := range ctx.EventManager().Events() {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func eventAttribute(event sdk.Event, key string) string {
	for _, attr := range event.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}
