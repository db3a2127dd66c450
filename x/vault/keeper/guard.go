package keeper

import (
	"github.com/pkg/errors"

	"github.com/xpvault/xpvault/x/vault/types"
)

// entryGuard holds one exclusive flag per vault instance. The scheduling
// model is single-actor, so the guard only has to catch reentrant entry into
// the same vault within one operation (for example the token collaborator
// calling back into the keeper), not cross-goroutine races.
type entryGuard struct {
	held map[uint64]struct{}
}

func newEntryGuard() *entryGuard {
	return &entryGuard{held: make(map[uint64]struct{})}
}

// enter acquires the vault's exclusive flag. The caller must release via
// exit on every path out of the operation.
func (g *entryGuard) enter(vaultID uint64) error {
	if _, taken := g.held[vaultID]; taken {
		return errors.Wrapf(types.ErrReentrant, "vault %d is already being mutated", vaultID)
	}
	g.held[vaultID] = struct{}{}
	return nil
}

// exit releases the vault's exclusive flag.
func (g *entryGuard) exit(vaultID uint64) {
	delete(g.held, vaultID)
}
