package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BPDenominator is the basis point denominator, 10000 bp = 100%.
const BPDenominator = 10000

// Default fee parameters: 0.5% to the protocol treasury and 0.5% to the
// caller that triggers settlement.
const (
	DefaultProtocolFeeBP = 50
	DefaultCallerFeeBP   = 50
)

// Params holds the factory-owned parameters shared by all vaults.
type Params struct {
	// ProtocolFeeBP is the release fee share paid to the protocol treasury,
	// in basis points.
	ProtocolFeeBP uint32 `json:"protocol_fee_bp"`
	// CallerFeeBP is the extra release fee share paid to a third-party
	// caller that triggers settlement, in basis points.
	CallerFeeBP uint32 `json:"caller_fee_bp"`
	// ApprovedRouter is the bech32 address of the gateway allowed to mutate
	// vault state on behalf of depositors. Empty means no router is approved.
	ApprovedRouter string `json:"approved_router,omitempty"`
	// RouterEnabled gates the router's user-facing operations.
	RouterEnabled bool `json:"router_enabled"`
}

// DefaultParams returns default vault factory parameters.
func DefaultParams() Params {
	return Params{
		ProtocolFeeBP: DefaultProtocolFeeBP,
		CallerFeeBP:   DefaultCallerFeeBP,
		RouterEnabled: true,
	}
}

// ValidateBasic performs basic validation on vault factory parameters.
func (p Params) ValidateBasic() error {
	// sum in uint64, uint32 addition can wrap
	if feeSum := uint64(p.ProtocolFeeBP) + uint64(p.CallerFeeBP); feeSum >= BPDenominator {
		return errorsmod.Wrapf(
			ErrInvalidParam,
			"fee sum %d bp must be below %d bp", feeSum, BPDenominator,
		)
	}

	if p.ApprovedRouter != "" {
		if _, err := sdk.AccAddressFromBech32(p.ApprovedRouter); err != nil {
			return errorsmod.Wrapf(err, "invalid approved router address %s", p.ApprovedRouter)
		}
	}

	return nil
}
