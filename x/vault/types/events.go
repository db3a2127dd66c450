package types

// Event types consumed by external indexers. The names are part of the
// indexer wire contract and must not be renamed.
const (
	EventTypeStaked               = "Staked"
	EventTypeReleased             = "Released"
	EventTypeEmergencyReleased    = "EmergencyReleased"
	EventTypeVaultCreated         = "VaultCreated"
	EventTypeVaultClosed          = "VaultClosed"
	EventTypeVaultClosedByFactory = "VaultClosedByFactory"
)

// Event attribute keys.
const (
	AttributeKeyVaultID     = "vault_id"
	AttributeKeyDenom       = "denom"
	AttributeKeyPositionID  = "position_id"
	AttributeKeyBeneficiary = "beneficiary"
	AttributeKeyUser        = "user"
	AttributeKeyCaller      = "caller"
	AttributeKeyAmount      = "amount"
	AttributeKeyStartHeight = "start_height"
	AttributeKeyEndHeight   = "end_height"
	AttributeKeyRefund      = "refund"
	AttributeKeyFee         = "fee"
)
