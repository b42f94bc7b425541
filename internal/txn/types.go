// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package txn

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// Type is the transaction-type discriminant. Unlike the original
// implementation's dynamic per-transaction flags dictionary, every
// concrete Body below carries exactly the fields its type needs — the sum
// type replaces attribute-bag access end to end (§9 design notes).
type Type uint32

const (
	TypePayment Type = iota
	TypeOfferCreate
	TypeOfferCancel
	TypeTrustSet
	TypeEscrowCreate
	TypeEscrowFinish
	TypeEscrowCancel
	TypePayChanCreate
	TypePayChanFund
	TypePayChanClaim
	TypePayChanClose
	TypeCheckCreate
	TypeCheckCash
	TypeCheckCancel
	TypeStake
	TypeUnstake
	TypeClawback
	TypeAMMCreate
	TypeAMMDeposit
	TypeAMMWithdraw
	TypeAMMVote
	TypeAMMBid
	TypeAMMDelete
	TypeNFTMint
	TypeNFTBurn
	TypeNFTOfferCreate
	TypeNFTOfferAccept
	TypeNFTOfferCancel
	TypeOracleSet
	TypeOracleDelete
	TypeDIDSet
	TypeDIDDelete
	TypeMPTCreate
	TypeMPTAuthorize
	TypeCredentialCreate
	TypeCredentialAccept
	TypeCredentialDelete
	TypeXChainClaim
	TypeXChainCommit
	TypeHooksSet
	TypeTicketCreate
	TypeAccountDelete
)

// Body is implemented by every per-type transaction payload. It carries no
// behaviour of its own — dispatch lives in the state machine — it exists
// only so Transaction.Body can hold exactly one concrete, statically typed
// variant instead of a dynamic field bag.
type Body interface {
	Type() Type
}

// Header carries the fields every transaction shares, independent of its
// body: the common preamble (§4.3) reads only from here plus Fee.
type Header struct {
	Account     string
	Sequence    uint32
	// TicketID names the reserved sequence slot to consume when Sequence
	// is the 0 wildcard; ignored otherwise.
	TicketID    uint32
	Fee         model.Micro
	Timestamp   int64
	SourceTag   uint32
	Memo        string
	TxID        string
}

// Transaction is the complete signed envelope: common header, one
// statically typed body, and a detached signature (or ring signature for
// confidential payments).
type Transaction struct {
	Header    Header
	Body      Body
	Signature []byte
	// RingSignature carries the linkable ring signature for confidential
	// payments; kept apart from Signature because §6.3 excludes the ring
	// signature from its own preimage (it signs the preimage, it cannot
	// also be part of it) and because tx_id for confidential transactions
	// folds it in afterward (hash256(preimage || ring_signature)).
	RingSignature []byte
}

// PaymentBody is §4.3.1's Payment transaction. Exactly one of the
// transparent or confidential field groups is populated, discriminated by
// KeyImage's presence, matching the branch rule in §4.3.1.
type PaymentBody struct {
	Destination     string
	Amount          model.Amount
	DestinationTag  uint32
	PartialPayment  bool

	// Confidential fields, populated only for shielded payments.
	Commitment   []byte
	StealthAddr  []byte
	EphemeralPub []byte
	RangeProof   []byte
	KeyImage     []byte
	ViewTag      byte

	// DeliveredAmount is filled in by the state machine on partial
	// delivery; it is not part of the signed preimage.
	DeliveredAmount *model.Micro
}

func (PaymentBody) Type() Type { return TypePayment }

// IsConfidential reports whether this payment takes the confidential
// branch of §4.3.1.
func (p PaymentBody) IsConfidential() bool { return len(p.KeyImage) > 0 }

// OfferCreateBody is §4.3.3's OfferCreate.
type OfferCreateBody struct {
	TakerPays             model.Amount
	TakerGets             model.Amount
	ImmediateOrCancel bool
	FillOrKill        bool
	OfferID           string
}

func (OfferCreateBody) Type() Type { return TypeOfferCreate }

// OfferCancelBody is §4.3.3's OfferCancel.
type OfferCancelBody struct {
	OfferSequence uint32
	OfferID       string
}

func (OfferCancelBody) Type() Type { return TypeOfferCancel }

// TrustSetBody is §4.3.4's TrustSet.
type TrustSetBody struct {
	LimitAmount model.Amount
	QualityIn   int64
	QualityOut  int64
	SetAuth     bool
	ClearAuth   bool
	SetNoRipple bool
	ClearNoRipple bool
	SetFreeze   bool
	ClearFreeze bool
}

func (TrustSetBody) Type() Type { return TypeTrustSet }

// EscrowCreateBody locks native funds into a time/condition-bounded entry.
type EscrowCreateBody struct {
	Destination string
	Amount      model.Micro
	Condition   []byte
	FinishAfter int64
	CancelAfter int64
}

func (EscrowCreateBody) Type() Type { return TypeEscrowCreate }

// EscrowFinishBody releases an escrow once its condition is satisfied.
type EscrowFinishBody struct {
	Owner       string
	OfferID     string
	Fulfillment []byte
}

func (EscrowFinishBody) Type() Type { return TypeEscrowFinish }

// EscrowCancelBody returns an expired escrow to its creator.
type EscrowCancelBody struct {
	Owner   string
	OfferID string
}

func (EscrowCancelBody) Type() Type { return TypeEscrowCancel }

// PayChanCreateBody opens a unidirectional payment channel.
type PayChanCreateBody struct {
	Destination string
	Amount      model.Micro
	SettleDelay int64
	PublicKey   []byte
	CancelAfter int64
}

func (PayChanCreateBody) Type() Type { return TypePayChanCreate }

// PayChanFundBody adds allocation to an open channel.
type PayChanFundBody struct {
	ChannelID string
	Amount    model.Micro
}

func (PayChanFundBody) Type() Type { return TypePayChanFund }

// PayChanClaimBody transfers an incremental, off-chain-signed balance.
type PayChanClaimBody struct {
	ChannelID string
	Balance   model.Micro
	Signature []byte
	Close     bool
}

func (PayChanClaimBody) Type() Type { return TypePayChanClaim }

// PayChanCloseBody closes a channel and returns the remainder after
// settle_delay.
type PayChanCloseBody struct {
	ChannelID string
}

func (PayChanCloseBody) Type() Type { return TypePayChanClose }

// CheckCreateBody records a deferred pull payment.
type CheckCreateBody struct {
	Destination string
	SendMax     model.Amount
	Expiration  int64
}

func (CheckCreateBody) Type() Type { return TypeCheckCreate }

// CheckCashBody cashes a check, delivering an amount bounded by
// [deliver_min, send_max].
type CheckCashBody struct {
	CheckID    string
	Amount     *model.Amount
	DeliverMin *model.Amount
}

func (CheckCashBody) Type() Type { return TypeCheckCash }

// CheckCancelBody removes a pending check entry.
type CheckCancelBody struct {
	CheckID string
}

func (CheckCancelBody) Type() Type { return TypeCheckCancel }

// StakeBody locks native funds into a maturity-bearing tier.
type StakeBody struct {
	Amount model.Micro
	Tier   uint32
}

func (StakeBody) Type() Type { return TypeStake }

// UnstakeBody withdraws a stake, early or at maturity.
type UnstakeBody struct {
	StakeID string
}

func (UnstakeBody) Type() Type { return TypeUnstake }

// ClawbackBody lets an issuer with AllowClawback reclaim holder balance.
type ClawbackBody struct {
	Holder   string
	Amount   model.Amount
}

func (ClawbackBody) Type() Type { return TypeClawback }

// AMMBody covers create/deposit/withdraw/vote/bid/delete via a single
// shape, matching the manager's uniform (ok, msg, ...) contract (§4.3.4).
type AMMBody struct {
	Op       string // "create", "deposit", "withdraw", "vote", "bid", "delete"
	Asset1   model.Amount
	Asset2   model.Amount
	LPTokens model.Micro
	TradingFeeBps uint32
}

func (AMMBody) Type() Type {
	switch {
	default:
		return TypeAMMCreate
	}
}

// NFTBody covers mint/burn/offer_create/offer_accept/offer_cancel.
type NFTBody struct {
	Op         string
	TokenID    string
	URI        string
	TransferFeeBps uint32
	OfferID    string
	Amount     model.Micro
}

func (n NFTBody) Type() Type {
	switch n.Op {
	case "burn":
		return TypeNFTBurn
	case "offer_create":
		return TypeNFTOfferCreate
	case "offer_accept":
		return TypeNFTOfferAccept
	case "offer_cancel":
		return TypeNFTOfferCancel
	default:
		return TypeNFTMint
	}
}

// OracleBody sets or deletes a price-feed oracle entry.
type OracleBody struct {
	Delete    bool
	AssetPair string
	Price     model.Micro
}

func (o OracleBody) Type() Type {
	if o.Delete {
		return TypeOracleDelete
	}
	return TypeOracleSet
}

// DIDBody sets or deletes a decentralized identifier document.
type DIDBody struct {
	Delete   bool
	Document []byte
}

func (d DIDBody) Type() Type {
	if d.Delete {
		return TypeDIDDelete
	}
	return TypeDIDSet
}

// MPTBody creates a multi-purpose token or authorizes a holder for one.
type MPTBody struct {
	Authorize bool
	Holder    string
	MaxSupply model.Micro
}

func (m MPTBody) Type() Type {
	if m.Authorize {
		return TypeMPTAuthorize
	}
	return TypeMPTCreate
}

// CredentialBody creates, accepts or deletes an attestation credential.
type CredentialBody struct {
	Op      string // "create", "accept", "delete"
	Subject string
	CredType string
}

func (c CredentialBody) Type() Type {
	switch c.Op {
	case "accept":
		return TypeCredentialAccept
	case "delete":
		return TypeCredentialDelete
	default:
		return TypeCredentialCreate
	}
}

// XChainBody claims or commits funds across the attestation skeleton
// named in §1.
type XChainBody struct {
	Commit      bool
	BridgeID    string
	Amount      model.Micro
	Attestations [][]byte
}

func (x XChainBody) Type() Type {
	if x.Commit {
		return TypeXChainCommit
	}
	return TypeXChainClaim
}

// HooksBody installs or invokes a hook program reference.
type HooksBody struct {
	HookHash []byte
	Params   map[string]string
}

func (HooksBody) Type() Type { return TypeHooksSet }

// TicketCreateBody reserves one or more sequence slots for later use.
type TicketCreateBody struct {
	Count uint32
}

func (TicketCreateBody) Type() Type { return TypeTicketCreate }

// AccountDeleteBody destroys an account once it meets §4.3.4's
// preconditions, transferring residual balance to Destination.
type AccountDeleteBody struct {
	Destination string
}

func (AccountDeleteBody) Type() Type { return TypeAccountDelete }
