// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package txn defines the transaction wire model: the tagged-variant
// TransactionBody (§9 design notes) that replaces a dynamic flags
// dictionary, the signing preimage (§6.3), and the result-code taxonomy
// (§4.3.6).
package txn

// ResultCode is the closed taxonomy of transaction-apply outcomes. It is
// never a Go error: deterministic validation failures are data, not
// exceptions, so two validators applying the same bytes to the same state
// always compute the same ResultCode.
type ResultCode int

const (
	// Success band.
	ResultSuccess ResultCode = 0
)

// Deterministic-failure band, 101-140 per §4.3.6.
const (
	ResultUnfunded ResultCode = 101 + iota
	ResultNoLine
	ResultInsufFee
	ResultBadSeq
	ResultBadSig
	ResultKeyImageSpent
	ResultStakeLocked
	ResultDuplicate
	ResultNoPermission
	ResultEscrowBadCondition
	ResultEscrowNotReady
	ResultPaychanExpired
	ResultCheckExpired
	ResultNoRipple
	ResultFrozen
	ResultNoEntry
	ResultAmendmentBlocked
	ResultNFTokenExists
	ResultAMMBalance
	ResultClawbackDisabled
	ResultHooksRejected
	ResultXChainNoQuorum
	ResultMPTMaxSupply
	ResultCredentialExists
	ResultOracleLimit
	ResultDIDExists
	ResultInvariantFailed
	ResultPartialPayment
	ResultRequireAuth
	ResultDstTagNeeded
	ResultGlobalFreeze
	ResultOwnerReserve
	ResultSeqTooLow
)

var resultNames = map[ResultCode]string{
	ResultSuccess:            "tesSUCCESS",
	ResultUnfunded:           "tecUNFUNDED",
	ResultNoLine:             "tecNO_LINE",
	ResultInsufFee:           "tecINSUF_FEE",
	ResultBadSeq:             "tecBAD_SEQ",
	ResultBadSig:             "tecBAD_SIG",
	ResultKeyImageSpent:      "tecKEY_IMAGE_SPENT",
	ResultStakeLocked:        "tecSTAKE_LOCKED",
	ResultDuplicate:         "tecDUPLICATE",
	ResultNoPermission:       "tecNO_PERMISSION",
	ResultEscrowBadCondition: "tecESCROW_BAD_CONDITION",
	ResultEscrowNotReady:     "tecESCROW_NOT_READY",
	ResultPaychanExpired:     "tecPAYCHAN_EXPIRED",
	ResultCheckExpired:       "tecCHECK_EXPIRED",
	ResultNoRipple:           "tecNO_RIPPLE",
	ResultFrozen:             "tecFROZEN",
	ResultNoEntry:            "tecNO_ENTRY",
	ResultAmendmentBlocked:   "tecAMENDMENT_BLOCKED",
	ResultNFTokenExists:      "tecNFTOKEN_EXISTS",
	ResultAMMBalance:         "tecAMM_BALANCE",
	ResultClawbackDisabled:   "tecCLAWBACK_DISABLED",
	ResultHooksRejected:      "tecHOOKS_REJECTED",
	ResultXChainNoQuorum:     "tecXCHAIN_NO_QUORUM",
	ResultMPTMaxSupply:       "tecMPT_MAX_SUPPLY",
	ResultCredentialExists:   "tecCREDENTIAL_EXISTS",
	ResultOracleLimit:        "tecORACLE_LIMIT",
	ResultDIDExists:          "tecDID_EXISTS",
	ResultInvariantFailed:    "tecINVARIANT_FAILED",
	ResultPartialPayment:     "tecPARTIAL_PAYMENT",
	ResultRequireAuth:        "tecREQUIRE_AUTH",
	ResultDstTagNeeded:       "tecDST_TAG_NEEDED",
	ResultGlobalFreeze:       "tecGLOBAL_FREEZE",
	ResultOwnerReserve:       "tecOWNER_RESERVE",
	ResultSeqTooLow:          "tecSEQ_TOO_LOW",
}

// Name returns the named result code (e.g. "tecUNFUNDED") used in
// transaction metadata diagnostics, per §7.
func (r ResultCode) Name() string {
	if n, ok := resultNames[r]; ok {
		return n
	}
	return "tecUNKNOWN"
}

// IsSuccess reports whether the code is the single success value.
func (r ResultCode) IsSuccess() bool { return r == ResultSuccess }
