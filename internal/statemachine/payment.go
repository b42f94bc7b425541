// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"fmt"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/pathfind"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

const microDenominator = 1_000000

// applyPayment implements §4.3.1, branching on key_image presence.
func (m *Machine) applyPayment(tx *txn.Transaction, body txn.PaymentBody) (txn.ResultCode, *model.Micro) {
	if body.IsConfidential() {
		return m.applyConfidentialPayment(tx, body)
	}
	return m.applyTransparentPayment(tx, body)
}

func (m *Machine) applyConfidentialPayment(tx *txn.Transaction, body txn.PaymentBody) (txn.ResultCode, *model.Micro) {
	keyImageHex := fmt.Sprintf("%x", body.KeyImage)
	if m.ledger.IsKeyImageSpent(keyImageHex) {
		return txn.ResultKeyImageSpent, nil
	}

	provider := m.ledger.Crypto()
	if !provider.RangeVerify(body.RangeProof, body.Commitment) {
		return txn.ResultBadSig, nil
	}

	preimage, err := txn.SerializeForSigning(tx)
	if err != nil {
		return txn.ResultBadSig, nil
	}
	if !provider.RingVerify(tx.RingSignature, preimage) {
		return txn.ResultBadSig, nil
	}

	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code, nil
	}

	stealthHex := fmt.Sprintf("%x", body.StealthAddr)
	m.ledger.PutConfidentialOutput(stealthHex, &model.ConfidentialOutput{
		Commitment:   body.Commitment,
		StealthAddr:  body.StealthAddr,
		EphemeralPub: body.EphemeralPub,
		RangeProof:   body.RangeProof,
		ViewTag:      body.ViewTag,
		TxID:         tx.Header.TxID,
		Spent:        false,
	})
	m.ledger.SpendKeyImage(keyImageHex)

	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess, nil
}

func (m *Machine) applyTransparentPayment(tx *txn.Transaction, body txn.PaymentBody) (txn.ResultCode, *model.Micro) {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code, nil
	}

	dst := m.ledger.EnsureAccount(body.Destination)

	if dst.Flags.RequireDest && body.DestinationTag == 0 {
		return txn.ResultDstTagNeeded, nil
	}
	if dst.Flags.DepositAuth && tx.Header.Account != body.Destination && !dst.Preauthorized[tx.Header.Account] {
		return txn.ResultNoPermission, nil
	}

	if body.Amount.IsNative() {
		// Native amounts are exempt from global freeze per §4.3.1 step 4;
		// freeze only gates IOU transfers below.
		if src.Balance.Cmp(body.Amount.Value) < 0 {
			return txn.ResultUnfunded, nil
		}
		src.Balance = src.Balance.Sub(body.Amount.Value)
		if !m.ledger.MeetsReserve(src) {
			src.Balance = src.Balance.Add(body.Amount.Value)
			return txn.ResultOwnerReserve, nil
		}
		dst.Balance = dst.Balance.Add(body.Amount.Value)
		m.bumpSequence(src, tx.Header)
		return txn.ResultSuccess, nil
	}

	code, delivered := m.applyIOUPayment(tx, src, dst, body)
	if code == txn.ResultSuccess || code == txn.ResultPartialPayment {
		m.bumpSequence(src, tx.Header)
	}
	return code, delivered
}

func (m *Machine) applyIOUPayment(tx *txn.Transaction, src, dst *model.Account, body txn.PaymentBody) (txn.ResultCode, *model.Micro) {
	amount := body.Amount
	iss := amount.Issuer
	cur := amount.Currency

	if issuer, ok := m.ledger.GetAccount(iss); ok && issuer.Flags.GlobalFreeze {
		if tx.Header.Account != iss && body.Destination != iss {
			return txn.ResultGlobalFreeze, nil
		}
	}

	delivered := amount.Value

	if tx.Header.Account != iss {
		key := model.TrustLineKey{Currency: cur, Issuer: iss}
		line, ok := src.TrustLines[key]
		if !ok {
			return m.applyRipplePayment(tx, src, dst, body)
		}
		if !line.Flags.Authorized && requiresAuth(m.ledger, iss) {
			return txn.ResultRequireAuth, nil
		}
		if line.Flags.NoRipple {
			return txn.ResultNoRipple, nil
		}
		if line.Flags.Frozen {
			return txn.ResultFrozen, nil
		}

		transferRate := int64(microDenominator)
		if issuer, ok := m.ledger.GetAccount(iss); ok {
			transferRate = issuer.TransferRate.MicroUnits().Int64()
		}
		qualityOut := line.QualityOut
		if qualityOut == 0 {
			qualityOut = microDenominator
		}
		effective := amount.Value.
			MulRate(transferRate, microDenominator, model.RoundUp).
			MulRate(qualityOut, microDenominator, model.RoundUp)

		available := line.AvailableToSend()
		if available.Cmp(effective) < 0 {
			if !body.PartialPayment {
				return txn.ResultUnfunded, nil
			}
			effective = available
			delivered = available.MulRate(microDenominator, transferRate, model.RoundDown).
				MulRate(microDenominator, qualityOut, model.RoundDown)
		}
		line.Balance = line.Balance.Sub(effective)
	}

	if body.Destination != iss {
		key := model.TrustLineKey{Currency: cur, Issuer: iss}
		line, ok := dst.TrustLines[key]
		if !ok {
			line = &model.TrustLine{Holder: dst.Address, Currency: cur, Issuer: iss}
			dst.TrustLines[key] = line
			dst.OwnerCount++
		}
		if !line.Flags.Authorized && requiresAuth(m.ledger, iss) {
			return txn.ResultRequireAuth, nil
		}
		if line.Flags.Frozen {
			return txn.ResultFrozen, nil
		}

		qualityIn := line.QualityIn
		if qualityIn == 0 {
			qualityIn = microDenominator
		}
		creditAmt := delivered.MulRate(qualityIn, microDenominator, model.RoundDown)
		room := line.AvailableToReceive()
		if creditAmt.Cmp(room) > 0 {
			creditAmt = room
			delivered = creditAmt.MulRate(microDenominator, qualityIn, model.RoundDown)
		}
		line.Balance = line.Balance.Add(creditAmt)
	}

	if delivered.Cmp(amount.Value) < 0 {
		return txn.ResultPartialPayment, &delivered
	}
	return txn.ResultSuccess, nil
}

// applyRipplePayment implements §4.3.2's multi-hop rippling fallback: it
// builds a TrustGraph of every account holding the target currency/issuer
// (plus every account's native balance, for the bridging leg), finds the
// best path, then settles every hop on that path — not just src and dst —
// since an intermediate relay's own balances move too.
func (m *Machine) applyRipplePayment(tx *txn.Transaction, src, dst *model.Account, body txn.PaymentBody) (txn.ResultCode, *model.Micro) {
	amount := body.Amount
	views := make([]pathfind.AccountView, 0, 8)
	for _, a := range m.ledger.AllAccounts() {
		view := pathfind.AccountView{Address: a.Address, Balance: a.Balance}
		for _, tl := range a.TrustLines {
			if tl.Currency != amount.Currency || tl.Issuer != amount.Issuer {
				continue
			}
			view.Lines = append(view.Lines, pathfind.LineView{
				Currency: tl.Currency,
				Issuer:   tl.Issuer,
				Balance:  tl.Balance,
				Limit:    tl.Limit,
				NoRipple: tl.Flags.NoRipple,
				Frozen:   tl.Flags.Frozen,
			})
		}
		views = append(views, view)
	}
	graph := pathfind.Build(views)
	path, found := pathfind.Find(graph, src.Address, dst.Address, amount.Currency, amount.Issuer, amount.Value)
	if !found || path.Delivered.IsZero() {
		return txn.ResultNoLine, nil
	}

	delivered := path.Delivered
	key := model.TrustLineKey{Currency: amount.Currency, Issuer: amount.Issuer}

	for i := 0; i < len(path.Hops)-1; i++ {
		from := m.ledger.EnsureAccount(path.Hops[i].Account)
		to := m.ledger.EnsureAccount(path.Hops[i+1].Account)
		arrival := path.Hops[i+1]

		switch {
		case arrival.Currency == "" && arrival.Issuer == "":
			// Native leg: value moves as native balance between the hops.
			from.Balance = from.Balance.Sub(delivered)
			to.Balance = to.Balance.Add(delivered)
		case to.Address == amount.Issuer:
			// Redeeming back to the issuer drains the holder's line; the
			// issuer's own float is never tracked as a balance.
			if line, ok := from.TrustLines[key]; ok {
				line.Balance = line.Balance.Sub(delivered)
			}
		case from.Address == amount.Issuer:
			// The issuer extends fresh credit to the next holder.
			line, ok := to.TrustLines[key]
			if !ok {
				line = &model.TrustLine{Holder: to.Address, Currency: amount.Currency, Issuer: amount.Issuer}
				to.TrustLines[key] = line
				to.OwnerCount++
			}
			line.Balance = line.Balance.Add(delivered)
		}
	}

	if delivered.Cmp(amount.Value) < 0 {
		return txn.ResultPartialPayment, &delivered
	}
	return txn.ResultSuccess, nil
}

func requiresAuth(l interface {
	GetAccount(string) (*model.Account, bool)
}, issuer string) bool {
	a, ok := l.GetAccount(issuer)
	return ok && a.Flags.RequireAuth
}
