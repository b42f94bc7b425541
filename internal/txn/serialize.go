// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package txn

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

const issuerFieldLen = 40
const currencyFieldLen = 3

func writePadded(buf *bytes.Buffer, s string, width int) {
	b := make([]byte, width)
	copy(b, []byte(s))
	buf.Write(b)
}

func writeAmount(buf *bytes.Buffer, a model.Amount) {
	var fb [8]byte
	binary.BigEndian.PutUint64(fb[:], math.Float64bits(a.Value.Float64()))
	buf.Write(fb[:])
	writePadded(buf, a.Currency, currencyFieldLen)
	writePadded(buf, a.Issuer, issuerFieldLen)
}

func writeI64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// optionalFlags captures non-default boolean/struct flags present on a
// transaction body, encoded as sorted-key JSON per §6.3 step 12.
func flagsJSON(body Body) ([]byte, error) {
	flags := map[string]bool{}
	switch b := body.(type) {
	case TrustSetBody:
		if b.SetAuth {
			flags["tfSetfAuth"] = true
		}
		if b.ClearAuth {
			flags["tfClearfAuth"] = true
		}
		if b.SetNoRipple {
			flags["tfSetNoRipple"] = true
		}
		if b.ClearNoRipple {
			flags["tfClearNoRipple"] = true
		}
		if b.SetFreeze {
			flags["tfSetFreeze"] = true
		}
		if b.ClearFreeze {
			flags["tfClearFreeze"] = true
		}
	case OfferCreateBody:
		if b.ImmediateOrCancel {
			flags["tfImmediateOrCancel"] = true
		}
		if b.FillOrKill {
			flags["tfFillOrKill"] = true
		}
	case PaymentBody:
		if b.PartialPayment {
			flags["tfPartialPayment"] = true
		}
	}
	if len(flags) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make(map[string]bool, len(flags))
	for _, k := range keys {
		ordered[k] = flags[k]
	}
	return json.Marshal(ordered)
}

// SerializeForSigning builds the deterministic signing preimage of §6.3.
// Two logically equal transactions always produce byte-identical output.
func SerializeForSigning(tx *Transaction) ([]byte, error) {
	var buf bytes.Buffer

	writeU32(&buf, uint32(tx.Body.Type()))
	buf.WriteString(tx.Header.Account)

	destination := destinationOf(tx.Body)
	buf.WriteString(destination)

	amount, fee := amountAndFee(tx)
	writeAmount(&buf, amount)
	writeAmount(&buf, fee)

	writeI64(&buf, int64(tx.Header.Sequence))
	writeI64(&buf, tx.Header.Timestamp)

	// Optional amounts in fixed order: limit_amount, taker_pays, taker_gets.
	if b, ok := tx.Body.(TrustSetBody); ok {
		writeAmount(&buf, b.LimitAmount)
	}
	if b, ok := tx.Body.(OfferCreateBody); ok {
		writeAmount(&buf, b.TakerPays)
		writeAmount(&buf, b.TakerGets)
	}

	// Optional int64 fields when nonzero, in order: offer_sequence,
	// destination_tag, source_tag.
	if b, ok := tx.Body.(OfferCancelBody); ok && b.OfferSequence != 0 {
		writeI64(&buf, int64(b.OfferSequence))
	}
	if b, ok := tx.Body.(PaymentBody); ok && b.DestinationTag != 0 {
		writeI64(&buf, int64(b.DestinationTag))
	}
	if tx.Header.SourceTag != 0 {
		writeI64(&buf, int64(tx.Header.SourceTag))
	}
	if tx.Header.TicketID != 0 {
		writeI64(&buf, int64(tx.Header.TicketID))
	}

	buf.WriteString(tx.Header.Memo)

	if b, ok := tx.Body.(PaymentBody); ok && b.IsConfidential() {
		buf.Write(b.Commitment)
		buf.Write(b.StealthAddr)
		buf.Write(b.RangeProof)
		buf.Write(b.KeyImage)
	}

	fj, err := flagsJSON(tx.Body)
	if err != nil {
		return nil, fmt.Errorf("txn: encode flags: %w", err)
	}
	if len(fj) > 0 {
		buf.Write(fj)
	}

	return buf.Bytes(), nil
}

func destinationOf(body Body) string {
	switch b := body.(type) {
	case PaymentBody:
		return b.Destination
	case EscrowCreateBody:
		return b.Destination
	case PayChanCreateBody:
		return b.Destination
	case CheckCreateBody:
		return b.Destination
	case AccountDeleteBody:
		return b.Destination
	default:
		return ""
	}
}

func amountAndFee(tx *Transaction) (model.Amount, model.Amount) {
	amount := model.Native(model.Zero())
	switch b := tx.Body.(type) {
	case PaymentBody:
		amount = b.Amount
	case EscrowCreateBody:
		amount = model.Native(b.Amount)
	case PayChanCreateBody:
		amount = model.Native(b.Amount)
	case StakeBody:
		amount = model.Native(b.Amount)
	}
	return amount, model.Native(tx.Header.Fee)
}

// HashDigest returns hash256 of the signing preimage — what gets signed.
func HashDigest(hasher func([]byte) [32]byte, tx *Transaction) ([32]byte, error) {
	preimage, err := SerializeForSigning(tx)
	if err != nil {
		return [32]byte{}, err
	}
	return hasher(preimage), nil
}

// ComputeTxID derives tx.Header.TxID following §6.3: hash256(preimage) for
// ordinary transactions, hash256(preimage || ring_signature) for
// confidential ones, since the ring signature is excluded from its own
// preimage but still needs to bind to a unique id.
func ComputeTxID(hasher func([]byte) [32]byte, tx *Transaction) (string, error) {
	preimage, err := SerializeForSigning(tx)
	if err != nil {
		return "", err
	}
	data := preimage
	if b, ok := tx.Body.(PaymentBody); ok && b.IsConfidential() {
		data = append(append([]byte{}, preimage...), tx.RingSignature...)
	}
	digest := hasher(data)
	return fmt.Sprintf("%x", digest), nil
}
