// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package model defines the ledger's data model: accounts, trust lines,
// confidential outputs, ledger headers and the fixed-point Amount type
// shared across every other package.
package model

import (
	"fmt"
	"math/big"
)

// MicroDecimals is the number of fractional decimal digits carried by every
// on-ledger quantity. Balances are never floats: arithmetic is integer
// arithmetic over micro-units, so two validators applying the same
// transaction to the same state always land on the same bits.
const MicroDecimals = 6

var microScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(MicroDecimals), nil)

// Micro is a signed fixed-point quantity with MicroDecimals decimal places,
// backed by an arbitrary-precision integer so that products of rates and
// balances never overflow a machine word. This replaces the IEEE-754
// doubles used by the original NexaFlow implementation, which are
// unacceptable in a deterministic state machine (see design notes).
type Micro struct {
	v *big.Int
}

// Zero is the additive identity.
func Zero() Micro { return Micro{v: big.NewInt(0)} }

// FromMicroUnits builds a Micro directly from an integer count of
// micro-units (1 unit = 0.000001 of the native/IOU currency).
func FromMicroUnits(units int64) Micro {
	return Micro{v: big.NewInt(units)}
}

// FromString parses a decimal string such as "123.456789" into a Micro,
// truncating any precision beyond MicroDecimals digits.
func FromString(s string) (Micro, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	for i, c := range s {
		if c == '.' {
			intPart = s[:i]
			fracPart = s[i+1:]
			break
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	for len(fracPart) < MicroDecimals {
		fracPart += "0"
	}
	if len(fracPart) > MicroDecimals {
		fracPart = fracPart[:MicroDecimals]
	}
	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return Micro{}, fmt.Errorf("model: invalid amount %q", s)
	}
	frac, ok := new(big.Int).SetString(fracPart, 10)
	if !ok {
		return Micro{}, fmt.Errorf("model: invalid amount %q", s)
	}
	out := new(big.Int).Mul(whole, microScale)
	out.Add(out, frac)
	if neg {
		out.Neg(out)
	}
	return Micro{v: out}, nil
}

func (m Micro) big() *big.Int {
	if m.v == nil {
		return big.NewInt(0)
	}
	return m.v
}

// MicroUnits returns the raw integer micro-unit count.
func (m Micro) MicroUnits() *big.Int { return new(big.Int).Set(m.big()) }

// Add returns m + other.
func (m Micro) Add(other Micro) Micro {
	return Micro{v: new(big.Int).Add(m.big(), other.big())}
}

// Sub returns m - other.
func (m Micro) Sub(other Micro) Micro {
	return Micro{v: new(big.Int).Sub(m.big(), other.big())}
}

// Neg returns -m.
func (m Micro) Neg() Micro {
	return Micro{v: new(big.Int).Neg(m.big())}
}

// Cmp returns -1, 0 or 1 as m is less than, equal to, or greater than other.
func (m Micro) Cmp(other Micro) int {
	return m.big().Cmp(other.big())
}

// IsZero reports whether m is exactly zero.
func (m Micro) IsZero() bool { return m.big().Sign() == 0 }

// IsNegative reports whether m is strictly less than zero.
func (m Micro) IsNegative() bool { return m.big().Sign() < 0 }

// Min returns the lesser of a and b.
func Min(a, b Micro) Micro {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the greater of a and b.
func Max(a, b Micro) Micro {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// RoundingMode selects how MulRate resolves the fractional remainder of a
// multiplication. The design notes fix the rule: delivered amounts round
// down, burned/forfeited amounts round up, so that conservation
// (total_supply = initial - burned + minted) holds exactly in every case.
type RoundingMode int

const (
	// RoundDown truncates toward zero.
	RoundDown RoundingMode = iota
	// RoundUp rounds away from zero on any nonzero remainder.
	RoundUp
)

// MulRate multiplies m by a rate expressed as numerator/denominator
// (both in micro-unit fixed point, i.e. rate = numerator/denominator as a
// real number) and rounds according to mode. It is used for transfer_rate,
// quality_in/quality_out and penalty-tier arithmetic.
func (m Micro) MulRate(numerator, denominator int64, mode RoundingMode) Micro {
	if denominator == 0 {
		return Zero()
	}
	num := big.NewInt(numerator)
	den := big.NewInt(denominator)
	prod := new(big.Int).Mul(m.big(), num)
	q, r := new(big.Int).QuoRem(prod, den, new(big.Int))
	if r.Sign() != 0 && mode == RoundUp {
		if prod.Sign() >= 0 {
			q.Add(q, big.NewInt(1))
		} else {
			q.Sub(q, big.NewInt(1))
		}
	}
	return Micro{v: q}
}

// Float64 returns the lossy floating-point view of the value, used only
// for the wire serialization's f64 field (§6.3/§6.4) — the canonical value
// is always the integer MicroUnits, never this float.
func (m Micro) Float64() float64 {
	f := new(big.Float).SetInt(m.big())
	scale := new(big.Float).SetInt(microScale)
	f.Quo(f, scale)
	out, _ := f.Float64()
	return out
}

// String renders the value with MicroDecimals fractional digits.
func (m Micro) String() string {
	v := m.big()
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	whole, frac := new(big.Int).QuoRem(abs, microScale, new(big.Int))
	s := fmt.Sprintf("%s.%0*s", whole.String(), MicroDecimals, frac.String())
	if neg {
		s = "-" + s
	}
	return s
}

// Amount is a currency-tagged quantity: native NXF when Currency is empty,
// otherwise an IOU denominated in (Currency, Issuer).
type Amount struct {
	Value    Micro
	Currency string
	Issuer   string
}

// Native constructs a native-currency Amount.
func Native(v Micro) Amount { return Amount{Value: v} }

// IsNative reports whether the amount is denominated in the native asset.
func (a Amount) IsNative() bool { return a.Currency == "" }
