// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/blake2b"
)

// Secp256k1Provider is the reference Provider (§4.1): ECDSA over
// secp256k1, BLAKE2b-256 hashing, and AOS-style ring/Pedersen/range/stealth
// constructions built from the curve's scalar and point arithmetic. It is
// deliberately a reference construction, not an audited one — §4.1 fixes
// only the contract, not the implementation, so a validator operator is
// free to swap this package out.
type Secp256k1Provider struct{}

// NewSecp256k1Provider returns the reference Provider.
func NewSecp256k1Provider() *Secp256k1Provider { return &Secp256k1Provider{} }

var curveOrder = secp256k1.S256().N

// Hash256 implements the reference hash256 as BLAKE2b-256, per §4.1.
func (p *Secp256k1Provider) Hash256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Keypair generates a new secp256k1 key pair.
func (p *Secp256k1Provider) Keypair() ([]byte, []byte, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("crypto: generate key: %w", err)
	}
	return priv.Serialize(), priv.PubKey().SerializeCompressed(), nil
}

// Sign produces an ECDSA signature over a 32-byte digest.
func (p *Secp256k1Provider) Sign(priv, digest32 []byte) ([]byte, error) {
	if len(digest32) != 32 {
		return nil, errors.New("crypto: digest must be 32 bytes")
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	sig := ecdsa.Sign(key, digest32)
	return sig.Serialize(), nil
}

// Verify checks an ECDSA signature. It never panics: malformed inputs
// simply verify false.
func (p *Secp256k1Provider) Verify(pub, digest32, sig []byte) bool {
	if len(digest32) != 32 || len(pub) == 0 || len(sig) == 0 {
		return false
	}
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false
	}
	s, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return s.Verify(digest32, pk)
}

// --- point/scalar helpers ----------------------------------------------

func scalarFromBytesMod(b []byte) secp256k1.ModNScalar {
	var s secp256k1.ModNScalar
	s.SetByteSlice(b)
	return s
}

// scalarPow2 returns 2^i reduced mod the group order, built by repeated
// doubling since ModNScalar.SetInt only accepts a uint32.
func scalarPow2(i int) secp256k1.ModNScalar {
	var s secp256k1.ModNScalar
	s.SetInt(1)
	for j := 0; j < i; j++ {
		s.Add(&s)
	}
	return s
}

func randomScalar() (secp256k1.ModNScalar, []byte, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return secp256k1.ModNScalar{}, nil, err
	}
	return scalarFromBytesMod(buf), buf, nil
}

func scalarMulG(k *secp256k1.ModNScalar) secp256k1.JacobianPoint {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &r)
	r.ToAffine()
	return r
}

func scalarMulPoint(k *secp256k1.ModNScalar, pt *secp256k1.JacobianPoint) secp256k1.JacobianPoint {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(k, pt, &r)
	r.ToAffine()
	return r
}

func pointAdd(a, b *secp256k1.JacobianPoint) secp256k1.JacobianPoint {
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(a, b, &r)
	r.ToAffine()
	return r
}

func pointToCompressed(pt *secp256k1.JacobianPoint) []byte {
	affine := *pt
	affine.ToAffine()
	pub := secp256k1.NewPublicKey(&affine.X, &affine.Y)
	return pub.SerializeCompressed()
}

func pointFromCompressed(b []byte) (secp256k1.JacobianPoint, bool) {
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return secp256k1.JacobianPoint{}, false
	}
	var j secp256k1.JacobianPoint
	pk.AsJacobian(&j)
	return j, true
}

// hashToPoint derives a point with (presumed) unknown discrete log relative
// to G by hashing a domain-separated seed and incrementing until a valid
// x-coordinate is found — the standard nothing-up-my-sleeve construction.
func hashToPoint(domain string, seed []byte) secp256k1.JacobianPoint {
	for counter := uint32(0); ; counter++ {
		buf := make([]byte, 0, len(domain)+len(seed)+4)
		buf = append(buf, []byte(domain)...)
		buf = append(buf, seed...)
		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], counter)
		buf = append(buf, ctr[:]...)
		h := blake2b.Sum256(buf)
		var fv secp256k1.FieldVal
		if overflow := fv.SetByteSlice(h[:]); overflow {
			continue
		}
		var y secp256k1.FieldVal
		if !secp256k1.DecompressY(&fv, false, &y) {
			continue
		}
		var j secp256k1.JacobianPoint
		j.X = fv
		j.Y = y
		j.Z.SetInt(1)
		j.ToAffine()
		return j
	}
}

// pedersenH is the NexaFlow second generator: a nothing-up-my-sleeve point
// whose discrete log relative to G is unknown to anyone, derived once from
// a fixed domain string.
var pedersenH = hashToPoint("NexaFlow-Pedersen-H-v1", nil)

// PedersenCommit returns C = value*G + blinding*H, serialized compressed.
func (p *Secp256k1Provider) PedersenCommit(value int64, blinding32 []byte) ([]byte, error) {
	if len(blinding32) != 32 {
		return nil, errors.New("crypto: blinding must be 32 bytes")
	}
	var vScalar secp256k1.ModNScalar
	abs := value
	if value < 0 {
		abs = -value
	}
	var vb [8]byte
	binary.BigEndian.PutUint64(vb[:], uint64(abs))
	vScalar.SetByteSlice(vb[:])
	if value < 0 {
		vScalar.Negate()
	}
	bScalar := scalarFromBytesMod(blinding32)
	vG := scalarMulG(&vScalar)
	bH := scalarMulPoint(&bScalar, &pedersenH)
	c := pointAdd(&vG, &bH)
	return pointToCompressed(&c), nil
}

// StealthGenerate derives a one-time address via Diffie-Hellman from a
// fresh ephemeral key, Monero-style: shared = r*viewPub, one_time_addr =
// spendPub + H(shared)*G.
func (p *Secp256k1Provider) StealthGenerate(viewPub, spendPub []byte) (oneTimeAddr, ephemeralPub []byte, viewTag byte, sharedSecret []byte, err error) {
	viewPt, ok := pointFromCompressed(viewPub)
	if !ok {
		return nil, nil, 0, nil, errors.New("crypto: bad view pubkey")
	}
	spendPt, ok := pointFromCompressed(spendPub)
	if !ok {
		return nil, nil, 0, nil, errors.New("crypto: bad spend pubkey")
	}
	r, rBytes, err := randomScalar()
	if err != nil {
		return nil, nil, 0, nil, err
	}
	R := scalarMulG(&r)
	shared := scalarMulPoint(&r, &viewPt)
	sharedBytes := pointToCompressed(&shared)
	h := blake2b.Sum256(sharedBytes)
	ssScalar := scalarFromBytesMod(h[:])
	ssG := scalarMulG(&ssScalar)
	oneTime := pointAdd(&spendPt, &ssG)
	_ = rBytes
	return pointToCompressed(&oneTime), pointToCompressed(&R), h[0], sharedBytes, nil
}

// StealthRecover re-derives the shared secret from the recipient's view
// key and checks the view tag before recomputing the one-time address,
// mirroring a scanning wallet's fast-reject path.
func (p *Secp256k1Provider) StealthRecover(viewPriv, spendPub, ephemeralPub []byte, viewTag byte) ([]byte, bool) {
	a := scalarFromBytesMod(viewPriv)
	R, ok := pointFromCompressed(ephemeralPub)
	if !ok {
		return nil, false
	}
	spendPt, ok := pointFromCompressed(spendPub)
	if !ok {
		return nil, false
	}
	shared := scalarMulPoint(&a, &R)
	sharedBytes := pointToCompressed(&shared)
	h := blake2b.Sum256(sharedBytes)
	if h[0] != viewTag {
		return nil, false
	}
	ssScalar := scalarFromBytesMod(h[:])
	ssG := scalarMulG(&ssScalar)
	oneTime := pointAdd(&spendPt, &ssG)
	return pointToCompressed(&oneTime), true
}

// --- AOS linkable ring signature ----------------------------------------

// ringSig is the wire format for RingSign/RingVerify: the ring's public
// keys travel inside the signature because RingVerify's contract (§4.1)
// takes only the signature and the message, not the ring.
type ringSig struct {
	Ring     [][]byte
	KeyImage []byte
	C0       []byte
	S        [][]byte
}

func encodeRingSig(r *ringSig) []byte {
	var buf bytes.Buffer
	writeChunk := func(b []byte) {
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(b)))
		buf.Write(l[:])
		buf.Write(b)
	}
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(r.Ring)))
	buf.Write(n[:])
	for _, pk := range r.Ring {
		writeChunk(pk)
	}
	writeChunk(r.KeyImage)
	writeChunk(r.C0)
	binary.BigEndian.PutUint32(n[:], uint32(len(r.S)))
	buf.Write(n[:])
	for _, s := range r.S {
		writeChunk(s)
	}
	return buf.Bytes()
}

func decodeRingSig(b []byte) (*ringSig, bool) {
	readChunk := func() ([]byte, bool) {
		if len(b) < 4 {
			return nil, false
		}
		l := binary.BigEndian.Uint32(b[:4])
		b = b[4:]
		if uint32(len(b)) < l {
			return nil, false
		}
		out := b[:l]
		b = b[l:]
		return out, true
	}
	if len(b) < 4 {
		return nil, false
	}
	n := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	r := &ringSig{}
	for i := uint32(0); i < n; i++ {
		pk, ok := readChunk()
		if !ok {
			return nil, false
		}
		r.Ring = append(r.Ring, pk)
	}
	var ok bool
	r.KeyImage, ok = readChunk()
	if !ok {
		return nil, false
	}
	r.C0, ok = readChunk()
	if !ok {
		return nil, false
	}
	if len(b) < 4 {
		return nil, false
	}
	m := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	for i := uint32(0); i < m; i++ {
		s, ok := readChunk()
		if !ok {
			return nil, false
		}
		r.S = append(r.S, s)
	}
	return r, true
}

func ringChallenge(message []byte, ringIndex int, point *secp256k1.JacobianPoint) secp256k1.ModNScalar {
	pb := pointToCompressed(point)
	buf := make([]byte, 0, len(message)+len(pb)+4)
	buf = append(buf, message...)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], uint32(ringIndex))
	buf = append(buf, idx[:]...)
	buf = append(buf, pb...)
	h := blake2b.Sum256(buf)
	return scalarFromBytesMod(h[:])
}

// RingSign produces a linkable AOS ring signature (the construction
// Monero's original ring signatures were built from) over secp256k1: each
// ring member's public key is folded into a challenge chain that closes
// only because the signer knows the discrete log of ringPubs[signerIndex].
func (p *Secp256k1Provider) RingSign(message []byte, signerPriv []byte, ringPubs [][]byte, signerIndex int) ([]byte, []byte, error) {
	n := len(ringPubs)
	if signerIndex < 0 || signerIndex >= n {
		return nil, nil, errors.New("crypto: signer index out of range")
	}
	pts := make([]secp256k1.JacobianPoint, n)
	for i, pk := range ringPubs {
		j, ok := pointFromCompressed(pk)
		if !ok {
			return nil, nil, fmt.Errorf("crypto: bad ring pubkey at %d", i)
		}
		pts[i] = j
	}
	x := scalarFromBytesMod(signerPriv)

	hp := hashToPoint("NexaFlow-KeyImage-v1", ringPubs[signerIndex])
	keyImagePt := scalarMulPoint(&x, &hp)
	keyImage := pointToCompressed(&keyImagePt)

	s := make([]secp256k1.ModNScalar, n)
	sBytes := make([][]byte, n)
	for i := range s {
		if i == signerIndex {
			continue
		}
		_, rb, err := randomScalar()
		if err != nil {
			return nil, nil, err
		}
		s[i] = scalarFromBytesMod(rb)
		sBytes[i] = rb
	}

	k, _, err := randomScalar()
	if err != nil {
		return nil, nil, err
	}
	kG := scalarMulG(&k)
	c := make([]secp256k1.ModNScalar, n)
	start := (signerIndex + 1) % n
	c[start] = ringChallenge(message, start, &kG)

	for step := 0; step < n-1; step++ {
		i := (start + step) % n
		next := (i + 1) % n
		if i == signerIndex {
			continue
		}
		sG := scalarMulG(&s[i])
		cP := scalarMulPoint(&c[i], &pts[i])
		combo := pointAdd(&sG, &cP)
		c[next] = ringChallenge(message, next, &combo)
	}

	// Close the ring at the signer: s_signer = k - c_signer*x.
	cx := new(secp256k1.ModNScalar).Mul2(&c[signerIndex], &x)
	sSigner := new(secp256k1.ModNScalar).Set(&k)
	sSigner.Add(cx.Negate())
	s[signerIndex] = *sSigner
	sSignerBytes := sSigner.Bytes()
	sBytes[signerIndex] = sSignerBytes[:]

	c0b := c[0].Bytes()
	sig := &ringSig{Ring: ringPubs, KeyImage: keyImage, C0: c0b[:], S: sBytes}
	return encodeRingSig(sig), keyImage, nil
}

// RingVerify recomputes the challenge chain and checks it closes; it does
// not and cannot reveal which ring member signed.
func (p *Secp256k1Provider) RingVerify(sig []byte, message []byte) bool {
	rs, ok := decodeRingSig(sig)
	if !ok {
		return false
	}
	n := len(rs.Ring)
	if n == 0 || len(rs.S) != n {
		return false
	}
	pts := make([]secp256k1.JacobianPoint, n)
	for i, pk := range rs.Ring {
		j, ok := pointFromCompressed(pk)
		if !ok {
			return false
		}
		pts[i] = j
	}
	var c0 secp256k1.ModNScalar
	if c0.SetByteSlice(rs.C0) {
		return false
	}
	c := c0
	for i := 0; i < n; i++ {
		var si secp256k1.ModNScalar
		if si.SetByteSlice(rs.S[i]) {
			return false
		}
		sG := scalarMulG(&si)
		cP := scalarMulPoint(&c, &pts[i])
		combo := pointAdd(&sG, &cP)
		next := ringChallenge(message, (i+1)%n, &combo)
		c = next
	}
	return c.Equals(&c0)
}

// --- bitwise range proof -------------------------------------------------

// rangeBits bounds the provable range to [0, 2^rangeBits): enough for any
// realistic balance at 6-decimal micro-unit precision while keeping the
// per-bit OR-proof loop bounded.
const rangeBits = 51

type bitProof struct {
	Commit []byte
	C0     []byte
	S0     []byte
	S1     []byte
}

// RangeProve proves 0 <= value < 2^rangeBits without revealing value,
// using a per-bit OR-proof (a ring-of-two AOS proof that each bit
// commitment opens to 0*G or 1*G plus its blinding) whose commitments,
// each scaled by 2^i, sum via Pedersen homomorphism to the main
// commitment.
func (p *Secp256k1Provider) RangeProve(value int64, blinding32 []byte) ([]byte, error) {
	if value < 0 {
		return nil, errors.New("crypto: range proof value must be non-negative")
	}
	if value>>rangeBits != 0 {
		return nil, fmt.Errorf("crypto: value exceeds %d-bit range", rangeBits)
	}
	blindSum := scalarFromBytesMod(blinding32)
	proofs := make([]bitProof, rangeBits)
	var accumulated secp256k1.ModNScalar // sum of 2^i*bi over bits assigned so far

	for i := 0; i < rangeBits; i++ {
		bit := (value >> uint(i)) & 1
		pow := scalarPow2(i)

		var bi secp256k1.ModNScalar
		if i == rangeBits-1 {
			// Close the weighted sum: RangeVerify scales this bit's
			// commitment by 2^i before summing, so bi must satisfy
			// 2^i*bi == blindSum-accumulated, i.e. bi == (blindSum-accumulated)/2^i.
			remainder := new(secp256k1.ModNScalar).Set(&blindSum)
			remainder.Add(accumulated.Negate())
			inv := new(secp256k1.ModNScalar).Set(&pow)
			inv.InverseNonConst()
			bi = *new(secp256k1.ModNScalar).Mul2(remainder, inv)
		} else {
			_, rb, err := randomScalar()
			if err != nil {
				return nil, err
			}
			bi = scalarFromBytesMod(rb)
			weighted := new(secp256k1.ModNScalar).Mul2(&pow, &bi)
			accumulated.Add(weighted)
		}

		biH := scalarMulPoint(&bi, &pedersenH)
		var commitPt secp256k1.JacobianPoint
		if bit == 1 {
			var one secp256k1.ModNScalar
			one.SetInt(1)
			oneG := scalarMulG(&one)
			commitPt = pointAdd(&oneG, &biH)
		} else {
			commitPt = biH
		}
		commitBytes := pointToCompressed(&commitPt)

		bp, err := proveBitIsZeroOrOne(commitBytes, bit, &bi)
		if err != nil {
			return nil, err
		}
		proofs[i] = *bp
	}

	var buf bytes.Buffer
	write := func(b []byte) {
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(b)))
		buf.Write(l[:])
		buf.Write(b)
	}
	for _, bp := range proofs {
		write(bp.Commit)
		write(bp.C0)
		write(bp.S0)
		write(bp.S1)
	}
	return buf.Bytes(), nil
}

func proveBitIsZeroOrOne(commit []byte, bit int64, blinding *secp256k1.ModNScalar) (*bitProof, error) {
	// Prove knowledge of opening of `commit` to 0*H-offset or 1*H-offset
	// relative to H, i.e. commit = bit*G + blinding*H, via a 2-member AOS
	// ring over the two candidate points {commit, commit-G}.
	var oneG secp256k1.JacobianPoint
	var oneScalar secp256k1.ModNScalar
	oneScalar.SetInt(1)
	oneG = scalarMulG(&oneScalar)

	commitPt, ok := pointFromCompressed(commit)
	if !ok {
		return nil, errors.New("crypto: bad bit commitment")
	}
	negOneG := oneG
	negOneG.Y.Negate(1)
	negOneG.Y.Normalize()
	p0 := commitPt                     // witness point for bit==0: commit = b0*H
	p1 := pointAdd(&commitPt, &negOneG) // witness point for bit==1: commit-G = b1*H

	msg := commit
	if bit == 0 {
		_, s1b, err := randomScalar()
		if err != nil {
			return nil, err
		}
		s1 := scalarFromBytesMod(s1b)
		s1H := scalarMulPoint(&s1, &pedersenH)

		k, _, err := randomScalar()
		if err != nil {
			return nil, err
		}
		kH := scalarMulPoint(&k, &pedersenH)
		c1 := ringChallenge(msg, 1, &kH)
		c1p1 := scalarMulPoint(&c1, &p1)
		combo1 := pointAdd(&s1H, &c1p1)
		c0 := ringChallenge(msg, 0, &combo1)
		cx := new(secp256k1.ModNScalar).Mul2(&c0, blinding)
		s0 := new(secp256k1.ModNScalar).Set(&k)
		s0.Add(cx.Negate())
		c0Bytes, s0Bytes, s1Bytes := c0.Bytes(), s0.Bytes(), s1.Bytes()
		return &bitProof{Commit: commit, C0: c0Bytes[:], S0: s0Bytes[:], S1: s1Bytes[:]}, nil
	}
	_, s0b, err := randomScalar()
	if err != nil {
		return nil, err
	}
	s0 := scalarFromBytesMod(s0b)
	s0H := scalarMulPoint(&s0, &pedersenH)

	k, _, err := randomScalar()
	if err != nil {
		return nil, err
	}
	kH := scalarMulPoint(&k, &pedersenH)
	c0 := ringChallenge(msg, 0, &kH)
	c0p0 := scalarMulPoint(&c0, &p0)
	combo0 := pointAdd(&s0H, &c0p0)
	c1 := ringChallenge(msg, 1, &combo0)
	cx := new(secp256k1.ModNScalar).Mul2(&c1, blinding)
	s1 := new(secp256k1.ModNScalar).Set(&k)
	s1.Add(cx.Negate())
	c0Bytes, s0Bytes, s1Bytes := c0.Bytes(), s0.Bytes(), s1.Bytes()
	return &bitProof{Commit: commit, C0: c0Bytes[:], S0: s0Bytes[:], S1: s1Bytes[:]}, nil
}

// RangeVerify checks every bit's OR-proof and that the bit commitments
// telescope to the supplied Pedersen commitment.
func (p *Secp256k1Provider) RangeVerify(proof []byte, commitment []byte) bool {
	b := proof
	readChunk := func() ([]byte, bool) {
		if len(b) < 4 {
			return nil, false
		}
		l := binary.BigEndian.Uint32(b[:4])
		b = b[4:]
		if uint32(len(b)) < l {
			return nil, false
		}
		out := b[:l]
		b = b[l:]
		return out, true
	}

	var sum secp256k1.JacobianPoint
	sumSet := false
	for i := 0; i < rangeBits; i++ {
		commit, ok := readChunk()
		if !ok {
			return false
		}
		c0b, ok := readChunk()
		if !ok {
			return false
		}
		s0b, ok := readChunk()
		if !ok {
			return false
		}
		s1b, ok := readChunk()
		if !ok {
			return false
		}
		if !verifyBitProof(commit, c0b, s0b, s1b) {
			return false
		}
		commitPt, ok := pointFromCompressed(commit)
		if !ok {
			return false
		}
		scale := scalarPow2(i)
		scaled := scalarMulPoint(&scale, &commitPt)
		if !sumSet {
			sum = scaled
			sumSet = true
		} else {
			sum = pointAdd(&sum, &scaled)
		}
	}
	got := pointToCompressed(&sum)
	return bytes.Equal(got, commitment)
}

func verifyBitProof(commit, c0b, s0b, s1b []byte) bool {
	commitPt, ok := pointFromCompressed(commit)
	if !ok {
		return false
	}
	var oneScalar secp256k1.ModNScalar
	oneScalar.SetInt(1)
	oneG := scalarMulG(&oneScalar)
	negOneG := oneG
	negOneG.Y.Negate(1)
	negOneG.Y.Normalize()
	p1 := pointAdd(&commitPt, &negOneG)

	var c0, s0, s1 secp256k1.ModNScalar
	if c0.SetByteSlice(c0b) || s0.SetByteSlice(s0b) || s1.SetByteSlice(s1b) {
		return false
	}

	s0H := scalarMulPoint(&s0, &pedersenH)
	c0p0 := scalarMulPoint(&c0, &commitPt)
	combo0 := pointAdd(&s0H, &c0p0)
	c1 := ringChallenge(commit, 1, &combo0)

	s1H := scalarMulPoint(&s1, &pedersenH)
	c1p1 := scalarMulPoint(&c1, &p1)
	combo1 := pointAdd(&s1H, &c1p1)
	c0Recomputed := ringChallenge(commit, 0, &combo1)

	return c0Recomputed.Equals(&c0)
}
