// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/lru"
	"github.com/vulpemventures/go-elements/elementsutil"
	"github.com/vulpemventures/go-elements/taproot"
	"github.com/vulpemventures/go-elements/transaction"
)

const (
	// CommitmentSize is the size of a serialized Pedersen or generator
	// commitment, including its prefix byte.
	CommitmentSize = 33

	// ExplicitValueSize is the size of a serialized explicit value.
	ExplicitValueSize = 9

	// commitmentCacheSize is the number of validated commitments remembered
	// so repeated UTXO descriptors skip the curve-point check.
	commitmentCacheSize = 4096

	satoshiPerBitcoin uint64 = btcutil.SatoshiPerBitcoin

	// maxWholeBitcoin is the largest whole number of bitcoin whose satoshi
	// amount fits in a uint64.
	maxWholeBitcoin = math.MaxUint64 / satoshiPerBitcoin
)

// Prefix bytes of the confidential encodings.
const (
	PrefixNull     = 0x00
	PrefixExplicit = 0x01

	valueCommitmentEven = 0x08
	valueCommitmentOdd  = 0x09
	assetCommitmentEven = 0x0a
	assetCommitmentOdd  = 0x0b
)

// ErrInvalidUtxoFormat is returned for UTXO strings that do not have exactly
// three colon separated fields.
var ErrInvalidUtxoFormat = errors.New("invalid format: expected " +
	"<scriptPubKey>:<asset>:<value>")

// btcAmountRe matches a non-negative decimal BTC amount with at most eight
// fractional digits.
var btcAmountRe = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]{1,8}))?$`)

// commitmentCache holds commitments that already passed validateCommitment.
var commitmentCache = lru.NewCache(commitmentCacheSize)

// validateCommitment checks that b is a 33-byte commitment whose prefix is one
// of the two allowed by the field and whose remaining 32 bytes are the x
// coordinate of a point on the secp256k1 curve.
func validateCommitment(b []byte, even, odd byte, field string) error {
	if len(b) != CommitmentSize {
		return fmt.Errorf("%s commitment must be %d bytes, got %d",
			field, CommitmentSize, len(b))
	}
	if b[0] != even && b[0] != odd {
		return fmt.Errorf("%s commitment has invalid prefix 0x%02x",
			field, b[0])
	}
	if commitmentCache.Contains(string(b)) {
		return nil
	}

	// The parity encoding of commitments differs from that of public keys,
	// but a point exists for the x coordinate exactly when the compressed
	// key with either parity parses.
	var point [CommitmentSize]byte
	point[0] = secp256k1.PubKeyFormatCompressedEven
	copy(point[1:], b[1:])
	if _, err := secp256k1.ParsePubKey(point[:]); err != nil {
		return fmt.Errorf("%s commitment is not a curve point: %v",
			field, err)
	}
	commitmentCache.Add(string(b))
	return nil
}

// ValidateValueCommitment checks that b is a well-formed value commitment.
func ValidateValueCommitment(b []byte) error {
	return validateCommitment(b, valueCommitmentEven, valueCommitmentOdd,
		"value")
}

// ValidateAssetCommitment checks that b is a well-formed asset commitment.
func ValidateAssetCommitment(b []byte) error {
	return validateCommitment(b, assetCommitmentEven, assetCommitmentOdd,
		"asset")
}

// ElementsUtxo is the part of a spent output that a Simplicity program can
// observe.  Asset and Value hold the consensus encodings: an explicit asset
// is 0x01 followed by the id in internal byte order, an explicit value is
// 0x01 followed by the big-endian amount, and anything else is a commitment.
type ElementsUtxo struct {
	ScriptPubKey []byte
	Asset        []byte
	Value        []byte
}

// UtxoFromTxOutput returns the ElementsUtxo describing out.
func UtxoFromTxOutput(out *transaction.TxOutput) ElementsUtxo {
	return ElementsUtxo{
		ScriptPubKey: out.Script,
		Asset:        out.Asset,
		Value:        out.Value,
	}
}

// TxOutput returns the UTXO as a transaction output with a null nonce.
func (u ElementsUtxo) TxOutput() *transaction.TxOutput {
	out := transaction.NewTxOutput(u.Asset, u.Value, u.ScriptPubKey)
	out.Nonce = []byte{PrefixNull}
	return out
}

// ExplicitValue returns the amount of an explicit value and false for a
// committed one.
func (u ElementsUtxo) ExplicitValue() (uint64, bool) {
	if len(u.Value) != ExplicitValueSize || u.Value[0] != PrefixExplicit {
		return 0, false
	}
	amount, err := elementsutil.ValueFromBytes(u.Value)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// IsExplicitAsset reports whether the asset is in the clear.
func (u ElementsUtxo) IsExplicitAsset() bool {
	return len(u.Asset) == CommitmentSize && u.Asset[0] == PrefixExplicit
}

// parseBTCAmount converts a decimal BTC string to satoshis without passing
// through floating point.  Any amount representable in a uint64 is accepted,
// which includes amounts above the Bitcoin supply cap.
func parseBTCAmount(s string) (uint64, bool) {
	m := btcAmountRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	whole, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil || whole > maxWholeBitcoin {
		return 0, false
	}
	var frac uint64
	if m[2] != "" {
		frac, _ = strconv.ParseUint(m[2]+strings.Repeat("0", 8-len(m[2])), 10, 64)
	}
	sats := whole * satoshiPerBitcoin
	if sats > math.MaxUint64-frac {
		return 0, false
	}
	return sats + frac, true
}

// formatBTCAmount renders satoshis as a decimal BTC string with no trailing
// zeros.
func formatBTCAmount(sats uint64) string {
	s := fmt.Sprintf("%d.%08d", sats/satoshiPerBitcoin,
		sats%satoshiPerBitcoin)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseElementsUtxo parses a UTXO of the form
// <scriptPubKey hex>:<asset>:<value>.
//
// A 64 character asset is an explicit asset id in display order, anything
// else is a hex encoded asset commitment.  The value is first tried as a
// decimal BTC amount and otherwise decoded as a hex value commitment.
func ParseElementsUtxo(s string) (ElementsUtxo, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return ElementsUtxo{}, ErrInvalidUtxoFormat
	}

	script, err := hex.DecodeString(parts[0])
	if err != nil {
		return ElementsUtxo{}, fmt.Errorf("invalid scriptPubKey hex: %w", err)
	}

	var asset []byte
	if len(parts[1]) == chainhash.MaxHashStringSize {
		asset, err = elementsutil.AssetHashToBytes(parts[1])
		if err != nil {
			return ElementsUtxo{}, fmt.Errorf("invalid asset hex: %w", err)
		}
	} else {
		asset, err = hex.DecodeString(parts[1])
		if err != nil {
			return ElementsUtxo{}, fmt.Errorf("invalid asset "+
				"commitment hex: %w", err)
		}
		err = validateCommitment(asset, assetCommitmentEven,
			assetCommitmentOdd, "asset")
		if err != nil {
			return ElementsUtxo{}, fmt.Errorf("invalid asset "+
				"commitment: %w", err)
		}
	}

	var value []byte
	if amount, ok := parseBTCAmount(parts[2]); ok {
		value, err = elementsutil.ValueToBytes(amount)
		if err != nil {
			return ElementsUtxo{}, err
		}
	} else {
		value, err = hex.DecodeString(parts[2])
		if err != nil {
			return ElementsUtxo{}, fmt.Errorf("invalid value "+
				"commitment hex: %w", err)
		}
		err = validateCommitment(value, valueCommitmentEven,
			valueCommitmentOdd, "value")
		if err != nil {
			return ElementsUtxo{}, fmt.Errorf("invalid value "+
				"commitment: %w", err)
		}
	}

	return ElementsUtxo{ScriptPubKey: script, Asset: asset, Value: value}, nil
}

// String returns the UTXO in the form accepted by ParseElementsUtxo.
func (u ElementsUtxo) String() string {
	asset := hex.EncodeToString(u.Asset)
	if u.IsExplicitAsset() {
		asset = elementsutil.AssetHashFromBytes(u.Asset)
	}
	value := hex.EncodeToString(u.Value)
	if amount, ok := u.ExplicitValue(); ok {
		value = formatBTCAmount(amount)
	}
	return fmt.Sprintf("%x:%s:%s", u.ScriptPubKey, asset, value)
}

// ElementsEnv is the transaction environment a program is evaluated in.  It
// is built fresh for every request and never modified afterwards.
type ElementsEnv struct {
	Tx           *transaction.Transaction
	Utxos        []ElementsUtxo
	InputIndex   uint32
	CMR          CMR
	ControlBlock *taproot.ControlBlock

	// Annex is always nil.  Annexes are not supported yet.
	Annex []byte

	GenesisHash chainhash.Hash
}

// NewElementsEnv returns an environment for spending input inputIndex of tx.
// One UTXO is required per transaction input.
func NewElementsEnv(tx *transaction.Transaction, utxos []ElementsUtxo,
	inputIndex uint32, cmr CMR, controlBlock *taproot.ControlBlock,
	genesisHash chainhash.Hash) (*ElementsEnv, error) {

	if len(utxos) != len(tx.Inputs) {
		return nil, fmt.Errorf("expected %d input UTXOs but got %d",
			len(tx.Inputs), len(utxos))
	}
	if int(inputIndex) >= len(tx.Inputs) {
		return nil, fmt.Errorf("input index %d out-of-range for "+
			"transaction with %d inputs", inputIndex, len(tx.Inputs))
	}
	return &ElementsEnv{
		Tx:           tx,
		Utxos:        utxos,
		InputIndex:   inputIndex,
		CMR:          cmr,
		ControlBlock: controlBlock,
		GenesisHash:  genesisHash,
	}, nil
}
