// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txenv

import (
	"fmt"
)

// ErrorKind is the broad class of an Error.  It tells a caller whether the
// request was malformed, the PSET was not prepared, or something that must
// never be ignored went wrong.
type ErrorKind int

const (
	// ErrFormat is malformed input: bad hex, base64, UTXO strings or
	// commitments.
	ErrFormat ErrorKind = iota

	// ErrBounds is an input index beyond the transaction.
	ErrBounds

	// ErrMissingData is a PSET that lacks a field an earlier step should
	// have populated.
	ErrMissingData

	// ErrConsistency is a mismatch between a derived and a supplied value.
	ErrConsistency

	// ErrExecution is a failure inside the Simplicity engine.
	ErrExecution
)

var errorKindStrings = map[ErrorKind]string{
	ErrFormat:      "format error",
	ErrBounds:      "bounds error",
	ErrMissingData: "missing data",
	ErrConsistency: "consistency error",
	ErrExecution:   "execution error",
}

// String returns the ErrorKind as a human-readable name.
func (k ErrorKind) String() string {
	if s := errorKindStrings[k]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorKind (%d)", int(k))
}

// Error satisfies the error interface so kinds can be used as targets of
// errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// ErrorCode identifies a specific error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidEncoding indicates bad hex or base64.
	ErrInvalidEncoding ErrorCode = iota

	// ErrPsetDecode indicates a PSET that could not be decoded.
	ErrPsetDecode

	// ErrTxDecode indicates a transaction that could not be decoded.
	ErrTxDecode

	// ErrInvalidUtxo indicates a malformed UTXO string.
	ErrInvalidUtxo

	// ErrInvalidGenesisHash indicates a genesis hash that is neither a
	// preset name nor 64 hex characters.
	ErrInvalidGenesisHash

	// ErrInvalidCMR indicates a malformed CMR.
	ErrInvalidCMR

	// ErrInvalidKey indicates a malformed public or secret key.
	ErrInvalidKey

	// ErrInvalidSignature indicates a malformed signature.
	ErrInvalidSignature

	// ErrInvalidControlBlock indicates a control block that does not
	// parse.
	ErrInvalidControlBlock

	// ErrProgramParse indicates a program or witness the engine rejected.
	ErrProgramParse

	// ErrInvalidParameter indicates any other malformed argument.
	ErrInvalidParameter

	// ErrInputIndexOutOfRange indicates an input index that is not less
	// than the number of inputs.
	ErrInputIndexOutOfRange

	// ErrMissingSimplicityLeaf indicates that no Simplicity leaf with the
	// requested CMR is registered on the input.
	ErrMissingSimplicityLeaf

	// ErrMissingWitnessUtxo indicates an input without a witness UTXO.
	ErrMissingWitnessUtxo

	// ErrPsetExtract indicates a PSET missing fields needed to extract its
	// transaction.
	ErrPsetExtract

	// ErrNoRedeemNode indicates a program decoded without a witness where
	// a witness is needed.
	ErrNoRedeemNode

	// ErrControlBlockRequired indicates a sighash request that has neither
	// a control block nor a PSET to find one in.
	ErrControlBlockRequired

	// ErrControlBlockNotFound indicates that the PSET does not have a
	// control block for the CMR.
	ErrControlBlockNotFound

	// ErrInputUtxosRequired indicates a sighash request that has neither
	// input UTXOs nor a PSET to take them from.
	ErrInputUtxosRequired

	// ErrMissingInternalKey indicates a CMR given without an internal key.
	ErrMissingInternalKey

	// ErrInputUtxoCountMismatch indicates a number of input UTXOs that
	// differs from the number of transaction inputs.
	ErrInputUtxoCountMismatch

	// ErrNotTaprootOutput indicates a UTXO that is not a taproot output.
	ErrNotTaprootOutput

	// ErrSignatureWithoutPublicKey indicates a signature to verify without
	// a key to verify it with.
	ErrSignatureWithoutPublicKey

	// ErrPublicKeyMismatch indicates a secret key whose public key is not
	// the one supplied.
	ErrPublicKeyMismatch

	// ErrOutputKeyMismatch indicates a taproot output key that does not
	// commit to the given internal key and CMR.
	ErrOutputKeyMismatch

	// ErrProgramPrune indicates that the engine failed to prune.
	ErrProgramPrune

	// ErrBitMachineConstruction indicates a program too large for the bit
	// machine.
	ErrBitMachineConstruction

	// ErrSighash indicates that the engine failed to compute a sighash.
	ErrSighash

	// ErrNoEngine indicates that no Simplicity engine is available.
	ErrNoEngine

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// errorCodeInfo maps each ErrorCode to its name and kind.
var errorCodeInfo = map[ErrorCode]struct {
	name string
	kind ErrorKind
}{
	ErrInvalidEncoding:           {"ErrInvalidEncoding", ErrFormat},
	ErrPsetDecode:                {"ErrPsetDecode", ErrFormat},
	ErrTxDecode:                  {"ErrTxDecode", ErrFormat},
	ErrInvalidUtxo:               {"ErrInvalidUtxo", ErrFormat},
	ErrInvalidGenesisHash:        {"ErrInvalidGenesisHash", ErrFormat},
	ErrInvalidCMR:                {"ErrInvalidCMR", ErrFormat},
	ErrInvalidKey:                {"ErrInvalidKey", ErrFormat},
	ErrInvalidSignature:          {"ErrInvalidSignature", ErrFormat},
	ErrInvalidControlBlock:       {"ErrInvalidControlBlock", ErrFormat},
	ErrProgramParse:              {"ErrProgramParse", ErrFormat},
	ErrInvalidParameter:          {"ErrInvalidParameter", ErrFormat},
	ErrInputIndexOutOfRange:      {"ErrInputIndexOutOfRange", ErrBounds},
	ErrMissingSimplicityLeaf:     {"ErrMissingSimplicityLeaf", ErrMissingData},
	ErrMissingWitnessUtxo:        {"ErrMissingWitnessUtxo", ErrMissingData},
	ErrPsetExtract:               {"ErrPsetExtract", ErrMissingData},
	ErrNoRedeemNode:              {"ErrNoRedeemNode", ErrMissingData},
	ErrControlBlockRequired:      {"ErrControlBlockRequired", ErrMissingData},
	ErrControlBlockNotFound:      {"ErrControlBlockNotFound", ErrMissingData},
	ErrInputUtxosRequired:        {"ErrInputUtxosRequired", ErrMissingData},
	ErrMissingInternalKey:        {"ErrMissingInternalKey", ErrMissingData},
	ErrInputUtxoCountMismatch:    {"ErrInputUtxoCountMismatch", ErrConsistency},
	ErrNotTaprootOutput:          {"ErrNotTaprootOutput", ErrConsistency},
	ErrSignatureWithoutPublicKey: {"ErrSignatureWithoutPublicKey", ErrConsistency},
	ErrPublicKeyMismatch:         {"ErrPublicKeyMismatch", ErrConsistency},
	ErrOutputKeyMismatch:         {"ErrOutputKeyMismatch", ErrConsistency},
	ErrProgramPrune:              {"ErrProgramPrune", ErrExecution},
	ErrBitMachineConstruction:    {"ErrBitMachineConstruction", ErrExecution},
	ErrSighash:                   {"ErrSighash", ErrExecution},
	ErrNoEngine:                  {"ErrNoEngine", ErrExecution},
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if info, ok := errorCodeInfo[e]; ok {
		return info.name
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error satisfies the error interface so codes can be used as targets of
// errors.Is.
func (e ErrorCode) Error() string {
	return e.String()
}

// Kind returns the class of the error code.
func (e ErrorCode) Kind() ErrorKind {
	return errorCodeInfo[e].kind
}

// Error identifies a failure of an environment or PSET operation.  The
// ErrorCode and its ErrorKind are both reachable with errors.Is, and the
// underlying cause, if any, with errors.As.
type Error struct {
	Code        ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying cause, may be nil
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the error code, its kind and the underlying cause.
func (e Error) Unwrap() []error {
	errs := []error{e.Code, e.Code.Kind()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// MakeError creates an Error given a set of arguments.
func MakeError(c ErrorCode, desc string, err error) Error {
	return Error{Code: c, Description: desc, Err: err}
}

// Errorf creates an Error with a formatted description and no cause.
func Errorf(c ErrorCode, format string, args ...interface{}) Error {
	return Error{Code: c, Description: fmt.Sprintf(format, args...)}
}
