// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
)

// JetFrame describes one jet call observed by the bit machine.  Input and
// Output are the raw machine frames, least significant word first.
type JetFrame struct {
	Name       string
	SourceType string
	TargetType string
	Success    bool
	Input      []uint64
	Output     []uint64
}

// Tracker is notified by a BitMachine at every jet call boundary.
type Tracker interface {
	VisitJet(frame *JetFrame)
}

// JetClass is the classification of a jet for the purpose of trace
// decoration.
type JetClass int

const (
	// JetStandard is any jet without special trace handling.
	JetStandard JetClass = iota

	// JetEqualityCheck is an eq_N jet whose input is the concatenation of
	// the two compared values.
	JetEqualityCheck

	// JetUnsupportedEqualityCheck is eq_1 or eq_2, whose operands are too
	// narrow to split on a byte boundary.
	JetUnsupportedEqualityCheck
)

// String returns the JetClass as a human-readable name.
func (c JetClass) String() string {
	switch c {
	case JetStandard:
		return "standard"
	case JetEqualityCheck:
		return "equality check"
	case JetUnsupportedEqualityCheck:
		return "unsupported equality check"
	}
	return "JetClass(" + strconv.Itoa(int(c)) + ")"
}

// ClassifyJet classifies a jet by name.  Every eq_ jet other than eq_1 and
// eq_2 is an equality check.  The returned width is the numeric suffix when
// it parses and zero otherwise.
func ClassifyJet(name string) (JetClass, uint) {
	suffix, ok := strings.CutPrefix(name, "eq_")
	if !ok {
		return JetStandard, 0
	}
	switch suffix {
	case "1", "2":
		return JetUnsupportedEqualityCheck, 0
	}
	bits, err := strconv.ParseUint(suffix, 10, 16)
	if err != nil {
		return JetEqualityCheck, 0
	}
	return JetEqualityCheck, uint(bits)
}

// WordsHex renders a machine frame as hex.  Words are emitted last first and
// each word in big-endian byte order.
func WordsHex(words []uint64) string {
	buf := make([]byte, 8*len(words))
	for i := range words {
		binary.BigEndian.PutUint64(buf[8*i:], words[len(words)-1-i])
	}
	return hex.EncodeToString(buf)
}

// JetCall is the JSON record of a single traced jet call.
type JetCall struct {
	Jet           string     `json:"jet"`
	SourceType    string     `json:"source_ty"`
	TargetType    string     `json:"target_ty"`
	Success       bool       `json:"success"`
	InputHex      string     `json:"input_hex"`
	OutputHex     string     `json:"output_hex"`
	EqualityCheck *[2]string `json:"equality_check,omitempty"`
}

// JetTracer is a Tracker that records every jet call in order.
type JetTracer struct {
	calls []JetCall
}

// Ensure JetTracer implements the Tracker interface.
var _ Tracker = (*JetTracer)(nil)

// NewJetTracer returns an empty tracer.
func NewJetTracer() *JetTracer {
	return &JetTracer{calls: make([]JetCall, 0)}
}

// VisitJet records frame.
func (t *JetTracer) VisitJet(frame *JetFrame) {
	call := JetCall{
		Jet:        frame.Name,
		SourceType: frame.SourceType,
		TargetType: frame.TargetType,
		Success:    frame.Success,
		InputHex:   WordsHex(frame.Input),
		OutputHex:  WordsHex(frame.Output),
	}
	if class, _ := ClassifyJet(frame.Name); class == JetEqualityCheck {
		half := len(call.InputHex) / 2
		call.EqualityCheck = &[2]string{
			call.InputHex[:half], call.InputHex[half:],
		}
	}
	log.Tracef("Jet %s success=%v input=%s", call.Jet, call.Success,
		call.InputHex)

	t.calls = append(t.calls, call)
}

// Calls returns the recorded jet calls in execution order.
func (t *JetTracer) Calls() []JetCall {
	return t.calls
}
