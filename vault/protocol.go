// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package vault implements the value-distribution ledger: it aggregates
// inbound contributions into the dragnet, converts the pool into a
// yield-bearing position with the external liquidity venue, issues
// proportional shares to every benefactor of a round, and pays out each
// benefactor's share of accrued yield with O(1) cost per claim.
package vault

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dragnetfi/dragnet-core/state"
)

var _vaultMtc = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "dragnet_vault_operation_metrics",
	Help: "vault operation metrics.",
}, []string{"type"})

func init() {
	prometheus.MustRegister(_vaultMtc)
}

// Input-validation errors: rejected before any state mutation.
var (
	// ErrZeroAmount indicates a zero or negative amount
	ErrZeroAmount = errors.New("amount must be positive")
	// ErrInvalidRange indicates a malformed position range
	ErrInvalidRange = errors.New("invalid position range")
	// ErrUnknownPool indicates an unknown treasury pool
	ErrUnknownPool = errors.New("unknown treasury pool")
	// ErrUnknownEpoch indicates an epoch id that has never existed
	ErrUnknownEpoch = errors.New("unknown epoch")
	// ErrNotAdmin indicates the caller does not hold the admin role
	ErrNotAdmin = errors.New("caller is not the admin")
	// ErrNotCollector indicates the caller is not a registered collector
	ErrNotCollector = errors.New("caller is not a registered collector")
)

// Precondition errors: rejected with an explicit signal, not fatal.
var (
	// ErrNothingPending indicates a conversion with an empty dragnet
	ErrNothingPending = errors.New("nothing pending to convert")
	// ErrNothingToClaim indicates a claim with a zero delta
	ErrNothingToClaim = errors.New("nothing to claim")
	// ErrEmptyEpoch indicates a finalization of an epoch with no value
	ErrEmptyEpoch = errors.New("epoch holds no value")
	// ErrNoLiquidity indicates a conversion whose deposit minted no liquidity
	ErrNoLiquidity = errors.New("deposit minted no liquidity")
	// ErrInsufficientPool indicates a treasury pool cannot cover a withdrawal
	ErrInsufficientPool = errors.New("insufficient pool balance")
	// ErrTransferFailed indicates a blocking value transfer was refused
	ErrTransferFailed = errors.New("value transfer failed")
)

const _protocolID = "dragnet.vault"

// _shareScale is the fixed-point scale of per-round share percentages.
var _shareScale = big.NewInt(1e12)

var (
	_adminKey         = []byte("admin")
	_collectorKey     = []byte("collector")
	_dragnetKey       = []byte("dragnet")
	_shareLedgerKey   = []byte("shareLedger")
	_treasuryKey      = []byte("treasury")
	_epochIndexKey    = []byte("epochIndex")
	_pendingKeyPrefix = []byte("pending")
	_accountKeyPrefix = []byte("account")
	_epochKeyPrefix   = []byte("epoch")
)

// EventType tags a ledger event.
type EventType uint8

// Event types emitted by the ledger operations.
const (
	// EventContribution is emitted for every accepted contribution
	EventContribution EventType = iota
	// EventConversion is emitted when a round converts into a position
	EventConversion
	// EventSharesIssued is emitted per benefactor credited in a round
	EventSharesIssued
	// EventDustGranted is emitted when accumulated dust is granted
	EventDustGranted
	// EventClaim is emitted when a benefactor claims accrued value
	EventClaim
	// EventFeeAccrual is emitted when position yield is reported
	EventFeeAccrual
	// EventEpochFinalized is emitted when an epoch is finalized
	EventEpochFinalized
	// EventEpochCondensed is emitted when an old epoch is condensed
	EventEpochCondensed
	// EventReallocation is emitted when treasury capital is reallocated
	EventReallocation
	// EventRewardPaid is emitted when an operator reward is delivered
	EventRewardPaid
	// EventRewardRejected is emitted when an operator reward is refused by the
	// payee; the enclosing operation still succeeds
	EventRewardRejected
)

// Event is a ledger event attached to an operation's result.
type Event struct {
	Type       EventType
	Benefactor common.Address
	Amount     *big.Int
}

// Protocol implements the vault ledger semantics on keyed state. All methods
// operate on a caller-supplied working set; nothing is persisted until the
// working set commits.
type Protocol struct {
	keyPrefix []byte
}

// NewProtocol instantiates the vault protocol
func NewProtocol() *Protocol {
	return &Protocol{
		keyPrefix: crypto.Keccak256([]byte(_protocolID)),
	}
}

func (p *Protocol) state(sr state.Reader, key []byte, value state.Deserializer) error {
	return sr.State(p.keyHash(key), value)
}

func (p *Protocol) putState(sm state.Manager, key []byte, value state.Serializer) error {
	return sm.PutState(p.keyHash(key), value)
}

func (p *Protocol) delState(sm state.Manager, key []byte) error {
	return sm.DelState(p.keyHash(key))
}

func (p *Protocol) keyHash(key []byte) []byte {
	return crypto.Keccak256(append(p.keyPrefix, key...))
}

func pendingKey(benefactor common.Address) []byte {
	return append(_pendingKeyPrefix, benefactor.Bytes()...)
}

func accountKey(benefactor common.Address) []byte {
	return append(_accountKeyPrefix, benefactor.Bytes()...)
}

func epochKey(id uint64) []byte {
	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], id)
	return append(_epochKeyPrefix, idBytes[:]...)
}
