// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vault

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/dragnetfi/dragnet-core/state"
	"github.com/dragnetfi/dragnet-core/venue"
)

// admin stores the configuration of the vault protocol
type admin struct {
	admin                       common.Address
	fundingAsset                common.Address
	targetAsset                 common.Address
	rangeLower                  *big.Int
	rangeUpper                  *big.Int
	convertRewardBase           *big.Int
	convertRewardPerParticipant *big.Int
	convertRewardCap            *big.Int
	keeperRewardBps             uint64
	dustThreshold               *big.Int
	epochWindow                 uint64
}

type adminSer struct {
	Admin                       common.Address
	FundingAsset                common.Address
	TargetAsset                 common.Address
	RangeLower                  *big.Int
	RangeUpper                  *big.Int
	ConvertRewardBase           *big.Int
	ConvertRewardPerParticipant *big.Int
	ConvertRewardCap            *big.Int
	KeeperRewardBps             uint64
	DustThreshold               *big.Int
	EpochWindow                 uint64
}

// Serialize serializes admin state into bytes
func (a *admin) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&adminSer{
		Admin:                       a.admin,
		FundingAsset:                a.fundingAsset,
		TargetAsset:                 a.targetAsset,
		RangeLower:                  a.rangeLower,
		RangeUpper:                  a.rangeUpper,
		ConvertRewardBase:           a.convertRewardBase,
		ConvertRewardPerParticipant: a.convertRewardPerParticipant,
		ConvertRewardCap:            a.convertRewardCap,
		KeeperRewardBps:             a.keeperRewardBps,
		DustThreshold:               a.dustThreshold,
		EpochWindow:                 a.epochWindow,
	})
}

// Deserialize deserializes bytes into admin state
func (a *admin) Deserialize(data []byte) error {
	var gen adminSer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	a.admin = gen.Admin
	a.fundingAsset = gen.FundingAsset
	a.targetAsset = gen.TargetAsset
	a.rangeLower = gen.RangeLower
	a.rangeUpper = gen.RangeUpper
	a.convertRewardBase = gen.ConvertRewardBase
	a.convertRewardPerParticipant = gen.ConvertRewardPerParticipant
	a.convertRewardCap = gen.ConvertRewardCap
	a.keeperRewardBps = gen.KeeperRewardBps
	a.dustThreshold = gen.DustThreshold
	a.epochWindow = gen.EpochWindow
	return nil
}

// collectors stores the addresses allowed to attribute contributions to third
// parties and to report position fee accrual
type collectors struct {
	addrs []common.Address
}

type collectorsSer struct {
	Addrs []common.Address
}

// Serialize serializes collector state into bytes
func (c *collectors) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&collectorsSer{Addrs: c.addrs})
}

// Deserialize deserializes bytes into collector state
func (c *collectors) Deserialize(data []byte) error {
	var gen collectorsSer
	if err := rlp.DecodeBytes(data, &gen); err != nil {
		return err
	}
	c.addrs = gen.Addrs
	return nil
}

func (c *collectors) contains(addr common.Address) bool {
	for _, a := range c.addrs {
		if a == addr {
			return true
		}
	}
	return false
}

// InitConfig carries the genesis configuration of the vault.
type InitConfig struct {
	Admin                       common.Address
	FundingAsset                common.Address
	TargetAsset                 common.Address
	PositionRange               venue.Range
	ConvertRewardBase           *big.Int
	ConvertRewardPerParticipant *big.Int
	ConvertRewardCap            *big.Int
	KeeperRewardBps             uint64
	DustThreshold               *big.Int
	EpochWindow                 uint64
	Collectors                  []common.Address
}

// Initialize writes the genesis state of the vault. It fails if the vault has
// already been initialized.
func (p *Protocol) Initialize(sm state.Manager, cfg InitConfig) error {
	var a admin
	switch err := p.state(sm, _adminKey, &a); errors.Cause(err) {
	case nil:
		return errors.New("vault has already been initialized")
	case state.ErrStateNotExist:
	default:
		return err
	}
	if !cfg.PositionRange.Valid() {
		return errors.Wrap(ErrInvalidRange, "genesis position range")
	}
	if cfg.KeeperRewardBps > 10000 {
		return errors.New("keeper reward bps over 10000")
	}
	if cfg.EpochWindow == 0 {
		return errors.New("epoch window must be positive")
	}
	if err := p.putState(sm, _adminKey, &admin{
		admin:                       cfg.Admin,
		fundingAsset:                cfg.FundingAsset,
		targetAsset:                 cfg.TargetAsset,
		rangeLower:                  cfg.PositionRange.Lower,
		rangeUpper:                  cfg.PositionRange.Upper,
		convertRewardBase:           nonNil(cfg.ConvertRewardBase),
		convertRewardPerParticipant: nonNil(cfg.ConvertRewardPerParticipant),
		convertRewardCap:            nonNil(cfg.ConvertRewardCap),
		keeperRewardBps:             cfg.KeeperRewardBps,
		dustThreshold:               nonNil(cfg.DustThreshold),
		epochWindow:                 cfg.EpochWindow,
	}); err != nil {
		return err
	}
	if err := p.putState(sm, _collectorKey, &collectors{addrs: cfg.Collectors}); err != nil {
		return err
	}
	if err := p.putState(sm, _dragnetKey, newDragnet()); err != nil {
		return err
	}
	if err := p.putState(sm, _shareLedgerKey, newShareLedger()); err != nil {
		return err
	}
	if err := p.putState(sm, _treasuryKey, newTreasury()); err != nil {
		return err
	}
	return p.putState(sm, _epochIndexKey, &epochIndex{current: 1, windowStart: 1})
}

// SetRewardRates updates the operator and keeper reward parameters
func (p *Protocol) SetRewardRates(
	sm state.Manager,
	caller common.Address,
	base, perParticipant, rewardCap *big.Int,
	keeperBps uint64,
	dustThreshold *big.Int,
) error {
	a, err := p.assertAdmin(sm, caller)
	if err != nil {
		return err
	}
	if keeperBps > 10000 {
		return errors.New("keeper reward bps over 10000")
	}
	a.convertRewardBase = nonNil(base)
	a.convertRewardPerParticipant = nonNil(perParticipant)
	a.convertRewardCap = nonNil(rewardCap)
	a.keeperRewardBps = keeperBps
	a.dustThreshold = nonNil(dustThreshold)
	return p.putState(sm, _adminKey, a)
}

// SetTargetAsset updates the asset the pending pool converts into
func (p *Protocol) SetTargetAsset(sm state.Manager, caller, asset common.Address) error {
	a, err := p.assertAdmin(sm, caller)
	if err != nil {
		return err
	}
	a.targetAsset = asset
	return p.putState(sm, _adminKey, a)
}

// SetPositionRange updates the default position range
func (p *Protocol) SetPositionRange(sm state.Manager, caller common.Address, rng venue.Range) error {
	a, err := p.assertAdmin(sm, caller)
	if err != nil {
		return err
	}
	if !rng.Valid() {
		return ErrInvalidRange
	}
	a.rangeLower = rng.Lower
	a.rangeUpper = rng.Upper
	return p.putState(sm, _adminKey, a)
}

// SetAdmin hands the admin role to a new address
func (p *Protocol) SetAdmin(sm state.Manager, caller, next common.Address) error {
	a, err := p.assertAdmin(sm, caller)
	if err != nil {
		return err
	}
	a.admin = next
	return p.putState(sm, _adminKey, a)
}

// AddCollector registers an address as a collector
func (p *Protocol) AddCollector(sm state.Manager, caller, collector common.Address) error {
	if _, err := p.assertAdmin(sm, caller); err != nil {
		return err
	}
	var c collectors
	if err := p.state(sm, _collectorKey, &c); err != nil {
		return err
	}
	if c.contains(collector) {
		return nil
	}
	c.addrs = append(c.addrs, collector)
	return p.putState(sm, _collectorKey, &c)
}

// RemoveCollector removes an address from the collector registry
func (p *Protocol) RemoveCollector(sm state.Manager, caller, collector common.Address) error {
	if _, err := p.assertAdmin(sm, caller); err != nil {
		return err
	}
	var c collectors
	if err := p.state(sm, _collectorKey, &c); err != nil {
		return err
	}
	addrs := c.addrs[:0]
	for _, a := range c.addrs {
		if a != collector {
			addrs = append(addrs, a)
		}
	}
	c.addrs = addrs
	return p.putState(sm, _collectorKey, &c)
}

func (p *Protocol) assertAdmin(sr state.Reader, caller common.Address) (*admin, error) {
	var a admin
	if err := p.state(sr, _adminKey, &a); err != nil {
		return nil, err
	}
	if a.admin != caller {
		return nil, errors.Wrapf(ErrNotAdmin, "caller %x", caller)
	}
	return &a, nil
}

func (p *Protocol) assertCollector(sr state.Reader, caller common.Address) error {
	var a admin
	if err := p.state(sr, _adminKey, &a); err != nil {
		return err
	}
	if a.admin == caller {
		return nil
	}
	var c collectors
	if err := p.state(sr, _collectorKey, &c); err != nil {
		return err
	}
	if !c.contains(caller) {
		return errors.Wrapf(ErrNotCollector, "caller %x", caller)
	}
	return nil
}

func nonNil(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}
