// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"bytes"
	"fmt"
	"math"

	"github.com/tidwall/btree"
)

// AuthorityList is an ordered list of GRANDPA authorities
type AuthorityList []Authority

// Validate checks the list is not empty, has no duplicate key
// and its total weight does not overflow.
func (l AuthorityList) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("%w: empty authority list", ErrInvalidAuthoritySet)
	}

	seen := make(map[AuthorityID]struct{}, len(l))
	for i, authority := range l {
		if _, ok := seen[authority.Key]; ok {
			return fmt.Errorf("%w: %s at index %d", ErrDuplicateAuthority, authority.Key, i)
		}
		seen[authority.Key] = struct{}{}
	}

	_, err := l.TotalWeight()
	return err
}

// TotalWeight returns the sum of the authority weights.
func (l AuthorityList) TotalWeight() (total uint64, err error) {
	for _, authority := range l {
		if total > math.MaxUint64-authority.Weight {
			return 0, fmt.Errorf("%w: total weight overflows", ErrInvalidAuthoritySet)
		}
		total += authority.Weight
	}
	return total, nil
}

// QuorumWeight returns the smallest weight strictly greater than
// two thirds of the total weight.
func QuorumWeight(total uint64) uint64 {
	if total == 0 {
		return 0
	}
	return total - (total-1)/3
}

// AuthoritySet is a validated authority list identified by its set id.
// It is immutable once created.
type AuthoritySet struct {
	authorities AuthorityList
	setID       uint64
	total       uint64
	index       *btree.BTreeG[Authority]
}

func byKey(a, b Authority) bool {
	return bytes.Compare(a.Key[:], b.Key[:]) < 0
}

// NewAuthoritySet validates the authorities and indexes the voters
// with a non zero weight.
func NewAuthoritySet(authorities AuthorityList, setID uint64) (*AuthoritySet, error) {
	err := authorities.Validate()
	if err != nil {
		return nil, err
	}

	total, err := authorities.TotalWeight()
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrInvalidAuthoritySet)
	}

	index := btree.NewBTreeG(byKey)
	for _, authority := range authorities {
		if authority.Weight == 0 {
			continue
		}
		index.Set(authority)
	}

	list := make(AuthorityList, len(authorities))
	copy(list, authorities)

	return &AuthoritySet{
		authorities: list,
		setID:       setID,
		total:       total,
		index:       index,
	}, nil
}

// SetID returns the set id of the authority set.
func (s *AuthoritySet) SetID() uint64 { return s.setID }

// TotalWeight returns the total weight of the set.
func (s *AuthoritySet) TotalWeight() uint64 { return s.total }

// Threshold returns the quorum weight of the set.
func (s *AuthoritySet) Threshold() uint64 { return QuorumWeight(s.total) }

// Len returns the number of voters with a non zero weight.
func (s *AuthoritySet) Len() int { return s.index.Len() }

// Authorities returns a copy of the authority list.
func (s *AuthoritySet) Authorities() AuthorityList {
	list := make(AuthorityList, len(s.authorities))
	copy(list, s.authorities)
	return list
}

// Weight returns the weight of the voter with the given key,
// and false if the key is not a voter of the set.
func (s *AuthoritySet) Weight(id AuthorityID) (weight uint64, ok bool) {
	authority, ok := s.index.Get(Authority{Key: id})
	if !ok {
		return 0, false
	}
	return authority.Weight, true
}
