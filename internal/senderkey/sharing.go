package senderkey

import (
	"go.mau.fi/util/exsync"

	"github.com/dtroode/senderkeys/internal/model"
)

// SharingSet holds the recipients that already received a distribution.
// It is never persisted and starts empty in every process.
type SharingSet struct {
	addresses *exsync.Set[model.Address]
}

// NewSharingSet creates an empty set.
func NewSharingSet() *SharingSet {
	return &SharingSet{addresses: exsync.NewSet[model.Address]()}
}

// Add marks every address as shared with.
func (s *SharingSet) Add(addresses ...model.Address) {
	for _, addr := range addresses {
		s.addresses.Add(addr)
	}
}

// Contains reports whether addr has been marked.
func (s *SharingSet) Contains(addr model.Address) bool {
	return s.addresses.Has(addr)
}

// Addresses returns the marked addresses in no particular order.
func (s *SharingSet) Addresses() []model.Address {
	return s.addresses.AsList()
}

// Len returns the number of marked addresses.
func (s *SharingSet) Len() int {
	return s.addresses.Size()
}
