package business

import (
	"slices"
	"time"
)

// Status is the moderation state of a business.
type Status string

// Business status constants.
const (
	Approved Status = "approved"
	Pending  Status = "pending"
	Rejected Status = "rejected"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == Approved || s == Pending || s == Rejected
}

// Business is a listed project. Only Approved businesses are listing-eligible.
type Business struct {
	ID              int64
	CreatedAt       time.Time
	Name            string
	Overview        string
	Token           string
	Logo            string
	Website         string
	Whitepaper      string
	ContractAddress string
	Category        string
	Tags            []string
	Types           []string
	Chains          []string
	Status          Status
}

// HasTag reports whether tag is one of the business tags or types.
func (b Business) HasTag(tag string) bool {
	return slices.Contains(b.Tags, tag) || slices.Contains(b.Types, tag)
}

// OnChain reports whether the business is deployed on chain.
func (b Business) OnChain(chain string) bool {
	return slices.Contains(b.Chains, chain)
}
