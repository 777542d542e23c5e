package entities

import (
	"strings"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
	CampaignStatusSuspended CampaignStatus = "suspended"
)

type CampaignCategory string

const (
	CategoryTuition   CampaignCategory = "tuition"
	CategoryBooks     CampaignCategory = "books"
	CategoryLaptop    CampaignCategory = "laptop"
	CategoryHousing   CampaignCategory = "housing"
	CategoryTravel    CampaignCategory = "travel"
	CategoryEmergency CampaignCategory = "emergency"
)

type Campaign struct {
	CampaignID        string
	StudentID         string
	Title             string
	Story             string
	Category          CampaignCategory
	TargetAmountCents int64
	RaisedAmountCents int64
	DonorCount        int
	Timeline          string
	ImpactLog         string
	Status            CampaignStatus
	StatusReason      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (c CampaignCategory) Valid() bool {
	switch c {
	case CategoryTuition, CategoryBooks, CategoryLaptop, CategoryHousing, CategoryTravel, CategoryEmergency:
		return true
	default:
		return false
	}
}

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusCompleted, CampaignStatusCancelled, CampaignStatusSuspended:
		return true
	default:
		return false
	}
}

// Moderatable reports whether an administrator may set the status directly.
// completed is reserved for the funding ledger.
func (s CampaignStatus) Moderatable() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusSuspended, CampaignStatusCancelled:
		return true
	default:
		return false
	}
}

func (c Campaign) AcceptsDonations() bool {
	return c.Status == CampaignStatusActive
}

func (c Campaign) OwnedBy(userID string) bool {
	return strings.TrimSpace(userID) != "" && c.StudentID == userID
}

// ApplyPaidDonation adds one confirmed donation to the running totals and
// reports whether the campaign just reached its target.
func (c *Campaign) ApplyPaidDonation(amountCents int64, at time.Time) bool {
	c.RaisedAmountCents += amountCents
	c.DonorCount++
	c.UpdatedAt = at
	if c.Status == CampaignStatusActive && c.RaisedAmountCents >= c.TargetAmountCents {
		c.Status = CampaignStatusCompleted
		return true
	}
	return false
}

func (c *Campaign) ApplyRefund(refundCents int64, at time.Time) {
	c.RaisedAmountCents -= refundCents
	if c.DonorCount > 0 {
		c.DonorCount--
	}
	c.UpdatedAt = at
}
