package services

import (
	"errors"
	"math"
	"strings"
	"testing"

	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
)

func TestDonationAmountCentsBounds(t *testing.T) {
	valid := map[float64]int64{0.01: 1, 25.5: 2550, 19.99: 1999, 100000: entities.MaxDonationCents}
	for amount, want := range valid {
		got, err := DonationAmountCents(amount)
		if err != nil || got != want {
			t.Fatalf("amount %v: expected %d cents, got %d err=%v", amount, want, got, err)
		}
	}
	for _, amount := range []float64{0, -1, 0.004, 100000.01, math.NaN(), math.Inf(1)} {
		if _, err := DonationAmountCents(amount); !errors.Is(err, domainerrors.ErrInvalidDonationAmount) {
			t.Fatalf("amount %v: expected invalid amount, got %v", amount, err)
		}
	}
}

func TestCheckoutReturnURLs(t *testing.T) {
	urls, err := CheckoutReturnURLs("https://funded.test/", "c 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if urls.SuccessURL != "https://funded.test/donate/success?session_id={CHECKOUT_SESSION_ID}&campaign_id=c+1" {
		t.Fatalf("unexpected success url %q", urls.SuccessURL)
	}
	if urls.CancelURL != "https://funded.test/campaign/c%201" {
		t.Fatalf("unexpected cancel url %q", urls.CancelURL)
	}
	for _, origin := range []string{"", "funded.test", "ftp://funded.test", "https://"} {
		if _, err := CheckoutReturnURLs(origin, "c1"); !errors.Is(err, domainerrors.ErrInvalidCheckoutRequest) {
			t.Fatalf("origin %q: expected invalid checkout request, got %v", origin, err)
		}
	}
}

func TestCheckoutProductNameTruncatesByRune(t *testing.T) {
	if got := CheckoutProductName("  Books  "); got != "Donation: Books" {
		t.Fatalf("unexpected product name %q", got)
	}
	long := strings.Repeat("é", 80)
	got := CheckoutProductName(long)
	if got != "Donation: "+strings.Repeat("é", 50) {
		t.Fatalf("expected 50 rune title, got %q", got)
	}
}

func TestValidateCampaignContent(t *testing.T) {
	campaign := entities.Campaign{Title: "t", Story: "s", Timeline: "soon", TargetAmountCents: 1, Category: entities.CategoryLaptop}
	if err := ValidateCampaignContent(campaign); err != nil {
		t.Fatalf("expected valid campaign, got %v", err)
	}
	campaign.Category = "holiday"
	if err := ValidateCampaignContent(campaign); !errors.Is(err, domainerrors.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
	campaign.Category = entities.CategoryLaptop
	campaign.Story = ""
	if err := ValidateCampaignContent(campaign); !errors.Is(err, domainerrors.ErrInvalidCampaignInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
