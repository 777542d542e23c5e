// Package campaignservice contains the fundraising core: student campaigns,
// donation checkout and payment webhook reconciliation.
//
// Campaign totals are derived data owned by the payment ledger port; every
// other write path treats raised amount and donor count as read-only.
package campaignservice
