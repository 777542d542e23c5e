// Package admindashboardservice serves the administrator console: platform
// statistics aggregated from the account and fundraising contexts, and the
// audit trail of administrator actions.
package admindashboardservice
