// Package accountservice owns platform accounts: identity-provider sync,
// roles, student profiles with their verification documents, and the actor
// resolution other contexts use to authorize a caller.
package accountservice
