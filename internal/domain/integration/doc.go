// Package integration holds outbound integration concepts: tenant webhook
// subscriptions and the durable queue of deliveries made to them.
package integration
