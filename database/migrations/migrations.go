// Package migrations creates the orderdesk schema.
// Each step registers itself from init(); cmd/orderdesk imports this
// package for its side effect.
package migrations
