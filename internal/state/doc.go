// Package state holds the latest render snapshot of the listing.
//
// The controller publishes into a Store after every transition (loading,
// ready, failed) and the UI reads copies of it with Snapshot. Snapshots are
// deep enough copies that the UI may keep them across frames without locking.
package state
