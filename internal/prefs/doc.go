// Package prefs persists the accessibility preference record in a durable
// key-value slot. Loading never fails: a missing or malformed blob yields the
// documented defaults.
package prefs
