// Package cache provides a persistent, zstd-compressed disk cache for
// synthesized utterances so that repeated announcements skip synthesis.
package cache
