// Package store keeps dhchat's small amount of local state on disk.
//
// Profiles are stored as one JSON document under the configured home
// directory and rewritten atomically on every change. Methods are safe for
// concurrent use. Nothing secret is ever persisted: passphrases, derived keys
// and session keys live only in memory.
package store
