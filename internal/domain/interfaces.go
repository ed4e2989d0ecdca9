package domain

import "context"

// Transport moves whole frames between the two peers.
//
// Implementations preserve frame boundaries and ordering. ReadFrame blocks
// until a frame arrives, the peer closes, or ctx is done.
type Transport interface {
	ReadFrame(ctx context.Context) ([]byte, error)
	WriteFrame(ctx context.Context, b []byte) error
	Close() error
}

// ProfileStore persists named peer profiles.
type ProfileStore interface {
	SaveProfile(p Profile) error
	LoadProfile(name string) (Profile, bool, error)
	ListProfiles() ([]Profile, error)
	DeleteProfile(name string) (bool, error)
}
