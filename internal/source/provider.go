package source

import (
	"context"
	"strings"
)

// Provider fetches raw document bytes from somewhere
// The loader only interacts with this interface
type Provider interface {
	// Fetch returns the raw (decompressed) document
	Fetch(ctx context.Context) ([]byte, error)

	// Name identifies the document for status and errors
	Name() string
}

// State is the loader's lifecycle state
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateError:
		return "LoadError"
	default:
		return "Unknown"
	}
}

// ForLocation picks a provider for a CLI argument: http(s) URLs are fetched,
// anything else is read from disk
func ForLocation(location string) Provider {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPProvider(location)
	}
	return NewFileProvider(location)
}
