package config

import "duskfs/internal/domain"

// Options is the per-invocation configuration assembled by the CLI. Roots
// are validated by the scanner; size-measurement and dedup policy travel
// with the scan request, the deletion mode is chosen at deletion time.
type Options struct {
	Roots          []string
	ApparentSize   bool
	DedupHardLinks bool
	Summary        bool
	LogFile        string
	Workers        int
	Capacity       uint32
}

// Prefs are the UI preferences persisted between sessions. The directory
// graph itself is never persisted; every invocation rebuilds it from a live
// scan.
type Prefs struct {
	SortMode     domain.SortMode `json:"sortMode"`
	ApparentSize bool            `json:"apparentSize"`
}

type filePrefs struct {
	SortMode     *string `json:"sortMode"`
	ApparentSize *bool   `json:"apparentSize"`
}

func DefaultPrefs() Prefs {
	return Prefs{
		SortMode:     domain.SortBySize,
		ApparentSize: false,
	}
}
