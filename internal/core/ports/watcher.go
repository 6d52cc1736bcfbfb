package ports

import (
	"context"
	"iter"
)

// ChangeKind classifies a change seen by the watcher.
type ChangeKind uint8

const (
	// Modified means the file content changed.
	Modified ChangeKind = iota
	// Created means the path appeared. New directories are watched as well.
	Created
	// Removed means the path is gone, including the old name of a rename.
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Created:
		return "created"
	case Removed:
		return "removed"
	default:
		return "modified"
	}
}

// WatchEvent is a single change under one of the watched roots.
type WatchEvent struct {
	Path string
	Kind ChangeKind
}

// Watcher reports changes below the source and generator input trees.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches every root recursively until ctx ends or Stop is called.
	Start(ctx context.Context, roots ...string) error
	Stop() error
	// Events yields changes until the watcher stops.
	Events() iter.Seq[WatchEvent]
}
