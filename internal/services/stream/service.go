// Package stream adapts the directory walker into a typed event stream that
// a renderer can consume from a channel.
package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/treeline-dev/treeline/internal/types"
	"github.com/treeline-dev/treeline/internal/walker"
)

const (
	warningLevelName = "warning"
	// safeModeInertWarningMessage surfaces the dormant safe-mode flag: it is
	// stored and reported but does not restrict symlink following.
	safeModeInertWarningMessage = "safe mode is enabled but does not restrict symlink following"
	// errorEmptyRootMessage is returned when no root path was provided.
	errorEmptyRootMessage = "stream: walk root path is empty"
	// errorNilChannelMessage is returned when no event channel was provided.
	errorNilChannelMessage = "stream: event channel is nil"
)

// WalkOptions configure one streamed traversal.
type WalkOptions struct {
	Root           string
	Ignore         types.IgnoreSet
	FollowSymlinks bool
	SafeMode       bool
}

type emitter struct {
	ctx    context.Context
	out    chan<- Event
	walkID string
}

func newEmitter(ctx context.Context, out chan<- Event) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out, walkID: uuid.NewString()}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf(errorNilChannelMessage)
	}
	event.Version = SchemaVersion
	event.WalkID = e.walkID
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

func (e *emitter) warn(path, message string) {
	if message == "" {
		return
	}
	_ = e.send(Event{
		Kind:    EventKindWarning,
		Path:    path,
		Message: &LogEvent{Level: warningLevelName, Message: message},
	})
}

// StreamWalk traverses options.Root and emits one step event per visited
// directory, bracketed by start and summary/done events. The traversal
// itself stays sequential; the channel is the only concurrency boundary.
func StreamWalk(ctx context.Context, options WalkOptions, out chan<- Event) error {
	if options.Root == "" {
		return fmt.Errorf(errorEmptyRootMessage)
	}

	eventEmitter := newEmitter(ctx, out)
	if sendError := eventEmitter.send(Event{Kind: EventKindStart, Path: options.Root}); sendError != nil {
		return sendError
	}

	if options.SafeMode && options.FollowSymlinks {
		eventEmitter.warn(options.Root, safeModeInertWarningMessage)
	}

	summary := SummaryEvent{}
	stepHandler := func(step walker.Step) error {
		summary.Directories++
		if step.Pruned {
			summary.Pruned++
		} else {
			for _, fileName := range step.FileNames {
				if !options.Ignore.Contains(fileName) {
					summary.Files++
				}
			}
		}
		emittedStep := step
		return eventEmitter.send(Event{Kind: EventKindStep, Path: step.Path, Step: &emittedStep})
	}

	walkOptions := walker.Options{
		Root:           options.Root,
		Ignore:         options.Ignore,
		FollowSymlinks: options.FollowSymlinks,
		SafeMode:       options.SafeMode,
	}
	if walkError := walker.Walk(walkOptions, stepHandler); walkError != nil {
		_ = eventEmitter.send(Event{Kind: EventKindError, Path: options.Root, Err: &ErrorEvent{Message: walkError.Error()}})
		return walkError
	}

	if sendError := eventEmitter.send(Event{Kind: EventKindSummary, Path: options.Root, Summary: &summary}); sendError != nil {
		return sendError
	}
	return eventEmitter.send(Event{Kind: EventKindDone, Path: options.Root})
}
