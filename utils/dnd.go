package utils

import (
	"context"
	"errors"
	"strconv"
)

var ErrNoDropTarget = errors.New("no drop target")

// DragPayload is what a dragged task card carries: its id and nothing else.
type DragPayload struct {
	TaskID string
}

// DropTarget is one user's card on the admin board.
type DropTarget struct {
	UserID int
}

// Drop delivers the payload to exactly one target, which reassigns the task.
func (d DropTarget) Drop(ctx context.Context, b *Board, p DragPayload) (bool, error) {
	return b.Reassign(ctx, p.TaskID, d.UserID)
}

// ResolveDropTarget maps the target id sent by the browser to an assignee's
// drop target. The admin is never a target.
func ResolveDropTarget(b *Board, raw string) (DropTarget, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return DropTarget{}, ErrNoDropTarget
	}
	for _, u := range b.Assignees() {
		if u.ID == id {
			return DropTarget{UserID: id}, nil
		}
	}
	return DropTarget{}, ErrNoDropTarget
}

// DropState is the visual state of a drop zone while a drag is in progress.
type DropState int

const (
	DropIdle DropState = iota
	// DropAvailable: something is being dragged, but not over this zone.
	DropAvailable
	// DropAccepting: the dragged card is over this zone.
	DropAccepting
)

func ZoneState(dragging, over bool) DropState {
	switch {
	case dragging && over:
		return DropAccepting
	case dragging:
		return DropAvailable
	default:
		return DropIdle
	}
}

// Class is the CSS class the board script applies for this state.
func (s DropState) Class() string {
	switch s {
	case DropAccepting:
		return "zone-accepting"
	case DropAvailable:
		return "zone-available"
	default:
		return "zone-idle"
	}
}
