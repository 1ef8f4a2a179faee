package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSourceType: malformed source type tag on the wire.
	ErrInvalidSourceType = errors.New("invalid inventory action source type")
	// ErrUnknownSourceType: a record with an unknown source type reached Resolve.
	ErrUnknownSourceType = errors.New("unknown inventory source type")
	// ErrUnexpectedWindowShape: crafting grid width does not match the UI slot range.
	ErrUnexpectedWindowShape = errors.New("unexpected crafting grid shape")
	// ErrUnknownUISlotOffset: UI window slot outside every known magic range.
	ErrUnknownUISlotOffset = errors.New("unhandled magic UI slot offset")
	// ErrNoOpenContainer: the action targets a window the player does not have open.
	ErrNoOpenContainer = errors.New("no open container")
	// ErrUnexpectedValue: slot value not valid for the action source.
	ErrUnexpectedValue = errors.New("unexpected inventory action value")
	// ErrUnexpectedCreativeActionType: creative action sub-type is neither delete nor create.
	ErrUnexpectedCreativeActionType = errors.New("unexpected creative action type")
	// ErrUnhandledFakeWindow: fake window id with no resolution rule yet.
	ErrUnhandledFakeWindow = errors.New("unhandled fake window")
)

// InvalidSourceTypeError carries the offending source type value.
type InvalidSourceTypeError struct {
	Value uint32
}

func (e *InvalidSourceTypeError) Error() string {
	return fmt.Sprintf("%s %d", ErrInvalidSourceType, e.Value)
}

// Is matches ErrInvalidSourceType.
func (e *InvalidSourceTypeError) Is(target error) bool {
	return target == ErrInvalidSourceType
}

// UnhandledFakeWindowError is returned for fake window ids Resolve has no rule for
// (trading windows, ids added by newer clients). It matches both ErrUnhandledFakeWindow
// and ErrNoOpenContainer.
type UnhandledFakeWindowError struct {
	Player string
	Window FakeWindow
}

func (e *UnhandledFakeWindowError) Error() string {
	return fmt.Sprintf("player %s has no open container with window ID %d (%s)", e.Player, int32(e.Window), e.Window)
}

// Is matches ErrUnhandledFakeWindow and ErrNoOpenContainer.
func (e *UnhandledFakeWindowError) Is(target error) bool {
	return target == ErrUnhandledFakeWindow || target == ErrNoOpenContainer
}
