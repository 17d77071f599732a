package tenant

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// EventTypeViewOnlyToggled is published whenever a device flips its view-only flag
const EventTypeViewOnlyToggled = "ViewOnlyToggled"

// AggregateTypeDevice groups per-device preference events
const AggregateTypeDevice = "Device"

// PreferenceStore persists the per-device view-only flag.
// A device that never toggled reads as false.
type PreferenceStore interface {
	ViewOnly(ctx context.Context, deviceID string) (bool, error)
	SetViewOnly(ctx context.Context, deviceID string, enabled bool) error
	Ping(ctx context.Context) error
	Close() error
}

// ViewOnlyToggledEvent is broadcast to every view of the device after the flag changes
type ViewOnlyToggledEvent struct {
	shared.BaseDomainEvent
	DeviceID string `json:"device_id"`
	Enabled  bool   `json:"enabled"`
}

// NewViewOnlyToggledEvent creates the event for deviceID
func NewViewOnlyToggledEvent(deviceID string, enabled bool) *ViewOnlyToggledEvent {
	return &ViewOnlyToggledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeViewOnlyToggled, AggregateTypeDevice, deviceID),
		DeviceID:        deviceID,
		Enabled:         enabled,
	}
}
