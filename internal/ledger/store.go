package ledger

import (
	"context"
	"errors"

	"github.com/bgbghq67-sys/banga-photobooth-admin/models"
)

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrNoSessions         = errors.New("no sessions remaining")
	ErrDuplicateMachineID = errors.New("machine id already bound")
)

// Fields is a partial update: only the listed document fields are written.
// Keys use the wire names ("name", "machineId", "remainingSessions",
// "activated", "lastSeen").
type Fields map[string]interface{}

// DeviceStore is the persistence contract for device records. The production
// implementation is backed by the document store; tests and debug runs use the
// in-memory one.
type DeviceStore interface {
	Get(ctx context.Context, id string) (*models.Device, error)
	FindByMachineID(ctx context.Context, machineID string) (*models.Device, error)
	FindByProvisioningCode(ctx context.Context, code string) (*models.Device, error)
	List(ctx context.Context) ([]models.Device, error)

	// Insert assigns the record id on success. A machine id already bound to
	// another record yields ErrDuplicateMachineID.
	Insert(ctx context.Context, device *models.Device) error
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error

	// IncrementSessions applies a single server-side atomic increment,
	// touches lastSeen and returns the new total.
	IncrementSessions(ctx context.Context, id string, delta int64, now int64) (int64, error)

	// DecrementSession atomically consumes one session for the device bound
	// to machineID, conditioned on remainingSessions > 0, touching lastSeen.
	// Returns the post-decrement count, ErrDeviceNotFound for an unknown
	// machine id, ErrNoSessions at zero balance.
	DecrementSession(ctx context.Context, machineID string, now int64) (int64, error)

	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
