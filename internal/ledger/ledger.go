package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bgbghq67-sys/banga-photobooth-admin/models"
)

// DefaultInitialSessions is applied when an admin creates a device without an
// explicit session count. Auto-registered devices always start at zero.
const DefaultInitialSessions = 100

// ValidationError marks a malformed or missing request field.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// Ledger owns the device records and the session-counting rules. The
// remaining-session counter can never be observed negative: the only
// decrement path is the store's atomic conditional decrement.
type Ledger struct {
	store  DeviceStore
	logger *zap.SugaredLogger
	now    func() int64
}

func New(store DeviceStore, logger *zap.SugaredLogger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger,
		now: func() int64 {
			return time.Now().UnixMilli()
		},
	}
}

// Create adds an admin-provisioned device: unbound, not activated, carrying a
// provisioning code the kiosk can later claim it with.
func (l *Ledger) Create(ctx context.Context, name string, initialSessions *int64) (*models.Device, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError{Reason: "device name is required"}
	}

	sessions := int64(DefaultInitialSessions)
	if initialSessions != nil {
		if *initialSessions < 0 {
			return nil, ValidationError{Reason: "remainingSessions must not be negative"}
		}
		sessions = *initialSessions
	}

	device := &models.Device{
		Name:              name,
		MachineID:         nil,
		RemainingSessions: sessions,
		Activated:         false,
		ProvisioningCode:  generateProvisioningCode(provisioningCodeLength),
		CreatedAt:         l.now(),
		LastSeen:          nil,
	}

	if err := l.store.Insert(ctx, device); err != nil {
		return nil, err
	}

	return device, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (*models.Device, error) {
	return l.store.Get(ctx, id)
}

// List returns every device, newest first. The ordering is applied here so it
// holds regardless of the store's own ordering.
func (l *Ledger) List(ctx context.Context) ([]models.Device, error) {
	devices, err := l.store.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].CreatedAt > devices[j].CreatedAt
	})

	return devices, nil
}

// Update writes only the supplied fields.
func (l *Ledger) Update(ctx context.Context, id string, name *string, remainingSessions *int64) error {
	fields := Fields{}
	if name != nil {
		fields["name"] = strings.TrimSpace(*name)
	}
	if remainingSessions != nil {
		if *remainingSessions < 0 {
			return ValidationError{Reason: "remainingSessions must not be negative"}
		}
		fields["remainingSessions"] = *remainingSessions
	}

	if len(fields) == 0 {
		_, err := l.store.Get(ctx, id)
		return err
	}

	return l.store.Update(ctx, id, fields)
}

func (l *Ledger) Delete(ctx context.Context, id string) error {
	return l.store.Delete(ctx, id)
}

// AddSessions tops up the counter with a single store-side atomic increment
// and returns the new total. Increments commute, so no transaction is needed.
func (l *Ledger) AddSessions(ctx context.Context, id string, delta int64) (int64, error) {
	if delta < 1 {
		return 0, ValidationError{Reason: "sessions must be at least 1"}
	}

	return l.store.IncrementSessions(ctx, id, delta, l.now())
}

// RegisterOrTouch is the kiosk's create-or-touch entry point. An existing
// binding is touched; a valid provisioning code claims an unbound
// admin-created record; anything else auto-creates a fresh zero-session
// record.
func (l *Ledger) RegisterOrTouch(ctx context.Context, machineID, nameHint, provisioningCode string) (*models.Device, bool, error) {
	now := l.now()

	device, err := l.store.FindByMachineID(ctx, machineID)
	if err == nil {
		if err := l.store.Update(ctx, device.ID, Fields{"lastSeen": now}); err != nil {
			return nil, false, err
		}
		device.LastSeen = &now
		return device, false, nil
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		return nil, false, err
	}

	if provisioningCode != "" {
		claimed, err := l.claim(ctx, machineID, provisioningCode, now)
		if err == nil {
			return claimed, false, nil
		}
		if !errors.Is(err, ErrDeviceNotFound) {
			return nil, false, err
		}
		l.logger.Infow("provisioning code did not match an unbound device, auto-creating",
			"machineId", machineID)
	}

	name := strings.TrimSpace(nameHint)
	if name == "" {
		name = defaultDeviceName(machineID)
	}

	device = &models.Device{
		Name:              name,
		MachineID:         &machineID,
		RemainingSessions: 0,
		Activated:         false,
		CreatedAt:         now,
		LastSeen:          &now,
	}

	err = l.store.Insert(ctx, device)
	if errors.Is(err, ErrDuplicateMachineID) {
		// Lost a concurrent first registration for the same machine; fall
		// back to touching the record the winner created.
		l.logger.Infow("concurrent registration, touching existing record", "machineId", machineID)
		existing, findErr := l.store.FindByMachineID(ctx, machineID)
		if findErr != nil {
			return nil, false, findErr
		}
		if err := l.store.Update(ctx, existing.ID, Fields{"lastSeen": now}); err != nil {
			return nil, false, err
		}
		existing.LastSeen = &now
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return device, true, nil
}

func (l *Ledger) claim(ctx context.Context, machineID, provisioningCode string, now int64) (*models.Device, error) {
	device, err := l.store.FindByProvisioningCode(ctx, provisioningCode)
	if err != nil {
		return nil, err
	}
	if device.MachineID != nil {
		// Already claimed by another machine; the caller falls back to
		// auto-creation.
		return nil, ErrDeviceNotFound
	}

	err = l.store.Update(ctx, device.ID, Fields{"machineId": machineID, "lastSeen": now})
	if err != nil {
		return nil, err
	}

	device.MachineID = &machineID
	device.LastSeen = &now
	return device, nil
}

// Heartbeat touches lastSeen and reports the current state.
func (l *Ledger) Heartbeat(ctx context.Context, machineID string) (*models.Device, error) {
	device, err := l.store.FindByMachineID(ctx, machineID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	if err := l.store.Update(ctx, device.ID, Fields{"lastSeen": now}); err != nil {
		return nil, err
	}
	device.LastSeen = &now

	return device, nil
}

// DecrementOne consumes exactly one session for the bound device. The
// returned count comes from the same atomic store operation, never from a
// second read.
func (l *Ledger) DecrementOne(ctx context.Context, machineID string) (int64, error) {
	return l.store.DecrementSession(ctx, machineID, l.now())
}

// ResetBinding returns the record to the unbound state. The session counter
// is untouched.
func (l *Ledger) ResetBinding(ctx context.Context, id string) error {
	return l.store.Update(ctx, id, Fields{
		"machineId": nil,
		"activated": false,
		"lastSeen":  nil,
	})
}

// StaleDevices reports bound devices whose last contact is older than the
// threshold.
func (l *Ledger) StaleDevices(ctx context.Context, olderThan time.Duration) ([]models.Device, error) {
	devices, err := l.store.List(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := l.now() - olderThan.Milliseconds()
	stale := make([]models.Device, 0)
	for _, device := range devices {
		if device.MachineID == nil || device.LastSeen == nil {
			continue
		}
		if *device.LastSeen < cutoff {
			stale = append(stale, device)
		}
	}

	return stale, nil
}

// Count reports the number of device records, for the store probe.
func (l *Ledger) Count(ctx context.Context) (int64, error) {
	return l.store.Count(ctx)
}

// PingStore proves store connectivity.
func (l *Ledger) PingStore(ctx context.Context) error {
	return l.store.Ping(ctx)
}

func defaultDeviceName(machineID string) string {
	prefix := machineID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("New Device (%s...)", prefix)
}
