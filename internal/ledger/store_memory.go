package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bgbghq67-sys/banga-photobooth-admin/models"
)

type memoryStore struct {
	mu      sync.RWMutex
	devices map[string]*models.Device
}

// NewMemoryStore returns a map-backed DeviceStore. It is used by the tests
// and by debug runs without a configured store URI.
func NewMemoryStore() DeviceStore {
	return &memoryStore{
		devices: make(map[string]*models.Device),
	}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	device, ok := s.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	copied := *device
	return &copied, nil
}

func (s *memoryStore) FindByMachineID(ctx context.Context, machineID string) (*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	device := s.findByMachineIDLocked(machineID)
	if device == nil {
		return nil, ErrDeviceNotFound
	}
	copied := *device
	return &copied, nil
}

func (s *memoryStore) findByMachineIDLocked(machineID string) *models.Device {
	for _, device := range s.devices {
		if device.MachineID != nil && *device.MachineID == machineID {
			return device
		}
	}
	return nil
}

func (s *memoryStore) FindByProvisioningCode(ctx context.Context, code string) (*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, device := range s.devices {
		if device.ProvisioningCode != "" && device.ProvisioningCode == code {
			copied := *device
			return &copied, nil
		}
	}
	return nil, ErrDeviceNotFound
}

func (s *memoryStore) List(ctx context.Context) ([]models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	devices := make([]models.Device, 0, len(s.devices))
	for _, device := range s.devices {
		devices = append(devices, *device)
	}
	return devices, nil
}

func (s *memoryStore) Insert(ctx context.Context, device *models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if device.MachineID != nil && s.findByMachineIDLocked(*device.MachineID) != nil {
		return ErrDuplicateMachineID
	}

	copied := *device
	copied.ID = strings.ReplaceAll(uuid.NewString(), "-", "")
	s.devices[copied.ID] = &copied
	device.ID = copied.ID
	return nil
}

func (s *memoryStore) Update(ctx context.Context, id string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	device, ok := s.devices[id]
	if !ok {
		return ErrDeviceNotFound
	}

	for key, value := range fields {
		switch key {
		case "name":
			device.Name = value.(string)
		case "machineId":
			if value == nil {
				device.MachineID = nil
			} else {
				machineID := value.(string)
				if existing := s.findByMachineIDLocked(machineID); existing != nil && existing.ID != id {
					return ErrDuplicateMachineID
				}
				device.MachineID = &machineID
			}
		case "remainingSessions":
			device.RemainingSessions = value.(int64)
		case "activated":
			device.Activated = value.(bool)
		case "lastSeen":
			if value == nil {
				device.LastSeen = nil
			} else {
				lastSeen := value.(int64)
				device.LastSeen = &lastSeen
			}
		default:
			return fmt.Errorf("unknown device field %q", key)
		}
	}

	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.devices[id]; !ok {
		return ErrDeviceNotFound
	}
	delete(s.devices, id)
	return nil
}

func (s *memoryStore) IncrementSessions(ctx context.Context, id string, delta int64, now int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	device, ok := s.devices[id]
	if !ok {
		return 0, ErrDeviceNotFound
	}

	device.RemainingSessions += delta
	device.LastSeen = &now
	return device.RemainingSessions, nil
}

func (s *memoryStore) DecrementSession(ctx context.Context, machineID string, now int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	device := s.findByMachineIDLocked(machineID)
	if device == nil {
		return 0, ErrDeviceNotFound
	}
	if device.RemainingSessions <= 0 {
		return 0, ErrNoSessions
	}

	device.RemainingSessions--
	device.LastSeen = &now
	return device.RemainingSessions, nil
}

func (s *memoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.devices)), nil
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return nil
}
