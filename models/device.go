package models

import (
	"encoding/json"
)

// Device is one licensed kiosk. Timestamps are epoch milliseconds; MachineID
// and LastSeen are nil until the kiosk client first registers or claims the
// record.
type Device struct {
	ID                string
	Name              string
	MachineID         *string
	RemainingSessions int64
	Activated         bool
	ProvisioningCode  string
	CreatedAt         int64
	LastSeen          *int64
}

// ActivatedNow derives activation from the live counter. The stored Activated
// flag is informational only and is not recomputed when the counter crosses
// zero.
func (d Device) ActivatedNow() bool {
	return d.RemainingSessions > 0
}

func (d Device) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ID                string  `json:"id"`
		Name              string  `json:"name"`
		MachineID         *string `json:"machineId"`
		RemainingSessions int64   `json:"remainingSessions"`
		Activated         bool    `json:"activated"`
		ProvisioningCode  string  `json:"provisioningCode,omitempty"`
		CreatedAt         int64   `json:"createdAt"`
		LastSeen          *int64  `json:"lastSeen"`
	}{
		ID:                d.ID,
		Name:              d.Name,
		MachineID:         d.MachineID,
		RemainingSessions: d.RemainingSessions,
		Activated:         d.Activated,
		ProvisioningCode:  d.ProvisioningCode,
		CreatedAt:         d.CreatedAt,
		LastSeen:          d.LastSeen,
	})
}
