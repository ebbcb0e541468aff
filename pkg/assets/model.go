package assets

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"assettracker/pkg/response"
)

type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusInUse       Status = "IN_USE"
	StatusMaintenance Status = "MAINTENANCE"
	StatusDisposed    Status = "DISPOSED"
)

// ParseStatus accepts the exact wire spelling of a status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAvailable, StatusInUse, StatusMaintenance, StatusDisposed:
		return Status(s), true
	default:
		return "", false
	}
}

// Asset is the persisted row.
type Asset struct {
	ID              uuid.UUID
	Name            string
	SerialNumber    string
	AcquisitionDate time.Time
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AssetRequest is the body accepted by create and update. Update replaces
// every field, so the same shape serves both.
type AssetRequest struct {
	Name            string     `json:"name" binding:"notblank"`
	SerialNumber    string     `json:"serialNumber" binding:"notblank"`
	AcquisitionDate *time.Time `json:"acquisitionDate" binding:"required" swaggertype:"string" format:"date-time"`
	Status          *Status    `json:"status" binding:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE DISPOSED" enums:"AVAILABLE,IN_USE,MAINTENANCE,DISPOSED"`
}

// UnmarshalJSON decodes acquisitionDate itself so a bad value is reported
// against that field rather than the whole body.
func (r *AssetRequest) UnmarshalJSON(data []byte) error {
	type plain AssetRequest
	aux := struct {
		*plain
		AcquisitionDate json.RawMessage `json:"acquisitionDate"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.AcquisitionDate = nil
	raw := bytes.TrimSpace(aux.AcquisitionDate)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return &response.DecodeError{Field: "acquisitionDate", Message: "acquisitionDate must be a date-time string"}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return &response.DecodeError{Field: "acquisitionDate", Message: "acquisitionDate must be RFC 3339 with a timezone offset"}
	}
	r.AcquisitionDate = &t
	return nil
}

type AssetResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	SerialNumber    string    `json:"serialNumber"`
	AcquisitionDate time.Time `json:"acquisitionDate"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AssetFilters narrows FindAll. Zero values match everything.
type AssetFilters struct {
	Name         string
	SerialNumber string
	Status       *Status
}
