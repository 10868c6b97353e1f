package alarm

import (
	"strings"

	"github.com/google/uuid"

	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/pagination"
)

const typeReason = "must be one of motion, smoke, temperature, sound, intrusion"

type CreateAlarmRequest struct {
	Type     Type   `json:"type"`
	SensorID string `json:"sensorId"`
}

func (r *CreateAlarmRequest) Validate() error {
	fe := apperr.FieldErrors{}
	r.Type = Type(strings.TrimSpace(string(r.Type)))
	if r.Type == "" {
		fe.Add("type", "is required")
	} else if !r.Type.Valid() {
		fe.Add("type", typeReason)
	}
	checkUUID(fe, "sensorId", r.SensorID, true)
	return fe.Err()
}

// Filter selects alarms for List. Empty Type and SensorID match everything.
type Filter struct {
	Type     Type
	SensorID string
	Page     int
	Limit    int
}

// Validate checks the filter and resolves its pagination window.
func (f Filter) Validate() (pagination.Pagination, error) {
	fe := apperr.FieldErrors{}
	if f.Type != "" && !f.Type.Valid() {
		fe.Add("type", typeReason)
	}
	checkUUID(fe, "sensorId", f.SensorID, false)

	p, err := pagination.New(f.Page, f.Limit)
	if perr, ok := apperr.As(err); ok {
		for field, reason := range perr.Fields {
			fe.Add(field, reason)
		}
	}
	if err := fe.Err(); err != nil {
		return pagination.Pagination{}, err
	}
	return p, nil
}

// Page is one window of a filtered listing. Total counts every match.
type Page struct {
	Data  []Alarm `json:"data"`
	Total int64   `json:"total"`
}

func checkUUID(fe apperr.FieldErrors, field, v string, required bool) {
	if v == "" {
		if required {
			fe.Add(field, "is required")
		}
		return
	}
	if _, err := uuid.Parse(v); err != nil {
		fe.Add(field, "must be a valid UUID")
	}
}
