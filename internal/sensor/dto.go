package sensor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/username/alarm-api/internal/apperr"
)

const minTextLength = 3

type CreateSensorRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// UpdateSensorRequest is a partial update; nil fields are left untouched.
type UpdateSensorRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}

func (r *CreateSensorRequest) Validate() error {
	fe := apperr.FieldErrors{}
	r.Name = checkText(fe, "name", r.Name)
	r.Location = checkText(fe, "location", r.Location)
	return fe.Err()
}

func (r *UpdateSensorRequest) Validate() error {
	fe := apperr.FieldErrors{}
	if r.Name != nil {
		v := checkText(fe, "name", *r.Name)
		r.Name = &v
	}
	if r.Location != nil {
		v := checkText(fe, "location", *r.Location)
		r.Location = &v
	}
	return fe.Err()
}

// checkText trims v and records a failure if it is empty or too short.
func checkText(fe apperr.FieldErrors, field, v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		fe.Add(field, "is required")
	case utf8.RuneCountInString(v) < minTextLength:
		fe.Add(field, fmt.Sprintf("must be at least %d characters", minTextLength))
	}
	return v
}
