package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/care-io/service-booking/internal/domain/catalog"
	"github.com/care-io/service-booking/pkg/domain"
)

// CreateBookingRequest is the boundary input for creating a booking.
type CreateBookingRequest struct {
	ServiceID    uuid.UUID `json:"serviceId"`
	Duration     int       `json:"duration"`
	DurationType string    `json:"durationType"`
	Location     Location  `json:"location"`
	Notes        string    `json:"notes"`

	durationMalformed bool
}

// CreateBookingPayload is the JSON body of a create request as received.
// Identifier and duration stay raw so malformed values are reported by the
// validator in rule order instead of failing the decode.
type CreateBookingPayload struct {
	ServiceID    string          `json:"serviceId"`
	Duration     json.RawMessage `json:"duration"`
	DurationType string          `json:"durationType"`
	Location     Location        `json:"location"`
	Notes        string          `json:"notes"`
}

// Request converts the payload. An unparseable serviceId becomes uuid.Nil,
// which no catalog entry carries.
func (p CreateBookingPayload) Request() CreateBookingRequest {
	req := CreateBookingRequest{
		DurationType: p.DurationType,
		Location:     p.Location,
		Notes:        p.Notes,
	}
	if id, err := uuid.Parse(strings.TrimSpace(p.ServiceID)); err == nil {
		req.ServiceID = id
	}

	raw := bytes.TrimSpace(p.Duration)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return req
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		req.durationMalformed = true
		return req
	}
	req.Duration = n
	return req
}

// ValidatedRequest is a CreateBookingRequest that passed every rule, with
// whitespace trimmed.
type ValidatedRequest struct {
	ServiceID    uuid.UUID
	Duration     int
	DurationType DurationType
	Location     Location
	Notes        string
}

// Validator checks booking requests against the catalog entry they reference.
type Validator struct {
	maxDuration int
}

// NewValidator creates a Validator for the given policy.
func NewValidator(policy Policy) *Validator {
	return &Validator{maxDuration: policy.withDefaults().MaxDuration}
}

// Validate applies the rules in order and returns the first failure:
// the service must exist, duration must be within 1..MaxDuration, the unit
// must be hours or days (and offered by the service), and every location
// part must be present.
func (v *Validator) Validate(req CreateBookingRequest, svc *catalog.Service) (ValidatedRequest, error) {
	if svc == nil {
		return ValidatedRequest{}, domain.NewNotFoundError("Service", req.ServiceID.String())
	}

	if req.durationMalformed {
		return ValidatedRequest{}, domain.NewFieldValidationError("duration",
			"duration must be a whole number")
	}
	if req.Duration < 1 || req.Duration > v.maxDuration {
		return ValidatedRequest{}, domain.NewFieldValidationError("duration",
			fmt.Sprintf("duration must be between 1 and %d", v.maxDuration))
	}

	unit := DurationType(req.DurationType)
	if !unit.IsValid() {
		return ValidatedRequest{}, domain.NewFieldValidationError("durationType",
			"durationType must be either hours or days")
	}
	if !svc.AllowsDuration(string(unit)) {
		return ValidatedRequest{}, domain.NewFieldValidationError("durationType",
			fmt.Sprintf("service does not offer %s bookings", unit))
	}

	if missing := req.Location.FirstMissing(); missing != "" {
		return ValidatedRequest{}, domain.NewFieldValidationError(missing,
			fmt.Sprintf("location.%s is required", missing))
	}

	return ValidatedRequest{
		ServiceID:    svc.ID(),
		Duration:     req.Duration,
		DurationType: unit,
		Location:     req.Location.Normalize(),
		Notes:        strings.TrimSpace(req.Notes),
	}, nil
}
