package booking

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care-io/service-booking/internal/domain/catalog"
	"github.com/care-io/service-booking/pkg/domain"
)

func testService(t *testing.T, durationOptions ...string) *catalog.Service {
	t.Helper()
	svc, err := catalog.NewService("Elderly Care", "Day care for seniors", 800, "", "elderly", durationOptions, nil)
	require.NoError(t, err)
	return svc
}

func validRequest(svc *catalog.Service) CreateBookingRequest {
	return CreateBookingRequest{
		ServiceID:    svc.ID(),
		Duration:     4,
		DurationType: "hours",
		Location: Location{
			Division: "Dhaka",
			District: "Dhaka",
			City:     "Dhaka",
			Area:     "Gulshan",
			Address:  "House 12, Road 5",
		},
		Notes: "  ring twice  ",
	}
}

func requireFieldError(t *testing.T, err error, field string) *domain.ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, field, ve.Field)
	return ve
}

func TestValidator_Accepts(t *testing.T) {
	svc := testService(t)
	v := NewValidator(DefaultPolicy())

	req := validRequest(svc)
	req.Location.Area = "  Gulshan  "
	got, err := v.Validate(req, svc)
	require.NoError(t, err)
	assert.Equal(t, svc.ID(), got.ServiceID)
	assert.Equal(t, DurationHours, got.DurationType)
	assert.Equal(t, "Gulshan", got.Location.Area)
	assert.Equal(t, "ring twice", got.Notes)
}

func TestValidator_MissingService(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	req := CreateBookingRequest{ServiceID: uuid.New(), Duration: 0}

	_, err := v.Validate(req, nil)
	assert.True(t, domain.IsNotFound(err))
}

func TestValidator_Duration(t *testing.T) {
	svc := testService(t)
	v := NewValidator(DefaultPolicy())

	for _, d := range []int{0, -1, 31} {
		req := validRequest(svc)
		req.Duration = d
		_, err := v.Validate(req, svc)
		requireFieldError(t, err, "duration")
	}

	req := validRequest(svc)
	req.Duration = 30
	_, err := v.Validate(req, svc)
	assert.NoError(t, err)

	relaxed := NewValidator(Policy{MaxDuration: 60})
	req.Duration = 45
	_, err = relaxed.Validate(req, svc)
	assert.NoError(t, err)
}

func TestValidator_DurationType(t *testing.T) {
	svc := testService(t)
	v := NewValidator(DefaultPolicy())

	req := validRequest(svc)
	req.DurationType = "weeks"
	_, err := v.Validate(req, svc)
	requireFieldError(t, err, "durationType")

	daysOnly := testService(t, "days")
	req = validRequest(daysOnly)
	_, err = v.Validate(req, daysOnly)
	requireFieldError(t, err, "durationType")
}

func TestValidator_LocationFieldOrder(t *testing.T) {
	svc := testService(t)
	v := NewValidator(DefaultPolicy())

	for _, field := range []string{"division", "district", "city", "area", "address"} {
		t.Run(field, func(t *testing.T) {
			req := validRequest(svc)
			switch field {
			case "division":
				req.Location.Division = ""
			case "district":
				req.Location.District = " "
			case "city":
				req.Location.City = ""
			case "area":
				req.Location.Area = ""
			case "address":
				req.Location.Address = "\t"
			}
			_, err := v.Validate(req, svc)
			ve := requireFieldError(t, err, field)
			assert.True(t, strings.HasPrefix(ve.Message, "location."+field))
		})
	}
}

func TestValidator_MissingAreaReportedRegardlessOfLaterFields(t *testing.T) {
	svc := testService(t)
	v := NewValidator(DefaultPolicy())

	req := validRequest(svc)
	req.Location.Area = ""
	req.Location.Address = ""
	_, err := v.Validate(req, svc)
	ve := requireFieldError(t, err, "area")
	assert.Equal(t, "location.area is required", ve.Message)
}

func TestValidator_FailFastOrder(t *testing.T) {
	svc := testService(t)
	v := NewValidator(DefaultPolicy())

	req := validRequest(svc)
	req.Duration = 0
	req.DurationType = "weeks"
	req.Location = Location{}
	_, err := v.Validate(req, svc)
	requireFieldError(t, err, "duration")
}

func TestValidator_DurationTypeMustMatchExactly(t *testing.T) {
	svc := testService(t)
	v := NewValidator(DefaultPolicy())

	for _, unit := range []string{" days ", "Days", "hours\n"} {
		req := validRequest(svc)
		req.DurationType = unit
		_, err := v.Validate(req, svc)
		requireFieldError(t, err, "durationType")
	}
}

func TestCreateBookingPayload_Request(t *testing.T) {
	svc := testService(t)
	v := NewValidator(DefaultPolicy())

	payload := func(serviceID, duration string) CreateBookingPayload {
		return CreateBookingPayload{
			ServiceID:    serviceID,
			Duration:     json.RawMessage(duration),
			DurationType: "hours",
			Location:     validRequest(svc).Location,
		}
	}

	t.Run("well formed", func(t *testing.T) {
		req := payload(svc.ID().String(), "4").Request()
		assert.Equal(t, svc.ID(), req.ServiceID)
		assert.Equal(t, 4, req.Duration)
		_, err := v.Validate(req, svc)
		assert.NoError(t, err)
	})

	t.Run("malformed service id", func(t *testing.T) {
		req := payload("abc", "4").Request()
		assert.Equal(t, uuid.Nil, req.ServiceID)
		_, err := v.Validate(req, nil)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unknown service wins over malformed duration", func(t *testing.T) {
		_, err := v.Validate(payload(uuid.NewString(), "2.5").Request(), nil)
		assert.True(t, domain.IsNotFound(err))
	})

	for _, raw := range []string{"2.5", `"3"`, "true", "{}"} {
		t.Run("duration "+raw, func(t *testing.T) {
			_, err := v.Validate(payload(svc.ID().String(), raw).Request(), svc)
			ve := requireFieldError(t, err, "duration")
			assert.Equal(t, "duration must be a whole number", ve.Message)
		})
	}

	t.Run("missing duration", func(t *testing.T) {
		_, err := v.Validate(payload(svc.ID().String(), "").Request(), svc)
		requireFieldError(t, err, "duration")
	})
}
