package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type stubAvailability struct {
	slots     []string
	available bool
	err       error
}

func (s *stubAvailability) ParseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(service.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, service.ErrInvalidInput
	}
	return d, nil
}

func (s *stubAvailability) Location() *time.Location { return time.UTC }

func (s *stubAvailability) ComputeAvailableSlots(ctx context.Context, professionalID, serviceID int64, date time.Time) ([]string, error) {
	return s.slots, s.err
}

func (s *stubAvailability) IsSlotAvailable(ctx context.Context, professionalID int64, date time.Time, startTime string, durationMinutes int) (bool, error) {
	return s.available, s.err
}

type stubAppointments struct {
	appointment *model.Appointment
	err         error
	lastInput   service.CreateAppointmentInput
}

func (s *stubAppointments) Create(ctx context.Context, in service.CreateAppointmentInput, now time.Time) (*model.Appointment, error) {
	s.lastInput = in
	return s.appointment, s.err
}

func (s *stubAppointments) Reschedule(ctx context.Context, id int64, in service.RescheduleInput, now time.Time) (*model.Appointment, error) {
	return s.appointment, s.err
}

func (s *stubAppointments) Transition(ctx context.Context, id int64, status model.AppointmentStatus, reason string, now time.Time) (*model.Appointment, error) {
	return s.appointment, s.err
}

func (s *stubAppointments) Cancel(ctx context.Context, id int64, reason string, now time.Time) (*model.Appointment, error) {
	return s.appointment, s.err
}

func (s *stubAppointments) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.appointment, s.err
}

func (s *stubAppointments) ListForProfessional(ctx context.Context, professionalID int64, date time.Time) ([]*model.Appointment, error) {
	return nil, s.err
}

func (s *stubAppointments) ListForClient(ctx context.Context, clientID int64, now time.Time) ([]*model.Appointment, error) {
	return nil, s.err
}

type stubProfessionals struct {
	err error
}

func (s *stubProfessionals) Create(ctx context.Context, name string) (*model.Professional, error) {
	return &model.Professional{ID: 1, Name: name, IsActive: true}, s.err
}

func (s *stubProfessionals) Get(ctx context.Context, id int64) (*model.Professional, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Professional{ID: id, Name: "Anna", IsActive: true}, nil
}

func (s *stubProfessionals) ListActive(ctx context.Context) ([]*model.Professional, error) {
	return nil, s.err
}

func (s *stubProfessionals) SetWorkingHours(ctx context.Context, professionalID int64, entries []*model.WorkingHoursEntry) error {
	return s.err
}

func (s *stubProfessionals) GetWorkingHoursEntries(ctx context.Context, professionalID int64) ([]*model.WorkingHoursEntry, error) {
	return []*model.WorkingHoursEntry{{ProfessionalID: professionalID, Weekday: time.Monday, StartTime: "09:00", EndTime: "12:00"}}, s.err
}

func (s *stubProfessionals) AddVacation(ctx context.Context, in service.VacationInput) (*model.Vacation, []*model.Appointment, error) {
	return &model.Vacation{ID: 1, ProfessionalID: in.ProfessionalID, StartsAt: in.StartsAt, EndsAt: in.EndsAt}, nil, s.err
}

func (s *stubProfessionals) DeleteVacation(ctx context.Context, id int64) error {
	return s.err
}

func (s *stubProfessionals) ListVacations(ctx context.Context, professionalID int64, from time.Time) ([]*model.Vacation, error) {
	return nil, s.err
}

type stubCatalog struct{ err error }

func (s *stubCatalog) CreateService(ctx context.Context, name string, durationMinutes, priceCents int) (*model.Service, error) {
	return &model.Service{ID: 1, Name: name, DurationMinutes: durationMinutes}, s.err
}

func (s *stubCatalog) GetService(ctx context.Context, id int64) (*model.Service, error) {
	return nil, s.err
}

func (s *stubCatalog) ListServices(ctx context.Context) ([]*model.Service, error) {
	return nil, s.err
}

type stubClients struct{ err error }

func (s *stubClients) Create(ctx context.Context, name, phone, email string) (*model.Client, error) {
	return &model.Client{ID: 1, Name: name}, s.err
}

func (s *stubClients) Get(ctx context.Context, id int64) (*model.Client, error) {
	return &model.Client{ID: id}, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type testAPI struct {
	availability  *stubAvailability
	appointments  *stubAppointments
	professionals *stubProfessionals
	catalog       *stubCatalog
	clients       *stubClients
	ready         map[string]Pinger
}

func newTestAPI() *testAPI {
	return &testAPI{
		availability:  &stubAvailability{},
		appointments:  &stubAppointments{},
		professionals: &stubProfessionals{},
		catalog:       &stubCatalog{},
		clients:       &stubClients{},
		ready:         map[string]Pinger{"postgres": stubPinger{}},
	}
}

func (a *testAPI) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(a.availability, a.appointments, a.professionals, a.catalog, a.clients, zap.NewNop())
	h.now = func() time.Time { return monday.Add(-12 * time.Hour) }
	return NewRouter(h, RouterConfig{Ready: a.ready}, zap.NewNop())
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetSlots(t *testing.T) {
	api := newTestAPI()
	api.availability.slots = []string{"09:00", "09:45", "10:30", "11:15"}

	w := api.do(http.MethodGet, "/api/v1/professionals/1/slots?service_id=2&date=2026-10-19", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "2026-10-19", body["date"])
	assert.Equal(t, []any{"09:00", "09:45", "10:30", "11:15"}, body["slots"])
}

func TestGetSlots_BadRequests(t *testing.T) {
	api := newTestAPI()

	tests := []struct {
		name string
		path string
		want int
	}{
		{"bad professional id", "/api/v1/professionals/abc/slots?service_id=2&date=2026-10-19", http.StatusBadRequest},
		{"missing service", "/api/v1/professionals/1/slots?date=2026-10-19", http.StatusBadRequest},
		{"bad date", "/api/v1/professionals/1/slots?service_id=2&date=19.10.2026", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.do(http.MethodGet, tt.path, nil).Code)
		})
	}
}

func TestCheckAvailability(t *testing.T) {
	api := newTestAPI()
	api.availability.available = true

	w := api.do(http.MethodGet, "/api/v1/professionals/1/availability?date=2026-10-19&start_time=09:45&duration=45", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["available"])

	w = api.do(http.MethodGet, "/api/v1/professionals/1/availability?date=2026-10-19&start_time=09:45&duration=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointment(t *testing.T) {
	api := newTestAPI()
	api.appointments.appointment = &model.Appointment{ID: 10, Status: model.AppointmentStatusScheduled}

	w := api.do(http.MethodPost, "/api/v1/appointments", map[string]any{
		"professional_id": 1,
		"client_id":       2,
		"service_id":      3,
		"date":            "2026-10-19",
		"start_time":      "09:45",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(10), decode(t, w)["id"])
	assert.Equal(t, "09:45", api.appointments.lastInput.StartTime)
	assert.Equal(t, int64(3), api.appointments.lastInput.ServiceID)
}

func TestCreateAppointment_SlotConflictIs409(t *testing.T) {
	api := newTestAPI()
	api.appointments.err = &service.SlotConflictError{
		ProfessionalID: 1,
		Start:          time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		End:            time.Date(2026, 10, 19, 10, 45, 0, 0, time.UTC),
		Reason:         slots.ReasonAppointmentOverlap,
		Concurrent:     true,
	}

	w := api.do(http.MethodPost, "/api/v1/appointments", map[string]any{"professional_id": 1})

	require.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "slot_conflict", body["error"])
	assert.Equal(t, float64(1), body["professional_id"])
	assert.Equal(t, "2026-10-19", body["date"])
	assert.Equal(t, "10:00", body["start_time"])
	assert.Equal(t, "10:45", body["end_time"])
	assert.Equal(t, "appointment_overlap", body["reason"])
	assert.Equal(t, true, body["concurrent"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"unknown professional", service.ErrProfessionalNotFound, http.StatusNotFound, "not_found"},
		{"missing appointment", service.ErrAppointmentNotFound, http.StatusNotFound, "not_found"},
		{"transition", service.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{"past", service.ErrPastBooking, http.StatusUnprocessableEntity, "past_booking"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI()
			api.appointments.err = tt.err

			w := api.do(http.MethodPost, "/api/v1/appointments/5/status", map[string]any{"status": "COMPLETED"})

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["error"])
		})
	}
}

func TestCancelAppointment_WithoutBody(t *testing.T) {
	api := newTestAPI()
	api.appointments.appointment = &model.Appointment{ID: 5, Status: model.AppointmentStatusCancelled}

	w := api.do(http.MethodPost, "/api/v1/appointments/5/cancel", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CANCELLED", decode(t, w)["status"])
}

func TestListsReturnEmptyArrays(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodGet, "/api/v1/professionals/1/appointments?date=2026-10-19", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["appointments"])

	w = api.do(http.MethodGet, "/api/v1/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["services"])
}

func TestWorkingHoursAndVacations(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodPut, "/api/v1/professionals/1/working-hours", map[string]any{
		"shifts": []map[string]any{{"weekday": 1, "start_time": "09:00", "end_time": "12:00"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["shifts"], 1)

	w = api.do(http.MethodPost, "/api/v1/professionals/1/vacations", map[string]any{
		"starts_at": "2026-10-19T00:00:00Z",
		"ends_at":   "2026-10-20T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["affected_appointments"])

	api.professionals.err = service.ErrVacationNotFound
	w = api.do(http.MethodDelete, "/api/v1/vacations/7", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI()

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/readyz", nil).Code)

	api.ready["redis"] = stubPinger{err: errors.New("connection refused")}
	w := api.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodGet, "/healthz", nil)

	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(2, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
