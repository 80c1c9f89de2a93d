package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/service/appointment"
	"github.com/Alijeyrad/vitum_backend/internal/service/calendar"
	"github.com/Alijeyrad/vitum_backend/internal/service/class"
	"github.com/Alijeyrad/vitum_backend/internal/service/finance"
	"github.com/Alijeyrad/vitum_backend/internal/service/ledger"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeLedger struct {
	complete func(model.EventRef) (*ledger.Outcome, error)
	cancel   func(model.EventRef) (*model.Appointment, error)
	del      func(model.EventRef) error
}

func (f *fakeLedger) Complete(_ context.Context, ref model.EventRef) (*ledger.Outcome, error) {
	return f.complete(ref)
}

func (f *fakeLedger) Cancel(_ context.Context, ref model.EventRef) (*model.Appointment, error) {
	return f.cancel(ref)
}

func (f *fakeLedger) Delete(_ context.Context, ref model.EventRef) error {
	return f.del(ref)
}

type fakeAppointments struct {
	book func(appointment.BookRequest) (*model.Appointment, error)
}

func (f *fakeAppointments) Book(_ context.Context, req appointment.BookRequest) (*model.Appointment, error) {
	return f.book(req)
}

func (f *fakeAppointments) Get(context.Context, uuid.UUID) (*model.Appointment, error) {
	return nil, appointment.ErrNotFound
}

type fakeCalendar struct {
	events []calendar.Event
	got    calendar.Window
	filter calendar.Filter
}

func (f *fakeCalendar) Events(_ context.Context, w calendar.Window, flt calendar.Filter) ([]calendar.Event, error) {
	f.got, f.filter = w, flt
	return f.events, nil
}

func (f *fakeCalendar) DefaultWindow() calendar.Window {
	return calendar.DefaultWindow(time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC), time.UTC, 5)
}

func (f *fakeCalendar) Window(from, to time.Time) (calendar.Window, error) {
	w := calendar.NewWindow(from, to, time.UTC)
	if !w.Valid() {
		return calendar.Window{}, calendar.ErrInvalidWindow
	}
	return w, nil
}

func (f *fakeCalendar) Location() *time.Location { return time.UTC }
func (f *fakeCalendar) Invalidate(context.Context) {}
func (f *fakeCalendar) Warm(context.Context) error { return nil }

type fakeClasses struct {
	class.Service
	enroll func(classID, patientID uuid.UUID) (*model.ClassEnrollment, error)
}

func (f *fakeClasses) Enroll(_ context.Context, classID, patientID uuid.UUID) (*model.ClassEnrollment, error) {
	return f.enroll(classID, patientID)
}

type fakeFinance struct {
	finance.Service
	list func(*model.TransactionType) ([]model.Transaction, error)
}

func (f *fakeFinance) List(_ context.Context, typ *model.TransactionType) ([]model.Transaction, error) {
	return f.list(typ)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newAppointmentApp(svc appointment.Service, l ledger.Service) *fiber.App {
	app := fiber.New()
	h := NewAppointmentHandler(svc, l, time.UTC)
	app.Post("/appointments", h.Book)
	app.Patch("/appointments/:ref/complete", h.Complete)
	app.Patch("/appointments/:ref/cancel", h.Cancel)
	app.Delete("/appointments/:ref", h.Delete)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func TestComplete(t *testing.T) {
	classID, patientID := uuid.New(), uuid.New()
	virtual := "class:" + classID.String() + ":" + patientID.String() + ":2025-03-12"

	t.Run("virtual ref with credit", func(t *testing.T) {
		var got model.EventRef
		l := &fakeLedger{complete: func(ref model.EventRef) (*ledger.Outcome, error) {
			got = ref
			return &ledger.Outcome{CreditDeducted: true}, nil
		}}
		app := newAppointmentApp(nil, l)

		status, body := do(t, app, httptest.NewRequest(http.MethodPatch, "/appointments/"+virtual+"/complete", nil))
		assert.Equal(t, http.StatusOK, status)
		assert.NotContains(t, body, "warning")
		assert.True(t, got.IsVirtual())
		assert.Equal(t, classID, got.ClassID)
		assert.Equal(t, patientID, got.PatientID)
	})

	t.Run("completed without credit carries a warning", func(t *testing.T) {
		l := &fakeLedger{complete: func(model.EventRef) (*ledger.Outcome, error) {
			return &ledger.Outcome{CreditWarning: ledger.ErrNoActiveCredit}, nil
		}}
		app := newAppointmentApp(nil, l)

		status, body := do(t, app, httptest.NewRequest(http.MethodPatch, "/appointments/"+uuid.NewString()+"/complete", nil))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, ledger.ErrNoActiveCredit.Error(), body["warning"])
		data := body["data"].(map[string]any)
		assert.Equal(t, false, data["credit_deducted"])
	})

	t.Run("partial failure is flagged", func(t *testing.T) {
		l := &fakeLedger{complete: func(ref model.EventRef) (*ledger.Outcome, error) {
			return nil, &ledger.PartialFailureError{Ref: ref, Package: model.PatientPackage{ID: uuid.New()}, Err: errors.New("connection reset")}
		}}
		app := newAppointmentApp(nil, l)

		status, body := do(t, app, httptest.NewRequest(http.MethodPatch, "/appointments/"+uuid.NewString()+"/complete", nil))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, true, body["partial"])
		assert.Equal(t, true, body["credit_deducted"])
	})

	t.Run("already completed", func(t *testing.T) {
		l := &fakeLedger{complete: func(model.EventRef) (*ledger.Outcome, error) {
			return nil, ledger.ErrAlreadyCompleted
		}}
		app := newAppointmentApp(nil, l)

		status, _ := do(t, app, httptest.NewRequest(http.MethodPatch, "/appointments/"+virtual+"/complete", nil))
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("malformed ref", func(t *testing.T) {
		app := newAppointmentApp(nil, &fakeLedger{})

		status, _ := do(t, app, httptest.NewRequest(http.MethodPatch, "/appointments/class:nope/complete", nil))
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestCancelAndDelete(t *testing.T) {
	l := &fakeLedger{
		cancel: func(ref model.EventRef) (*model.Appointment, error) {
			if ref.IsVirtual() {
				return nil, ledger.ErrVirtualCancel
			}
			return &model.Appointment{ID: ref.AppointmentID, Status: model.StatusCancelled}, nil
		},
		del: func(ref model.EventRef) error {
			if ref.IsVirtual() {
				return ledger.ErrVirtualDelete
			}
			return ledger.ErrNotFound
		},
	}
	app := newAppointmentApp(nil, l)
	virtual := "class:" + uuid.NewString() + ":" + uuid.NewString() + ":2025-03-12"

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"cancel stored", http.MethodPatch, "/appointments/" + uuid.NewString() + "/cancel", http.StatusOK},
		{"cancel virtual", http.MethodPatch, "/appointments/" + virtual + "/cancel", http.StatusUnprocessableEntity},
		{"delete virtual", http.MethodDelete, "/appointments/" + virtual, http.StatusUnprocessableEntity},
		{"delete missing", http.MethodDelete, "/appointments/" + uuid.NewString(), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, app, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestBook(t *testing.T) {
	svc := &fakeAppointments{book: func(req appointment.BookRequest) (*model.Appointment, error) {
		if req.PatientID == uuid.Nil {
			return nil, appointment.ErrUnknownPatient
		}
		return &model.Appointment{ID: uuid.New(), PatientID: req.PatientID, Status: model.StatusScheduled}, nil
	}}
	app := newAppointmentApp(svc, nil)

	t.Run("created", func(t *testing.T) {
		body := `{"patient_id":"` + uuid.NewString() + `","start_time":"2025-03-12T13:00:00Z","duration_minutes":50}`
		status, resp := do(t, app, jsonRequest(http.MethodPost, "/appointments", body))
		assert.Equal(t, http.StatusCreated, status)
		assert.Contains(t, resp, "data")
	})

	t.Run("unknown patient", func(t *testing.T) {
		status, _ := do(t, app, jsonRequest(http.MethodPost, "/appointments", `{"start_time":"2025-03-12T13:00:00Z"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("bad json", func(t *testing.T) {
		status, _ := do(t, app, jsonRequest(http.MethodPost, "/appointments", `{`))
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

// ---------------------------------------------------------------------------
// Calendar
// ---------------------------------------------------------------------------

func TestCalendarEvents(t *testing.T) {
	staffID := uuid.New()

	tests := []struct {
		name   string
		query  string
		want   int
		window calendar.Window
	}{
		{
			name:   "default window",
			want:   http.StatusOK,
			window: calendar.Window{Start: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:   "explicit range",
			query:  "?from=2025-03-01&to=2025-03-08&staff_id=" + staffID.String(),
			want:   http.StatusOK,
			window: calendar.Window{Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)},
		},
		{name: "from without to", query: "?from=2025-03-01", want: http.StatusBadRequest},
		{name: "bad date", query: "?from=01/03/2025&to=2025-03-08", want: http.StatusBadRequest},
		{name: "reversed range", query: "?from=2025-03-08&to=2025-03-01", want: http.StatusBadRequest},
		{name: "bad staff id", query: "?staff_id=x", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCalendar{}
			app := fiber.New()
			app.Get("/calendar", NewCalendarHandler(svc).Events)

			status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/calendar"+tt.query, nil))
			require.Equal(t, tt.want, status)
			if status != http.StatusOK {
				return
			}
			assert.Equal(t, tt.window, svc.got)
			data := body["data"].(map[string]any)
			assert.Equal(t, []any{}, data["events"])
		})
	}
}

func TestCalendarICS(t *testing.T) {
	start := time.Date(2025, 3, 12, 13, 0, 0, 0, time.UTC)
	svc := &fakeCalendar{events: []calendar.Event{{
		Key:     "class:" + uuid.NewString() + ":" + uuid.NewString() + ":2025-03-12",
		Title:   "Ana - Pilates",
		Start:   start,
		End:     start.Add(time.Hour),
		Status:  model.StatusScheduled,
		Virtual: true,
	}}}
	h := NewCalendarHandler(svc)
	h.now = func() time.Time { return start }
	app := fiber.New()
	app.Get("/calendar.ics", h.ICS)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/calendar.ics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/calendar"))
	assert.Contains(t, string(raw), "BEGIN:VEVENT")
	assert.Contains(t, string(raw), "SUMMARY:Ana - Pilates")
}

// ---------------------------------------------------------------------------
// Classes and finance
// ---------------------------------------------------------------------------

func TestEnroll(t *testing.T) {
	classID := uuid.New()
	full := uuid.New()
	svc := &fakeClasses{enroll: func(_, patientID uuid.UUID) (*model.ClassEnrollment, error) {
		if patientID == full {
			return nil, class.ErrClassFull
		}
		return &model.ClassEnrollment{ID: uuid.New(), ClassID: classID, PatientID: patientID}, nil
	}}
	app := fiber.New()
	app.Post("/classes/:id/enrollments", NewClassHandler(svc).Enroll)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"enrolled", `{"patient_id":"` + uuid.NewString() + `"}`, http.StatusCreated},
		{"class full", `{"patient_id":"` + full.String() + `"}`, http.StatusConflict},
		{"missing patient", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, app, jsonRequest(http.MethodPost, "/classes/"+classID.String()+"/enrollments", tt.body))
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestListTransactions(t *testing.T) {
	var got *model.TransactionType
	svc := &fakeFinance{list: func(typ *model.TransactionType) ([]model.Transaction, error) {
		got = typ
		return nil, nil
	}}
	app := fiber.New()
	app.Get("/transactions", NewTransactionHandler(svc).List)

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/transactions?type=Pagar", nil))
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, got)
	assert.Equal(t, model.Payable, *got)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/transactions?type=Outro", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}
