package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus values are stored verbatim; the clinic operates in Portuguese.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Agendado"
	StatusCompleted AppointmentStatus = "Concluído"
	StatusCancelled AppointmentStatus = "Cancelado"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PackageStatus string

const (
	PackageActive          PackageStatus = "Ativo"
	PackageFinished        PackageStatus = "Finalizado"
	PackageAwaitingPayment PackageStatus = "Aguardando Pagamento"
)

type Patient struct {
	ID        uuid.UUID  `json:"id"`
	FullName  string     `json:"full_name"`
	CPF       *string    `json:"cpf,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Email     *string    `json:"email,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Address   *string    `json:"address,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type StaffMember struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Roles        []string  `json:"roles"`
	ContactPhone *string   `json:"contact_phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Anamnesis is the intake record of a patient's main complaint. A patient has
// at most one.
type Anamnesis struct {
	ID            uuid.UUID `json:"id"`
	PatientID     uuid.UUID `json:"patient_id"`
	MainComplaint string    `json:"main_complaint"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ClinicalEvolution is a progress note written after a session.
type ClinicalEvolution struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	Patient     *Patient  `json:"patient,omitempty"`
	Description string    `json:"description"`
	PainLevel   int       `json:"pain_level"` // 0..10
	SessionDate time.Time `json:"session_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClockTime is a wall-clock time of day, independent of any date or zone.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseClockTime accepts "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant at which this clock time falls on the given date, in loc.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, loc)
}

// ClassDefinition is a weekly template, not a concrete event.
type ClassDefinition struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	StaffID         *uuid.UUID   `json:"staff_id,omitempty"`
	Staff           *StaffMember `json:"staff,omitempty"`
	DayOfWeek       time.Weekday `json:"day_of_week"` // 0=Sunday … 6=Saturday
	StartTime       ClockTime    `json:"start_time"`
	DurationMinutes int          `json:"duration_minutes"`
	MaxCapacity     int          `json:"max_capacity"`
	ServiceType     string       `json:"service_type"`
	IsActive        bool         `json:"is_active"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`

	Enrollments []ClassEnrollment `json:"enrollments,omitempty"`
}

func (c ClassDefinition) Duration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

// IsEnrolled reports whether patientID is among the loaded enrollments.
func (c ClassDefinition) IsEnrolled(patientID uuid.UUID) bool {
	for _, e := range c.Enrollments {
		if e.PatientID == patientID {
			return true
		}
	}
	return false
}

type ClassEnrollment struct {
	ID        uuid.UUID `json:"id"`
	ClassID   uuid.UUID `json:"class_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Patient   *Patient  `json:"patient,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Appointment struct {
	ID           uuid.UUID         `json:"id"`
	PatientID    uuid.UUID         `json:"patient_id"`
	Patient      *Patient          `json:"patient,omitempty"`
	StaffID      *uuid.UUID        `json:"staff_id,omitempty"`
	ClassID      *uuid.UUID        `json:"class_id,omitempty"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	Description  string            `json:"description"`
	Status       AppointmentStatus `json:"status"`
	ServiceType  string            `json:"service_type"`
	IsClassEvent bool              `json:"is_class_event"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type PatientPackage struct {
	ID                uuid.UUID     `json:"id"`
	PatientID         uuid.UUID     `json:"patient_id"`
	Description       string        `json:"description"`
	TotalSessions     int           `json:"total_sessions"`
	SessionsRemaining int           `json:"sessions_remaining"`
	Status            PackageStatus `json:"status"`
	PriceCents        int64         `json:"price_cents"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Consume returns the balance and status after one session is used.
// ok is false when there is nothing left to consume.
func (p PatientPackage) Consume() (remaining int, status PackageStatus, ok bool) {
	if p.SessionsRemaining <= 0 {
		return p.SessionsRemaining, p.Status, false
	}
	remaining = p.SessionsRemaining - 1
	if remaining == 0 {
		return remaining, PackageFinished, true
	}
	return remaining, PackageActive, true
}

type TransactionType string

const (
	Receivable TransactionType = "Receber"
	Payable    TransactionType = "Pagar"
)

type TransactionStatus string

const (
	TxPending TransactionStatus = "Pendente"
	TxPaid    TransactionStatus = "Pago"
	// TxOverdue is derived at read time and never stored.
	TxOverdue TransactionStatus = "Atrasado"
)

type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	PatientID     *uuid.UUID        `json:"patient_id,omitempty"`
	Type          TransactionType   `json:"type"`
	Description   string            `json:"description"`
	AmountCents   int64             `json:"amount_cents"`
	DueDate       time.Time         `json:"due_date"`
	Category      string            `json:"category"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod *string           `json:"payment_method,omitempty"`
	PaymentDate   *time.Time        `json:"payment_date,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Sign is +1 for income and -1 for expenses.
func (t Transaction) Sign() int64 {
	if t.Type == Payable {
		return -1
	}
	return 1
}

// User is a clinic operator who signs in to the API.
type User struct {
	ID                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	FullName            string     `json:"full_name"`
	PasswordHash        string     `json:"-"`
	IsActive            bool       `json:"is_active"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Locked reports whether sign-in is refused at now because of earlier failures.
func (u User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// UserSession backs a refresh token. Revoking it ends the session.
type UserSession struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (s UserSession) Live(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
