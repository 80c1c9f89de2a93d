package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the part of a verified token the API acts on.
type Claims struct {
	Type      TokenType
	UserID    uuid.UUID
	SessionID uuid.UUID
	TokenID   string // jti
	ExpiresAt time.Time
}
