// Package pasetotoken issues and verifies the v4 PASETO tokens that carry an
// operator's session.
package pasetotoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	paseto "aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/config"
)

type Config struct {
	Mode Mode

	Issuer   string
	Audience string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Manager struct {
	cfg  Config
	keys Keys
	now  func() time.Time
}

func New(cfg Config, keys Keys) (*Manager, error) {
	if cfg.Mode != keys.Mode {
		return nil, configErr("mode does not match the keys")
	}
	if (keys.Mode == ModeLocal && keys.Symmetric == nil) || (keys.Mode == ModePublic && keys.Public == nil) {
		return nil, configErr("no key to verify with")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, configErr("issuer and audience are required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Manager{cfg: cfg, keys: keys, now: time.Now}, nil
}

// FromCentralConfig loads the keys named in cfg and builds a Manager.
func FromCentralConfig(c config.PasetoConfig) (*Manager, error) {
	mode := Mode(c.Mode)
	keys, err := LoadKeys(KeyStrings{
		Mode:         mode,
		SymmetricHex: c.LocalKeyHex,
		SecretHex:    c.SecretKeyHex,
		PublicHex:    c.PublicKeyHex,
	})
	if err != nil {
		return nil, err
	}
	return New(Config{
		Mode:       mode,
		Issuer:     c.Issuer,
		Audience:   c.Audience,
		AccessTTL:  time.Duration(c.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(c.RefreshTTLDays) * 24 * time.Hour,
	}, keys)
}

// WithClock overrides the time source used for issuing and validating.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) AccessTTL() time.Duration  { return m.cfg.AccessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.cfg.RefreshTTL }

func (m *Manager) IssueAccess(userID, sessionID uuid.UUID) (string, time.Time, error) {
	return m.issue(TokenTypeAccess, userID, sessionID, m.cfg.AccessTTL)
}

func (m *Manager) IssueRefresh(userID, sessionID uuid.UUID) (string, time.Time, error) {
	return m.issue(TokenTypeRefresh, userID, sessionID, m.cfg.RefreshTTL)
}

// VerifyAs is Verify plus a token type check.
func (m *Manager) VerifyAs(tokenStr string, want TokenType) (*Claims, error) {
	claims, err := m.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrWrongType
	}
	return claims, nil
}

// Verify checks the token's key and its issuer, audience and validity
// window.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	p := paseto.NewParserWithoutExpiryCheck()
	p.AddRule(paseto.IssuedBy(m.cfg.Issuer))
	p.AddRule(paseto.ForAudience(m.cfg.Audience))
	p.AddRule(paseto.ValidAt(m.now()))

	var (
		tok *paseto.Token
		err error
	)
	switch m.cfg.Mode {
	case ModeLocal:
		tok, err = p.ParseV4Local(*m.keys.Symmetric, tokenStr, nil)
	case ModePublic:
		tok, err = p.ParseV4Public(*m.keys.Public, tokenStr, nil)
	default:
		return nil, configErr("unknown mode")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, err := extractClaims(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (m *Manager) issue(tt TokenType, userID, sessionID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	if !m.keys.CanIssue() {
		return "", time.Time{}, configErr("keys are verify-only")
	}
	now := m.now()
	exp := now.Add(ttl)

	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetJti(randHex(16))
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(exp)
	tok.SetSubject(userID.String())
	tok.SetString("typ", string(tt))
	tok.SetString("sid", sessionID.String())

	switch m.cfg.Mode {
	case ModeLocal:
		return tok.V4Encrypt(*m.keys.Symmetric, nil), exp, nil
	case ModePublic:
		return tok.V4Sign(*m.keys.Secret, nil), exp, nil
	default:
		return "", time.Time{}, configErr("unknown mode")
	}
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func extractClaims(tok *paseto.Token) (*Claims, error) {
	jti, err := tok.GetJti()
	if err != nil {
		return nil, err
	}
	sub, err := tok.GetSubject()
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, err
	}
	exp, err := tok.GetExpiration()
	if err != nil {
		return nil, err
	}
	typ, err := tok.GetString("typ")
	if err != nil {
		return nil, err
	}
	sid, err := tok.GetString("sid")
	if err != nil {
		return nil, err
	}
	sessionID, err := uuid.Parse(sid)
	if err != nil {
		return nil, err
	}

	return &Claims{
		Type:      TokenType(typ),
		UserID:    userID,
		SessionID: sessionID,
		TokenID:   jti,
		ExpiresAt: exp,
	}, nil
}
