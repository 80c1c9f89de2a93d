package pasetotoken

import "errors"

var (
	// ErrInvalidToken covers bad encoding, wrong key, expiry and claim
	// rule failures. The parser's reason is wrapped for logging.
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongType    = errors.New("unexpected token type")
)

type ConfigError struct{ Msg string }

func (e *ConfigError) Error() string { return "paseto config: " + e.Msg }

func configErr(msg string) error { return &ConfigError{Msg: msg} }
