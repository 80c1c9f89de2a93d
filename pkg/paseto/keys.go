package pasetotoken

import (
	"fmt"
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	// ModeLocal encrypts with one shared key; every instance can issue.
	ModeLocal Mode = "local"
	// ModePublic signs; instances holding only the public key can verify.
	ModePublic Mode = "public"
)

type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey
	Secret    *paseto.V4AsymmetricSecretKey
	Public    *paseto.V4AsymmetricPublicKey
}

// KeyStrings is the hex form kept in config.
type KeyStrings struct {
	Mode Mode

	SymmetricHex string
	SecretHex    string
	PublicHex    string
}

func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		return loadLocal(strings.TrimSpace(in.SymmetricHex))
	case ModePublic:
		return loadPublic(strings.TrimSpace(in.SecretHex), strings.TrimSpace(in.PublicHex))
	default:
		return Keys{}, configErr(fmt.Sprintf("unknown mode %q, want local or public", in.Mode))
	}
}

func loadLocal(hex string) (Keys, error) {
	if hex == "" {
		return Keys{}, configErr("local mode needs local_key_hex")
	}
	k, err := paseto.V4SymmetricKeyFromHex(hex)
	if err != nil {
		return Keys{}, configErr("local_key_hex: " + err.Error())
	}
	return Keys{Mode: ModeLocal, Symmetric: &k}, nil
}

// loadPublic derives the public half from the secret when only the secret
// is configured. An explicit public key wins.
func loadPublic(secretHex, publicHex string) (Keys, error) {
	if secretHex == "" && publicHex == "" {
		return Keys{}, configErr("public mode needs secret_key_hex or public_key_hex")
	}

	out := Keys{Mode: ModePublic}
	if secretHex != "" {
		sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(secretHex)
		if err != nil {
			return Keys{}, configErr("secret_key_hex: " + err.Error())
		}
		pk := sk.Public()
		out.Secret, out.Public = &sk, &pk
	}
	if publicHex != "" {
		pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(publicHex)
		if err != nil {
			return Keys{}, configErr("public_key_hex: " + err.Error())
		}
		out.Public = &pk
	}
	return out, nil
}

// CanIssue reports whether these keys can mint tokens, not just check them.
func (k Keys) CanIssue() bool {
	if k.Mode == ModeLocal {
		return k.Symmetric != nil
	}
	return k.Secret != nil
}

func (k Keys) Hex() KeyStrings {
	out := KeyStrings{Mode: k.Mode}
	if k.Symmetric != nil {
		out.SymmetricHex = k.Symmetric.ExportHex()
	}
	if k.Secret != nil {
		out.SecretHex = k.Secret.ExportHex()
	}
	if k.Public != nil {
		out.PublicHex = k.Public.ExportHex()
	}
	return out
}

func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
