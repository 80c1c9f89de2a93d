package system

import (
	"fmt"

	"github.com/spf13/cobra"

	pasetotoken "github.com/Alijeyrad/vitum_backend/pkg/paseto"
)

func NewGenKeyCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate PASETO key material for the auth.paseto config block",
		RunE: func(cmd *cobra.Command, args []string) error {
			var keys pasetotoken.Keys
			switch pasetotoken.Mode(mode) {
			case pasetotoken.ModeLocal:
				keys = pasetotoken.NewLocalKeys()
			case pasetotoken.ModePublic:
				keys = pasetotoken.NewPublicKeys()
			default:
				return fmt.Errorf("unknown mode %q (want local or public)", mode)
			}

			hex := keys.Hex()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode: %s\n", hex.Mode)
			if hex.SymmetricHex != "" {
				fmt.Fprintf(out, "local_key_hex: %s\n", hex.SymmetricHex)
			}
			if hex.SecretHex != "" {
				fmt.Fprintf(out, "secret_key_hex: %s\n", hex.SecretHex)
				fmt.Fprintf(out, "public_key_hex: %s\n", hex.PublicHex)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(pasetotoken.ModeLocal), "Key mode: local or public")

	return cmd
}
