package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/gestion-api/pkg/config"
	"github.com/jhoicas/gestion-api/pkg/jwt"
)

// newTokenCmd emite un JWT para pruebas contra la API. Sin --secret usa JWT_SECRET.
func newTokenCmd() *cobra.Command {
	var (
		userID, companyID, role, secret string
		minutes                         int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un token JWT de acceso",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer := "gestion-api"
			if secret == "" || minutes <= 0 {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("config: %w", err)
				}
				if secret == "" {
					secret = cfg.JWT.Secret
				}
				if minutes <= 0 {
					minutes = cfg.JWT.Expiration
				}
				issuer = cfg.JWT.Issuer
			}
			switch role {
			case jwt.RoleAdmin, jwt.RoleManager, jwt.RoleViewer:
			default:
				return fmt.Errorf("--role: debe ser %s, %s o %s", jwt.RoleAdmin, jwt.RoleManager, jwt.RoleViewer)
			}
			tok, err := jwt.Generate(secret, userID, companyID, role, issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&userID, "user", "", "ID del usuario gestor")
	f.StringVar(&companyID, "company", "", "ID de la empresa")
	f.StringVar(&role, "role", jwt.RoleAdmin, "rol: admin, gestor o lectura")
	f.StringVar(&secret, "secret", "", "secreto HMAC (por defecto JWT_SECRET)")
	f.IntVar(&minutes, "minutes", 0, "validez en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
