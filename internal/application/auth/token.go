package auth

import (
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenIssuer emite tokens de sesión firmados con la configuración de la app.
type TokenIssuer struct {
	cfg JWTConfig
}

// NewTokenIssuer construye el emisor de tokens.
func NewTokenIssuer(cfg JWTConfig) *TokenIssuer {
	if cfg.ExpMinutes <= 0 {
		cfg.ExpMinutes = 24 * 60
	}
	return &TokenIssuer{cfg: cfg}
}

// Issue genera un JWT con el id y el rol del usuario.
func (t *TokenIssuer) Issue(u *entity.User) (string, error) {
	return jwt.Generate(t.cfg.Secret, u.ID, u.Role.String(), t.cfg.Issuer, t.cfg.ExpMinutes)
}
