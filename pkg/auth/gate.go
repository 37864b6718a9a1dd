// Package auth protege la edición de la configuración con la contraseña de administración.
// Igual que el bloqueo del quiz, no es una frontera de seguridad.
package auth

import (
	"crypto/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const subject = "admin"

var (
	ErrInvalidPassword = errors.New("contraseña incorrecta")
	ErrTooManyAttempts = errors.New("demasiados intentos, espera un momento")
	ErrInvalidToken    = errors.New("token inválido o expirado")
)

// Options configuración del acceso de administración
type Options struct {
	// Password texto plano, se hashea al crear el Gate si no hay PasswordHash
	Password     string
	PasswordHash string
	// JWTSecret vacío genera un secreto aleatorio (los tokens no sobreviven reinicios)
	JWTSecret       string
	TokenTTL        time.Duration
	LoginsPerMinute int
	Now             func() time.Time
}

// Gate valida la contraseña y emite/verifica tokens
type Gate struct {
	hash    []byte
	secret  []byte
	ttl     time.Duration
	limiter *rate.Limiter
	now     func() time.Time
}

func NewGate(opts Options) (*Gate, error) {
	hash := []byte(opts.PasswordHash)
	if len(hash) == 0 {
		if opts.Password == "" {
			return nil, errors.New("se requiere password o password_hash")
		}
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost); err != nil {
			return nil, errors.Wrap(err, "error hasheando contraseña")
		}
	}

	secret := []byte(opts.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, errors.Wrap(err, "error generando secreto")
		}
	}

	perMinute := opts.LoginsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Gate{
		hash:    hash,
		secret:  secret,
		ttl:     opts.TokenTTL,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		now:     now,
	}, nil
}

// Login verifica la contraseña y devuelve un token firmado
func (g *Gate) Login(password string) (string, time.Time, error) {
	if !g.limiter.AllowN(g.now(), 1) {
		return "", time.Time{}, ErrTooManyAttempts
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidPassword
	}

	issuedAt := g.now()
	expiresAt := issuedAt.Add(g.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "error firmando token")
	}
	return signed, expiresAt, nil
}

// Verify valida un token emitido por Login
func (g *Gate) Verify(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
		jwt.WithSubject(subject),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidToken, err.Error())
	}
	return nil
}
