package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет claims JWT токена.
// Токен несёт только имя пользователя, остальные атрибуты перечитываются из БД.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager управляет JWT токенами с использованием HS256
type Manager struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Config конфигурация для JWT Manager
type Config struct {
	// Key секрет для подписи HMAC
	Key string
	// Issuer issuer токена (обычно название сервиса)
	Issuer string
	// TTL время жизни токена
	TTL time.Duration
}

// NewManager создаёт новый JWT Manager
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("%w: signing key is required", ErrMissingKey)
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "picshare"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 30 * time.Minute
	}

	return &Manager{
		key:    []byte(cfg.Key),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

// Sign создаёт новый JWT токен для пользователя
func (m *Manager) Sign(username string) (string, error) {
	if username == "" {
		return "", ErrMissingSubject
	}

	now := m.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

// Validate проверяет и парсит JWT токен
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверка алгоритма подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: expected HS256, got %v", ErrInvalidSigningMethod, token.Header["alg"])
		}
		return m.key, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims type", ErrInvalidToken)
	}

	if claims.Username == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingSubject)
	}

	return claims, nil
}

// ParseUsername проверяет токен и возвращает имя пользователя из claims
func (m *Manager) ParseUsername(tokenString string) (string, error) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
