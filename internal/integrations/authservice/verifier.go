// Package authservice проверяет сессионные токены, выпущенные внешним auth
// сервисом. Сессии это HS256 JWT, subject которых это id пользователя; этот
// сервис токены не выпускает, только проверяет
package authservice

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken возвращается для битых, неподписанных или неверно подписанных токенов
	ErrInvalidToken = errors.New("authservice: invalid session token")

	// ErrExpiredToken возвращается, когда срок действия токена истёк
	ErrExpiredToken = errors.New("authservice: session token expired")
)

// Verifier проверяет сессионные JWT по общему секрету
type Verifier struct {
	secret []byte
}

// NewVerifier создает новый экземпляр верификатора
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify парсит и валидирует токен, возвращает id пользователя сессии
func (v *Verifier) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
