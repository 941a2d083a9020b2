package main

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"support-system/internal/ticketlist"
	"support-system/pkg/service"
)

var errNoToken = errors.New("falta el token de acceso (--token o SUPPORT_API_TOKEN)")

// sessionFromToken читает пользователя и роль из токена без проверки
// подписи: подпись проверяет сервер, клиенту нужна только роль для
// отрисовки действий.
func sessionFromToken(token string) (ticketlist.Session, error) {
	if token == "" {
		return ticketlist.Session{}, errNoToken
	}
	claims := &service.JwtCustomClaim{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ticketlist.Session{}, fmt.Errorf("token no válido: %w", err)
	}
	if claims.UserID == "" || claims.Role == "" {
		return ticketlist.Session{}, errors.New("el token no contiene usuario o rol")
	}
	return ticketlist.Session{UserID: claims.UserID, Role: ticketlist.Role(claims.Role)}, nil
}
