package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

// TokenCookieName 是登录服务写入令牌的 cookie 名称，本服务只负责校验
const TokenCookieName = "__shift_schedule_token"

var (
	errNoToken      = errors.New("用户未登录")
	errInvalidToken = errors.New("无效的令牌")
)

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// tokenFromRequest 优先读取 cookie，其次读取 Authorization: Bearer 头
func tokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token), nil
	}

	return "", errNoToken
}

func (h *Handler) parseToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errInvalidToken
	}

	switch domain.Role(claims.Role) {
	case domain.RoleAdmin, domain.RoleUser:
	default:
		return nil, errInvalidToken
	}

	return claims, nil
}
