package middleware

import (
	"errors"
	"net/http"
	"strings"

	"ShopAssistant/app/common/consts/biz"
	"ShopAssistant/app/common/consts/errno"
	"ShopAssistant/app/common/util"

	"github.com/golang-jwt/jwt/v4"
	"github.com/zeromicro/go-zero/rest/httpx"
	xerrors "github.com/zeromicro/x/errors"
)

type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates access tokens issued by the account service.
// With an empty secret every caller is treated as anonymous.
type AuthMiddleware struct {
	secret   string
	required bool
}

func NewAuthMiddleware(secret string, required bool) *AuthMiddleware {
	return &AuthMiddleware{
		secret:   secret,
		required: required,
	}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			next(w, r)
			return
		}

		accessToken := tokenFromRequest(r)
		if accessToken == "" {
			if m.required {
				httpx.ErrorCtx(r.Context(), w, xerrors.New(errno.TokenEmpty, "token is null"))
				return
			}
			next(w, r)
			return
		}

		claims, err := ParseToken(accessToken, m.secret)
		if err != nil {
			code := errno.InvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				code = errno.AccessTokenExpired
			}
			httpx.ErrorCtx(r.Context(), w, xerrors.New(code, err.Error()))
			return
		}

		util.InjectUserId2Ctx(r, claims.UserID)
		next(w, r)
	}
}

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie(biz.ACCESSTOKEN); err == nil {
		return cookie.Value
	}
	return r.Header.Get(biz.ACCESSTOKEN)
}

func ParseToken(tokenStr, secret string) (*Claims, error) {
	if tokenStr == "" {
		return nil, errors.New("token is empty")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
