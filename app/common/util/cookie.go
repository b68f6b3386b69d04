package util

import (
	"net/http"

	"ShopAssistant/app/common/consts/biz"
)

const SessionCookie = "assistant_session"

// 会话 id 写入 cookie，浏览器端无需自己保存
func SetSessionCookie(w http.ResponseWriter, sessionID string) {
	if sessionID == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(biz.SessionTTL.Seconds()),
	})
}

func SessionIdFromCookie(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
