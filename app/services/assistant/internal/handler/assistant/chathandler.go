package assistant

import (
	"net/http"

	"ShopAssistant/app/common/response"
	"ShopAssistant/app/common/util"
	"ShopAssistant/app/services/assistant/internal/logic/assistant"
	"ShopAssistant/app/services/assistant/internal/svc"
	"ShopAssistant/app/services/assistant/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func ChatHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		if req.SessionId == "" {
			req.SessionId = util.SessionIdFromCookie(r)
		}

		l := assistant.NewChatLogic(r.Context(), svcCtx)
		resp, err := l.Chat(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			util.SetSessionCookie(w, resp.SessionId)
			response.Ok(r.Context(), w, resp)
		}
	}
}
