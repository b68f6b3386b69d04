package assistant

import (
	"net/http"

	"ShopAssistant/app/common/response"
	"ShopAssistant/app/services/assistant/internal/logic/assistant"
	"ShopAssistant/app/services/assistant/internal/svc"
	"ShopAssistant/app/services/assistant/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func GetSessionHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SessionRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := assistant.NewGetSessionLogic(r.Context(), svcCtx)
		resp, err := l.GetSession(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			response.Ok(r.Context(), w, resp)
		}
	}
}
