package response

import (
	"context"
	"errors"
	"net/http"

	"ShopAssistant/app/common/consts/errno"

	"github.com/zeromicro/go-zero/rest/httpx"
	xerrors "github.com/zeromicro/x/errors"
)

type Response struct {
	StatusCode int    `json:"code"`
	StatusMsg  string `json:"msg"`
}

type ResponseWithData struct {
	StatusCode int         `json:"code"`
	StatusMsg  string      `json:"msg"`
	Data       interface{} `json:"data"`
}

func NewResponse(statusCode int, statusMsg string) Response {
	return Response{
		StatusCode: statusCode,
		StatusMsg:  statusMsg,
	}
}

func NewResponseWithData(statusCode int, statusMsg string, data interface{}) ResponseWithData {
	return ResponseWithData{
		StatusCode: statusCode,
		StatusMsg:  statusMsg,
		Data:       data,
	}
}

func Ok(ctx context.Context, w http.ResponseWriter, data interface{}) {
	httpx.OkJsonCtx(ctx, w, NewResponseWithData(errno.StatusOK, "ok", data))
}

// ErrorHandler maps coded errors onto the response envelope; register with httpx.SetErrorHandlerCtx.
func ErrorHandler(_ context.Context, err error) (int, any) {
	var codeMsg *xerrors.CodeMsg
	if errors.As(err, &codeMsg) {
		return http.StatusOK, NewResponse(codeMsg.Code, codeMsg.Msg)
	}
	return http.StatusInternalServerError, NewResponse(errno.InternalError, "internal error")
}
