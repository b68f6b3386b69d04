package errno

const (
	StatusOK           = 10000
	StatusTokenFreshed = 10001
)

const (
	TokenEmpty = 40000 + iota
	AccessTokenExpired
	RefreshTokenExpired
	InvalidToken
)

const (
	InternalError = 50000 + iota
	InvalidParam
	SessionNotFound
	SessionForbidden
	SessionBusy
	EmptyCart
	TryOnUnavailable
)
