package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 请求错误 400xx
	ErrInvalidID    = 40001
	ErrInvalidParam = 40002
	ErrValidation   = 42201

	// 认证错误 401xx
	ErrUnauthorized = 40101

	// 资源错误 404xx / 409xx
	ErrNotFound = 40401
	ErrConflict = 40901

	// 系统错误 500xx
	ErrServerInternal   = 50001
	ErrStoreUnavailable = 50301
)
