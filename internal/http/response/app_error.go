package response

// AppError 携带 HTTP 状态码与对外消息，Err 仅用于日志
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsServerError 5xx 视为服务端故障（LLM 上游、账本、存储）
func (e *AppError) IsServerError() bool {
	return e.Code >= CodeInternal
}

// WrapError 非 4xx/5xx 的状态码一律按 500 处理
func WrapError(code int, message string, err error) *AppError {
	if code < CodeBadRequest || code > 599 {
		code = CodeInternal
	}
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
