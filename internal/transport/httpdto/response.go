package httpdto

// Response is the envelope every REST endpoint returns. Data is set on
// success; Error carries a human-readable description and Code a stable
// machine-readable identifier on failure.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{Success: true, Data: data}
}

func NewErrorResponse(msg, code string) Response[any] {
	return Response[any]{Error: msg, Code: code}
}
