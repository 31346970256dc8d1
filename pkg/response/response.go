package response

// JSONResponse is the envelope used by middleware for error replies.
type JSONResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Error(code, message string, data any) JSONResponse {
	return JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func Success(message string, data any) JSONResponse {
	return JSONResponse{
		Code:    "OK",
		Message: message,
		Data:    data,
	}
}
