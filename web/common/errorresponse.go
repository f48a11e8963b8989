package common

const (
	CodeInvalidRequest     = "InvalidRequest"
	CodeMissingField       = "MissingField"
	CodeInvalidField       = "InvalidField"
	CodeUnauthenticated    = "Unauthenticated"
	CodeUnauthorized       = "Unauthorized"
	CodeNotFound           = "NotFound"
	CodeServerError        = "ServerError"
	CodeRateLimited        = "RateLimited"
	CodePayloadTooLarge    = "PayloadTooLarge"
	CodeSelfDelete         = "SelfDelete"
	CodeUsernameTaken      = "UsernameTaken"
	CodeInvalidCredentials = "InvalidCredentials"
	CodeInactive           = "Inactive"
)

type ErrorResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"error"`
	ErrorCode string      `json:"errorCode,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func NewCodedErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Message:   message,
		ErrorCode: code,
	}
}

func (r *ErrorResponse) WithDetails(details interface{}) *ErrorResponse {
	r.Details = details
	return r
}
