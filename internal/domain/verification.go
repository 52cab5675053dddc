package domain

// Status is the verdict of a single initData validation.
type Status string

const (
	StatusValid            Status = "valid"
	StatusInvalid          Status = "invalid"
	StatusMissingPayload   Status = "missing_payload"
	StatusMissingSignature Status = "missing_signature"
)

// VerificationResult is returned by the validator. User is only populated
// when Status is StatusValid.
type VerificationResult struct {
	Status Status
	User   UserRecord
}

func (r VerificationResult) OK() bool {
	return r.Status == StatusValid
}

const (
	ResponseSuccess = "success"
	ResponseError   = "error"
)

// Response is the JSON envelope sent back to the mini-app client over HTTP
// and WebSocket.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	User    *UserRecord `json:"user,omitempty"`
}

// Messages holds the client-facing text for every verdict.
type Messages struct {
	Valid       string
	Invalid     string
	MissingData string
	MissingHash string
}

// NewResponse maps a verdict onto the wire envelope.
func NewResponse(res VerificationResult, msg Messages) Response {
	switch res.Status {
	case StatusValid:
		user := res.User
		return Response{Status: ResponseSuccess, Message: msg.Valid, User: &user}
	case StatusMissingPayload:
		return Response{Status: ResponseError, Message: msg.MissingData}
	case StatusMissingSignature:
		return Response{Status: ResponseError, Message: msg.MissingHash}
	default:
		return Response{Status: ResponseError, Message: msg.Invalid}
	}
}

// ErrorResponse is an error envelope with an arbitrary message.
func ErrorResponse(message string) Response {
	return Response{Status: ResponseError, Message: message}
}

// VerifyRequest is the body a mini-app posts. init_data is accepted as an
// alias of initData.
type VerifyRequest struct {
	InitData      string `json:"initData"`
	InitDataSnake string `json:"init_data"`
}

// Payload returns the raw initData carried by the request.
func (r VerifyRequest) Payload() string {
	if r.InitData != "" {
		return r.InitData
	}
	return r.InitDataSnake
}
