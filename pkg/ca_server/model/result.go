package model

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// OperationResult is the uniform outcome of every issuer operation.
// On failure Payload is empty and Message carries the diagnostic.
type OperationResult struct {
	Payload string // Base64 encoded PEM.
	Status  Status
	Message string
}

func Success(payload string) OperationResult {
	return OperationResult{
		Payload: payload,
		Status:  StatusSuccess,
		Message: string(StatusSuccess),
	}
}

func Failure(err error) OperationResult {
	return OperationResult{
		Status:  StatusFailure,
		Message: ErrToStatusMessage(err),
	}
}

func (r OperationResult) IsSuccess() bool {
	return r.Status == StatusSuccess
}

type SignRequest struct {
	CSRBase64 string `json:"csr_base64"` // Base64 encoded PEM CSR.
}

type SignResponse struct {
	SignedCertBase64 string `json:"signed_cert_base64"` // Signed certificate as PEM, base64 encoded.
	Status           Status `json:"status"`
	StatusMessage    string `json:"status_message"` // Diagnostic when Status is FAILURE.
}

type CACertResponse struct {
	CACertBase64  string `json:"ca_cert_base64"` // CA certificate as PEM, base64 encoded.
	Status        Status `json:"status"`
	StatusMessage string `json:"status_message"`
}

func NewSignResponse(result OperationResult) SignResponse {
	return SignResponse{
		SignedCertBase64: result.Payload,
		Status:           result.Status,
		StatusMessage:    result.Message,
	}
}

func NewCACertResponse(result OperationResult) CACertResponse {
	return CACertResponse{
		CACertBase64:  result.Payload,
		Status:        result.Status,
		StatusMessage: result.Message,
	}
}
