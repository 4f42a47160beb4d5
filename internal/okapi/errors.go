package okapi

import "fmt"

// ApiError là lỗi nghiệp vụ do chính OK API trả về trong envelope JSON
// (có trường error_code / error_msg). Request đã đi qua mạng thành công.
type ApiError struct {
	Code    int    // Mã lỗi của OK API (ví dụ 102 = PARAM_SESSION_EXPIRED)
	Message string // Thông báo lỗi từ API
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("OK API error %d: %s", e.Code, e.Message)
}

// TransportError là lỗi tầng HTTP/mạng: không kết nối được, timeout,
// hoặc server trả về status code ngoài dải 2xx.
type TransportError struct {
	StatusCode int   // 0 nếu request không đi được đến server
	Err        error // Lỗi gốc từ http client (nếu có)
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("OK API transport error: %v", e.Err)
	}
	return fmt.Sprintf("OK API transport error: unexpected status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError là lỗi envelope: server trả về 2xx nhưng body không phải
// JSON hợp lệ theo format của fb.do.
type ProtocolError struct {
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("OK API protocol error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("OK API protocol error: %s", e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
