package errors

import "net/http"

// 코드 → HTTP 상태 매핑 테이블
var codeMapping = map[string]int{
	ErrInternal:         http.StatusInternalServerError,
	ErrNotFound:         http.StatusNotFound,
	ErrInvalidArgument:  http.StatusBadRequest,
	ErrProvider:         http.StatusInternalServerError,
	ErrWebhookSignature: http.StatusBadRequest,
}

// GetCodeMapping은 특정 에러 코드에 대한 HTTP 상태 코드를 반환합니다
func GetCodeMapping(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError // 기본값으로 Internal Server Error
}
