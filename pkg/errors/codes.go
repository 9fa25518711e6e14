package errors

// 공통 에러 코드 정의
const (
	// 일반적인 에러 코드
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"

	// 결제 제공자(Stripe) 관련 에러 코드
	ErrProvider         = "PROVIDER"
	ErrWebhookSignature = "WEBHOOK_SIGNATURE"
)
