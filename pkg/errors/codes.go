package errors

// 공통 에러 코드
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
)

// 외부 회계 연동 코드
const (
	ErrNotConnected   = "NOT_CONNECTED"
	ErrUpstreamFailed = "UPSTREAM_FAILED"

	// ErrSyncFailed는 시도한 모든 인보이스가 실패한 배치 동기화입니다
	ErrSyncFailed = "SYNC_FAILED"
)
