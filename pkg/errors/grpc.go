package errors

import (
	"google.golang.org/grpc/status"
)

// ToGRPCError는 AppError를 매핑된 gRPC 상태 에러로 바꿉니다.
// 이미 gRPC 상태를 가진 에러와 nil은 그대로 반환합니다.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := CodeOf(err)
	_, grpcCode := GetCodeMapping(code)

	message := err.Error()
	var appErr *AppError
	if As(err, &appErr) {
		message = appErr.Message()
	}
	return status.Error(grpcCode, message)
}
