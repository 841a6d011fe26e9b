package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// LogError는 에러를 구조화된 로그로 기록합니다.
// 코드가 4xx로 매핑되면 Warn, 그 외에는 Error 레벨을 사용합니다.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}

	code := CodeOf(err)
	allFields := make([]zap.Field, 0, len(fields)+2)
	allFields = append(allFields, zap.Error(err), zap.String("error_code", code))
	allFields = append(allFields, fields...)

	if ToHTTPStatus(code) < http.StatusInternalServerError {
		logger.Warn(msg, allFields...)
		return
	}
	logger.Error(msg, allFields...)
}
