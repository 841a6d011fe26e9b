package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus는 에러 코드를 HTTP 상태 코드로 변환합니다
func ToHTTPStatus(code string) int {
	httpStatus, _ := GetCodeMapping(code)
	return httpStatus
}

// JSON은 핸들러 공통 에러 응답 형식({"error", "code"})으로 에러를 씁니다.
// AppError가 아니면 상태 코드의 표준 문구만 내보냅니다.
func JSON(c echo.Context, err error) error {
	code := CodeOf(err)
	message := http.StatusText(ToHTTPStatus(code))

	var appErr *AppError
	if As(err, &appErr) {
		message = appErr.Message()
	}

	return c.JSON(ToHTTPStatus(code), echo.Map{
		"error": message,
		"code":  code,
	})
}
