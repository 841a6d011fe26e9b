package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCodeOf(t *testing.T) {
	base := NewAppError(ErrNotConnected, "회계 시스템이 연결되어 있지 않습니다", nil)

	assert.Equal(t, ErrNotConnected, CodeOf(base))
	assert.Equal(t, ErrNotConnected, CodeOf(fmt.Errorf("sync: %w", base)))
	assert.Equal(t, ErrNotConnected, CodeOf(Wrap(base, "동기화 실패")))
	assert.Equal(t, ErrInternal, CodeOf(New("plain")))
}

func TestGetCodeMapping(t *testing.T) {
	httpStatus, grpcCode := GetCodeMapping(ErrNotConnected)
	assert.Equal(t, http.StatusConflict, httpStatus)
	assert.Equal(t, codes.FailedPrecondition, grpcCode)

	httpStatus, grpcCode = GetCodeMapping("UNKNOWN_CODE")
	assert.Equal(t, http.StatusInternalServerError, httpStatus)
	assert.Equal(t, codes.Internal, grpcCode)
}

func TestJSON(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := JSON(c, NewAppError(ErrUpstreamFailed, "upstream unavailable", New("timeout")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"upstream unavailable","code":"UPSTREAM_FAILED"}`, rec.Body.String())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestLogErrorLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	LogError(logger, NewAppError(ErrNotConnected, "연결 없음", nil), "상태 조회 실패")
	LogError(logger, New("connection reset"), "동기화 실패")
	LogError(logger, nil, "무시됨")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, ErrNotConnected, entries[0].ContextMap()["error_code"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, ErrInternal, entries[1].ContextMap()["error_code"])
}

func TestToGRPCError(t *testing.T) {
	assert.NoError(t, ToGRPCError(nil))

	err := ToGRPCError(fmt.Errorf("sync: %w", NewAppError(ErrNotConnected, "회계 시스템이 연결되어 있지 않습니다", New("no credential"))))
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.FailedPrecondition, st.Code())
	assert.Equal(t, "회계 시스템이 연결되어 있지 않습니다", st.Message())

	st, _ = status.FromError(ToGRPCError(New("boom")))
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "boom", st.Message())

	original := status.Error(codes.NotFound, "missing")
	assert.Equal(t, original, ToGRPCError(original))
}
