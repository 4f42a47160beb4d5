package basehdl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ok_insight/internal/common"
	"ok_insight/internal/okapi"
)

// callHandleResponse dựng app một route gọi HandleResponse với lỗi cho trước
// và trả về response cùng payload đã decode
func callHandleResponse(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()

	app := fiber.New()
	app.Get("/t", func(c fiber.Ctx) error {
		HandleResponse(c, nil, err)
		return nil
	})

	resp, testErr := app.Test(httptest.NewRequest("GET", "/t", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp.StatusCode, payload
}

// TestHandleResponseUpstreamErrors kiểm tra lỗi từ tầng okapi được trả về
// với mã phân loại upstream và status 502, không rơi vào nhánh lỗi hệ thống
func TestHandleResponseUpstreamErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"OK API trả mã lỗi nghiệp vụ", &okapi.ApiError{Code: 102, Message: "SESSION EXPIRED"}, "API_001"},
		{"lỗi HTTP/mạng", &okapi.TransportError{StatusCode: 502}, "NET_001"},
		{"body không đúng envelope", &okapi.ProtocolError{Message: "body không phải JSON hợp lệ"}, "NET_002"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := callHandleResponse(t, tc.err)
			assert.Equal(t, common.StatusBadGateway, status)
			assert.Equal(t, tc.wantCode, payload["code"])
			assert.Equal(t, "error", payload["status"])
		})
	}
}

// TestHandleResponseWrappedUpstreamError kiểm tra lỗi okapi bị wrap vẫn được nhận diện
func TestHandleResponseWrappedUpstreamError(t *testing.T) {
	wrapped := fmt.Errorf("thu thập group thất bại: %w", &okapi.ApiError{Code: 5, Message: "x"})

	status, payload := callHandleResponse(t, wrapped)
	assert.Equal(t, common.StatusBadGateway, status)
	assert.Equal(t, "API_001", payload["code"])
}

// TestHandleResponseCustomError kiểm tra *common.Error giữ nguyên mã và status
func TestHandleResponseCustomError(t *testing.T) {
	err := common.NewError(common.ErrCodeValidationInput, "Dữ liệu không hợp lệ", common.StatusBadRequest, nil)

	status, payload := callHandleResponse(t, err)
	assert.Equal(t, common.StatusBadRequest, status)
	assert.Equal(t, "VAL_001", payload["code"])
}
