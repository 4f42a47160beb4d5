package okapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ok_insight/internal/common"
)

// newTestClient tạo client trỏ vào httptest server, tắt rate limit
func newTestClient(serverURL string) *Client {
	cfg := newTestConfig()
	cfg.OkRu_AccessToken = "AT"
	return NewClientWith(NewAuth(cfg), serverURL, NewClockGate(0), nil)
}

// TestClientCall kiểm tra phân loại lỗi của tầng transport
func TestClientCall(t *testing.T) {
	ctx := context.Background()

	t.Run("request được ký và gửi dạng form", func(t *testing.T) {
		var gotMethod, gotFormat, gotSig, gotToken string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotMethod = r.PostForm.Get("method")
			gotFormat = r.PostForm.Get("format")
			gotSig = r.PostForm.Get("sig")
			gotToken = r.PostForm.Get("access_token")
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Call(ctx, "group.getInfo", map[string]string{"uids": "123"})
		assert.NoError(t, err)
		assert.Equal(t, "group.getInfo", gotMethod)
		assert.Equal(t, "json", gotFormat)
		assert.NotEmpty(t, gotSig, "Request phải có chữ ký")
		assert.Equal(t, "AT", gotToken)
	})

	t.Run("error_code trong envelope trả về ApiError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error_code": 102, "error_msg": "PARAM_SESSION_EXPIRED"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Call(ctx, "group.getInfo", nil)
		var apiErr *ApiError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 102, apiErr.Code)
		assert.Equal(t, "PARAM_SESSION_EXPIRED", apiErr.Message)
	})

	t.Run("status ngoài 2xx trả về TransportError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Call(ctx, "group.getInfo", nil)
		var trErr *TransportError
		require.ErrorAs(t, err, &trErr)
		assert.Equal(t, http.StatusBadGateway, trErr.StatusCode)
	})

	t.Run("server không kết nối được trả về TransportError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // đóng ngay để connection bị từ chối

		_, err := newTestClient(server.URL).Call(ctx, "group.getInfo", nil)
		var trErr *TransportError
		assert.ErrorAs(t, err, &trErr)
	})

	t.Run("body không phải JSON trả về ProtocolError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway error</html>`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Call(ctx, "group.getInfo", nil)
		var prErr *ProtocolError
		assert.ErrorAs(t, err, &prErr)
	})

	t.Run("JSON null trả về nil không lỗi", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		}))
		defer server.Close()

		data, err := newTestClient(server.URL).Call(ctx, "discussions.getComments", nil)
		assert.NoError(t, err)
		assert.Nil(t, data)
	})
}

// TestClientRateLimit kiểm tra client tôn trọng giãn cách giữa các request
func TestClientRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	delay := 30 * time.Millisecond
	cfg := newTestConfig()
	cfg.OkRu_AccessToken = "AT"
	client := NewClientWith(NewAuth(cfg), server.URL, NewClockGate(delay), nil)

	ctx := context.Background()
	requests := 3
	start := time.Now()
	for i := 0; i < requests; i++ {
		_, err := client.Call(ctx, "group.getInfo", nil)
		require.NoError(t, err)
	}

	minElapsed := time.Duration(requests-1) * delay
	assert.GreaterOrEqual(t, time.Since(start), minElapsed)
}

// TestGetGroupInfo kiểm tra lấy thông tin group
func TestGetGroupInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("response dạng mảng lấy phần tử đầu", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "12345", r.PostForm.Get("uids"))
			assert.Equal(t, DefaultGroupFields, r.PostForm.Get("fields"))
			w.Write([]byte(`[{"uid": "12345", "name": "Test Group", "members_count": 99}]`))
		}))
		defer server.Close()

		info, err := newTestClient(server.URL).GetGroupInfo(ctx, "12345", "")
		require.NoError(t, err)
		assert.Equal(t, "Test Group", info["name"])
	})

	t.Run("response null trả về lỗi not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetGroupInfo(ctx, "12345", "")
		var cErr *common.Error
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, common.StatusNotFound, cErr.StatusCode)
		assert.Equal(t, common.ErrCodeBusinessNotFound, cErr.Code)
	})

	t.Run("group id không phải số bị chặn trước khi gọi mạng", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetGroupInfo(ctx, "abc123", "")
		var cErr *common.Error
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, common.StatusBadRequest, cErr.StatusCode)
		assert.False(t, called, "Không được gọi mạng khi input không hợp lệ")
	})
}

// TestGetDiscussions kiểm tra lấy danh sách discussion với các dạng response khác nhau
func TestGetDiscussions(t *testing.T) {
	ctx := context.Background()

	t.Run("danh sách dưới key discussions", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "12345", r.PostForm.Get("gid"))
			assert.Equal(t, "100", r.PostForm.Get("count"))
			w.Write([]byte(`{"discussions": [{"object_id": "1"}, {"object_id": "2"}]}`))
		}))
		defer server.Close()

		ds, err := newTestClient(server.URL).GetDiscussions(ctx, "12345", 100, 0)
		require.NoError(t, err)
		assert.Len(t, ds, 2)
	})

	t.Run("danh sách dưới key topics", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"topics": [{"object_id": "1"}]}`))
		}))
		defer server.Close()

		ds, err := newTestClient(server.URL).GetDiscussions(ctx, "12345", 100, 0)
		require.NoError(t, err)
		assert.Len(t, ds, 1)
	})

	t.Run("body là mảng trực tiếp", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"object_id": "1"}, null, {"object_id": "2"}]`))
		}))
		defer server.Close()

		ds, err := newTestClient(server.URL).GetDiscussions(ctx, "12345", 100, 0)
		require.NoError(t, err)
		assert.Len(t, ds, 2, "Phần tử null phải bị bỏ qua")
	})

	t.Run("response null trả về danh sách rỗng", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		}))
		defer server.Close()

		ds, err := newTestClient(server.URL).GetDiscussions(ctx, "12345", 100, 0)
		assert.NoError(t, err)
		assert.Empty(t, ds)
	})

	t.Run("count ngoài dải 1..1000 bị chặn", func(t *testing.T) {
		client := newTestClient("http://unused.invalid")
		_, err := client.GetDiscussions(ctx, "12345", 0, 0)
		assert.Error(t, err)
		_, err = client.GetDiscussions(ctx, "12345", 1001, 0)
		assert.Error(t, err)
		_, err = client.GetDiscussions(ctx, "12345", 100, -1)
		assert.Error(t, err)
	})
}

// TestGetComments kiểm tra lấy comment của discussion
func TestGetComments(t *testing.T) {
	ctx := context.Background()

	t.Run("comments được lấy từ envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "999", r.PostForm.Get("discussionId"))
			assert.Equal(t, "GROUP_TOPIC", r.PostForm.Get("discussionType"))
			assert.Equal(t, "LAST", r.PostForm.Get("order"))
			w.Write([]byte(`{"comments": [{"id": "c1", "text": "hello"}], "has_more": false}`))
		}))
		defer server.Close()

		cs, err := newTestClient(server.URL).GetComments(ctx, "999", "", 100, 0, "")
		require.NoError(t, err)
		require.Len(t, cs, 1)
		assert.Equal(t, "hello", cs[0]["text"])
	})

	t.Run("discussion id rỗng bị chặn", func(t *testing.T) {
		_, err := newTestClient("http://unused.invalid").GetComments(ctx, "  ", "", 100, 0, "")
		var cErr *common.Error
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, common.StatusBadRequest, cErr.StatusCode)
	})

	t.Run("response null trả về danh sách rỗng", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		}))
		defer server.Close()

		cs, err := newTestClient(server.URL).GetComments(ctx, "999", "", 100, 0, "")
		assert.NoError(t, err)
		assert.Empty(t, cs)
	})
}

// TestGetUsersInfo kiểm tra lấy thông tin user hàng loạt
func TestGetUsersInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("kết quả được key theo uid, id không phải số bị loại", func(t *testing.T) {
		var gotUids string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotUids = r.PostForm.Get("uids")
			w.Write([]byte(`[{"uid": "1", "name": "Anna"}, {"uid": "2", "first_name": "Boris"}]`))
		}))
		defer server.Close()

		users, err := newTestClient(server.URL).GetUsersInfo(ctx, []string{"1", "abc", "2", ""})
		require.NoError(t, err)
		assert.Equal(t, "1,2", gotUids)
		assert.Len(t, users, 2)
		assert.Equal(t, "Anna", users["1"]["name"])
	})

	t.Run("danh sách rỗng không gọi mạng", func(t *testing.T) {
		users, err := newTestClient("http://unused.invalid").GetUsersInfo(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, users)

		users, err = newTestClient("http://unused.invalid").GetUsersInfo(ctx, []string{"abc", " "})
		assert.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("quá 100 uid bị cắt còn 100", func(t *testing.T) {
		var gotCount int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotCount = len(strings.Split(r.PostForm.Get("uids"), ","))
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		ids := make([]string, 150)
		for i := range ids {
			ids[i] = "1000" + strconv.Itoa(i)
		}
		_, err := newTestClient(server.URL).GetUsersInfo(ctx, ids)
		require.NoError(t, err)
		assert.Equal(t, MaxUsersPerGet, gotCount)
	})
}
