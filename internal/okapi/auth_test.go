package okapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ok_insight/config"
)

func newTestConfig() *config.Configuration {
	return &config.Configuration{
		OkRu_ClientID:     "CLIENT",
		OkRu_ClientSecret: "CS",
		OkRu_PublicKey:    "APPKEY",
	}
}

// TestAuthApplicationKey kiểm tra fallback của application_key
func TestAuthApplicationKey(t *testing.T) {
	cfg := newTestConfig()
	auth := NewAuth(cfg)
	assert.Equal(t, "APPKEY", auth.ApplicationKey(), "Phải ưu tiên public key")

	cfg.OkRu_PublicKey = ""
	auth = NewAuth(cfg)
	assert.Equal(t, "CLIENT", auth.ApplicationKey(), "Không có public key thì fallback về client id")
}

// TestAuthSign kiểm tra chữ ký MD5 với cả ba nhánh chọn secret
func TestAuthSign(t *testing.T) {
	params := map[string]string{
		"application_key": "APPKEY",
		"method":          "group.getInfo",
		"format":          "json",
	}

	t.Run("session_secret_key được dùng trực tiếp", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.OkRu_SessionSecretKey = "SSK"
		auth := NewAuth(cfg)
		assert.Equal(t, "ac1fc91344743b5ec2272fa2181e81fb", auth.Sign(params))
	})

	t.Run("session_key được băm với client_secret", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.OkRu_SessionKey = "SK"
		auth := NewAuth(cfg)
		assert.Equal(t, "349efcb4704248e8cd7830ccc003ff4b", auth.Sign(params))
	})

	t.Run("access_token được băm với client_secret", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.OkRu_AccessToken = "AT"
		auth := NewAuth(cfg)
		assert.Equal(t, "3cbf54693c0d604fdc71d7ede69586de", auth.Sign(params))
	})

	t.Run("session_secret_key thắng session_key và access_token", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.OkRu_SessionSecretKey = "SSK"
		cfg.OkRu_SessionKey = "SK"
		cfg.OkRu_AccessToken = "AT"
		auth := NewAuth(cfg)
		assert.Equal(t, "ac1fc91344743b5ec2272fa2181e81fb", auth.Sign(params))
	})

	t.Run("chữ ký không phụ thuộc thứ tự param truyền vào", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.OkRu_SessionSecretKey = "SSK"
		auth := NewAuth(cfg)
		reordered := map[string]string{
			"format":          "json",
			"application_key": "APPKEY",
			"method":          "group.getInfo",
		}
		assert.Equal(t, auth.Sign(params), auth.Sign(reordered))
	})
}

// TestAuthSignParams kiểm tra việc gắn token phiên sau khi ký
func TestAuthSignParams(t *testing.T) {
	t.Run("session_key được gắn vào request nhưng không vào chuỗi ký", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.OkRu_SessionKey = "SK"
		auth := NewAuth(cfg)

		signed := auth.SignParams(map[string]string{"method": "group.getInfo", "format": "json"})
		assert.Equal(t, "SK", signed["session_key"])
		assert.Equal(t, "APPKEY", signed["application_key"])
		assert.Equal(t, "349efcb4704248e8cd7830ccc003ff4b", signed["sig"],
			"Chữ ký phải được tính trước khi gắn session_key")
	})

	t.Run("access_token chỉ được gắn khi không có session_key", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.OkRu_SessionKey = "SK"
		cfg.OkRu_AccessToken = "AT"
		auth := NewAuth(cfg)

		signed := auth.SignParams(map[string]string{"method": "group.getInfo", "format": "json"})
		assert.Equal(t, "SK", signed["session_key"])
		assert.NotContains(t, signed, "access_token")
	})

	t.Run("param gốc không bị sửa", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.OkRu_AccessToken = "AT"
		auth := NewAuth(cfg)

		original := map[string]string{"method": "group.getInfo"}
		auth.SignParams(original)
		assert.Len(t, original, 1, "SignParams phải làm việc trên bản sao")
	})
}
