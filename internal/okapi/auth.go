package okapi

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"

	"ok_insight/config"
)

// Auth giữ credential và thực hiện ký request theo scheme của api.ok.ru.
// Mọi request gửi lên fb.do đều phải kèm application_key và chữ ký sig
// tính bằng MD5 trên toàn bộ tham số đã sắp xếp.
type Auth struct {
	clientID         string
	clientSecret     string
	accessToken      string
	publicKey        string
	sessionKey       string
	sessionSecretKey string
}

// NewAuth khởi tạo Auth từ cấu hình ứng dụng
func NewAuth(c *config.Configuration) *Auth {
	return &Auth{
		clientID:         c.OkRu_ClientID,
		clientSecret:     c.OkRu_ClientSecret,
		accessToken:      c.OkRu_AccessToken,
		publicKey:        c.OkRu_PublicKey,
		sessionKey:       c.OkRu_SessionKey,
		sessionSecretKey: c.OkRu_SessionSecretKey,
	}
}

// ApplicationKey trả về public key của ứng dụng, fallback về client id nếu không có
func (a *Auth) ApplicationKey() string {
	if a.publicKey != "" {
		return a.publicKey
	}
	return a.clientID
}

// secretKey chọn secret dùng để ký theo thứ tự ưu tiên:
// session_secret_key có sẵn > md5(session_key + client_secret) > md5(access_token + client_secret)
func (a *Auth) secretKey() string {
	if a.sessionSecretKey != "" {
		return a.sessionSecretKey
	}
	if a.sessionKey != "" {
		return a.calcSecret(a.sessionKey)
	}
	return a.calcSecret(a.accessToken)
}

func (a *Auth) calcSecret(token string) string {
	return md5Hex(token + a.clientSecret)
}

// Sign tính chữ ký MD5 trên các tham số đã sắp xếp theo key tăng dần.
// Token phiên không được đưa vào chuỗi ký.
func (a *Auth) Sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(params[k])
	}
	sb.WriteString(a.secretKey())

	return md5Hex(sb.String())
}

// SignParams trả về bản sao tham số đã gắn application_key, sig và token phiên.
// Lưu ý thứ tự: sig được tính trước khi gắn session_key/access_token vào request.
func (a *Auth) SignParams(params map[string]string) map[string]string {
	signed := make(map[string]string, len(params)+3)
	for k, v := range params {
		signed[k] = v
	}
	signed["application_key"] = a.ApplicationKey()
	signed["sig"] = a.Sign(signed)

	if a.sessionKey != "" {
		signed["session_key"] = a.sessionKey
	} else if a.accessToken != "" {
		signed["access_token"] = a.accessToken
	}

	return signed
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToLower(hex.EncodeToString(sum[:]))
}
