package okapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ok_insight/config"
	"ok_insight/internal/common"
	"ok_insight/internal/logger"
)

// Các hằng số mặc định khi gọi OK REST API
const (
	DefaultGroupFields = "uid,name,description,members_count,pic_avatar"
	DefaultUserFields  = "uid,first_name,last_name,name"

	// Giới hạn của API: count trong dải 1..1000, tối đa 100 uid mỗi lần users.getInfo
	MaxPageCount   = 1000
	MaxUsersPerGet = 100
)

// Client gọi OK REST API qua endpoint duy nhất fb.do.
// Mọi lời gọi đều được ký bởi Auth và giãn cách bởi ClockGate.
type Client struct {
	auth    *Auth
	baseURL string
	gate    *ClockGate
	httpc   *http.Client
}

// NewClient khởi tạo client từ cấu hình ứng dụng
func NewClient(c *config.Configuration) *Client {
	return &Client{
		auth:    NewAuth(c),
		baseURL: c.OkRu_APIBaseURL,
		gate:    NewClockGate(time.Duration(c.OkRu_RateLimitDelayMs) * time.Millisecond),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWith khởi tạo client với các thành phần tùy biến, dùng cho test
func NewClientWith(auth *Auth, baseURL string, gate *ClockGate, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{auth: auth, baseURL: baseURL, gate: gate, httpc: httpc}
}

// Call gọi một method của OK API và trả về body đã decode.
// Trả về (nil, nil) khi API trả về JSON null, caller tự xử lý như kết quả rỗng.
func (c *Client) Call(ctx context.Context, method string, params map[string]string) (interface{}, error) {
	if err := c.gate.Acquire(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}

	reqParams := make(map[string]string, len(params)+2)
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams["method"] = method
	reqParams["format"] = "json"

	signed := c.auth.SignParams(reqParams)

	form := url.Values{}
	for k, v := range signed {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.GetAppLogger().WithField("method", method).Errorf("Request OK API thất bại: %v", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetAppLogger().WithField("method", method).Errorf("OK API trả về status %d", resp.StatusCode)
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	logger.GetAppLogger().Debugf("OK API %s: status %d, body %d bytes", method, resp.StatusCode, len(body))

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ProtocolError{Message: "body không phải JSON hợp lệ", Err: err}
	}

	if data == nil {
		return nil, nil
	}

	if obj, ok := data.(map[string]interface{}); ok {
		if rawCode, found := obj["error_code"]; found {
			return nil, &ApiError{
				Code:    toInt(rawCode),
				Message: toString(obj["error_msg"], "Unknown error"),
			}
		}
	}

	return data, nil
}

// GetGroupInfo lấy thông tin của một group theo id.
// fields rỗng sẽ dùng bộ trường mặc định.
func (c *Client) GetGroupInfo(ctx context.Context, groupID string, fields string) (map[string]interface{}, error) {
	groupID, err := ValidateGroupID(groupID)
	if err != nil {
		return nil, err
	}
	if fields == "" {
		fields = DefaultGroupFields
	}

	data, err := c.Call(ctx, "group.getInfo", map[string]string{
		"uids":   groupID,
		"fields": fields,
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, common.NewError(common.ErrCodeBusinessNotFound, fmt.Sprintf("Không tìm thấy group %s", groupID), common.StatusNotFound, nil)
	}

	// group.getInfo trả về mảng kể cả khi chỉ hỏi một uid
	items := asList(data)
	if len(items) == 0 || items[0] == nil {
		return nil, common.NewError(common.ErrCodeBusinessNotFound, fmt.Sprintf("Không tìm thấy group %s", groupID), common.StatusNotFound, nil)
	}

	info, ok := items[0].(map[string]interface{})
	if !ok {
		return nil, &ProtocolError{Message: "group.getInfo trả về phần tử không phải object"}
	}
	return info, nil
}

// GetDiscussions lấy danh sách discussion (hoạt động trong group) qua discussions.getList.
// API trả về hoạt động TRONG group (post của thành viên), không chỉ post chính thức
// TỪ group; lấy post của group cần quyền admin.
func (c *Client) GetDiscussions(ctx context.Context, groupID string, count int, offset int) ([]map[string]interface{}, error) {
	groupID, err := ValidateGroupID(groupID)
	if err != nil {
		return nil, err
	}
	if err := ValidatePage(count, offset); err != nil {
		return nil, err
	}

	data, err := c.Call(ctx, "discussions.getList", map[string]string{
		"gid":    groupID,
		"count":  strconv.Itoa(count),
		"offset": strconv.Itoa(offset),
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		logger.GetAppLogger().Warnf("discussions.getList trả về null cho group %s", groupID)
		return nil, nil
	}

	// Tùy phiên bản API, danh sách nằm dưới key discussions hoặc topics,
	// hoặc body là mảng trực tiếp
	var raw interface{}
	switch v := data.(type) {
	case map[string]interface{}:
		if d, ok := v["discussions"]; ok {
			raw = d
		} else {
			raw = v["topics"]
		}
	case []interface{}:
		raw = v
	}

	items := asList(raw)
	discussions := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		d, ok := item.(map[string]interface{})
		if !ok || len(d) == 0 {
			continue
		}
		discussions = append(discussions, d)
	}

	logger.GetAppLogger().Debugf("Group %s: lấy được %d discussion", groupID, len(discussions))
	return discussions, nil
}

// GetComments lấy danh sách comment thô của một discussion qua discussions.getComments
func (c *Client) GetComments(ctx context.Context, discussionID string, discussionType string, count int, offset int, order string) ([]map[string]interface{}, error) {
	discussionID = strings.TrimSpace(discussionID)
	if discussionID == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "discussionID không được rỗng", common.StatusBadRequest, nil)
	}
	if err := ValidatePage(count, offset); err != nil {
		return nil, err
	}
	if discussionType == "" {
		discussionType = "GROUP_TOPIC"
	}
	if order == "" {
		order = "LAST"
	}

	data, err := c.Call(ctx, "discussions.getComments", map[string]string{
		"discussionId":   discussionID,
		"discussionType": discussionType,
		"count":          strconv.Itoa(count),
		"offset":         strconv.Itoa(offset),
		"order":          order,
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		logger.GetAppLogger().Warnf("discussions.getComments trả về null cho discussion %s", discussionID)
		return nil, nil
	}

	obj, ok := data.(map[string]interface{})
	if !ok {
		return nil, &ProtocolError{Message: "discussions.getComments trả về body không phải object"}
	}

	items := asList(obj["comments"])
	comments := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		cm, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		comments = append(comments, cm)
	}

	logger.GetAppLogger().Debugf("Discussion %s: lấy được %d comment", discussionID, len(comments))
	return comments, nil
}

// GetUsersInfo lấy thông tin hồ sơ của các user theo id, kết quả là map uid -> profile.
// Id không phải chuỗi số sẽ bị loại; tối đa 100 uid mỗi lần gọi.
func (c *Client) GetUsersInfo(ctx context.Context, userIDs []string) (map[string]map[string]interface{}, error) {
	if len(userIDs) == 0 {
		return map[string]map[string]interface{}{}, nil
	}

	validIDs := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id != "" && isDigits(id) {
			validIDs = append(validIDs, id)
		}
	}
	if len(validIDs) == 0 {
		return map[string]map[string]interface{}{}, nil
	}
	if len(validIDs) > MaxUsersPerGet {
		logger.GetAppLogger().Warnf("users.getInfo nhận %d uid, cắt còn %d", len(validIDs), MaxUsersPerGet)
		validIDs = validIDs[:MaxUsersPerGet]
	}

	data, err := c.Call(ctx, "users.getInfo", map[string]string{
		"uids":   strings.Join(validIDs, ","),
		"fields": DefaultUserFields,
	})
	if err != nil {
		return nil, err
	}

	users := make(map[string]map[string]interface{})
	if data == nil {
		return users, nil
	}

	for _, item := range asList(data) {
		u, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		uid := toString(u["uid"], "")
		if uid == "" {
			continue
		}
		users[uid] = u
	}
	return users, nil
}

// ValidateGroupID kiểm tra id group: chỉ chấp nhận chuỗi số sau khi trim
func ValidateGroupID(groupID string) (string, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" || !isDigits(groupID) {
		return "", common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("groupID không hợp lệ: %q, chỉ chấp nhận chuỗi số", groupID),
			common.StatusBadRequest, nil)
	}
	return groupID, nil
}

// ValidatePage kiểm tra giới hạn phân trang của API
func ValidatePage(count int, offset int) error {
	if count < 1 || count > MaxPageCount {
		return common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("count phải trong dải 1..%d, nhận được %d", MaxPageCount, count),
			common.StatusBadRequest, nil)
	}
	if offset < 0 {
		return common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("offset phải >= 0, nhận được %d", offset),
			common.StatusBadRequest, nil)
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// asList chuẩn hóa giá trị về slice: mảng giữ nguyên, object đơn lẻ bọc
// thành mảng một phần tử, nil thành mảng rỗng
func asList(v interface{}) []interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return t
	default:
		return []interface{}{t}
	}
}

func toInt(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, _ := strconv.Atoi(t)
		return n
	default:
		return 0
	}
}

func toString(v interface{}, fallback string) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case nil:
		return fallback
	default:
		return fmt.Sprintf("%v", t)
	}
}
