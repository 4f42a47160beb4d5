package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectType định nghĩa các loại discussion mà discussions.getList trả về
const (
	ObjectTypeGroupTopic = "GROUP_TOPIC" // Chủ đề trên forum của group
	ObjectTypeUserStatus = "USER_STATUS" // Status của thành viên trong feed group
	ObjectTypeUserPhoto  = "USER_PHOTO"  // Ảnh của thành viên
	ObjectTypeMovie      = "MOVIE"       // Video
)

// OkDiscussion đại diện cho một discussion (hoạt động trong feed group) trên OK.ru
type OkDiscussion struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của document

	// ===== IDENTITY =====
	DiscussionID string `json:"discussionId" bson:"discussionId" index:"unique"` // object_id của discussion trên OK.ru
	GroupID      string `json:"groupId" bson:"groupId" index:"single:1"`         // ID của group chứa discussion
	ObjectType   string `json:"objectType" bson:"objectType" index:"single:1"`   // GROUP_TOPIC, USER_STATUS, USER_PHOTO, MOVIE

	// ===== CONTENT =====
	Title    string `json:"title,omitempty" bson:"title,omitempty"`     // Tiêu đề (nếu có)
	Message  string `json:"message,omitempty" bson:"message,omitempty"` // Nội dung (nếu có)
	OwnerUID string `json:"ownerUid,omitempty" bson:"ownerUid,omitempty" index:"single:1"` // Uid của người đăng

	// ===== STATS =====
	TotalCommentsCount int64 `json:"totalCommentsCount" bson:"totalCommentsCount"` // Tổng số comment theo API

	// ===== TIMESTAMPS =====
	PostedAt  int64 `json:"postedAt" bson:"postedAt" index:"single:-1"` // Thời điểm đăng trên OK.ru (Unix ms)
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`                 // Thời gian tạo document
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`                 // Thời gian cập nhật document
}

// URL trả về địa chỉ công khai của discussion trên ok.ru theo loại object
func (d *OkDiscussion) URL() string {
	switch d.ObjectType {
	case ObjectTypeMovie:
		if d.OwnerUID != "" && d.OwnerUID != d.GroupID {
			return fmt.Sprintf("https://ok.ru/video/%s/%s", d.OwnerUID, d.DiscussionID)
		}
		return fmt.Sprintf("https://ok.ru/video/%s", d.DiscussionID)
	case ObjectTypeUserStatus:
		if d.OwnerUID != "" {
			return fmt.Sprintf("https://ok.ru/profile/%s/statuses/%s", d.OwnerUID, d.DiscussionID)
		}
	case ObjectTypeUserPhoto:
		if d.OwnerUID != "" {
			return fmt.Sprintf("https://ok.ru/profile/%s/photo/%s", d.OwnerUID, d.DiscussionID)
		}
	}
	return fmt.Sprintf("https://ok.ru/discussions/1/%s/%s", d.GroupID, d.DiscussionID)
}

// ContentText ghép title và message thành một chuỗi mô tả, phân cách " | ".
// Chuỗi này được gắn vào các comment thu thập từ discussion.
func (d *OkDiscussion) ContentText() string {
	switch {
	case d.Title != "" && d.Message != "":
		return d.Title + " | " + d.Message
	case d.Title != "":
		return d.Title
	default:
		return d.Message
	}
}

// OkDiscussionFromAPI chuẩn hóa một phần tử của discussions.getList thành OkDiscussion.
// Id ưu tiên object_id, fallback về id; thời điểm đăng đọc từ creation_date
// dạng "2006-01-02 15:04:05" (UTC), không parse được thì lấy thời điểm hiện tại.
func OkDiscussionFromAPI(data map[string]interface{}, groupID string) *OkDiscussion {
	discussionID := asString(data["object_id"])
	if discussionID == "" {
		discussionID = asString(data["id"])
	}

	objectType := asString(data["object_type"])
	if objectType == "" {
		objectType = ObjectTypeGroupTopic
	}

	postedAt := time.Now().UnixMilli()
	if creationDate := asString(data["creation_date"]); creationDate != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", creationDate, time.UTC); err == nil {
			postedAt = t.UnixMilli()
		}
	}

	return &OkDiscussion{
		DiscussionID:       discussionID,
		GroupID:            groupID,
		ObjectType:         objectType,
		Title:              asString(data["title"]),
		Message:            asString(data["message"]),
		OwnerUID:           asString(data["owner_uid"]),
		TotalCommentsCount: asInt64(data["total_comments_count"]),
		PostedAt:           postedAt,
	}
}
