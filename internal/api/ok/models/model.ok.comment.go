package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OkComment đại diện cho một comment trong discussion trên OK.ru
type OkComment struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của document

	// ===== IDENTITY =====
	CommentID    string `json:"commentId" bson:"commentId" index:"unique"`           // ID của comment trên OK.ru
	DiscussionID string `json:"discussionId" bson:"discussionId" index:"single:1"`   // ID của discussion chứa comment
	GroupID      string `json:"groupId" bson:"groupId" index:"single:1"`             // ID của group chứa discussion

	// ===== AUTHOR =====
	AuthorID   string `json:"authorId" bson:"authorId" index:"single:1"` // Uid của người viết comment
	AuthorName string `json:"authorName" bson:"authorName"`              // Tên hiển thị của người viết

	// ===== CONTENT =====
	Text           string `json:"text" bson:"text"`                                               // Nội dung comment
	LikesCount     int64  `json:"likesCount" bson:"likesCount"`                                   // Số lượt thích
	ReplyToID      string `json:"replyToId,omitempty" bson:"replyToId,omitempty"`                 // ID comment được trả lời (nếu có)
	DiscussionText string `json:"discussionText,omitempty" bson:"discussionText,omitempty"`       // Title | message của discussion gốc

	// ===== TIMESTAMPS =====
	PostedAt  int64 `json:"postedAt" bson:"postedAt" index:"single:-1"` // Thời điểm đăng trên OK.ru (Unix ms)
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`                 // Thời gian tạo document
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`                 // Thời gian cập nhật document
}

// OkCommentFromAPI chuẩn hóa một phần tử của discussions.getComments thành OkComment.
//
// Các fallback theo format thực tế của API:
//   - author id: author.uid > author_id
//   - author name: userInfo.name > userInfo.first_name + last_name > author.name > author_name
//   - nội dung: text > message
//   - thời điểm: created_ms > date, không có thì lấy thời điểm hiện tại
//   - lượt thích: likes_count > like_count
func OkCommentFromAPI(
	data map[string]interface{},
	discussionID string,
	groupID string,
	userInfo map[string]interface{},
	discussionText string,
) *OkComment {
	author, _ := data["author"].(map[string]interface{})

	authorID := asString(author["uid"])
	if authorID == "" {
		authorID = asString(data["author_id"])
	}

	var authorName string
	if len(userInfo) > 0 {
		authorName = asString(userInfo["name"])
		if authorName == "" {
			authorName = strings.TrimSpace(asString(userInfo["first_name"]) + " " + asString(userInfo["last_name"]))
		}
	} else {
		authorName = asString(author["name"])
		if authorName == "" {
			authorName = asString(data["author_name"])
		}
	}

	text := asString(data["text"])
	if text == "" {
		text = asString(data["message"])
	}

	postedAt := asInt64(data["created_ms"])
	if postedAt <= 0 {
		postedAt = asInt64(data["date"])
	}
	if postedAt <= 0 {
		postedAt = time.Now().UnixMilli()
	}

	likes := asInt64(data["likes_count"])
	if likes == 0 {
		likes = asInt64(data["like_count"])
	}

	return &OkComment{
		CommentID:      asString(data["id"]),
		DiscussionID:   discussionID,
		GroupID:        groupID,
		AuthorID:       authorID,
		AuthorName:     authorName,
		Text:           text,
		LikesCount:     likes,
		ReplyToID:      asString(data["reply_to_comment_id"]),
		DiscussionText: discussionText,
		PostedAt:       postedAt,
	}
}
