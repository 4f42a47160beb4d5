package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OkGroup đại diện cho một group trên OK.ru đã được thu thập
type OkGroup struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của document

	// ===== IDENTITY =====
	GroupID string `json:"groupId" bson:"groupId" index:"unique"` // ID của group trên OK.ru (chuỗi số)

	// ===== PROFILE =====
	Name         string `json:"name" bson:"name" index:"text"`                            // Tên group
	Description  string `json:"description,omitempty" bson:"description,omitempty"`       // Mô tả group
	MembersCount int64  `json:"membersCount" bson:"membersCount"`                         // Số thành viên
	PhotoURL     string `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`             // Avatar của group (pic_avatar)

	// ===== TIMESTAMPS =====
	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}

// OkGroupFromAPI chuẩn hóa payload của group.getInfo thành OkGroup.
// API có thể trả về id dưới key uid hoặc id tùy phiên bản.
func OkGroupFromAPI(data map[string]interface{}) *OkGroup {
	groupID := asString(data["uid"])
	if groupID == "" {
		groupID = asString(data["id"])
	}

	return &OkGroup{
		GroupID:      groupID,
		Name:         asString(data["name"]),
		Description:  asString(data["description"]),
		MembersCount: asInt64(data["members_count"]),
		PhotoURL:     asString(data["pic_avatar"]),
	}
}
