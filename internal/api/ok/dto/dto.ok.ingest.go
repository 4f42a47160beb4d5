package dto

// ParseDiscussionRequest là body của request thu thập comment một discussion
type ParseDiscussionRequest struct {
	DiscussionID   string `json:"discussionId" validate:"required"`              // ID của discussion trên OK.ru
	GroupID        string `json:"groupId" validate:"required,digit_id"`          // ID của group chứa discussion
	DiscussionType string `json:"discussionType"`                                // GROUP_TOPIC, USER_STATUS, USER_PHOTO, MOVIE (mặc định GROUP_TOPIC)
	Count          int    `json:"count" validate:"omitempty,min=1,max=1000"`     // Số comment cần lấy (mặc định theo cấu hình)
	DiscussionText string `json:"discussionText"`                                // Title | message của discussion (tùy chọn)
}

// ParseDiscussionResult là kết quả thu thập comment một discussion
type ParseDiscussionResult struct {
	DiscussionID  string `json:"discussionId"`  // ID của discussion đã xử lý
	CommentsSaved int64  `json:"commentsSaved"` // Số comment đã ghi vào DB
}

// ParseGroupResult là kết quả thu thập thông tin group
type ParseGroupResult struct {
	GroupID      string `json:"groupId"`      // ID của group
	Name         string `json:"name"`         // Tên group
	MembersCount int64  `json:"membersCount"` // Số thành viên
}
