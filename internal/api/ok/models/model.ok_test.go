package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestOkGroupFromAPI kiểm tra chuẩn hóa payload của group.getInfo
func TestOkGroupFromAPI(t *testing.T) {
	t.Run("payload đầy đủ", func(t *testing.T) {
		g := OkGroupFromAPI(map[string]interface{}{
			"uid":           "70000001",
			"name":          "Рецепты",
			"description":   "Кулинарная группа",
			"members_count": float64(15000),
			"pic_avatar":    "https://i.ok.ru/avatar.jpg",
		})
		assert.Equal(t, "70000001", g.GroupID)
		assert.Equal(t, "Рецепты", g.Name)
		assert.Equal(t, int64(15000), g.MembersCount)
		assert.Equal(t, "https://i.ok.ru/avatar.jpg", g.PhotoURL)
	})

	t.Run("fallback uid về id", func(t *testing.T) {
		g := OkGroupFromAPI(map[string]interface{}{"id": "70000002", "name": "X"})
		assert.Equal(t, "70000002", g.GroupID)
	})

	t.Run("id dạng number được ép về string", func(t *testing.T) {
		g := OkGroupFromAPI(map[string]interface{}{"uid": float64(70000003)})
		assert.Equal(t, "70000003", g.GroupID)
	})
}

// TestOkDiscussionFromAPI kiểm tra chuẩn hóa payload của discussions.getList
func TestOkDiscussionFromAPI(t *testing.T) {
	t.Run("payload đầy đủ", func(t *testing.T) {
		d := OkDiscussionFromAPI(map[string]interface{}{
			"object_id":            "158991371972782",
			"object_type":          "GROUP_TOPIC",
			"title":                "Вопрос дня",
			"message":              "Что приготовить?",
			"owner_uid":            "500",
			"total_comments_count": float64(42),
			"creation_date":        "2024-03-15 10:30:00",
		}, "70000001")

		assert.Equal(t, "158991371972782", d.DiscussionID)
		assert.Equal(t, "70000001", d.GroupID)
		assert.Equal(t, ObjectTypeGroupTopic, d.ObjectType)
		assert.Equal(t, int64(42), d.TotalCommentsCount)

		want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC).UnixMilli()
		assert.Equal(t, want, d.PostedAt, "creation_date phải được parse theo UTC")
	})

	t.Run("fallback object_id về id, object_type mặc định GROUP_TOPIC", func(t *testing.T) {
		d := OkDiscussionFromAPI(map[string]interface{}{"id": "99"}, "70000001")
		assert.Equal(t, "99", d.DiscussionID)
		assert.Equal(t, ObjectTypeGroupTopic, d.ObjectType)
	})

	t.Run("creation_date không parse được thì lấy thời điểm hiện tại", func(t *testing.T) {
		before := time.Now().UnixMilli()
		d := OkDiscussionFromAPI(map[string]interface{}{
			"object_id":     "99",
			"creation_date": "hôm qua",
		}, "70000001")
		assert.GreaterOrEqual(t, d.PostedAt, before)
	})
}

// TestOkDiscussionContentText kiểm tra ghép title và message
func TestOkDiscussionContentText(t *testing.T) {
	assert.Equal(t, "A | B", (&OkDiscussion{Title: "A", Message: "B"}).ContentText())
	assert.Equal(t, "A", (&OkDiscussion{Title: "A"}).ContentText())
	assert.Equal(t, "B", (&OkDiscussion{Message: "B"}).ContentText())
	assert.Equal(t, "", (&OkDiscussion{}).ContentText())
}

// TestOkDiscussionURL kiểm tra sinh URL công khai theo loại object
func TestOkDiscussionURL(t *testing.T) {
	cases := []struct {
		name string
		d    OkDiscussion
		want string
	}{
		{
			name: "GROUP_TOPIC",
			d:    OkDiscussion{DiscussionID: "10", GroupID: "70", ObjectType: ObjectTypeGroupTopic},
			want: "https://ok.ru/discussions/1/70/10",
		},
		{
			name: "MOVIE của thành viên",
			d:    OkDiscussion{DiscussionID: "10", GroupID: "70", ObjectType: ObjectTypeMovie, OwnerUID: "500"},
			want: "https://ok.ru/video/500/10",
		},
		{
			name: "MOVIE của chính group",
			d:    OkDiscussion{DiscussionID: "10", GroupID: "70", ObjectType: ObjectTypeMovie, OwnerUID: "70"},
			want: "https://ok.ru/video/10",
		},
		{
			name: "USER_STATUS có owner",
			d:    OkDiscussion{DiscussionID: "10", GroupID: "70", ObjectType: ObjectTypeUserStatus, OwnerUID: "500"},
			want: "https://ok.ru/profile/500/statuses/10",
		},
		{
			name: "USER_PHOTO không có owner fallback về discussions",
			d:    OkDiscussion{DiscussionID: "10", GroupID: "70", ObjectType: ObjectTypeUserPhoto},
			want: "https://ok.ru/discussions/1/70/10",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.d.URL())
		})
	}
}

// TestOkCommentFromAPI kiểm tra chuẩn hóa payload của discussions.getComments
func TestOkCommentFromAPI(t *testing.T) {
	t.Run("payload đầy đủ với userInfo", func(t *testing.T) {
		c := OkCommentFromAPI(map[string]interface{}{
			"id":          "c100",
			"text":        "Очень вкусно!",
			"created_ms":  float64(1710499800000),
			"likes_count": float64(7),
			"author":      map[string]interface{}{"uid": "500", "name": "fallback"},
		}, "d1", "g1", map[string]interface{}{"name": "Anna Ivanova"}, "Вопрос дня")

		assert.Equal(t, "c100", c.CommentID)
		assert.Equal(t, "d1", c.DiscussionID)
		assert.Equal(t, "g1", c.GroupID)
		assert.Equal(t, "500", c.AuthorID)
		assert.Equal(t, "Anna Ivanova", c.AuthorName, "Tên từ users.getInfo phải thắng tên trong comment")
		assert.Equal(t, int64(1710499800000), c.PostedAt)
		assert.Equal(t, int64(7), c.LikesCount)
		assert.Equal(t, "Вопрос дня", c.DiscussionText)
	})

	t.Run("userInfo không có name thì ghép first_name và last_name", func(t *testing.T) {
		c := OkCommentFromAPI(map[string]interface{}{"id": "c1"}, "d1", "g1",
			map[string]interface{}{"first_name": "Anna", "last_name": "Ivanova"}, "")
		assert.Equal(t, "Anna Ivanova", c.AuthorName)
	})

	t.Run("không có userInfo thì lấy tên từ author", func(t *testing.T) {
		c := OkCommentFromAPI(map[string]interface{}{
			"id":     "c1",
			"author": map[string]interface{}{"uid": "500", "name": "Boris"},
		}, "d1", "g1", nil, "")
		assert.Equal(t, "Boris", c.AuthorName)
	})

	t.Run("fallback author_id và author_name phẳng", func(t *testing.T) {
		c := OkCommentFromAPI(map[string]interface{}{
			"id":          "c1",
			"author_id":   "600",
			"author_name": "Clara",
		}, "d1", "g1", nil, "")
		assert.Equal(t, "600", c.AuthorID)
		assert.Equal(t, "Clara", c.AuthorName)
	})

	t.Run("fallback text về message, created_ms về date, likes_count về like_count", func(t *testing.T) {
		c := OkCommentFromAPI(map[string]interface{}{
			"id":         "c1",
			"message":    "привет",
			"date":       float64(1710499800000),
			"like_count": float64(3),
		}, "d1", "g1", nil, "")
		assert.Equal(t, "привет", c.Text)
		assert.Equal(t, int64(1710499800000), c.PostedAt)
		assert.Equal(t, int64(3), c.LikesCount)
	})

	t.Run("reply_to_comment_id được giữ lại", func(t *testing.T) {
		c := OkCommentFromAPI(map[string]interface{}{
			"id":                  "c2",
			"reply_to_comment_id": "c1",
		}, "d1", "g1", nil, "")
		assert.Equal(t, "c1", c.ReplyToID)
	})

	t.Run("không có timestamp thì lấy thời điểm hiện tại", func(t *testing.T) {
		before := time.Now().UnixMilli()
		c := OkCommentFromAPI(map[string]interface{}{"id": "c1"}, "d1", "g1", nil, "")
		assert.GreaterOrEqual(t, c.PostedAt, before)
	})
}
