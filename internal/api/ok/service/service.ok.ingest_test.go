package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ok_insight/internal/api/ok/models"
)

// fakeFetcher giả lập OK API cho ingest test
type fakeFetcher struct {
	groupInfo   map[string]interface{}
	groupErr    error
	discussions []map[string]interface{}
	discussErr  error

	// comments theo discussion id; id có trong failComments sẽ trả lỗi
	comments     map[string][]map[string]interface{}
	failComments map[string]bool

	users    map[string]map[string]interface{}
	usersErr error

	gotUserIDs []string
}

func (f *fakeFetcher) GetGroupInfo(ctx context.Context, groupID string, fields string) (map[string]interface{}, error) {
	return f.groupInfo, f.groupErr
}

func (f *fakeFetcher) GetDiscussions(ctx context.Context, groupID string, count int, offset int) ([]map[string]interface{}, error) {
	return f.discussions, f.discussErr
}

func (f *fakeFetcher) GetComments(ctx context.Context, discussionID string, discussionType string, count int, offset int, order string) ([]map[string]interface{}, error) {
	if f.failComments[discussionID] {
		return nil, errors.New("api unavailable")
	}
	return f.comments[discussionID], nil
}

func (f *fakeFetcher) GetUsersInfo(ctx context.Context, userIDs []string) (map[string]map[string]interface{}, error) {
	f.gotUserIDs = append(f.gotUserIDs, userIDs...)
	return f.users, f.usersErr
}

// fakeStores ghi nhận các lần upsert thay cho MongoDB
type fakeStores struct {
	groups      []models.OkGroup
	discussions []models.OkDiscussion
	comments    []models.OkComment
	groupErr    error
	commentErr  error
}

func (f *fakeStores) UpsertByGroupID(ctx context.Context, group *models.OkGroup) (models.OkGroup, error) {
	if f.groupErr != nil {
		return models.OkGroup{}, f.groupErr
	}
	f.groups = append(f.groups, *group)
	return *group, nil
}

func (f *fakeStores) UpsertByDiscussionID(ctx context.Context, discussion *models.OkDiscussion) (models.OkDiscussion, error) {
	f.discussions = append(f.discussions, *discussion)
	return *discussion, nil
}

func (f *fakeStores) UpsertManyByCommentID(ctx context.Context, comments []models.OkComment) (int64, error) {
	if f.commentErr != nil {
		return 0, f.commentErr
	}
	f.comments = append(f.comments, comments...)
	return int64(len(comments)), nil
}

func newIngest(api *fakeFetcher, stores *fakeStores, opts IngestOptions) *OkIngestService {
	return NewOkIngestServiceWith(api, stores, stores, stores, opts)
}

func rawComment(id, authorID, text string) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"text":       text,
		"created_ms": float64(1710499800000),
		"author":     map[string]interface{}{"uid": authorID},
	}
}

// TestParseGroup kiểm tra thu thập thông tin group
func TestParseGroup(t *testing.T) {
	t.Run("group được chuẩn hóa và lưu", func(t *testing.T) {
		api := &fakeFetcher{groupInfo: map[string]interface{}{
			"uid":           "70000001",
			"name":          "Рецепты",
			"members_count": float64(1500),
		}}
		stores := &fakeStores{}

		group, err := newIngest(api, stores, IngestOptions{}).ParseGroup(context.Background(), "70000001")
		require.NoError(t, err)
		assert.Equal(t, "Рецепты", group.Name)
		require.Len(t, stores.groups, 1)
		assert.Equal(t, "70000001", stores.groups[0].GroupID)
	})

	t.Run("lỗi API được truyền lên", func(t *testing.T) {
		api := &fakeFetcher{groupErr: errors.New("boom")}
		_, err := newIngest(api, &fakeStores{}, IngestOptions{}).ParseGroup(context.Background(), "70000001")
		assert.Error(t, err)
	})
}

// TestParseDiscussion kiểm tra thu thập comment của một discussion
func TestParseDiscussion(t *testing.T) {
	t.Run("comment được chuẩn hóa kèm tên tác giả và discussion text", func(t *testing.T) {
		api := &fakeFetcher{
			comments: map[string][]map[string]interface{}{
				"d1": {rawComment("c1", "500", "hello"), rawComment("c2", "500", "world")},
			},
			users: map[string]map[string]interface{}{
				"500": {"name": "Anna Ivanova"},
			},
		}
		stores := &fakeStores{}

		saved, err := newIngest(api, stores, IngestOptions{}).ParseDiscussion(
			context.Background(), "d1", "g1", "GROUP_TOPIC", 100, "Вопрос дня")
		require.NoError(t, err)
		assert.Equal(t, int64(2), saved)

		require.Len(t, stores.comments, 2)
		assert.Equal(t, "Anna Ivanova", stores.comments[0].AuthorName)
		assert.Equal(t, "Вопрос дня", stores.comments[0].DiscussionText)
		assert.Equal(t, "g1", stores.comments[0].GroupID)

		// Author id trùng nhau chỉ được hỏi users.getInfo một lần
		assert.Equal(t, []string{"500"}, api.gotUserIDs)
	})

	t.Run("discussion không có comment trả về 0", func(t *testing.T) {
		api := &fakeFetcher{comments: map[string][]map[string]interface{}{}}
		stores := &fakeStores{}

		saved, err := newIngest(api, stores, IngestOptions{}).ParseDiscussion(
			context.Background(), "d1", "g1", "GROUP_TOPIC", 100, "")
		require.NoError(t, err)
		assert.Zero(t, saved)
		assert.Empty(t, stores.comments)
	})
}

// TestParseAllDiscussions kiểm tra điều phối thu thập nhiều discussion
func TestParseAllDiscussions(t *testing.T) {
	ctx := context.Background()

	t.Run("một discussion lỗi không làm dừng các discussion còn lại", func(t *testing.T) {
		api := &fakeFetcher{
			discussions: []map[string]interface{}{
				{"object_id": "d1", "object_type": "GROUP_TOPIC"},
				{"object_id": "d2", "object_type": "GROUP_TOPIC"},
				{"object_id": "d3", "object_type": "GROUP_TOPIC"},
			},
			comments: map[string][]map[string]interface{}{
				"d1": {rawComment("c1", "500", "a")},
				"d3": {rawComment("c2", "500", "b"), rawComment("c3", "501", "c")},
			},
			failComments: map[string]bool{"d2": true},
			users:        map[string]map[string]interface{}{},
		}
		stores := &fakeStores{}

		parsed, comments, err := newIngest(api, stores, IngestOptions{}).ParseAllDiscussions(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), parsed, "d2 lỗi nhưng d1 và d3 vẫn được xử lý")
		assert.Equal(t, int64(3), comments)
		assert.Len(t, stores.discussions, 3, "Discussion vẫn được lưu trước khi lấy comment")
	})

	t.Run("giới hạn MaxDiscussions", func(t *testing.T) {
		api := &fakeFetcher{
			discussions: []map[string]interface{}{
				{"object_id": "d1"}, {"object_id": "d2"}, {"object_id": "d3"},
			},
			comments: map[string][]map[string]interface{}{},
			users:    map[string]map[string]interface{}{},
		}
		stores := &fakeStores{}

		parsed, _, err := newIngest(api, stores, IngestOptions{MaxDiscussions: 2}).ParseAllDiscussions(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), parsed)
		assert.Len(t, stores.discussions, 2)
	})

	t.Run("giới hạn theo từng lần gọi ưu tiên hơn cấu hình", func(t *testing.T) {
		api := &fakeFetcher{
			discussions: []map[string]interface{}{
				{"object_id": "d1"}, {"object_id": "d2"}, {"object_id": "d3"},
			},
			comments: map[string][]map[string]interface{}{},
			users:    map[string]map[string]interface{}{},
		}
		stores := &fakeStores{}

		parsed, _, err := newIngest(api, stores, IngestOptions{MaxDiscussions: 3}).ParseAllDiscussions(ctx, "g1", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), parsed, "Giới hạn truyền theo lần gọi phải được áp dụng")
		require.Len(t, stores.discussions, 1)
		assert.Equal(t, "d1", stores.discussions[0].DiscussionID, "Giữ đúng thứ tự danh sách từ API")
	})

	t.Run("OwnGroupPostsOnly bỏ qua post của thành viên", func(t *testing.T) {
		api := &fakeFetcher{
			discussions: []map[string]interface{}{
				{"object_id": "d1", "owner_uid": "g1"},
				{"object_id": "d2", "owner_uid": "999"},
			},
			comments: map[string][]map[string]interface{}{},
			users:    map[string]map[string]interface{}{},
		}
		stores := &fakeStores{}

		parsed, _, err := newIngest(api, stores, IngestOptions{OwnGroupPostsOnly: true}).ParseAllDiscussions(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), parsed)
		require.Len(t, stores.discussions, 1)
		assert.Equal(t, "d1", stores.discussions[0].DiscussionID)
	})

	t.Run("discussion không có id bị bỏ qua", func(t *testing.T) {
		api := &fakeFetcher{
			discussions: []map[string]interface{}{
				{"object_type": "GROUP_TOPIC"},
				{"object_id": "d1"},
			},
			comments: map[string][]map[string]interface{}{},
			users:    map[string]map[string]interface{}{},
		}
		stores := &fakeStores{}

		parsed, _, err := newIngest(api, stores, IngestOptions{}).ParseAllDiscussions(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), parsed)
	})

	t.Run("không có discussion trả về 0 0 không lỗi", func(t *testing.T) {
		api := &fakeFetcher{}
		parsed, comments, err := newIngest(api, &fakeStores{}, IngestOptions{}).ParseAllDiscussions(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Zero(t, parsed)
		assert.Zero(t, comments)
	})
}

// TestFullParse kiểm tra pipeline đầy đủ group -> discussions -> comments
func TestFullParse(t *testing.T) {
	ctx := context.Background()

	t.Run("summary gồm tên group và các bộ đếm", func(t *testing.T) {
		api := &fakeFetcher{
			groupInfo: map[string]interface{}{"uid": "g1", "name": "Рецепты"},
			discussions: []map[string]interface{}{
				{"object_id": "d1", "title": "Вопрос дня"},
			},
			comments: map[string][]map[string]interface{}{
				"d1": {rawComment("c1", "500", "a"), rawComment("c2", "501", "b")},
			},
			users: map[string]map[string]interface{}{},
		}
		stores := &fakeStores{}

		summary, err := newIngest(api, stores, IngestOptions{}).FullParse(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Equal(t, "Рецепты", summary.Group)
		assert.Equal(t, int64(1), summary.DiscussionsParsed)
		assert.Equal(t, int64(2), summary.CommentsSaved)

		// Comment phải mang theo discussion text từ discussion cha
		require.Len(t, stores.comments, 2)
		assert.Equal(t, "Вопрос дня", stores.comments[0].DiscussionText)
	})

	t.Run("group không có tên thì summary dùng id", func(t *testing.T) {
		api := &fakeFetcher{
			groupInfo: map[string]interface{}{"uid": "g1"},
			users:     map[string]map[string]interface{}{},
		}
		summary, err := newIngest(api, &fakeStores{}, IngestOptions{}).FullParse(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Equal(t, "g1", summary.Group)
	})

	t.Run("giới hạn discussion theo lần gọi", func(t *testing.T) {
		api := &fakeFetcher{
			groupInfo: map[string]interface{}{"uid": "g1", "name": "Рецепты"},
			discussions: []map[string]interface{}{
				{"object_id": "d1"}, {"object_id": "d2"}, {"object_id": "d3"},
			},
			comments: map[string][]map[string]interface{}{},
			users:    map[string]map[string]interface{}{},
		}
		stores := &fakeStores{}

		summary, err := newIngest(api, stores, IngestOptions{}).FullParse(ctx, "g1", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.DiscussionsParsed)
		assert.Len(t, stores.discussions, 2)
	})

	t.Run("lỗi lưu group làm dừng pipeline", func(t *testing.T) {
		api := &fakeFetcher{groupInfo: map[string]interface{}{"uid": "g1"}}
		stores := &fakeStores{groupErr: errors.New("db down")}

		_, err := newIngest(api, stores, IngestOptions{}).FullParse(ctx, "g1", 0)
		assert.Error(t, err)
	})
}
