package services

import (
	"context"
	"strconv"

	"ok_insight/config"
	"ok_insight/internal/api/ok/models"
	"ok_insight/internal/logger"
)

// Số discussion lấy mỗi lần gọi discussions.getList
const defaultDiscussionPage = 100

// ContentFetcher trừu tượng hóa phần OK API mà ingest cần, cho phép mock trong test
type ContentFetcher interface {
	GetGroupInfo(ctx context.Context, groupID string, fields string) (map[string]interface{}, error)
	GetDiscussions(ctx context.Context, groupID string, count int, offset int) ([]map[string]interface{}, error)
	GetComments(ctx context.Context, discussionID string, discussionType string, count int, offset int, order string) ([]map[string]interface{}, error)
	GetUsersInfo(ctx context.Context, userIDs []string) (map[string]map[string]interface{}, error)
}

// groupStore, discussionStore, commentStore là phần persistence mà ingest cần
type groupStore interface {
	UpsertByGroupID(ctx context.Context, group *models.OkGroup) (models.OkGroup, error)
}

type discussionStore interface {
	UpsertByDiscussionID(ctx context.Context, discussion *models.OkDiscussion) (models.OkDiscussion, error)
}

type commentStore interface {
	UpsertManyByCommentID(ctx context.Context, comments []models.OkComment) (int64, error)
}

// IngestOptions điều chỉnh hành vi của một lần thu thập
type IngestOptions struct {
	MaxDiscussions        int  // Giới hạn số discussion mỗi lần full parse (0 = không giới hạn)
	CommentsPerDiscussion int  // Số comment lấy mỗi discussion (1..1000)
	OwnGroupPostsOnly     bool // Chỉ thu thập discussion do chính group đăng
}

// IngestSummary là kết quả của một lần full parse
type IngestSummary struct {
	Group             string `json:"group"`             // Tên group (fallback về id nếu không có tên)
	DiscussionsParsed int64  `json:"discussionsParsed"` // Số discussion đã xử lý thành công
	CommentsSaved     int64  `json:"commentsSaved"`     // Tổng số comment đã ghi vào DB
}

// OkIngestService điều phối toàn bộ pipeline thu thập:
// group -> discussions -> comments, mỗi bước chuẩn hóa và upsert vào DB.
type OkIngestService struct {
	api         ContentFetcher
	groups      groupStore
	discussions discussionStore
	comments    commentStore
	opts        IngestOptions
}

// NewOkIngestService tạo ingest service với các store mặc định trên MongoDB
func NewOkIngestService(api ContentFetcher, cfg *config.Configuration) (*OkIngestService, error) {
	groupSvc, err := NewOkGroupService()
	if err != nil {
		return nil, err
	}
	discussionSvc, err := NewOkDiscussionService()
	if err != nil {
		return nil, err
	}
	commentSvc, err := NewOkCommentService()
	if err != nil {
		return nil, err
	}

	return NewOkIngestServiceWith(api, groupSvc, discussionSvc, commentSvc, IngestOptions{
		MaxDiscussions:        cfg.Ingest_MaxDiscussions,
		CommentsPerDiscussion: cfg.Ingest_CommentsPerDiscussion,
		OwnGroupPostsOnly:     cfg.Ingest_OwnGroupPostsOnly,
	}), nil
}

// NewOkIngestServiceWith tạo ingest service với các dependency tùy biến
func NewOkIngestServiceWith(api ContentFetcher, groups groupStore, discussions discussionStore, comments commentStore, opts IngestOptions) *OkIngestService {
	if opts.CommentsPerDiscussion <= 0 {
		opts.CommentsPerDiscussion = defaultDiscussionPage
	}
	return &OkIngestService{
		api:         api,
		groups:      groups,
		discussions: discussions,
		comments:    comments,
		opts:        opts,
	}
}

// ParseGroup lấy thông tin group từ API và upsert vào DB
func (s *OkIngestService) ParseGroup(ctx context.Context, groupID string) (models.OkGroup, error) {
	logger.GetAppLogger().Infof("Bắt đầu thu thập group %s", groupID)

	info, err := s.api.GetGroupInfo(ctx, groupID, "")
	if err != nil {
		return models.OkGroup{}, err
	}

	group := models.OkGroupFromAPI(info)
	saved, err := s.groups.UpsertByGroupID(ctx, group)
	if err != nil {
		return models.OkGroup{}, err
	}

	logger.GetAppLogger().Infof("Đã lưu group %s (%s)", saved.Name, saved.GroupID)
	return saved, nil
}

// ParseDiscussion lấy toàn bộ comment của một discussion, chuẩn hóa kèm thông tin
// tác giả từ users.getInfo rồi upsert hàng loạt. Trả về số comment đã ghi.
func (s *OkIngestService) ParseDiscussion(ctx context.Context, discussionID string, groupID string, discussionType string, count int, discussionText string) (int64, error) {
	raw, err := s.api.GetComments(ctx, discussionID, discussionType, count, 0, "")
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		logger.GetAppLogger().Infof("Discussion %s không có comment", discussionID)
		return 0, nil
	}

	users, err := s.api.GetUsersInfo(ctx, collectAuthorIDs(raw))
	if err != nil {
		return 0, err
	}

	comments := make([]models.OkComment, 0, len(raw))
	for _, c := range raw {
		comments = append(comments, *models.OkCommentFromAPI(c, discussionID, groupID, users[rawAuthorID(c)], discussionText))
	}

	saved, err := s.comments.UpsertManyByCommentID(ctx, comments)
	if err != nil {
		return 0, err
	}

	logger.GetAppLogger().Infof("Discussion %s: đã ghi %d/%d comment", discussionID, saved, len(comments))
	return saved, nil
}

// ParseAllDiscussions lấy danh sách discussion của group và thu thập comment
// của từng discussion. Một discussion lỗi không làm dừng các discussion còn lại.
// maxDiscussions <= 0 sẽ dùng giới hạn cấu hình; giới hạn giữ nguyên thứ tự
// danh sách từ API. Trả về số discussion xử lý thành công và tổng số comment đã ghi.
func (s *OkIngestService) ParseAllDiscussions(ctx context.Context, groupID string, maxDiscussions int) (int64, int64, error) {
	log := logger.GetAppLogger()

	discussions, err := s.api.GetDiscussions(ctx, groupID, defaultDiscussionPage, 0)
	if err != nil {
		return 0, 0, err
	}
	if len(discussions) == 0 {
		log.Infof("Group %s không có discussion nào", groupID)
		return 0, 0, nil
	}

	if maxDiscussions <= 0 {
		maxDiscussions = s.opts.MaxDiscussions
	}
	if maxDiscussions > 0 && len(discussions) > maxDiscussions {
		log.Infof("Group %s: giới hạn từ %d xuống %d discussion", groupID, len(discussions), maxDiscussions)
		discussions = discussions[:maxDiscussions]
	}

	var parsed, totalComments, skipped int64
	for idx, d := range discussions {
		discussion := models.OkDiscussionFromAPI(d, groupID)
		if discussion.DiscussionID == "" {
			log.Warnf("Discussion thứ %d không có id, bỏ qua", idx+1)
			skipped++
			continue
		}

		// Chỉ giữ post do chính group đăng khi được cấu hình
		if s.opts.OwnGroupPostsOnly && discussion.OwnerUID != groupID {
			log.Debugf("Bỏ qua discussion %s: owner %s không phải group", discussion.DiscussionID, discussion.OwnerUID)
			skipped++
			continue
		}

		log.Infof("[%d/%d] Xử lý discussion %s (type=%s)", idx+1, len(discussions), discussion.DiscussionID, discussion.ObjectType)

		if _, err := s.discussions.UpsertByDiscussionID(ctx, discussion); err != nil {
			log.Errorf("Không lưu được discussion %s: %v", discussion.DiscussionID, err)
			continue
		}

		count, err := s.ParseDiscussion(ctx, discussion.DiscussionID, groupID, discussion.ObjectType, s.opts.CommentsPerDiscussion, discussion.ContentText())
		if err != nil {
			log.Errorf("Không thu thập được comment của discussion %s: %v", discussion.DiscussionID, err)
			continue
		}

		parsed++
		totalComments += count
	}

	log.Infof("Group %s: tổng %d discussion, xử lý %d, bỏ qua %d, ghi %d comment",
		groupID, len(discussions), parsed, skipped, totalComments)
	return parsed, totalComments, nil
}

// FullParse chạy toàn bộ pipeline cho một group: thông tin group,
// danh sách discussion và comment của từng discussion.
// maxDiscussions <= 0 sẽ dùng giới hạn cấu hình.
func (s *OkIngestService) FullParse(ctx context.Context, groupID string, maxDiscussions int) (*IngestSummary, error) {
	group, err := s.ParseGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	parsed, comments, err := s.ParseAllDiscussions(ctx, groupID, maxDiscussions)
	if err != nil {
		return nil, err
	}

	name := group.Name
	if name == "" {
		name = group.GroupID
	}

	return &IngestSummary{
		Group:             name,
		DiscussionsParsed: parsed,
		CommentsSaved:     comments,
	}, nil
}

// rawAuthorID đọc author id từ một comment thô: author.uid trước, author_id sau
func rawAuthorID(c map[string]interface{}) string {
	if author, ok := c["author"].(map[string]interface{}); ok {
		if id := rawString(author["uid"]); id != "" {
			return id
		}
	}
	return rawString(c["author_id"])
}

// collectAuthorIDs gom các author id duy nhất từ danh sách comment thô
func collectAuthorIDs(comments []map[string]interface{}) []string {
	seen := map[string]bool{}
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		id := rawAuthorID(c)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func rawString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
