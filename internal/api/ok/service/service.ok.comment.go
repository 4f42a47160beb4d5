package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ok_insight/internal/api/ok/models"
	basesvc "ok_insight/internal/api/base/service"
	"ok_insight/internal/common"
	"ok_insight/internal/global"
)

// OkCommentService là service quản lý các comment OK.ru đã thu thập
type OkCommentService struct {
	*basesvc.BaseServiceMongoImpl[models.OkComment]
}

// NewOkCommentService tạo mới OkCommentService
func NewOkCommentService() (*OkCommentService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OkComments)
	if !exist {
		return nil, fmt.Errorf("failed to get ok_comments collection: %v", common.ErrNotFound)
	}

	return &OkCommentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.OkComment](collection),
	}, nil
}

// FindByDiscussionID tìm các comment của một discussion, mới nhất trước
func (s *OkCommentService) FindByDiscussionID(ctx context.Context, discussionID string) ([]models.OkComment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "postedAt", Value: -1}})
	return s.Find(ctx, bson.M{"discussionId": discussionID}, opts)
}

// FindByAuthorID tìm các comment của một tác giả, mới nhất trước
func (s *OkCommentService) FindByAuthorID(ctx context.Context, authorID string) ([]models.OkComment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "postedAt", Value: -1}})
	return s.Find(ctx, bson.M{"authorId": authorID}, opts)
}

// FindByDateRange tìm các comment đăng trong khoảng [from, to) theo mili giây epoch
func (s *OkCommentService) FindByDateRange(ctx context.Context, from int64, to int64) ([]models.OkComment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "postedAt", Value: 1}})
	return s.Find(ctx, bson.M{"postedAt": bson.M{"$gte": from, "$lt": to}}, opts)
}

// UpsertManyByCommentID ghi hàng loạt comment theo khóa tự nhiên commentId.
// Trả về số document bị ảnh hưởng (tạo mới + cập nhật), chạy lại cùng dữ liệu
// không tạo bản ghi trùng.
func (s *OkCommentService) UpsertManyByCommentID(ctx context.Context, comments []models.OkComment) (int64, error) {
	return s.UpsertMany(ctx, comments, func(c models.OkComment) interface{} {
		return bson.M{"commentId": c.CommentID}
	})
}

// GetCommentsByDate thống kê số comment theo ngày (UTC), sắp xếp theo ngày tăng dần.
// groupID rỗng sẽ thống kê trên toàn bộ dữ liệu.
func (s *OkCommentService) GetCommentsByDate(ctx context.Context, groupID string) ([]bson.M, error) {
	pipeline := mongo.Pipeline{}
	if groupID != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{{Key: "groupId", Value: groupID}}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: bson.D{{Key: "$toDate", Value: "$postedAt"}}},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	)

	return s.Aggregate(ctx, pipeline)
}

// GetTopAuthors thống kê các tác giả comment nhiều nhất, giảm dần theo số comment.
// limit <= 0 sẽ dùng mặc định 10.
func (s *OkCommentService) GetTopAuthors(ctx context.Context, groupID string, limit int64) ([]bson.M, error) {
	if limit <= 0 {
		limit = 10
	}

	pipeline := mongo.Pipeline{}
	if groupID != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{{Key: "groupId", Value: groupID}}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$authorName"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	)

	return s.Aggregate(ctx, pipeline)
}
