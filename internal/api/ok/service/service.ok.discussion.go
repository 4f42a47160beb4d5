package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ok_insight/internal/api/ok/models"
	basesvc "ok_insight/internal/api/base/service"
	"ok_insight/internal/common"
	"ok_insight/internal/global"
)

// OkDiscussionService là service quản lý các discussion OK.ru đã thu thập
type OkDiscussionService struct {
	*basesvc.BaseServiceMongoImpl[models.OkDiscussion]
}

// NewOkDiscussionService tạo mới OkDiscussionService
func NewOkDiscussionService() (*OkDiscussionService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OkDiscussions)
	if !exist {
		return nil, fmt.Errorf("failed to get ok_discussions collection: %v", common.ErrNotFound)
	}

	return &OkDiscussionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.OkDiscussion](collection),
	}, nil
}

// FindByGroupID tìm các discussion của một group, mới nhất trước
func (s *OkDiscussionService) FindByGroupID(ctx context.Context, groupID string) ([]models.OkDiscussion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "postedAt", Value: -1}})
	return s.Find(ctx, bson.M{"groupId": groupID}, opts)
}

// UpsertByDiscussionID ghi đè hoặc tạo mới discussion theo khóa tự nhiên discussionId
func (s *OkDiscussionService) UpsertByDiscussionID(ctx context.Context, discussion *models.OkDiscussion) (models.OkDiscussion, error) {
	return s.Upsert(ctx, bson.M{"discussionId": discussion.DiscussionID}, *discussion)
}
