package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"ok_insight/internal/api/ok/models"
	basesvc "ok_insight/internal/api/base/service"
	"ok_insight/internal/common"
	"ok_insight/internal/global"
)

// OkGroupService là service quản lý các group OK.ru đã thu thập
type OkGroupService struct {
	*basesvc.BaseServiceMongoImpl[models.OkGroup]
}

// NewOkGroupService tạo mới OkGroupService
func NewOkGroupService() (*OkGroupService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OkGroups)
	if !exist {
		return nil, fmt.Errorf("failed to get ok_groups collection: %v", common.ErrNotFound)
	}

	return &OkGroupService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.OkGroup](collection),
	}, nil
}

// FindByGroupID tìm group theo id trên OK.ru
func (s *OkGroupService) FindByGroupID(ctx context.Context, groupID string) (models.OkGroup, error) {
	return s.FindOne(ctx, bson.M{"groupId": groupID}, nil)
}

// UpsertByGroupID ghi đè hoặc tạo mới group theo khóa tự nhiên groupId
func (s *OkGroupService) UpsertByGroupID(ctx context.Context, group *models.OkGroup) (models.OkGroup, error) {
	return s.Upsert(ctx, bson.M{"groupId": group.GroupID}, *group)
}
