package global

import (
	"ok_insight/config"
	"ok_insight/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_OkRu_CollectionName chứa tên các collection trong MongoDB
type MongoDB_OkRu_CollectionName struct {
	OkGroups      string // Tên collection cho nhóm OK.ru
	OkDiscussions string // Tên collection cho bài viết (discussion) trên OK.ru
	OkComments    string // Tên collection cho bình luận trên OK.ru
}

// Các biến toàn cục
var Validate *validator.Validate                                                    // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                                   // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                                      // Cấu hình của server
var MongoDB_ColNames MongoDB_OkRu_CollectionName = *new(MongoDB_OkRu_CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
