package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ok_insight/internal/utility"
)

type upsertDoc struct {
	ItemID     string `bson:"itemId"`
	Text       string `bson:"text"`
	LikesCount int64  `bson:"likesCount"`
	CreatedAt  int64  `bson:"createdAt"`
	UpdatedAt  int64  `bson:"updatedAt"`
}

// TestUpsertSetMapKeepsZeroValues kiểm tra zero value vẫn được ghi đè,
// để tái ingest luôn hội tụ về dữ liệu mới nhất (ví dụ lượt thích giảm về 0)
func TestUpsertSetMapKeepsZeroValues(t *testing.T) {
	dataMap, err := utility.ToMap(upsertDoc{ItemID: "c1", Text: "hi", LikesCount: 0})
	require.NoError(t, err)

	setMap := upsertSetMap(dataMap, 1700000000000)

	likes, ok := setMap["likesCount"]
	require.True(t, ok, "likesCount = 0 vẫn phải nằm trong $set")
	assert.EqualValues(t, 0, likes)
	assert.Equal(t, "hi", setMap["text"])
	assert.EqualValues(t, 1700000000000, setMap["updatedAt"])
}

// TestUpsertSetMapExcludesManagedFields kiểm tra các field do DB quản lý
// không lọt vào $set (createdAt chỉ được ghi qua $setOnInsert)
func TestUpsertSetMapExcludesManagedFields(t *testing.T) {
	dataMap := map[string]interface{}{
		"_id":       "abc",
		"createdAt": int64(123),
		"updatedAt": int64(456),
		"itemId":    "c1",
	}

	setMap := upsertSetMap(dataMap, 1700000000000)

	assert.NotContains(t, setMap, "_id")
	assert.NotContains(t, setMap, "createdAt")
	assert.Equal(t, "c1", setMap["itemId"])
	assert.EqualValues(t, 1700000000000, setMap["updatedAt"])
}

// TestUpsertSetMapDropsEmptyStrings kiểm tra string rỗng bị loại để
// sparse unique index hoạt động đúng
func TestUpsertSetMapDropsEmptyStrings(t *testing.T) {
	dataMap, err := utility.ToMap(upsertDoc{ItemID: "c1", Text: ""})
	require.NoError(t, err)

	setMap := upsertSetMap(dataMap, 1)

	assert.NotContains(t, setMap, "text")
	assert.Equal(t, "c1", setMap["itemId"])
}
