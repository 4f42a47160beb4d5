// Package okhdl - handler thu thập dữ liệu group OK.ru (parse group/discussion/full).
package okhdl

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	basehdl "ok_insight/internal/api/base/handler"
	okdto "ok_insight/internal/api/ok/dto"
	oksvc "ok_insight/internal/api/ok/service"
	"ok_insight/internal/common"
	"ok_insight/internal/global"
)

// OkIngestHandler nhận các request kích hoạt thu thập dữ liệu từ OK API
type OkIngestHandler struct {
	ingestService *oksvc.OkIngestService
	defaultCount  int
}

// NewOkIngestHandler tạo mới OkIngestHandler
func NewOkIngestHandler(ingestService *oksvc.OkIngestService, defaultCount int) *OkIngestHandler {
	if defaultCount <= 0 {
		defaultCount = 100
	}
	return &OkIngestHandler{
		ingestService: ingestService,
		defaultCount:  defaultCount,
	}
}

// HandleParseGroup thu thập thông tin một group theo id và lưu vào DB.
// POST /okru/parse/group/:id
func (h *OkIngestHandler) HandleParseGroup(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		group, err := h.ingestService.ParseGroup(c.Context(), c.Params("id"))
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, okdto.ParseGroupResult{
			GroupID:      group.GroupID,
			Name:         group.Name,
			MembersCount: group.MembersCount,
		}, nil)
		return nil
	})
}

// HandleParseDiscussion thu thập comment của một discussion.
// POST /okru/parse/discussion
func (h *OkIngestHandler) HandleParseDiscussion(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var req okdto.ParseDiscussionRequest
		if err := c.Bind().Body(&req); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error()))
			return nil
		}
		if err := global.Validate.Struct(&req); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
			return nil
		}

		count := req.Count
		if count <= 0 {
			count = h.defaultCount
		}

		saved, err := h.ingestService.ParseDiscussion(
			c.Context(), req.DiscussionID, req.GroupID, req.DiscussionType, count, req.DiscussionText)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, okdto.ParseDiscussionResult{
			DiscussionID:  req.DiscussionID,
			CommentsSaved: saved,
		}, nil)
		return nil
	})
}

// HandleFullParse chạy toàn bộ pipeline cho một group: thông tin group,
// danh sách discussion và comment của từng discussion.
// Query maxDiscussions giới hạn số discussion cho riêng lần gọi này,
// bỏ trống sẽ dùng giới hạn cấu hình.
// POST /okru/parse/full/:id?maxDiscussions=...
func (h *OkIngestHandler) HandleFullParse(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		maxDiscussions, err := strconv.Atoi(c.Query("maxDiscussions", "0"))
		if err != nil || maxDiscussions < 0 {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"maxDiscussions phải là số nguyên không âm",
				common.StatusBadRequest, nil))
			return nil
		}

		summary, err := h.ingestService.FullParse(c.Context(), c.Params("id"), maxDiscussions)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, summary, nil)
		return nil
	})
}
