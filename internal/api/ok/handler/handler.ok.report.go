package okhdl

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	basehdl "ok_insight/internal/api/base/handler"
	oksvc "ok_insight/internal/api/ok/service"
)

// OkReportHandler trả về các thống kê trên dữ liệu comment đã thu thập
type OkReportHandler struct {
	commentService *oksvc.OkCommentService
}

// NewOkReportHandler tạo mới OkReportHandler
func NewOkReportHandler() (*OkReportHandler, error) {
	commentService, err := oksvc.NewOkCommentService()
	if err != nil {
		return nil, err
	}
	return &OkReportHandler{commentService: commentService}, nil
}

// HandleCommentsByDate thống kê số comment theo ngày.
// GET /okru/report/comments-by-date?groupId=...
func (h *OkReportHandler) HandleCommentsByDate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		result, err := h.commentService.GetCommentsByDate(c.Context(), c.Query("groupId"))
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleTopAuthors thống kê các tác giả comment nhiều nhất.
// GET /okru/report/top-authors?groupId=...&limit=10
func (h *OkReportHandler) HandleTopAuthors(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
		result, err := h.commentService.GetTopAuthors(c.Context(), c.Query("groupId"), limit)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}
