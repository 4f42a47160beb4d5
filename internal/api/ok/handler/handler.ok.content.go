package okhdl

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	basehdl "ok_insight/internal/api/base/handler"
	"ok_insight/internal/api/ok/models"
	oksvc "ok_insight/internal/api/ok/service"
	"ok_insight/internal/common"
)

// OkGroupHandler cung cấp các route đọc dữ liệu cho collection ok_groups
type OkGroupHandler struct {
	*basehdl.BaseHandler[models.OkGroup]
	groupService *oksvc.OkGroupService
}

// NewOkGroupHandler tạo mới OkGroupHandler
func NewOkGroupHandler() (*OkGroupHandler, error) {
	svc, err := oksvc.NewOkGroupService()
	if err != nil {
		return nil, err
	}
	return &OkGroupHandler{
		BaseHandler:  basehdl.NewBaseHandler[models.OkGroup](svc),
		groupService: svc,
	}, nil
}

// HandleFindByUID tìm group theo uid trên OK.ru.
// GET /okru/groups/by-uid/:uid
func (h *OkGroupHandler) HandleFindByUID(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		group, err := h.groupService.FindByGroupID(c.Context(), c.Params("uid"))
		basehdl.HandleResponse(c, group, err)
		return nil
	})
}

// OkDiscussionHandler cung cấp các route đọc dữ liệu cho collection ok_discussions
type OkDiscussionHandler struct {
	*basehdl.BaseHandler[models.OkDiscussion]
	discussionService *oksvc.OkDiscussionService
}

// NewOkDiscussionHandler tạo mới OkDiscussionHandler
func NewOkDiscussionHandler() (*OkDiscussionHandler, error) {
	svc, err := oksvc.NewOkDiscussionService()
	if err != nil {
		return nil, err
	}
	return &OkDiscussionHandler{
		BaseHandler:       basehdl.NewBaseHandler[models.OkDiscussion](svc),
		discussionService: svc,
	}, nil
}

// HandleFindByGroup liệt kê discussion của một group, mới nhất trước.
// GET /okru/discussions/by-group/:gid
func (h *OkDiscussionHandler) HandleFindByGroup(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		discussions, err := h.discussionService.FindByGroupID(c.Context(), c.Params("gid"))
		basehdl.HandleResponse(c, discussions, err)
		return nil
	})
}

// OkCommentHandler cung cấp các route đọc dữ liệu cho collection ok_comments
type OkCommentHandler struct {
	*basehdl.BaseHandler[models.OkComment]
	commentService *oksvc.OkCommentService
}

// NewOkCommentHandler tạo mới OkCommentHandler
func NewOkCommentHandler() (*OkCommentHandler, error) {
	svc, err := oksvc.NewOkCommentService()
	if err != nil {
		return nil, err
	}
	return &OkCommentHandler{
		BaseHandler:    basehdl.NewBaseHandler[models.OkComment](svc),
		commentService: svc,
	}, nil
}

// HandleFindByDiscussion liệt kê comment của một discussion, mới nhất trước.
// GET /okru/comments/by-discussion/:id
func (h *OkCommentHandler) HandleFindByDiscussion(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		comments, err := h.commentService.FindByDiscussionID(c.Context(), c.Params("id"))
		basehdl.HandleResponse(c, comments, err)
		return nil
	})
}

// HandleFindByAuthor liệt kê comment của một tác giả, mới nhất trước.
// GET /okru/comments/by-author/:id
func (h *OkCommentHandler) HandleFindByAuthor(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		comments, err := h.commentService.FindByAuthorID(c.Context(), c.Params("id"))
		basehdl.HandleResponse(c, comments, err)
		return nil
	})
}

// HandleFindByDateRange liệt kê comment đăng trong khoảng [from, to) theo mili giây epoch.
// GET /okru/comments/by-date?from=...&to=...
func (h *OkCommentHandler) HandleFindByDateRange(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		from, errFrom := strconv.ParseInt(c.Query("from"), 10, 64)
		to, errTo := strconv.ParseInt(c.Query("to"), 10, 64)
		if errFrom != nil || errTo != nil || from >= to {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"from và to phải là mili giây epoch hợp lệ, from < to",
				common.StatusBadRequest, nil))
			return nil
		}

		comments, err := h.commentService.FindByDateRange(c.Context(), from, to)
		basehdl.HandleResponse(c, comments, err)
		return nil
	})
}
