// Package router đăng ký các route thuộc domain OK.ru: kích hoạt thu thập
// (parse), báo cáo thống kê và đọc dữ liệu đã thu thập.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	okhdl "ok_insight/internal/api/ok/handler"
	oksvc "ok_insight/internal/api/ok/service"
	apirouter "ok_insight/internal/api/router"
	"ok_insight/internal/global"
	"ok_insight/internal/okapi"
)

// Register đăng ký tất cả route của domain OK.ru lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	cfg := global.MongoDB_ServerConfig

	ingestService, err := oksvc.NewOkIngestService(okapi.NewClient(cfg), cfg)
	if err != nil {
		return fmt.Errorf("create ok ingest service: %w", err)
	}
	ingestHandler := okhdl.NewOkIngestHandler(ingestService, cfg.Ingest_CommentsPerDiscussion)

	reportHandler, err := okhdl.NewOkReportHandler()
	if err != nil {
		return fmt.Errorf("create ok report handler: %w", err)
	}

	okru := v1.Group("/okru")

	// Kích hoạt thu thập
	okru.Post("/parse/group/:id", ingestHandler.HandleParseGroup)
	okru.Post("/parse/discussion", ingestHandler.HandleParseDiscussion)
	okru.Post("/parse/full/:id", ingestHandler.HandleFullParse)

	// Báo cáo thống kê
	okru.Get("/report/comments-by-date", reportHandler.HandleCommentsByDate)
	okru.Get("/report/top-authors", reportHandler.HandleTopAuthors)

	// Đọc dữ liệu đã thu thập
	groupHandler, err := okhdl.NewOkGroupHandler()
	if err != nil {
		return fmt.Errorf("create ok group handler: %w", err)
	}
	r.RegisterReadRoutes(okru, "/groups", groupHandler, apirouter.FullReadConfig)
	okru.Get("/groups/by-uid/:uid", groupHandler.HandleFindByUID)

	discussionHandler, err := okhdl.NewOkDiscussionHandler()
	if err != nil {
		return fmt.Errorf("create ok discussion handler: %w", err)
	}
	r.RegisterReadRoutes(okru, "/discussions", discussionHandler, apirouter.FullReadConfig)
	okru.Get("/discussions/by-group/:gid", discussionHandler.HandleFindByGroup)

	commentHandler, err := okhdl.NewOkCommentHandler()
	if err != nil {
		return fmt.Errorf("create ok comment handler: %w", err)
	}
	r.RegisterReadRoutes(okru, "/comments", commentHandler, apirouter.FullReadConfig)
	okru.Get("/comments/by-discussion/:id", commentHandler.HandleFindByDiscussion)
	okru.Get("/comments/by-author/:id", commentHandler.HandleFindByAuthor)
	okru.Get("/comments/by-date", commentHandler.HandleFindByDateRange)

	return nil
}
