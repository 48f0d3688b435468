package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"z-copy-ai-api/internal/application/copywriting"
	"z-copy-ai-api/internal/config"
	"z-copy-ai-api/internal/infrastructure/persistence/redis"
	"z-copy-ai-api/internal/interfaces/http/dto"
	"z-copy-ai-api/pkg/logger"
)

const defaultAlternativeCount = 3

// GenerationHandler 文案生成处理器
type GenerationHandler struct {
	engine *copywriting.Engine
	cache  *redis.Cache
	cfg    *config.Config
}

// NewGenerationHandler 创建文案生成处理器
func NewGenerationHandler(engine *copywriting.Engine, cache *redis.Cache, cfg *config.Config) *GenerationHandler {
	return &GenerationHandler{
		engine: engine,
		cache:  cache,
		cfg:    cfg,
	}
}

// Generate 生成单条文案
// POST /v1/copies
func (h *GenerationHandler) Generate(c *gin.Context) {
	var body dto.GenerateCopyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, body.Provider, body.Model)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	req := body.ToDomain()
	req.Provider = provider
	req.Model = model
	if req.TolerancePercent <= 0 {
		req.TolerancePercent = h.cfg.Generation.DefaultTolerancePercent
	}
	if req.Language == "" {
		req.Language = h.cfg.Generation.DefaultLanguage
	}

	ctx := c.Request.Context()
	res, err := h.engine.Generate(ctx, req, progressLogger(ctx))
	if err != nil {
		dto.Fail(c, err)
		return
	}

	resp := dto.NewCopyResultResponse(uuid.New().String(), req.Mode, res)
	h.cacheResult(ctx, resp)
	dto.Success(c, resp)
}

// GenerateAlternatives 并行生成多条备选文案
// POST /v1/copies/alternatives
func (h *GenerationHandler) GenerateAlternatives(c *gin.Context) {
	var body dto.GenerateAlternativesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, body.Provider, body.Model)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	count := body.Count
	if count <= 0 {
		count = defaultAlternativeCount
	}
	if max := h.cfg.Generation.MaxAlternatives; max > 0 && count > max {
		count = max
	}

	ctx := c.Request.Context()
	results := make([]*copywriting.GenerationResult, count)
	errs := make([]error, count)

	// 各备选版本互相独立，单条失败不拖垮整批
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			req := body.ToDomain()
			req.Provider = provider
			req.Model = model
			if req.TolerancePercent <= 0 {
				req.TolerancePercent = h.cfg.Generation.DefaultTolerancePercent
			}
			if req.Language == "" {
				req.Language = h.cfg.Generation.DefaultLanguage
			}

			res, err := h.engine.Generate(gctx, req, nil)
			if err != nil {
				errs[i] = err
				logger.Warn(gctx, "alternative generation failed",
					"index", i, "error", err.Error())
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	mode := copywriting.Mode(body.Mode)
	alternatives := make([]dto.CopyResultResponse, 0, count)
	for _, res := range results {
		if res == nil {
			continue
		}
		resp := dto.NewCopyResultResponse(uuid.New().String(), mode, res)
		h.cacheResult(ctx, resp)
		alternatives = append(alternatives, resp)
	}

	if len(alternatives) == 0 {
		for _, err := range errs {
			if err != nil {
				dto.Fail(c, err)
				return
			}
		}
		dto.InternalError(c, "all alternatives failed")
		return
	}

	dto.Success(c, dto.AlternativesResponse{
		Alternatives: alternatives,
		Requested:    count,
		Succeeded:    len(alternatives),
	})
}

// GetByID 按 ID 读取缓存的生成结果
// GET /v1/copies/:id
func (h *GenerationHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		dto.BadRequest(c, "invalid copy id")
		return
	}

	var resp dto.CopyResultResponse
	err := h.cache.GetJSON(c.Request.Context(), redis.BuildCopyResultKey(id), &resp)
	if err != nil {
		if redis.IsNil(err) {
			dto.NotFound(c, "copy result not found or expired")
			return
		}
		logger.Error(c.Request.Context(), "failed to load copy result", err, "copy_id", id)
		dto.Error(c, http.StatusInternalServerError, "failed to load copy result")
		return
	}
	dto.Success(c, resp)
}

// cacheResult 写入结果缓存；失败只记日志
func (h *GenerationHandler) cacheResult(ctx context.Context, resp dto.CopyResultResponse) {
	if h.cache == nil {
		return
	}
	ttl := h.cfg.Generation.ResultCacheTTL
	if ttl <= 0 {
		return
	}
	if err := h.cache.Set(ctx, redis.BuildCopyResultKey(resp.ID), resp, ttl); err != nil {
		logger.Warn(ctx, "failed to cache copy result", "copy_id", resp.ID, "error", err.Error())
	}
}

// progressLogger 把阶段进度落到结构化日志
func progressLogger(ctx context.Context) copywriting.ProgressFunc {
	seq := 0
	return func(stage string) {
		seq++
		logger.Info(ctx, "generation progress", "seq", seq, "stage", stage)
	}
}
