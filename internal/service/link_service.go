package service

import (
	"context"
	"strings"
	"time"

	"github.com/hbarlink/internal/cache"
	"github.com/hbarlink/internal/constants"
	"github.com/hbarlink/internal/ledger"
	"github.com/hbarlink/internal/logger"
	"github.com/hbarlink/internal/models"
	"github.com/hbarlink/internal/repository"
)

// LinkService 支付链接业务服务
type LinkService struct {
	repo            repository.LinkRepository
	slugMaxAttempts int
	cacheTTL        time.Duration
	now             func() time.Time
}

// NewLinkService 创建支付链接服务
func NewLinkService(repo repository.LinkRepository, slugMaxAttempts int, cacheTTL time.Duration) *LinkService {
	if slugMaxAttempts <= 0 {
		slugMaxAttempts = 1000
	}
	return &LinkService{
		repo:            repo,
		slugMaxAttempts: slugMaxAttempts,
		cacheTTL:        cacheTTL,
		now:             time.Now,
	}
}

// CreateLinkInput 创建/覆盖链接输入，Amount 为原始文本
type CreateLinkInput struct {
	ID            string
	Title         string
	To            string
	Amount        string
	Memo          string
	Description   string
	ComponentCode string
}

// UpdateLinkInput 部分更新输入，nil 表示未提供
type UpdateLinkInput struct {
	Title         *string
	To            *string
	Amount        *string
	Memo          *string
	Description   *string
	ComponentCode *string
}

// List 按创建时间倒序获取链接
func (s *LinkService) List(keyword string, page, pageSize int) ([]models.PaymentLink, int64, error) {
	return s.repo.List(repository.LinkListFilter{
		Keyword:  strings.TrimSpace(keyword),
		Page:     page,
		PageSize: pageSize,
	})
}

// Get 获取链接，优先读缓存
func (s *LinkService) Get(ctx context.Context, id string) (*models.PaymentLink, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrLinkNotFound
	}
	if cached, hit, err := cache.GetLink(ctx, id); err != nil {
		logger.Warnw("link_cache_get_failed", "link_id", id, "error", err)
	} else if hit {
		return cached, nil
	}

	gen, genErr := cache.LinkGeneration(ctx, id)
	if genErr != nil {
		logger.Warnw("link_cache_generation_failed", "link_id", id, "error", genErr)
	}
	link, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	if genErr == nil {
		if _, err := cache.SetLinkIfGeneration(ctx, link, s.cacheTTL, gen); err != nil {
			logger.Warnw("link_cache_set_failed", "link_id", id, "error", err)
		}
	}
	return link, nil
}

// CreateOrReplace 创建链接；显式 ID 按覆盖写入（后写生效），否则按标题分配唯一 ID
func (s *LinkService) CreateOrReplace(ctx context.Context, input CreateLinkInput) (*models.PaymentLink, error) {
	title := strings.TrimSpace(input.Title)
	to := strings.TrimSpace(input.To)
	amountText := strings.TrimSpace(input.Amount)
	if title == "" || to == "" || amountText == "" {
		return nil, ErrLinkFieldsRequired
	}
	if !ledger.IsAccountID(to) {
		return nil, ErrInvalidAccount
	}
	amount, ok := parsePositiveAmount(amountText)
	if !ok {
		return nil, ErrInvalidAmount
	}

	link := &models.PaymentLink{
		Title:         truncateRunes(title, constants.LinkTitleMaxLength),
		ToAccount:     to,
		Amount:        amount,
		Memo:          optionalText(input.Memo, constants.LinkMemoMaxLength),
		Description:   optionalText(input.Description, constants.LinkDescriptionMaxLength),
		ComponentCode: optionalText(input.ComponentCode, 0),
	}

	id := strings.TrimSpace(input.ID)
	if id != "" {
		if !IsValidLinkID(id) {
			return nil, ErrInvalidLinkID
		}
		link.ID = id
		if err := s.repo.Upsert(link); err != nil {
			return nil, err
		}
		s.invalidate(ctx, id)
	} else {
		allocated, err := s.createWithUniqueID(link, title)
		if err != nil {
			return nil, err
		}
		id = allocated
	}

	saved, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, ErrLinkNotFound
	}
	return saved, nil
}

// createWithUniqueID 依次尝试 base, base-1 ...，以原子插入判定归属
func (s *LinkService) createWithUniqueID(link *models.PaymentLink, title string) (string, error) {
	base := SlugBase(title, s.now())
	for n := 0; n < s.slugMaxAttempts; n++ {
		candidate := SlugCandidate(base, n)
		taken, err := s.repo.Exists(candidate)
		if err != nil {
			return "", err
		}
		if taken {
			continue
		}
		row := *link
		row.ID = candidate
		created, err := s.repo.CreateIfAbsent(&row)
		if err != nil {
			return "", err
		}
		if created {
			return candidate, nil
		}
		logger.Debugw("link_slug_conflict", "candidate", candidate)
	}
	return "", ErrSlugExhausted
}

// Update 仅更新请求中出现的字段，校验失败时不写入任何字段
func (s *LinkService) Update(ctx context.Context, id string, input UpdateLinkInput) (*models.PaymentLink, error) {
	id = strings.TrimSpace(id)
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrLinkNotFound
	}

	updates := make(map[string]interface{})
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrLinkFieldsRequired
		}
		updates["title"] = truncateRunes(title, constants.LinkTitleMaxLength)
	}
	if input.To != nil {
		to := strings.TrimSpace(*input.To)
		if !ledger.IsAccountID(to) {
			return nil, ErrInvalidAccount
		}
		updates["to_account"] = to
	}
	if input.Amount != nil {
		amount, ok := parsePositiveAmount(*input.Amount)
		if !ok {
			return nil, ErrInvalidAmount
		}
		updates["amount"] = amount
	}
	if input.Memo != nil {
		updates["memo"] = optionalText(*input.Memo, constants.LinkMemoMaxLength)
	}
	if input.Description != nil {
		updates["description"] = optionalText(*input.Description, constants.LinkDescriptionMaxLength)
	}
	if input.ComponentCode != nil {
		updates["component_code"] = optionalText(*input.ComponentCode, 0)
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if _, err := s.repo.UpdateFields(id, updates); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrLinkNotFound
	}
	return updated, nil
}

// Delete 删除链接，不存在时视为成功
func (s *LinkService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	affected, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		logger.Debugw("link_delete_noop", "link_id", id)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *LinkService) invalidate(ctx context.Context, id string) {
	if err := cache.DelLink(ctx, id); err != nil {
		logger.Warnw("link_cache_del_failed", "link_id", id, "error", err)
	}
}
