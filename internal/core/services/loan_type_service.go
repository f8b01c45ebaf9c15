package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/karofin/loan_management_app/internal/core/domain"
	portsrepo "github.com/karofin/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/karofin/loan_management_app/internal/core/ports/services"
	"github.com/karofin/loan_management_app/internal/middleware"
)

const (
	loanTypeCacheKeyPrefix = "loan_type:"
	loanTypeListCacheKey   = "loan_types:all"
	loanTypeCacheTTL       = time.Hour // catalog is read-only at request time
)

// loanTypeService serves the product catalog, fronted by an optional Redis
// cache. Cache failures degrade to repository reads, never to request errors.
type loanTypeService struct {
	repo  portsrepo.LoanTypeRepositoryFacade
	redis *redis.Client
}

// NewLoanTypeService creates a new LoanTypeSvcFacade. redisClient may be nil
// to disable caching.
func NewLoanTypeService(repo portsrepo.LoanTypeRepositoryFacade, redisClient *redis.Client) portssvc.LoanTypeSvcFacade {
	return &loanTypeService{repo: repo, redis: redisClient}
}

var _ portssvc.LoanTypeSvcFacade = (*loanTypeService)(nil)

func (s *loanTypeService) GetLoanTypeByID(ctx context.Context, loanTypeID string) (*domain.LoanType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, loanTypeCacheKeyPrefix+loanTypeID).Result()
		if err == nil {
			var lt domain.LoanType
			if jsonErr := json.Unmarshal([]byte(cached), &lt); jsonErr == nil {
				return &lt, nil
			}
		} else if err != redis.Nil {
			logger.Warn("Loan type cache read failed", slog.String("error", err.Error()))
		}
	}

	lt, err := s.repo.FindLoanTypeByID(ctx, loanTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan type %s: %w", loanTypeID, err)
	}

	s.cacheLoanType(ctx, lt)
	return lt, nil
}

func (s *loanTypeService) ListLoanTypes(ctx context.Context) ([]domain.LoanType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, loanTypeListCacheKey).Result()
		if err == nil {
			var types []domain.LoanType
			if jsonErr := json.Unmarshal([]byte(cached), &types); jsonErr == nil {
				return types, nil
			}
		} else if err != redis.Nil {
			logger.Warn("Loan type list cache read failed", slog.String("error", err.Error()))
		}
	}

	types, err := s.repo.ListLoanTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan types: %w", err)
	}

	if s.redis != nil {
		if payload, jsonErr := json.Marshal(types); jsonErr == nil {
			if err := s.redis.Set(ctx, loanTypeListCacheKey, payload, loanTypeCacheTTL).Err(); err != nil {
				logger.Warn("Loan type list cache write failed", slog.String("error", err.Error()))
			}
		}
	}
	return types, nil
}

func (s *loanTypeService) CreateLoanType(ctx context.Context, loanType domain.LoanType) (*domain.LoanType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loanType.LoanTypeID = uuid.NewString()
	if err := s.repo.CreateLoanType(ctx, loanType); err != nil {
		return nil, fmt.Errorf("failed to create loan type %q: %w", loanType.Name, err)
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, loanTypeListCacheKey).Err(); err != nil {
			logger.Warn("Loan type list cache invalidation failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("Loan type created", slog.String("loan_type_id", loanType.LoanTypeID), slog.String("name", loanType.Name))
	return &loanType, nil
}

func (s *loanTypeService) cacheLoanType(ctx context.Context, lt *domain.LoanType) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(lt)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, loanTypeCacheKeyPrefix+lt.LoanTypeID, payload, loanTypeCacheTTL).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Loan type cache write failed", slog.String("error", err.Error()))
	}
}
