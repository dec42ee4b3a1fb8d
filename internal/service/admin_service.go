package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
	"github.com/devanshjhaa/TicketsManage/internal/repository"
	apperrors "github.com/devanshjhaa/TicketsManage/pkg/util"
)

const (
	dashboardCacheKey = "admin:dashboard"
	dashboardCacheTTL = 30 * time.Second
)

// AdminService backs the admin surface: dashboard aggregates, account
// management and per-agent workload stats. Dashboard counts are cached in
// Redis with a short TTL since they back a frequently polled page.
type AdminService struct {
	repos  repository.Repositories
	cache  *redis.Client
	logger *zap.Logger
}

// NewAdminService constructs the service. A nil cache disables caching.
func NewAdminService(repos repository.Repositories, cache *redis.Client, logger *zap.Logger) *AdminService {
	return &AdminService{repos: repos, cache: cache, logger: logger}
}

// DashboardStats aggregates ticket counts for the admin overview.
type DashboardStats struct {
	ByStatus   map[domain.TicketStatus]int64   `json:"by_status"`
	ByPriority map[domain.TicketPriority]int64 `json:"by_priority"`
	Active     int64                           `json:"active"`
	Deleted    int64                           `json:"deleted"`
}

// AgentStats summarizes one agent's workload.
type AgentStats struct {
	AgentID  string `json:"agent_id"`
	Assigned int64  `json:"assigned"`
	Resolved int64  `json:"resolved"`
}

// Dashboard returns aggregate ticket counts, served from cache when fresh.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if cached := s.cachedDashboard(ctx); cached != nil {
		return cached, nil
	}

	byStatus, err := s.repos.Tickets.CountsByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.repos.Tickets.CountsByPriority(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	active, err := s.repos.Tickets.CountActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	deleted, err := s.repos.Tickets.CountDeleted(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &DashboardStats{
		ByStatus:   byStatus,
		ByPriority: byPriority,
		Active:     active,
		Deleted:    deleted,
	}
	s.cacheDashboard(ctx, stats)
	return stats, nil
}

// ListUsers returns accounts matching the filter.
func (s *AdminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.repos.Users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateUserRole changes an account's role. Admins cannot demote themselves,
// which keeps at least the acting admin in place.
func (s *AdminService) UpdateUserRole(ctx context.Context, requester *domain.User, userID string, role domain.UserRole) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if requester != nil && requester.ID == userID && role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("cannot change your own role", nil)
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	user.Role = role
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetUserActive suspends or reinstates an account. Suspended accounts fail
// authentication on their next request.
func (s *AdminService) SetUserActive(ctx context.Context, requester *domain.User, userID string, active bool) (*domain.User, error) {
	if requester != nil && requester.ID == userID && !active {
		return nil, apperrors.NewValidationError("cannot suspend your own account", nil)
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	user.Active = active
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// StatsForAgent returns assigned and resolved counts for one agent.
func (s *AdminService) StatsForAgent(ctx context.Context, agentID string) (*AgentStats, error) {
	agent, err := s.repos.Users.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": agentID})
		}
		return nil, apperrors.MapError(err)
	}
	if agent.Role != domain.RoleSupportAgent && agent.Role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("user is not a support agent", map[string]any{"user_id": agentID})
	}

	assigned, err := s.repos.Tickets.CountAssignedTo(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	resolved, err := s.repos.Tickets.CountResolvedFor(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &AgentStats{AgentID: agentID, Assigned: assigned, Resolved: resolved}, nil
}

func (s *AdminService) cachedDashboard(ctx context.Context) *DashboardStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("dashboard cache corrupt", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *AdminService) cacheDashboard(ctx context.Context, stats *DashboardStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}
