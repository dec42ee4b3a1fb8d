package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/devanshjhaa/TicketsManage/internal/api/dto"
	"github.com/devanshjhaa/TicketsManage/internal/auth"
	"github.com/devanshjhaa/TicketsManage/internal/domain"
	"github.com/devanshjhaa/TicketsManage/internal/repository"
	"github.com/devanshjhaa/TicketsManage/internal/service"
	apperrors "github.com/devanshjhaa/TicketsManage/pkg/util"
)

// AdminHandler exposes the admin dashboard and account management.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Dashboard GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.admin.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	filter := repository.UserFilter{
		Limit:  parseInt(c.Query("page_size"), 50),
		Offset: (parseInt(c.Query("page"), 1) - 1) * parseInt(c.Query("page_size"), 50),
	}
	if roleStr := strings.TrimSpace(c.Query("role")); roleStr != "" {
		role := domain.UserRole(roleStr)
		filter.Role = &role
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active := c.QueryBool("active")
		filter.Active = &active
	}

	users, err := h.admin.ListUsers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateUserRole PATCH /admin/users/:id/role.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.admin.UpdateUserRole(c.UserContext(), principal, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateUserActive PATCH /admin/users/:id/active.
func (h *AdminHandler) UpdateUserActive(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.admin.SetUserActive(c.UserContext(), principal, c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// AgentStats GET /admin/agents/:id/stats.
func (h *AdminHandler) AgentStats(c *fiber.Ctx) error {
	stats, err := h.admin.StatsForAgent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
