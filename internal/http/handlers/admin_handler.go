package handlers

import (
	"time"

	"github.com/atimics/chat/internal/config"
	"github.com/atimics/chat/internal/http/dto"
	"github.com/atimics/chat/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AdminHandler struct {
	identityRepo *repositories.IdentityRepo
	cfg          *config.Config
	log          *zap.Logger
}

func NewAdminHandler(identityRepo *repositories.IdentityRepo, cfg *config.Config, log *zap.Logger) *AdminHandler {
	return &AdminHandler{identityRepo: identityRepo, cfg: cfg, log: log}
}

// ListUsers returns all registrations, newest first.
// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	idents, err := h.identityRepo.ListAll(c.Context())
	if err != nil {
		h.log.Error("failed to list identities", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to fetch users"})
	}

	users := make([]dto.AdminUser, 0, len(idents))
	for _, ident := range idents {
		users = append(users, dto.AdminUser{
			WalletAddress:  ident.WalletAddress,
			MatrixUserID:   ident.MatrixUserID,
			Pseudonym:      ident.Pseudonym,
			NFTCreator:     ident.NFTCreator,
			RegisteredAt:   ident.RegisteredAt,
			LastVerifiedAt: ident.LastVerifiedAt,
			IsActive:       ident.IsActive,
		})
	}

	return c.JSON(dto.AdminUsersResponse{Users: users})
}

// GetStats returns registration counters.
// GET /api/stats
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	total, active, err := h.identityRepo.Count(c.Context())
	if err != nil {
		h.log.Error("failed to count identities", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.StatsResponse{
		TotalRegistrations:  total,
		ActiveRegistrations: active,
		AuthorizedCreators:  len(h.cfg.AuthorizedCreators),
		Timestamp:           time.Now().UTC(),
	})
}
