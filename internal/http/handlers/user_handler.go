package handlers

import (
	"github.com/atimics/chat/internal/http/dto"
	"github.com/atimics/chat/internal/middleware"
	"github.com/atimics/chat/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	identityRepo *repositories.IdentityRepo
	log          *zap.Logger
}

func NewUserHandler(identityRepo *repositories.IdentityRepo, log *zap.Logger) *UserHandler {
	return &UserHandler{identityRepo: identityRepo, log: log}
}

// GetMe returns the authenticated identity.
// GET /api/me
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	wallet := middleware.GetWalletAddress(c)
	ident, err := h.identityRepo.GetActiveByWallet(c.Context(), wallet)
	if err != nil {
		if repositories.IsNoRows(err) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "identity not found"})
		}
		h.log.Error("failed to load identity", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.MeResponse{
		MatrixUserID:   ident.MatrixUserID,
		Pseudonym:      ident.Pseudonym,
		WalletAddress:  ident.WalletAddress,
		Chain:          ident.Chain,
		RegisteredAt:   ident.RegisteredAt,
		LastVerifiedAt: ident.LastVerifiedAt,
	})
}
