package handlers

import (
	"errors"

	"github.com/atimics/chat/internal/auth"
	"github.com/atimics/chat/internal/config"
	"github.com/atimics/chat/internal/http/dto"
	"github.com/atimics/chat/internal/middleware"
	"github.com/atimics/chat/internal/services"
	"github.com/atimics/chat/internal/signature"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg, log: log}
}

// RequestNonce issues a signing challenge.
// POST /auth/nonce
func (h *AuthHandler) RequestNonce(c *fiber.Ctx) error {
	var req dto.NonceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.WalletAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "wallet_address is required"})
	}

	n, message, err := h.authService.RequestNonce(c.Context(), req.WalletAddress, parseChain(req.Chain))
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet address format"})
		}
		h.log.Error("failed to issue nonce", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.NonceResponse{Nonce: n.Nonce, Message: message})
}

// Verify checks the signed challenge and registers or fetches the identity.
// POST /auth/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.WalletAddress == "" || req.Signature == "" || req.Nonce == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "wallet_address, signature, and nonce are required"})
	}

	bundle, err := h.authService.Authenticate(c.Context(), req.WalletAddress, req.Signature, req.Nonce, parseChain(req.Chain))
	if err != nil {
		return h.verifyError(c, err)
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, bundle.Identity.ID, bundle.Identity.WalletAddress, bundle.Identity.MatrixUserID, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.VerifyResponse{
		Success: true,
		Token:   token,
		User: dto.AuthUser{
			MatrixUserID: bundle.Identity.MatrixUserID,
			Pseudonym:    bundle.Identity.Pseudonym,
			TempPassword: bundle.Identity.TempPassword,
			IsNewUser:    bundle.IsNewUser,
			NFT:          bundle.Asset,
		},
	})
}

func (h *AuthHandler) verifyError(c *fiber.Ctx, err error) error {
	reqID, _ := c.Locals(middleware.CtxRequestID).(string)

	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet address format", RequestID: reqID})
	case errors.Is(err, services.ErrInvalidNonce):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid or expired nonce", RequestID: reqID})
	case errors.Is(err, services.ErrBadSignature):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid wallet signature", RequestID: reqID})
	case errors.Is(err, services.ErrNotEligible):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error:     "no qualifying NFTs found, you must own an NFT from an authorized creator to register",
			RequestID: reqID,
		})
	case errors.Is(err, services.ErrPseudonymCollision):
		h.log.Error("pseudonym collision during registration", zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error:     "derived chat identity is already taken, contact an administrator",
			RequestID: reqID,
		})
	case errors.Is(err, services.ErrUpstreamUnavailable):
		h.log.Warn("upstream unavailable during verify", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "upstream service unavailable", RequestID: reqID})
	case errors.Is(err, services.ErrProvisioning):
		h.log.Error("chat account provisioning failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to create chat account", RequestID: reqID})
	default:
		h.log.Error("verify failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error", RequestID: reqID})
	}
}

// parseChain defaults to solana, matching the primary auth path.
func parseChain(s string) signature.Chain {
	if s == "" {
		return signature.ChainSolana
	}
	return signature.Chain(s)
}
