package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/atimics/chat/internal/auth"
	"github.com/atimics/chat/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CtxIdentityID    = "identity_id"
	CtxWalletAddress = "wallet_address"
	CtxMatrixUserID  = "matrix_user_id"
)

func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or malformed authorization header"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(CtxIdentityID, claims.IdentityID)
		c.Locals(CtxWalletAddress, claims.WalletAddress)
		c.Locals(CtxMatrixUserID, claims.MatrixUserID)

		return c.Next()
	}
}

func GetIdentityID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxIdentityID).(uuid.UUID)
	return id
}

func GetWalletAddress(c *fiber.Ctx) string {
	addr, _ := c.Locals(CtxWalletAddress).(string)
	return addr
}

// AdminMiddleware gates the admin surface on the Synapse admin token.
func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok || cfg.SynapseAdminToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(cfg.SynapseAdminToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return "", false
	}
	return token, true
}
