package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/atimics/chat/internal/config"
	"github.com/atimics/chat/internal/events"
	"github.com/atimics/chat/internal/identity"
	"github.com/atimics/chat/internal/matrix"
	"github.com/atimics/chat/internal/models"
	"github.com/atimics/chat/internal/nft"
	"github.com/atimics/chat/internal/repositories"
	"github.com/atimics/chat/internal/signature"
	"go.uber.org/zap"
)

// NonceStore issues and single-use-consumes signing challenges.
type NonceStore interface {
	Create(ctx context.Context, walletAddress string, ttl time.Duration) (*models.NonceChallenge, error)
	Consume(ctx context.Context, nonce, walletAddress string) (*models.NonceChallenge, error)
}

// IdentityStore is the durable wallet-to-identity mapping.
type IdentityStore interface {
	Create(ctx context.Context, ident *models.Identity) error
	GetActiveByWallet(ctx context.Context, walletAddress string) (*models.Identity, error)
	MatrixUserIDTaken(ctx context.Context, matrixUserID string) (bool, error)
	TouchLastVerified(ctx context.Context, walletAddress string) error
}

// EligibilityChecker decides whether a wallet qualifies for registration.
type EligibilityChecker interface {
	CheckEligibility(ctx context.Context, walletAddress string, authorizedCreators []string) (bool, *nft.QualifyingAsset, error)
}

// ChatProvisioner creates accounts and issues room invites on the chat backend.
type ChatProvisioner interface {
	CreateAccount(ctx context.Context, userID, password, displayName string) error
	InviteToRoom(ctx context.Context, userID, roomID string) error
}

// CredentialBundle is the only successful outcome of an authentication attempt.
type CredentialBundle struct {
	Identity  *models.Identity
	Asset     *nft.QualifyingAsset
	IsNewUser bool
}

// AuthService sequences nonce consumption, signature verification, eligibility
// and registration for each inbound authentication attempt.
type AuthService struct {
	nonces      NonceStore
	identities  IdentityStore
	eligibility EligibilityChecker
	chat        ChatProvisioner
	publisher   events.Publisher
	cfg         *config.Config
	log         *zap.Logger

	// Derive maps a wallet address to (pseudonym, matrix user id). Replaceable
	// so tests can pin exact outputs.
	Derive func(walletAddress string) (pseudonym, matrixUserID string)
}

func NewAuthService(
	nonces NonceStore,
	identities IdentityStore,
	eligibility EligibilityChecker,
	chat ChatProvisioner,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *AuthService {
	s := &AuthService{
		nonces:      nonces,
		identities:  identities,
		eligibility: eligibility,
		chat:        chat,
		publisher:   publisher,
		cfg:         cfg,
		log:         log,
	}
	s.Derive = func(walletAddress string) (string, string) {
		pseudonym := identity.Pseudonym(walletAddress)
		return pseudonym, identity.MatrixUserID(pseudonym, cfg.MatrixServerName)
	}
	return s
}

// ChallengeMessage is the exact text the wallet signs for a given nonce.
func (s *AuthService) ChallengeMessage(nonce string) string {
	return fmt.Sprintf("Sign this message to authenticate with %s: %s", s.cfg.AppName, nonce)
}

// RequestNonce issues a fresh challenge for a syntactically valid wallet.
func (s *AuthService) RequestNonce(ctx context.Context, walletAddress string, chain signature.Chain) (*models.NonceChallenge, string, error) {
	if walletAddress == "" || !signature.IsSupportedChain(chain) {
		return nil, "", ErrInvalidInput
	}
	if !signature.ValidAddress(walletAddress, chain) {
		return nil, "", fmt.Errorf("%w: invalid wallet address format", ErrInvalidInput)
	}

	n, err := s.nonces.Create(ctx, walletAddress, s.cfg.NonceTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create nonce: %w", err)
	}
	return n, s.ChallengeMessage(n.Nonce), nil
}

// Authenticate runs the full attempt: consume nonce, verify signature, then
// fetch the existing identity or register a new one.
//
// The nonce is consumed before the signature check, so a wrong signature burns
// it and the client must request a new one. That ordering is the replay guard:
// a signature observed on the wire can never be submitted a second time.
func (s *AuthService) Authenticate(ctx context.Context, walletAddress, sig, nonce string, chain signature.Chain) (*CredentialBundle, error) {
	if walletAddress == "" || sig == "" || nonce == "" || !signature.IsSupportedChain(chain) {
		return nil, ErrInvalidInput
	}
	if !signature.ValidAddress(walletAddress, chain) {
		return nil, fmt.Errorf("%w: invalid wallet address format", ErrInvalidInput)
	}

	if _, err := s.nonces.Consume(ctx, nonce, walletAddress); err != nil {
		if repositories.IsNoRows(err) {
			return nil, ErrInvalidNonce
		}
		return nil, fmt.Errorf("nonce lookup failed: %w", err)
	}

	message := s.ChallengeMessage(nonce)
	if !signature.Verify(walletAddress, sig, message, chain) {
		return nil, ErrBadSignature
	}

	return s.registerOrFetch(ctx, walletAddress, chain)
}

// registerOrFetch returns the existing identity for the wallet, or gates a new
// registration on asset eligibility. Existing identities are not re-gated:
// a wallet that qualified once keeps its identity even if it no longer holds
// the asset.
func (s *AuthService) registerOrFetch(ctx context.Context, walletAddress string, chain signature.Chain) (*CredentialBundle, error) {
	existing, err := s.identities.GetActiveByWallet(ctx, walletAddress)
	if err == nil {
		if err := s.identities.TouchLastVerified(ctx, walletAddress); err != nil {
			s.log.Warn("failed to update last_verified_at", zap.Error(err))
		}
		s.publish(ctx, events.EventAuthSucceeded, existing, false)
		return &CredentialBundle{Identity: existing, IsNewUser: false}, nil
	}
	if !repositories.IsNoRows(err) {
		return nil, fmt.Errorf("identity lookup failed: %w", err)
	}

	eligible, asset, err := s.eligibility.CheckEligibility(ctx, walletAddress, s.cfg.AuthorizedCreators)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, err)
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	pseudonym, matrixUserID := s.Derive(walletAddress)
	tempPassword := generatePassword()

	// Hash collisions across wallets map to the same chat user id. The
	// provisioning PUT upserts, so going ahead would reset the existing
	// user's password. Stop here instead.
	taken, err := s.identities.MatrixUserIDTaken(ctx, matrixUserID)
	if err != nil {
		return nil, fmt.Errorf("chat user id lookup failed: %w", err)
	}
	if taken {
		s.log.Warn("pseudonym collision across wallets",
			zap.String("wallet", walletAddress),
			zap.String("matrix_user_id", matrixUserID),
		)
		return nil, ErrPseudonymCollision
	}

	// Provision the chat account first: an identity row without a working chat
	// account must never exist.
	if err := s.chat.CreateAccount(ctx, matrixUserID, tempPassword, pseudonym); err != nil {
		var provErr *matrix.ProvisioningError
		if errors.As(err, &provErr) {
			return nil, fmt.Errorf("%w: %s", ErrProvisioning, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, err)
	}

	ident := &models.Identity{
		WalletAddress: walletAddress,
		Chain:         string(chain),
		MatrixUserID:  matrixUserID,
		Pseudonym:     pseudonym,
		TempPassword:  tempPassword,
	}
	if asset != nil {
		ident.NFTMint = &asset.Mint
		ident.NFTCreator = &asset.Creator
	}

	if err := s.identities.Create(ctx, ident); err != nil {
		if repositories.IsNoRows(err) {
			// Lost a first-registration race; the winner's record is the
			// identity for this wallet.
			winner, err := s.identities.GetActiveByWallet(ctx, walletAddress)
			if err != nil {
				return nil, fmt.Errorf("identity re-read after conflict failed: %w", err)
			}
			s.publish(ctx, events.EventAuthSucceeded, winner, false)
			return &CredentialBundle{Identity: winner, IsNewUser: false}, nil
		}
		if repositories.IsUniqueViolation(err) {
			// Collision slipped past the pre-check in the race window; the
			// colliding user's Matrix password has been reset by our PUT.
			s.log.Error("pseudonym collision detected at insert",
				zap.String("wallet", walletAddress),
				zap.String("matrix_user_id", matrixUserID),
			)
			return nil, ErrPseudonymCollision
		}
		return nil, fmt.Errorf("failed to store identity: %w", err)
	}

	// Best-effort: a failed invite must not fail the registration.
	if err := s.chat.InviteToRoom(ctx, matrixUserID, s.cfg.MainRoomID); err != nil {
		s.log.Warn("room invite failed",
			zap.String("matrix_user_id", matrixUserID),
			zap.String("room_id", s.cfg.MainRoomID),
			zap.Error(err),
		)
	}

	s.log.Info("identity registered",
		zap.String("wallet", walletAddress),
		zap.String("matrix_user_id", matrixUserID),
		zap.String("pseudonym", pseudonym),
	)
	s.publish(ctx, events.EventIdentityRegistered, ident, true)

	return &CredentialBundle{Identity: ident, Asset: asset, IsNewUser: true}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, ident *models.Identity, isNew bool) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.StreamAuth, events.Event{
		Type: eventType,
		Payload: map[string]any{
			"wallet_address": ident.WalletAddress,
			"matrix_user_id": ident.MatrixUserID,
			"pseudonym":      ident.Pseudonym,
			"is_new_user":    isNew,
		},
	})
	if err != nil {
		s.log.Warn("failed to publish auth event", zap.String("type", eventType), zap.Error(err))
	}
}

func generatePassword() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}
