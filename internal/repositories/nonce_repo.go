package repositories

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/atimics/chat/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NonceRepo struct {
	pool *pgxpool.Pool
}

func NewNonceRepo(pool *pgxpool.Pool) *NonceRepo {
	return &NonceRepo{pool: pool}
}

// Create issues a fresh challenge nonce for the wallet.
func (r *NonceRepo) Create(ctx context.Context, walletAddress string, ttl time.Duration) (*models.NonceChallenge, error) {
	n := &models.NonceChallenge{
		Nonce:         generateNonce(32),
		WalletAddress: walletAddress,
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO auth_nonces (nonce, wallet_address, expires_at)
		VALUES ($1, $2, now() + $3::interval)
		RETURNING id, created_at, expires_at
	`, n.Nonce, walletAddress, ttl.String()).Scan(&n.ID, &n.CreatedAt, &n.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Consume marks the challenge used, atomically. The conditional UPDATE is the
// replay guard: of any number of concurrent consumers, at most one gets a row
// back. A nonce that is absent, expired, already used, or bound to a different
// wallet yields pgx.ErrNoRows.
func (r *NonceRepo) Consume(ctx context.Context, nonce, walletAddress string) (*models.NonceChallenge, error) {
	var n models.NonceChallenge
	err := r.pool.QueryRow(ctx, `
		UPDATE auth_nonces
		SET used = true
		WHERE nonce = $1 AND wallet_address = $2 AND used = false AND expires_at > now()
		RETURNING id, nonce, wallet_address, created_at, expires_at, used
	`, nonce, walletAddress).Scan(&n.ID, &n.Nonce, &n.WalletAddress, &n.CreatedAt, &n.ExpiresAt, &n.Used)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteExpired is housekeeping, not required for correctness. Used nonces are
// kept until they expire so replays keep failing on the used flag.
func (r *NonceRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auth_nonces WHERE expires_at < now() - interval '1 day'`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func generateNonce(bytes int) string {
	b := make([]byte, bytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
