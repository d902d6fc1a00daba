package repositories

import (
	"context"
	"errors"

	"github.com/atimics/chat/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IdentityRepo struct {
	pool *pgxpool.Pool
}

func NewIdentityRepo(pool *pgxpool.Pool) *IdentityRepo {
	return &IdentityRepo{pool: pool}
}

const identityColumns = `id, wallet_address, chain, matrix_user_id, pseudonym, temp_password,
	nft_mint, nft_creator, registered_at, last_verified_at, is_active`

// Create inserts a new identity. The unique constraint on wallet_address is
// the source of truth for "one identity per wallet": when a concurrent insert
// already won, ON CONFLICT DO NOTHING makes this return pgx.ErrNoRows and the
// caller falls back to the fetch path.
func (r *IdentityRepo) Create(ctx context.Context, ident *models.Identity) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO identities (wallet_address, chain, matrix_user_id, pseudonym, temp_password, nft_mint, nft_creator)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (wallet_address) DO NOTHING
		RETURNING id, registered_at, last_verified_at, is_active
	`, ident.WalletAddress, ident.Chain, ident.MatrixUserID, ident.Pseudonym,
		ident.TempPassword, ident.NFTMint, ident.NFTCreator,
	).Scan(&ident.ID, &ident.RegisteredAt, &ident.LastVerifiedAt, &ident.IsActive)
}

// GetActiveByWallet returns the active identity for a wallet, or pgx.ErrNoRows.
func (r *IdentityRepo) GetActiveByWallet(ctx context.Context, walletAddress string) (*models.Identity, error) {
	var ident models.Identity
	err := r.pool.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities WHERE wallet_address = $1 AND is_active = true
	`, walletAddress).Scan(
		&ident.ID, &ident.WalletAddress, &ident.Chain, &ident.MatrixUserID, &ident.Pseudonym,
		&ident.TempPassword, &ident.NFTMint, &ident.NFTCreator,
		&ident.RegisteredAt, &ident.LastVerifiedAt, &ident.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

func (r *IdentityRepo) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	var ident models.Identity
	err := r.pool.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities WHERE id = $1
	`, id).Scan(
		&ident.ID, &ident.WalletAddress, &ident.Chain, &ident.MatrixUserID, &ident.Pseudonym,
		&ident.TempPassword, &ident.NFTMint, &ident.NFTCreator,
		&ident.RegisteredAt, &ident.LastVerifiedAt, &ident.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

// MatrixUserIDTaken reports whether a chat user id is already assigned. On
// the registration path this can only mean a different wallet derived the
// same pseudonym; the caller must stop before provisioning, or the existing
// user's Matrix password would be reset by the upsert.
func (r *IdentityRepo) MatrixUserIDTaken(ctx context.Context, matrixUserID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM identities WHERE matrix_user_id = $1)
	`, matrixUserID).Scan(&taken)
	return taken, err
}

func (r *IdentityRepo) TouchLastVerified(ctx context.Context, walletAddress string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE identities SET last_verified_at = now() WHERE wallet_address = $1
	`, walletAddress)
	return err
}

// ListAll returns every registration, newest first. Admin surface only.
func (r *IdentityRepo) ListAll(ctx context.Context) ([]models.Identity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+identityColumns+`
		FROM identities ORDER BY registered_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Identity
	for rows.Next() {
		var ident models.Identity
		if err := rows.Scan(
			&ident.ID, &ident.WalletAddress, &ident.Chain, &ident.MatrixUserID, &ident.Pseudonym,
			&ident.TempPassword, &ident.NFTMint, &ident.NFTCreator,
			&ident.RegisteredAt, &ident.LastVerifiedAt, &ident.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}

func (r *IdentityRepo) Count(ctx context.Context) (total int64, active int64, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE is_active) FROM identities
	`).Scan(&total, &active)
	return total, active, err
}

// IsNoRows reports whether err is the pgx "no rows" sentinel. Kept here so
// callers outside the repository layer don't import pgx directly.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. With the wallet_address conflict absorbed by ON CONFLICT, the
// only way Create raises this is the matrix_user_id constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
