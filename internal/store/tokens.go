package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// CreateAccessToken mints a new URL-safe access secret with an optional
// label.
func (s *Store) CreateAccessToken(ctx context.Context, label string) (*AccessToken, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	token := &AccessToken{
		Token:     base64.RawURLEncoding.EncodeToString(secret),
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO access_tokens (token, label, revoked, created_at) VALUES (?, ?, 0, ?)`,
		token.Token,
		token.Label,
		token.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}
	token.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return token, nil
}

// AccessTokenBySecret fetches a token record by its secret. Returns nil when
// absent.
func (s *Store) AccessTokenBySecret(ctx context.Context, secret string) (*AccessToken, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, token, label, revoked, created_at FROM access_tokens WHERE token = ?`,
		secret,
	)
	token, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// AccessTokens returns every token, newest first.
func (s *Store) AccessTokens(ctx context.Context) ([]*AccessToken, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, token, label, revoked, created_at FROM access_tokens ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*AccessToken
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// RevokeAccessToken marks a token revoked. Reports whether a row changed.
func (s *Store) RevokeAccessToken(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE access_tokens SET revoked = 1 WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanToken(scanner interface{ Scan(dest ...any) error }) (*AccessToken, error) {
	var (
		token      AccessToken
		revoked    int
		createdRaw string
	)
	if err := scanner.Scan(&token.ID, &token.Token, &token.Label, &revoked, &createdRaw); err != nil {
		return nil, err
	}
	token.Revoked = revoked != 0
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		token.CreatedAt = created
	}
	return &token, nil
}
