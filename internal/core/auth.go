package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	db "github.com/JonMunkholm/vendas/internal/database"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/jackc/pgx/v5"
)

// Login checks username and password and, on success, moves sess to
// Authenticated(username). On failure sess is left untouched and the error
// is ErrInvalidCredentials, whatever the reason.
//
// Accounts still holding an unsalted SHA-256 digest are upgraded to bcrypt
// on their first successful login.
func (s *Service) Login(ctx context.Context, sess *session.Session, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	conn, q, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	user, err := q.GetUsuario(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		s.audit(ctx, q, AuditLogParams{Action: ActionLoginFailed, Username: username})
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	match, legacy := CheckPassword(user.Senha, password)
	if !match {
		s.audit(ctx, q, AuditLogParams{Action: ActionLoginFailed, Username: username})
		return ErrInvalidCredentials
	}

	if legacy {
		s.upgradeDigest(ctx, q, user.Usuario, password)
	}

	sess.Authenticate(user.Usuario)
	s.audit(ctx, q, AuditLogParams{Action: ActionLogin, Username: user.Usuario})
	return nil
}

// upgradeDigest replaces a legacy digest. A failure only delays the upgrade
// to the next login.
func (s *Service) upgradeDigest(ctx context.Context, q *db.Queries, username, password string) {
	logger := logging.WithFields(ctx, "username", username)

	digest, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		logger.Warn("password upgrade skipped", "error", err)
		return
	}
	if err := q.UpdateSenha(ctx, db.UpdateSenhaParams{Usuario: username, Senha: digest}); err != nil {
		logger.Warn("password upgrade failed", "error", err)
		return
	}

	logger.Info("legacy password digest upgraded to bcrypt")
	s.audit(ctx, q, AuditLogParams{Action: ActionPasswordUpgrade, Username: username})
}

// Logout moves sess back to Anonymous. It never fails and may be called on
// an Anonymous session.
func (s *Service) Logout(ctx context.Context, sess *session.Session) {
	if sess == nil {
		return
	}
	if sess.LoggedIn() {
		if _, err := s.LogAudit(ctx, AuditLogParams{Action: ActionLogout, Username: sess.Username}); err != nil {
			logging.FromContext(ctx).Warn("audit log write failed", "action", ActionLogout, "error", err)
		}
	}
	sess.Clear()
}

// CreateUser creates the user or replaces its password.
func (s *Service) CreateUser(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	digest, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	conn, q, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := q.UpsertUsuario(ctx, db.UpsertUsuarioParams{Usuario: username, Senha: digest}); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
