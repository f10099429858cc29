package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
)

// =============================================================================
// Interface Definition
// =============================================================================

// UserService manages the sign-in allow-list. Admin-only; the middleware
// enforces that before the service is reached.
type UserService interface {
	// AddUser adds an employee to the allow-list.
	// Returns domain.EINVALID when the email is outside the corporate domain
	// or the name is empty, and domain.ECONFLICT for duplicates. Both checks
	// run before any network call.
	AddUser(ctx context.Context, sess *session.Session, email, name string) (*domain.User, error)

	// DeleteUser removes an employee from the allow-list.
	// Returns domain.EFORBIDDEN for the seed administrator, which can never
	// be removed.
	DeleteUser(ctx context.Context, sess *session.Session, email string) error

	// ToggleAdmin flips the admin flag for an employee.
	// Returns domain.EFORBIDDEN when demoting the seed administrator.
	ToggleAdmin(ctx context.Context, sess *session.Session, email string) (*domain.User, error)
}

// =============================================================================
// Implementation
// =============================================================================

type userService struct {
	store           store.Store
	logger          *slog.Logger
	corporateDomain string // e.g. "@gschargev.co.kr"
	seedAdminEmail  string // undeletable account
}

// NewUserService creates a new UserService.
func NewUserService(st store.Store, logger *slog.Logger, corporateDomain, seedAdminEmail string) UserService {
	return &userService{
		store:           st,
		logger:          logger,
		corporateDomain: strings.ToLower(corporateDomain),
		seedAdminEmail:  domain.NormalizeEmail(seedAdminEmail),
	}
}

func (s *userService) AddUser(ctx context.Context, sess *session.Session, email, name string) (*domain.User, error) {
	const op = "user.add"

	email = domain.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, domain.Invalid(op, "이름을 입력해 주세요.")
	}
	if !domain.HasDomainSuffix(email, s.corporateDomain) {
		return nil, domain.Invalid(op, s.corporateDomain+" 메일 주소만 등록할 수 있습니다.")
	}

	state := sess.Snapshot()
	if domain.FindUser(state.Users, email) != nil {
		return nil, domain.Conflict(op, "이미 등록된 사용자입니다.")
	}

	user := domain.User{Email: email, Name: name}
	if err := s.store.InsertUser(ctx, user); err != nil {
		s.logger.Error("failed to add user", "error", err, "email", email)
		return nil, domain.Remote(err, op, "사용자 등록에 실패했습니다.")
	}

	sess.Update(func(state *session.State) {
		state.Users = append(state.Users, user)
	})

	s.logger.Info("user added to allow-list", "email", email, "by", sess.User.Email)
	return &user, nil
}

func (s *userService) DeleteUser(ctx context.Context, sess *session.Session, email string) error {
	const op = "user.delete"

	email = domain.NormalizeEmail(email)
	if email == s.seedAdminEmail {
		return domain.Forbidden(op, "기본 관리자 계정은 삭제할 수 없습니다.")
	}

	state := sess.Snapshot()
	if domain.FindUser(state.Users, email) == nil {
		return domain.NotFound(op, "user", email)
	}

	if err := s.store.DeleteUser(ctx, email); err != nil {
		s.logger.Error("failed to delete user", "error", err, "email", email)
		return domain.Remote(err, op, "사용자 삭제에 실패했습니다.")
	}

	sess.Update(func(state *session.State) {
		kept := state.Users[:0]
		for _, u := range state.Users {
			if domain.NormalizeEmail(u.Email) != email {
				kept = append(kept, u)
			}
		}
		state.Users = kept
	})

	s.logger.Info("user removed from allow-list", "email", email, "by", sess.User.Email)
	return nil
}

func (s *userService) ToggleAdmin(ctx context.Context, sess *session.Session, email string) (*domain.User, error) {
	const op = "user.toggle_admin"

	email = domain.NormalizeEmail(email)

	state := sess.Snapshot()
	existing := domain.FindUser(state.Users, email)
	if existing == nil {
		return nil, domain.NotFound(op, "user", email)
	}

	if email == s.seedAdminEmail && existing.IsAdmin {
		return nil, domain.Forbidden(op, "기본 관리자 권한은 해제할 수 없습니다.")
	}

	isAdmin := !existing.IsAdmin
	if err := s.store.SetUserAdmin(ctx, email, isAdmin); err != nil {
		s.logger.Error("failed to toggle admin flag", "error", err, "email", email)
		return nil, domain.Remote(err, op, "권한 변경에 실패했습니다.")
	}

	updated := *existing
	updated.IsAdmin = isAdmin

	sess.Update(func(state *session.State) {
		for i := range state.Users {
			if domain.NormalizeEmail(state.Users[i].Email) == email {
				state.Users[i].IsAdmin = isAdmin
			}
		}
	})

	s.logger.Info("admin flag toggled", "email", email, "is_admin", isAdmin, "by", sess.User.Email)
	return &updated, nil
}
