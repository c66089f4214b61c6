package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetHandle(ctx context.Context, handle string) (*models.UsernameIndex, error)
}

var handlePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

type userService struct {
	Store       userUSStore
	validate    *validator.Validate
	adminEmails map[string]struct{}
	adminUIDs   map[string]struct{}
	clockNow    func() time.Time
}

// NewUserService takes the admin allow-list. Entries containing "@" are
// emails and only match a verified token email; anything else is a Firebase
// uid. Handles are never matched since anyone can claim a free one.
func NewUserService(store userUSStore, adminAllowList []string) *userService {
	emails := map[string]struct{}{}
	uids := map[string]struct{}{}
	for _, v := range adminAllowList {
		v = strings.TrimSpace(v)
		switch {
		case v == "":
		case strings.Contains(v, "@"):
			emails[strings.ToLower(v)] = struct{}{}
		default:
			uids[v] = struct{}{}
		}
	}
	return &userService{
		Store:       store,
		validate:    validator.New(),
		adminEmails: emails,
		adminUIDs:   uids,
		clockNow:    time.Now,
	}
}

func (s *userService) Register(ctx context.Context, id dto.Identity, name, handle string) (*models.User, error) {
	log := logger.FromContext(ctx)

	uid := id.UID
	handle = strings.ToLower(strings.TrimSpace(handle))
	email := strings.ToLower(strings.TrimSpace(id.Email))
	name = strings.TrimSpace(name)

	if !handlePattern.MatchString(handle) {
		return nil, errs.NewValidationError("handle must be 3-30 characters of a-z, 0-9, '_' or '.'")
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, errs.NewValidationError("a valid email is required")
	}
	if err := s.validate.Var(name, "required,max=100"); err != nil {
		return nil, errs.NewValidationError("name is required")
	}

	role := models.RoleUser
	if s.isAdmin(uid, email, id.EmailVerified) {
		role = models.RoleAdmin
	}

	now := s.clockNow()
	user := &models.User{
		UID:                uid,
		UserID:             handle,
		Name:               name,
		Email:              email,
		Role:               role,
		SubscriptionStatus: "free",
		Status:             models.StatusActive,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.Store.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user registered", "handle", handle, "role", string(role))
	return user, nil
}

func (s *userService) isAdmin(uid, email string, emailVerified bool) bool {
	if _, ok := s.adminUIDs[uid]; ok {
		return true
	}
	if !emailVerified {
		return false
	}
	_, ok := s.adminEmails[email]
	return ok
}

// ResolveIdentifier maps a handle or an email to the email used for sign-in.
// Unknown handles come back as NotFound.
func (s *userService) ResolveIdentifier(ctx context.Context, identifier string) (string, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return "", errs.NewValidationError("identifier is required")
	}
	if strings.Contains(identifier, "@") {
		return identifier, nil
	}
	idx, err := s.Store.GetHandle(ctx, identifier)
	if err != nil {
		return "", err
	}
	return idx.Email, nil
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	u, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			logger.FromContext(ctx).Debug("profile not registered")
		}
		return nil, err
	}
	return u, nil
}
