package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/user"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

type CreateInput struct {
	Name     string
	Username string
	Password string
	Role     string
}

// UpdateInput leaves the password hash untouched when Password is blank.
type UpdateInput struct {
	Name     string
	Username string
	Password string
	Role     string
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"user"`
}

var errInvalidCredentials = httperr.ErrUnauthenticated("invalid_credentials", "invalid username or password")

type Usecase struct {
	repo   domain.Repository
	hasher *auth.PasswordHasher
	issuer *auth.Issuer
	audit  *audit.Dispatcher

	dummyOnce sync.Once
	dummyHash string
}

func NewUsecase(
	repo domain.Repository,
	hasher *auth.PasswordHasher,
	issuer *auth.Issuer,
	audit *audit.Dispatcher,
) *Usecase {
	return &Usecase{repo: repo, hasher: hasher, issuer: issuer, audit: audit}
}

func (u *Usecase) log(userID uint, action string, entityID uint, description string) {
	u.audit.Dispatch(audit.Event{
		UserID:      &userID,
		Action:      action,
		Entity:      "user",
		EntityID:    &entityID,
		Description: description,
	})
}

func clean(in CreateInput) (CreateInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)

	switch {
	case in.Name == "":
		return in, httperr.ErrValidation("name_required", "name is required")
	case in.Username == "":
		return in, httperr.ErrValidation("username_required", "username is required")
	case !auth.IsRole(in.Role):
		return in, httperr.ErrValidation("invalid_role", "role must be admin, staff or borrower")
	}
	return in, nil
}

func (u *Usecase) create(ctx context.Context, in CreateInput) (*models.User, error) {
	in, err := clean(in)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, httperr.ErrValidation("password_required", "password is required")
	}

	taken, err := u.repo.UsernameTaken(ctx, in.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.ErrConflict("username_taken", "username is already taken")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	usr := &models.User{
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := u.repo.Create(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) tokenFor(usr *models.User) (*AuthResult, error) {
	token, err := u.issuer.Issue(auth.Identity{
		UserID:   usr.ID,
		Username: usr.Username,
		Role:     usr.Role,
		Name:     usr.Name,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresIn: int64(u.issuer.TTL().Seconds()),
		User:      usr,
	}, nil
}

// ======================================================
// Auth
// ======================================================

// Register creates a borrower account; the role cannot be chosen.
func (u *Usecase) Register(ctx context.Context, name, username, password string) (*AuthResult, error) {
	usr, err := u.create(ctx, CreateInput{
		Name:     name,
		Username: username,
		Password: password,
		Role:     auth.RoleBorrower,
	})
	if err != nil {
		return nil, err
	}

	u.log(usr.ID, "register", usr.ID, fmt.Sprintf("%s registered as borrower", usr.Username))
	return u.tokenFor(usr)
}

// Authenticate answers an unknown username and a wrong password the same way.
func (u *Usecase) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	usr, err := u.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !httperr.IsBusiness(err, "user_not_found") {
			return nil, err
		}
		// spend the same hashing time as a real comparison
		u.hasher.Verify(password, u.dummy())
		return nil, errInvalidCredentials
	}

	if !u.hasher.Verify(password, usr.PasswordHash) {
		return nil, errInvalidCredentials
	}
	return usr, nil
}

func (u *Usecase) dummy() string {
	u.dummyOnce.Do(func() {
		u.dummyHash, _ = u.hasher.Hash("not-a-real-password")
	})
	return u.dummyHash
}

func (u *Usecase) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	usr, err := u.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	u.log(usr.ID, "login", usr.ID, fmt.Sprintf("%s logged in", usr.Username))
	return u.tokenFor(usr)
}

func (u *Usecase) Logout(ctx context.Context, actor auth.Identity, token string) error {
	if err := u.issuer.Revoke(ctx, token); err != nil {
		return err
	}

	u.log(actor.UserID, "logout", actor.UserID, fmt.Sprintf("%s logged out", actor.Username))
	return nil
}

func (u *Usecase) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	fresh, err := u.issuer.Refresh(ctx, token)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: fresh, ExpiresIn: int64(u.issuer.TTL().Seconds())}, nil
}

// ======================================================
// Accounts
// ======================================================

func (u *Usecase) Me(ctx context.Context, actor auth.Identity) (*models.User, error) {
	return u.repo.Get(ctx, actor.UserID)
}

func (u *Usecase) List(ctx context.Context) ([]models.User, error) {
	return u.repo.List(ctx)
}

func (u *Usecase) Get(ctx context.Context, id uint) (*models.User, error) {
	return u.repo.Get(ctx, id)
}

func (u *Usecase) Create(ctx context.Context, actor auth.Identity, in CreateInput) (*models.User, error) {
	usr, err := u.create(ctx, in)
	if err != nil {
		return nil, err
	}

	u.log(actor.UserID, "user_created", usr.ID, fmt.Sprintf("%s created %s user %s", actor.Username, usr.Role, usr.Username))
	return usr, nil
}

func (u *Usecase) Update(ctx context.Context, actor auth.Identity, id uint, in UpdateInput) (*models.User, error) {
	cleaned, err := clean(CreateInput(in))
	if err != nil {
		return nil, err
	}

	usr, err := u.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := u.repo.UsernameTaken(ctx, cleaned.Username, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.ErrConflict("username_taken", "username is already taken")
	}

	usr.Name = cleaned.Name
	usr.Username = cleaned.Username
	usr.Role = cleaned.Role

	if strings.TrimSpace(in.Password) != "" {
		hash, err := u.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		usr.PasswordHash = hash
	}

	if err := u.repo.Update(ctx, usr); err != nil {
		return nil, err
	}

	u.log(actor.UserID, "user_updated", usr.ID, fmt.Sprintf("%s updated user %s", actor.Username, usr.Username))
	return usr, nil
}

// Delete refuses the caller's own account and accounts referenced by loans.
func (u *Usecase) Delete(ctx context.Context, actor auth.Identity, id uint) error {
	if id == actor.UserID {
		return httperr.ErrForbidden("cannot_delete_self", "you cannot delete your own account")
	}

	usr, err := u.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := u.repo.CountLoans(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.ErrConflict("user_has_loans", "user is referenced by loans")
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}

	u.log(actor.UserID, "user_deleted", id, fmt.Sprintf("%s deleted user %s", actor.Username, usr.Username))
	return nil
}
