package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/auth"
	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/models"
)

// idAttempts bounds retries when a random user id collides
const idAttempts = 5

func classifyUser(err error, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, databases.ErrNotFound):
		return domainerrors.Wrap(err, domainerrors.CodeNotFound, "user "+id+" not found")
	case errors.Is(err, databases.ErrDuplicate):
		return domainerrors.Wrap(err, domainerrors.CodeConflict, "user already exists")
	}
	return domainerrors.Internal("user store failure", err)
}

func (co *Coordinator) createUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	role := models.CanonicalRole(in.Role)
	if role == "" {
		return nil, domainerrors.Validation("unknown role " + in.Role)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.FullName) == "" || email == "" || in.Password == "" {
		return nil, domainerrors.Validation("full name, email and password are required")
	}
	if _, err := co.Users.FindByEmail(ctx, email); err == nil {
		return nil, domainerrors.Conflict("email already registered")
	} else if !errors.Is(err, databases.ErrNotFound) {
		return nil, classifyUser(err, email)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, domainerrors.Internal("failed to hash password", err)
	}
	for attempt := 0; attempt < idAttempts; attempt++ {
		id, err := auth.NewUserID(role)
		if err != nil {
			return nil, domainerrors.Internal("failed to generate user id", err)
		}
		u := models.User{
			ID:           id,
			FullName:     strings.TrimSpace(in.FullName),
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Bio:          in.Bio,
			CreatedAt:    time.Now(),
		}
		err = co.Users.InsertOne(ctx, u)
		if err == nil {
			return &u, nil
		}
		if !errors.Is(err, databases.ErrDuplicate) {
			return nil, classifyUser(err, id)
		}
		// the email was checked above, so a duplicate here is almost always the id
		if _, ferr := co.Users.FindByEmail(ctx, email); ferr == nil {
			return nil, domainerrors.Conflict("email already registered")
		}
	}
	return nil, domainerrors.Conflict("could not allocate a user id")
}

// Signup registers a citizen account. Privileged roles are only granted by a registrar
// through CreateUser. The new user is the actor of its own signup entry.
func (co *Coordinator) Signup(ctx context.Context, in models.NewUser) (*models.User, error) {
	if strings.TrimSpace(in.Role) == "" {
		in.Role = models.RoleUser
	}
	if role := models.CanonicalRole(in.Role); role != models.RoleUser {
		if role == "" {
			return nil, domainerrors.Validation("unknown role " + in.Role)
		}
		return nil, domainerrors.Forbidden("signup is limited to the " + models.RoleUser + " role, " + role + " accounts are created by a registrar")
	}
	u, err := co.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	co.Audit.Append(models.Actor{ID: u.ID, Role: u.Role}, models.ActionUserSignup, models.TargetUser, u.ID, map[string]interface{}{"role": u.Role})
	return u, nil
}

// CreateUser registers an account on behalf of the acting registrar
func (co *Coordinator) CreateUser(ctx context.Context, actor models.Actor, in models.NewUser) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	u, err := co.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	co.Audit.Append(actor, models.ActionUserCreated, models.TargetUser, u.ID, map[string]interface{}{"role": u.Role})
	return u, nil
}

// EnsureRegistrar creates the registrar account named by in unless its email is already
// registered. It seeds the first privileged account at startup.
func (co *Coordinator) EnsureRegistrar(ctx context.Context, in models.NewUser) (*models.User, error) {
	in.Role = models.RoleRegistrar
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if u, err := co.Users.FindByEmail(ctx, email); err == nil {
		return u, nil
	} else if !errors.Is(err, databases.ErrNotFound) {
		return nil, classifyUser(err, email)
	}
	u, err := co.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	co.Audit.Append(models.Actor{ID: u.ID, Role: u.Role}, models.ActionUserCreated, models.TargetUser, u.ID, map[string]interface{}{"role": u.Role, "seeded": true})
	zap.S().Infow("seeded registrar account", "userId", u.ID)
	return u, nil
}

// Login verifies credentials and issues a token. The key is an email when it contains
// an @, otherwise a user id.
func (co *Coordinator) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	key := strings.TrimSpace(creds.Key())
	if key == "" || creds.Password == "" {
		return nil, domainerrors.Validation("identifier and password are required")
	}
	var (
		u   *models.User
		err error
	)
	if strings.Contains(key, "@") {
		u, err = co.Users.FindByEmail(ctx, strings.ToLower(key))
	} else {
		u, err = co.Users.FindByID(ctx, key)
	}
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid credentials")
		}
		return nil, classifyUser(err, key)
	}
	if !auth.CheckPassword(u.PasswordHash, creds.Password) {
		return nil, domainerrors.Unauthorized("invalid credentials")
	}

	token, err := co.Tokens.GenerateToken(*u)
	if err != nil {
		return nil, domainerrors.Internal("failed to issue token", err)
	}
	co.Audit.Append(models.Actor{ID: u.ID, Role: u.Role}, models.ActionUserLogin, models.TargetUser, u.ID, nil)
	zap.S().Debugw("user logged in", "userId", u.ID)
	return &models.LoginResponse{Token: token, User: *u}, nil
}

// Profile returns the user with id
func (co *Coordinator) Profile(ctx context.Context, actor models.Actor, id string) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	u, err := co.Users.FindByID(ctx, id)
	if err != nil {
		return nil, classifyUser(err, id)
	}
	return u, nil
}

// Me returns the acting user
func (co *Coordinator) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	return co.Profile(ctx, actor, actor.ID)
}

// UpdateBio changes a user's bio. Users may edit their own; registrars may edit anyone's.
func (co *Coordinator) UpdateBio(ctx context.Context, actor models.Actor, id, bio string) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.ID != id && !actor.Is(models.RoleRegistrar) {
		return nil, domainerrors.Forbidden("cannot edit another user's profile")
	}
	u, err := co.Users.UpdateBio(ctx, id, bio)
	if err != nil {
		return nil, classifyUser(err, id)
	}
	co.Audit.Append(actor, models.ActionUserUpdated, models.TargetUser, id, map[string]interface{}{"fields": []string{"bio"}})
	return u, nil
}

// ListUsers returns every user sorted by name
func (co *Coordinator) ListUsers(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	users, err := co.Users.Find(ctx)
	if err != nil {
		return nil, classifyUser(err, "")
	}
	return users, nil
}

// DeleteUser removes a user account
func (co *Coordinator) DeleteUser(ctx context.Context, actor models.Actor, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := co.Users.DeleteOne(ctx, id); err != nil {
		return classifyUser(err, id)
	}
	co.Audit.Append(actor, models.ActionUserDeleted, models.TargetUser, id, nil)
	return nil
}
