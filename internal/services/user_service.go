package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = domain.UnauthorizedError{Msg: "invalid username or password"}

// AuthService issues and verifies HS256 bearer tokens for operator accounts.
type AuthService struct {
	Store     *store.Store
	Secret    []byte
	TTL       time.Duration
	Clock     Clock
	RequestID string
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func (s AuthService) Login(id, password string) (LoginResult, error) {
	u, ok := s.Store.User(strings.TrimSpace(id))
	if !ok || u.PasswordHash == "" {
		utils.LogEvent(s.RequestID, "auth", "login", "unknown user")
		return LoginResult{}, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		utils.LogEvent(s.RequestID, "auth", "login", "bad password for user_id="+u.ID)
		return LoginResult{}, errBadCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := s.Clock.now()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    string(u.Role),
		"iat":     now.Unix(),
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+u.ID)
	return LoginResult{Token: signed, ExpiresAt: exp, User: u.Public()}, nil
}

// Authenticate verifies a token and resolves the actor from the current user
// record, so role changes and deletions take effect immediately.
func (s AuthService) Authenticate(tokenString string) (domain.Actor, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.Clock.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, domain.UnauthorizedError{Msg: "token expired"}
		}
		return domain.Actor{}, domain.UnauthorizedError{Msg: "invalid token"}
	}

	id, _ := claims["user_id"].(string)
	u, ok := s.Store.User(id)
	if !ok {
		return domain.Actor{}, domain.UnauthorizedError{Msg: "user no longer exists"}
	}
	return domain.Actor{UserID: u.ID, Name: u.Name, Role: u.Role}, nil
}

// ChangePassword requires the current password and a matching confirmation.
// The check and the write happen under one store lock.
func (s AuthService) ChangePassword(ctx context.Context, actor domain.Actor, current, next, confirm string) error {
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Users, actor.UserID, store.UserKey)
		if i < 0 {
			return notFound("user", actor.UserID)
		}
		u := &snap.Users[i]
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
			return domain.UnauthorizedError{Msg: "current password is incorrect"}
		}
		if next == "" {
			return domain.ValidationError{Field: "newPassword", Msg: "required"}
		}
		if next != confirm {
			return domain.ValidationError{Field: "confirmPassword", Msg: "passwords do not match"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
		if err != nil {
			return domain.InternalError{Msg: "failed to hash password", Err: err}
		}
		u.PasswordHash = string(hash)
		return nil
	})
	if err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "auth", "change_password", "user_id="+actor.UserID)
	return nil
}

// UserService manages operator accounts. The user id doubles as login name.
type UserService struct {
	Store     *store.Store
	Clock     Clock
	RequestID string
}

type UserInput struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Role            models.UserRole `json:"role"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"confirmPassword"`
}

func (in *UserInput) validate(creating bool) error {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.ID == "":
		return domain.ValidationError{Field: "id", Msg: "username is required"}
	case in.Name == "":
		return domain.ValidationError{Field: "name", Msg: "required"}
	case !in.Role.Valid():
		return domain.ValidationError{Field: "role", Msg: "must be Admin, Manager or Staff"}
	case creating && in.Password == "":
		return domain.ValidationError{Field: "password", Msg: "required for new users"}
	case in.Password != "" && in.Password != in.ConfirmPassword:
		return domain.ValidationError{Field: "confirmPassword", Msg: "passwords do not match"}
	}
	return nil
}

func (s UserService) List() []models.User {
	all := s.Store.Users()
	out := make([]models.User, len(all))
	for i, u := range all {
		out[i] = u.Public()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s UserService) Get(id string) (models.User, error) {
	u, ok := s.Store.User(id)
	if !ok {
		return models.User{}, notFound("user", id)
	}
	return u.Public(), nil
}

func (s UserService) Create(ctx context.Context, actor domain.Actor, in UserInput) (models.User, error) {
	if err := in.validate(true); err != nil {
		return models.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	u := models.User{ID: in.ID, Name: in.Name, Role: in.Role, PasswordHash: string(hash)}

	now := s.Clock.now()
	err = s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		if store.IndexOf(snap.Users, u.ID, store.UserKey) >= 0 {
			return domain.ConflictError{Resource: "user", Msg: "username " + u.ID + " is taken"}
		}
		snap.Users = append([]models.User{u}, snap.Users...)
		record(snap, now, actor, models.ActionCreated, models.EntityUser, u.ID, userDetails(u))
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "user", "create", "user_id="+u.ID)
	return u.Public(), nil
}

// Update changes name and role; the password only when a new one is given.
func (s UserService) Update(ctx context.Context, actor domain.Actor, id string, in UserInput) (models.User, error) {
	in.ID = id
	if err := in.validate(false); err != nil {
		return models.User{}, err
	}
	var hash []byte
	if in.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost); err != nil {
			return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
		}
	}

	var out models.User
	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Users, id, store.UserKey)
		if i < 0 {
			return notFound("user", id)
		}
		u := &snap.Users[i]
		u.Name = in.Name
		u.Role = in.Role
		if hash != nil {
			u.PasswordHash = string(hash)
		}
		record(snap, now, actor, models.ActionUpdated, models.EntityUser, u.ID, userDetails(*u))
		out = *u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return out.Public(), nil
}

func (s UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if id == actor.UserID {
		return domain.ForbiddenError{Action: "you cannot delete your own account"}
	}
	now := s.Clock.now()
	return s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Users, id, store.UserKey)
		if i < 0 {
			return notFound("user", id)
		}
		details := userDetails(snap.Users[i])
		snap.Users, _ = store.Remove(snap.Users, id, store.UserKey)
		record(snap, now, actor, models.ActionDeleted, models.EntityUser, id, details)
		return nil
	})
}

func userDetails(u models.User) string {
	return fmt.Sprintf("%s (%s)", u.Name, u.Role)
}
