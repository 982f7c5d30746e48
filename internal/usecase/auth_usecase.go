package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer はアクセストークンの発行の約束。実体はJWT。
type TokenIssuer interface {
	Issue(user model.User, now time.Time) (token string, expiresIn int, err error)
}

type Clock interface {
	Now() time.Time
}

type AuthUsecase struct {
	users  repo.UserRepository
	issuer TokenIssuer
	clock  Clock
}

// DI
func NewAuthUsecase(users repo.UserRepository, issuer TokenIssuer, clock Clock) *AuthUsecase {
	return &AuthUsecase{users: users, issuer: issuer, clock: clock}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type UserOutput struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	User        UserOutput `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
}

// 自己登録できるロール。adminはここからは作れない。
var allowedRoles = map[model.Role]bool{
	model.RoleCustomer:  true,
	model.RoleFisherman: true,
	model.RoleDelivery:  true,
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || !strings.Contains(email, "@") {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid username or email")
	}
	if len(in.Password) < 8 {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	role := model.Role(in.Role)
	if in.Role == "" {
		role = model.RoleCustomer
	}
	if !allowedRoles[role] {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(pwHash),
		Role:         role,
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     true,
	}

	id, err := u.users.Create(ctx, user)
	if err != nil {
		//unique制約（username/email重複）
		return UserOutput{}, NewHTTPError(http.StatusConflict, "username or email already taken")
	}

	return UserOutput{
		ID:       id,
		Username: username,
		Email:    email,
		Role:     string(role),
	}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresIn, err := u.issuer.Issue(user, u.clock.Now())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{
		User: UserOutput{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     string(user.Role),
		},
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}
