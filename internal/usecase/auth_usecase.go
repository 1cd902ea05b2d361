package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"godent-be/internal/config"
	"godent-be/internal/domain/model"
	"godent-be/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const AccessTokenTTL = 15 * time.Minute

// refreshtokenの有効期限
const RefreshTokenTTL = 7 * 24 * time.Hour

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateSignup(ctx context.Context, username string, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// validator側のsentinelエラー（handlerへはHTTPErrorに変換して返す）
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmailAlreadyUsed    = errors.New("email already exists")
	ErrUsernameAlreadyUsed = errors.New("username already exists")
)

type UserDTO struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult は refresh token を cookie に載せるため handler に別枠で渡す。
type LoginResult struct {
	User         UserDTO
	AccessToken  string
	RefreshToken string
}

type RefreshResult struct {
	User        UserDTO
	AccessToken string
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	validator AuthValidator
}

func NewAuthUsecase(cfg config.Config, users repository.UserRepository, validator AuthValidator) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		validator: validator,
	}
}

func (u *AuthUsecase) Signup(ctx context.Context, in SignupInput) (*UserDTO, error) {
	// 入力検証（validatorに寄せる）
	if err := u.validator.ValidateSignup(ctx, in.Username, in.Email, in.Password); err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyUsed):
			return nil, NewHTTPError(http.StatusBadRequest, "email already exists")
		case errors.Is(err, ErrUsernameAlreadyUsed):
			return nil, NewHTTPError(http.StatusBadRequest, "username already exists")
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "please fill all the fields")
		}
	}

	// パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "signup failed")
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		HashPassword: string(pwHash),
	}

	if err := u.users.Create(ctx, user); err != nil {
		// unique 違反の競合などもここに落ちる
		return nil, NewHTTPError(http.StatusInternalServerError, "signup failed")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := u.validator.ValidateLogin(ctx, in.Email, in.Password); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, "please fill all the fields")
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "user not found")
	}

	// パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashPassword), []byte(in.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "password does not match")
	}

	accessToken, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	refreshToken, err := u.issueRefreshToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return &LoginResult{
		User:         toUserDTO(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh は有効な refresh token から access token を再発行する。
// 失効リストは持たない（ログアウトは cookie 削除のみ）。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, NewHTTPError(http.StatusForbidden, "unauthorized user")
	}

	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(u.cfg.JWTRefreshSecret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, NewHTTPError(http.StatusForbidden, "unauthorized user")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, NewHTTPError(http.StatusForbidden, "unauthorized user")
	}

	userID, ok := claims["sub"].(float64)
	if !ok || userID <= 0 {
		return nil, NewHTTPError(http.StatusForbidden, "unauthorized user")
	}

	user, err := u.users.FindByID(ctx, int64(userID))
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "server error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusForbidden, "user not found")
	}

	accessToken, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return &RefreshResult{
		User:        toUserDTO(user),
		AccessToken: accessToken,
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "server error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "user not found")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":      user.UserID,
		"email":    user.Email,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(AccessTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(u.cfg.JWTSecret))
}

// refresh は別シークレットで署名する
func (u *AuthUsecase) issueRefreshToken(user *model.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": user.UserID,
		"iat": now.Unix(),
		"exp": now.Add(RefreshTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(u.cfg.JWTRefreshSecret))
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
	}
}
