package usecase

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/repository"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限（発行後7日で失効、サーバ側の失効リストは持たない）
const tokenTTL = 7 * 24 * time.Hour

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateSignup(ctx context.Context, email string, password string, name string) error
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateChangePassword(ctx context.Context, currentPassword string, newPassword string) error
}

type UserDTO struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

type ProfileDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Name  string
	Email string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	validator AuthValidator
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		validator: validator,
	}
}

// Signup は会員登録してトークンを返す。
func (u *AuthUsecase) Signup(ctx context.Context, in SignupInput) (AuthResponse, error) {
	//検証・保存・ログイン照合が同じ値を見るよう、メールはここで一度だけtrimする
	in.Email = strings.TrimSpace(in.Email)

	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateSignup(ctx, in.Email, in.Password, in.Name); err != nil {
		return AuthResponse{}, err
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "Error during signup")
	}

	role := model.RoleUser
	if in.Role == string(model.RoleAdmin) {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:    in.Email,
		Password: string(pwHash),
		Name:     in.Name,
		Role:     role,
		IsAdmin:  role == model.RoleAdmin,
	}

	if err := u.users.Create(ctx, user); err != nil {
		// unique違反はvalidatorで先に弾いているが、競合した場合はここに落ちる
		return AuthResponse{}, NewHTTPError(http.StatusConflict, "User with this email already exists")
	}

	token, err := u.issueToken(user)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "Error during signup")
	}

	return AuthResponse{User: toUserDTO(user), Token: token}, nil
}

// Login はメール・パスワードを照合してトークンを返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := u.validator.ValidateLogin(ctx, in.Email, in.Password); err != nil {
		return AuthResponse{}, err
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil || user == nil {
		//存在しないメールか判別できないメッセージにする
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := u.issueToken(user)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "Error during login")
	}

	return AuthResponse{User: toUserDTO(user), Token: token}, nil
}

// AdminLogin は管理者のみログインを許可する。
func (u *AuthUsecase) AdminLogin(ctx context.Context, in LoginInput) (AuthResponse, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := u.validator.ValidateLogin(ctx, in.Email, in.Password); err != nil {
		return AuthResponse{}, err
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil || user == nil {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	//管理者チェック（isAdminかつrole=ADMIN）
	if !user.IsAdmin || user.Role != model.RoleAdmin {
		return AuthResponse{}, NewHTTPError(http.StatusForbidden, "Access denied. Admin privileges required.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := u.issueToken(user)
	if err != nil {
		return AuthResponse{}, NewHTTPError(http.StatusInternalServerError, "Error during admin login")
	}

	return AuthResponse{User: toUserDTO(user), Token: token}, nil
}

func (u *AuthUsecase) GetProfile(ctx context.Context, userID int64) (ProfileDTO, error) {
	if userID <= 0 {
		return ProfileDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repository.ErrUserNotFound {
		return ProfileDTO{}, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return ProfileDTO{}, NewHTTPError(http.StatusInternalServerError, "Error retrieving profile")
	}

	return toProfileDTO(user), nil
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (ProfileDTO, error) {
	if userID <= 0 {
		return ProfileDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return ProfileDTO{}, NewHTTPError(http.StatusBadRequest, "Name and email are required")
	}

	//他ユーザーが使っているメールには変更できない
	taken, err := u.users.EmailTakenByOther(ctx, in.Email, userID)
	if err != nil {
		return ProfileDTO{}, NewHTTPError(http.StatusInternalServerError, "Error updating profile")
	}
	if taken {
		return ProfileDTO{}, NewHTTPError(http.StatusConflict, "Email is already taken")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repository.ErrUserNotFound {
		return ProfileDTO{}, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return ProfileDTO{}, NewHTTPError(http.StatusInternalServerError, "Error updating profile")
	}

	user.Name = in.Name
	user.Email = in.Email
	if err := u.users.Update(ctx, user); err != nil {
		return ProfileDTO{}, NewHTTPError(http.StatusInternalServerError, "Error updating profile")
	}

	updated, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return ProfileDTO{}, NewHTTPError(http.StatusInternalServerError, "Error updating profile")
	}
	return toProfileDTO(updated), nil
}

func (u *AuthUsecase) DeleteProfile(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	err := u.users.Delete(ctx, userID)
	if err == repository.ErrUserNotFound {
		return NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting profile")
	}
	return nil
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, userID int64, in ChangePasswordInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validator.ValidateChangePassword(ctx, in.CurrentPassword, in.NewPassword); err != nil {
		return err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repository.ErrUserNotFound {
		return NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error changing password")
	}

	//現在のパスワード照合
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return NewHTTPError(http.StatusBadRequest, "Current password is incorrect")
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error changing password")
	}

	if err := u.users.UpdatePassword(ctx, userID, string(pwHash)); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error changing password")
	}
	return nil
}

// JWTを発行する。claimsはuserId/email/role/isAdmin、HS256、7日で失効。
func (u *AuthUsecase) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId":  user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"isAdmin": user.IsAdmin,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(u.cfg.JWTSecret))
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    string(u.Role),
		IsAdmin: u.IsAdmin,
	}
}

func toProfileDTO(u *model.User) ProfileDTO {
	return ProfileDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
