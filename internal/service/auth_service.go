package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"zooback/internal/auth"
	"zooback/internal/domain"
	"zooback/internal/repository"
	"zooback/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService 认证授权服务接口
type AuthService interface {
	// 注册 / 登录
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)

	// 会话维护
	ChangePassword(ctx context.Context, accountID string, req ChangePasswordRequest) error
	RefreshToken(ctx context.Context, accountID string) (*AuthResponse, error)

	// 密码重置（验证码走 KV，10 分钟过期）
	SendResetCode(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

const (
	resetCodePrefix  = "pwdreset:code:"
	resetTokenPrefix = "pwdreset:token:"
	resetTTL         = 10 * time.Minute
	minPasswordLen   = 6
)

// authService 实现
type authService struct {
	accounts repository.AccountsRepository
	roles    repository.RolesRepository
	tokens   *auth.TokenManager
	kv       store.KV
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(accounts repository.AccountsRepository, roles repository.RolesRepository, tokens *auth.TokenManager, kv store.KV, logger *zap.Logger) AuthService {
	return &authService{
		accounts: accounts,
		roles:    roles,
		tokens:   tokens,
		kv:       kv,
		logger:   logger,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"` // 可选，默认 Visitor
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
	IPAddress       string `json:"-"`
	UserAgent       string `json:"-"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AccountProfile 响应中的账号概要
type AccountProfile struct {
	AccountID string `json:"accountId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// AuthResponse 认证响应（注册/登录/刷新共用）
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Account   AccountProfile `json:"account"`
}

// Register 注册新账号，默认 Visitor 角色
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" {
		return nil, domain.Validationf("Username is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, domain.Validationf("A valid email is required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, domain.Validationf("Password must be at least %d characters", minPasswordLen)
	}
	if req.Gender != "" && !domain.Gender(req.Gender).Valid() {
		return nil, domain.Validationf("Invalid gender '%s'", req.Gender)
	}

	roleName := domain.RoleVisitor
	if req.Role != "" {
		roleName = domain.RoleName(req.Role)
		if !roleName.Valid() {
			return nil, domain.Validationf("Invalid role '%s'", req.Role)
		}
	}
	role, err := s.roles.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	if exists, err := s.accounts.UsernameExists(ctx, req.Username, ""); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Username already exists")
	}
	if exists, err := s.accounts.EmailExists(ctx, req.Email, ""); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hash,
		CurrentRoleID: role.RoleID,
	}
	details := &domain.AccountDetails{
		FirstName:   nullString(req.FirstName),
		LastName:    nullString(req.LastName),
		Gender:      nullString(req.Gender),
		Phone:       nullString(req.Phone),
		HomeAddress: nullString(req.Address),
	}

	accountID, err := s.accounts.CreateAccount(ctx, account, details)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account registered",
		zap.String("account_id", accountID),
		zap.String("username", req.Username),
		zap.String("role", string(roleName)),
		zap.String("ip_address", req.IPAddress),
	)

	return s.issue(accountID, req.Username, req.Email, roleName)
}

// Login 登录：账号不存在与密码错误返回同一错误，避免账号探测
func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.UsernameOrEmail = strings.TrimSpace(req.UsernameOrEmail)
	if req.UsernameOrEmail == "" || req.Password == "" {
		return nil, domain.Validationf("Username and password are required")
	}

	account, err := s.accounts.FindByUsernameOrEmail(ctx, req.UsernameOrEmail)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			s.logger.Warn("Login failed: account not found",
				zap.String("account", req.UsernameOrEmail),
				zap.String("ip_address", req.IPAddress),
				zap.String("user_agent", req.UserAgent),
				zap.String("reason", "account_not_found"),
			)
			return nil, domain.Authenticationf("Invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		s.logger.Warn("Login failed: wrong password",
			zap.String("account_id", account.AccountID),
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
			zap.String("reason", "wrong_password"),
		)
		return nil, domain.Authenticationf("Invalid credentials")
	}

	if err := s.accounts.UpdateLastLogin(ctx, account.AccountID); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("account_id", account.AccountID), zap.Error(err))
	}

	s.logger.Info("Login succeeded",
		zap.String("account_id", account.AccountID),
		zap.String("ip_address", req.IPAddress),
	)
	return s.issue(account.AccountID, account.Username, account.Email, account.CurrentRole)
}

// ChangePassword 先验证当前密码
func (s *authService) ChangePassword(ctx context.Context, accountID string, req ChangePasswordRequest) error {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(account.PasswordHash, req.CurrentPassword) {
		return domain.Authenticationf("Current password is incorrect")
	}
	if len(req.NewPassword) < minPasswordLen {
		return domain.Validationf("Password must be at least %d characters", minPasswordLen)
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.accounts.UpdatePassword(ctx, accountID, hash)
}

// RefreshToken 为现有账号重新签发令牌
func (s *authService) RefreshToken(ctx context.Context, accountID string) (*AuthResponse, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.issue(account.AccountID, account.Username, account.Email, account.CurrentRole)
}

// SendResetCode 生成 6 位验证码写入 KV
// 邮件发送不在本服务范围，验证码落结构化日志供网关侧投递
func (s *authService) SendResetCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Validationf("Email is required")
	}

	account, err := s.accounts.FindByUsernameOrEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			// 不暴露账号是否存在
			return nil
		}
		return err
	}

	code, err := sixDigitCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}
	if err := s.kv.Set(ctx, resetCodePrefix+email, code, resetTTL); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	s.logger.Info("Password reset code issued",
		zap.String("account_id", account.AccountID),
		zap.String("email", email),
		zap.String("code", code),
	)
	return nil
}

// VerifyResetCode 校验验证码并换取一次性重置令牌
func (s *authService) VerifyResetCode(ctx context.Context, email, code string) (string, error) {
	email = strings.TrimSpace(email)
	stored, err := s.kv.Get(ctx, resetCodePrefix+email)
	if err != nil {
		if err == store.ErrMiss {
			return "", domain.Authenticationf("Invalid or expired code")
		}
		return "", err
	}
	if stored != code {
		return "", domain.Authenticationf("Invalid or expired code")
	}

	account, err := s.accounts.FindByUsernameOrEmail(ctx, email)
	if err != nil {
		return "", domain.Authenticationf("Invalid or expired code")
	}

	token := uuid.NewString()
	if err := s.kv.Set(ctx, resetTokenPrefix+token, account.AccountID, resetTTL); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	if err := s.kv.Del(ctx, resetCodePrefix+email); err != nil {
		s.logger.Warn("Failed to delete reset code", zap.String("email", email), zap.Error(err))
	}
	return token, nil
}

// ResetPassword 消费重置令牌并更新密码
func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	accountID, err := s.kv.Get(ctx, resetTokenPrefix+resetToken)
	if err != nil {
		if err == store.ErrMiss {
			return domain.Authenticationf("Invalid or expired reset token")
		}
		return err
	}
	if len(newPassword) < minPasswordLen {
		return domain.Validationf("Password must be at least %d characters", minPasswordLen)
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, hash); err != nil {
		return err
	}
	if err := s.kv.Del(ctx, resetTokenPrefix+resetToken); err != nil {
		s.logger.Warn("Failed to delete reset token", zap.Error(err))
	}
	s.logger.Info("Password reset completed", zap.String("account_id", accountID))
	return nil
}

func (s *authService) issue(accountID, username, email string, role domain.RoleName) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(accountID, username, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account: AccountProfile{
			AccountID: accountID,
			Username:  username,
			Email:     email,
			Role:      string(role),
		},
	}, nil
}

func sixDigitCode() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	n := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return fmt.Sprintf("%06d", n%1000000), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
