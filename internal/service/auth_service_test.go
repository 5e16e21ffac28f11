package service

import (
	"context"
	"testing"

	"zooback/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.authSvc.Register(ctx, RegisterRequest{
		Username: "visitor01",
		Email:    "visitor01@zoo.local",
		Password: "pass-123456",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "Visitor", resp.Account.Role) // 未指定角色默认 Visitor

	claims, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.Account.AccountID, claims.AccountID)

	// 用户名和邮箱都能登录
	login, err := env.authSvc.Login(ctx, LoginRequest{UsernameOrEmail: "visitor01", Password: "pass-123456"})
	require.NoError(t, err)
	require.Equal(t, resp.Account.AccountID, login.Account.AccountID)

	login, err = env.authSvc.Login(ctx, LoginRequest{UsernameOrEmail: "visitor01@zoo.local", Password: "pass-123456"})
	require.NoError(t, err)
	require.Equal(t, resp.Account.AccountID, login.Account.AccountID)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerAccount(t, "keeper01", "Zookeeper")

	_, err := env.authSvc.Register(ctx, RegisterRequest{
		Username: "keeper01",
		Email:    "other@zoo.local",
		Password: "pass-123456",
	})
	require.True(t, domain.IsKind(err, domain.KindConflict))
	require.EqualError(t, err, "Username already exists")

	_, err = env.authSvc.Register(ctx, RegisterRequest{
		Username: "keeper02",
		Email:    "keeper01@zoo.local",
		Password: "pass-123456",
	})
	require.True(t, domain.IsKind(err, domain.KindConflict))
	require.EqualError(t, err, "Email already exists")
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.authSvc.Register(ctx, RegisterRequest{Email: "a@b.c", Password: "pass-123456"})
	require.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.authSvc.Register(ctx, RegisterRequest{Username: "u1", Email: "not-an-email", Password: "pass-123456"})
	require.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.authSvc.Register(ctx, RegisterRequest{Username: "u1", Email: "a@b.c", Password: "short"})
	require.True(t, domain.IsKind(err, domain.KindValidation))
}

// 账号不存在与密码错误返回完全相同的错误，避免账号探测
func TestAuthService_LoginIndistinguishableFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerAccount(t, "keeper01", "Zookeeper")

	_, errNoAccount := env.authSvc.Login(ctx, LoginRequest{UsernameOrEmail: "nobody", Password: "pass-123456"})
	_, errWrongPass := env.authSvc.Login(ctx, LoginRequest{UsernameOrEmail: "keeper01", Password: "wrong-pass"})

	require.True(t, domain.IsKind(errNoAccount, domain.KindAuthentication))
	require.True(t, domain.IsKind(errWrongPass, domain.KindAuthentication))
	require.Equal(t, errNoAccount.Error(), errWrongPass.Error())
	require.EqualError(t, errNoAccount, "Invalid credentials")
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")

	err := env.authSvc.ChangePassword(ctx, accountID, ChangePasswordRequest{
		CurrentPassword: "wrong-pass",
		NewPassword:     "new-pass-123",
	})
	require.True(t, domain.IsKind(err, domain.KindAuthentication))

	err = env.authSvc.ChangePassword(ctx, accountID, ChangePasswordRequest{
		CurrentPassword: "pass-123456",
		NewPassword:     "new-pass-123",
	})
	require.NoError(t, err)

	_, err = env.authSvc.Login(ctx, LoginRequest{UsernameOrEmail: "keeper01", Password: "pass-123456"})
	require.Error(t, err)
	_, err = env.authSvc.Login(ctx, LoginRequest{UsernameOrEmail: "keeper01", Password: "new-pass-123"})
	require.NoError(t, err)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerAccount(t, "keeper01", "Zookeeper")
	email := "keeper01@zoo.local"

	require.NoError(t, env.authSvc.SendResetCode(ctx, email))

	// 验证码写入 KV，此处直接取出模拟邮件投递
	code, err := env.kv.Get(ctx, "pwdreset:code:"+email)
	require.NoError(t, err)
	require.Len(t, code, 6)

	_, err = env.authSvc.VerifyResetCode(ctx, email, "000000x")
	require.True(t, domain.IsKind(err, domain.KindAuthentication))

	token, err := env.authSvc.VerifyResetCode(ctx, email, code)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// 验证码被消费，二次使用失败
	_, err = env.authSvc.VerifyResetCode(ctx, email, code)
	require.True(t, domain.IsKind(err, domain.KindAuthentication))

	require.NoError(t, env.authSvc.ResetPassword(ctx, token, "brand-new-pass"))

	_, err = env.authSvc.Login(ctx, LoginRequest{UsernameOrEmail: "keeper01", Password: "brand-new-pass"})
	require.NoError(t, err)

	// 重置令牌一次性
	err = env.authSvc.ResetPassword(ctx, token, "another-pass-1")
	require.True(t, domain.IsKind(err, domain.KindAuthentication))
}

// 未注册邮箱静默成功，不暴露账号存在性
func TestAuthService_SendResetCodeUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.authSvc.SendResetCode(context.Background(), "nobody@zoo.local"))
}

func TestAuthService_RefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")

	resp, err := env.authSvc.RefreshToken(ctx, accountID)
	require.NoError(t, err)
	claims, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, accountID, claims.AccountID)

	_, err = env.authSvc.RefreshToken(ctx, "00000000-0000-0000-0000-000000000000")
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}
