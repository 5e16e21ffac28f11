package auth

import (
	"time"

	"zooback/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 令牌声明集：账号 ID、用户名、邮箱、当前角色。
// 过期时间为签发时刻加固定时长（配置）。
type Claims struct {
	AccountID string          `json:"accountId"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      domain.RoleName `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager 签发/验证 HMAC-SHA256 JWT
type TokenManager struct {
	secret []byte
	issuer string
	expiry time.Duration
}

func NewTokenManager(secret, issuer string, expiry time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		expiry: expiry,
	}
}

// Issue 为账号签发令牌，返回令牌串和过期时刻
func (m *TokenManager) Issue(accountID, username, email string, role domain.RoleName) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.expiry)

	claims := Claims{
		AccountID: accountID,
		Username:  username,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify 解析并验证令牌；签名错误、过期、算法不符都返回 Authentication 错误
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(m.issuer))
	if err != nil || !token.Valid {
		return nil, domain.Authenticationf("invalid or expired token")
	}
	return claims, nil
}
