package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/Hariom00027/hackathon-system/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	tokenTTL          = 72 * time.Hour
)

type RegisterInput struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	Organization *string `json:"organization"`
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthService — регистрация/вход и разрешение личности по bearer-токену.
// Ядро зависит только от полученной Identity, не от формата токена.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
	ResolveIdentity(ctx context.Context, authorizationHeader string) (*models.Identity, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	role := models.UserRole(input.Role)
	if role != models.RoleApplicant && role != models.RoleIndustry {
		return nil, "", ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Role:         role,
		Organization: input.Organization,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, "", ErrAuthEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = ""
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrAuthInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrAuthInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = ""
	return user, token, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ResolveIdentity превращает заголовок Authorization в Identity.
// Основной формат — подписанный JWT; поддерживается и легаси-токен из
// трёх частей через точку, где первая часть — base64 от пар key:value,
// склеенных через "|". Любой изъян токена или неизвестный email дают
// ErrUnauthenticated.
func (s *authService) ResolveIdentity(ctx context.Context, authorizationHeader string) (*models.Identity, error) {
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return nil, ErrUnauthenticated
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authorizationHeader, bearerPrefix))
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	email, ok := s.emailFromJWT(raw)
	if !ok {
		email, ok = emailFromLegacyToken(raw)
	}
	if !ok || email == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	return &models.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.DisplayName(),
		Role:  user.Role,
	}, nil
}

func (s *authService) emailFromJWT(raw string) (string, bool) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	email, _ := claims["email"].(string)
	return email, email != ""
}

// emailFromLegacyToken разбирает легаси-формат: три сегмента через
// точку, первый — base64 полезной нагрузки "k:v|k:v|...".
func emailFromLegacyToken(raw string) (string, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return "", false
	}

	payload, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		payload, err = base64.RawURLEncoding.DecodeString(parts[0])
		if err != nil {
			return "", false
		}
	}

	for _, pair := range strings.Split(string(payload), "|") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			continue
		}
		if kv[0] == "email" {
			return kv[1], kv[1] != ""
		}
	}
	return "", false
}
