package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedline/internal/apperr"
	userEntity "feedline/internal/core/user"
	"feedline/internal/ports"
	userPort "feedline/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const jwtIssuer = "feedline"

// SignupValidator قوانین ورودی ثبت‌نام
type SignupValidator interface {
	ValidateSignup(email, name, password string) error
}

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	Validator      SignupValidator
	jwtKey         []byte
	tokenTTL       time.Duration
	hashCost       int
	logger         *zap.Logger
	now            func() time.Time
}

func NewUserService(repo userPort.UserRepository, validator SignupValidator, jwtKey []byte, tokenTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		Validator:      validator,
		jwtKey:         jwtKey,
		tokenTTL:       tokenTTL,
		hashCost:       12,
		logger:         logger,
		now:            time.Now,
	}
}

// RegisterUser ثبت‌نام کاربر جدید
func (s *UserService) RegisterUser(ctx context.Context, email, name, password string) (*userPort.UserDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if s.Validator != nil {
		if err := s.Validator.ValidateSignup(email, name, password); err != nil {
			return nil, err
		}
	}

	// بررسی اینکه آیا کاربر با این ایمیل قبلاً ثبت شده است
	existing, err := s.UserRepository.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, apperr.DuplicateEmail("User exists already!")
	case err != nil && !errors.Is(err, ports.ErrNotFound):
		return nil, apperr.Transient("failed to look up user", err)
	}

	// هش کردن پسورد
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.Validation("Validation failed.", []apperr.FieldError{
				{Field: "password", Message: "must be at most 72 bytes"},
			})
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    email,
		Name:     name,
		Password: string(hashed),
		Status:   userEntity.DefaultStatus,
	})
	if err != nil {
		// ثبت‌نام هم‌زمان با همان ایمیل
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, apperr.DuplicateEmail("User exists already!")
		}
		return nil, apperr.Transient("failed to create user", err)
	}

	s.logger.Info("✅ User registered", zap.String("userID", u.ID.String()))
	return toUserDTO(u), nil
}

// LoginUser ورود کاربر و صدور توکن JWT
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.UserRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperr.InvalidCredentials("A user with this email could not be found.")
		}
		return nil, apperr.Transient("failed to look up user", err)
	}

	// مقایسه پسورد هش‌شده
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.InvalidCredentials("Wrong password!")
	}

	expiresAt := s.now().Add(s.tokenTTL)
	token, err := s.generateJWT(user, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		UserID:    user.ID.String(),
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

type claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

// generateJWT برای تولید توکن JWT
func (s *UserService) generateJWT(user *userEntity.User, expiresAt time.Time) (string, error) {
	c := &claims{
		Email: user.Email,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.String(),
			Issuer:    jwtIssuer,
			IssuedAt:  s.now().Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.jwtKey)
}

// VerifyToken returns the user id the token was issued to.
func (s *UserService) VerifyToken(tokenString string) (string, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", apperr.ExpiredToken("Token expired.")
		}
		return "", apperr.InvalidToken("Not authenticated.", err)
	}
	if !token.Valid || c.Subject == "" || c.Issuer != jwtIssuer {
		return "", apperr.InvalidToken("Not authenticated.", nil)
	}
	if _, err := uuid.FromString(c.Subject); err != nil {
		return "", apperr.InvalidToken("Not authenticated.", err)
	}
	return c.Subject, nil
}

func toUserDTO(u *userEntity.User) *userPort.UserDTO {
	return &userPort.UserDTO{
		ID:     u.ID.String(),
		Email:  u.Email,
		Name:   u.Name,
		Status: u.Status,
		Posts:  u.PostIDs(),
	}
}
