package service

import (
	"context"
	"net/mail"
	"strings"

	"qrmenu/internal/apperr"
	"qrmenu/internal/auth"
	"qrmenu/menu-svc/internal/domain"

	"go.uber.org/zap"
)

const minPasswordLength = 6

type AuthService struct {
	repo   RestaurantRepository
	tokens TokenIssuer
	qr     QRGenerator
	logger *zap.Logger
}

func NewAuthService(repo RestaurantRepository, tokens TokenIssuer, qr QRGenerator, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, qr: qr, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperr.Validation("invalid email %q", in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Storage(err, "hash password")
	}
	rest := &domain.Restaurant{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		PasswordHash: hash,
	}
	if err := s.repo.CreateRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	s.logger.Info("restaurant signed up", zap.Int("restaurant_id", rest.ID))

	if s.qr != nil {
		qr, err := s.qr.Generate(rest.ID)
		if err != nil {
			s.logger.Warn("failed to generate qr code", zap.Int("restaurant_id", rest.ID), zap.Error(err))
		} else if err := s.repo.SaveQRCode(ctx, rest.ID, qr); err != nil {
			s.logger.Warn("failed to store qr code", zap.Int("restaurant_id", rest.ID), zap.Error(err))
		}
	}

	return s.result(rest)
}

func (s *AuthService) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	rest, err := s.repo.GetRestaurantByEmail(ctx, email)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(rest.PasswordHash, in.Password) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return s.result(rest)
}

func (s *AuthService) result(rest *domain.Restaurant) (*domain.AuthResult, error) {
	token, err := s.tokens.Issue(rest.ID, rest.Email)
	if err != nil {
		return nil, apperr.Storage(err, "issue token")
	}
	return &domain.AuthResult{Token: token, User: rest}, nil
}
