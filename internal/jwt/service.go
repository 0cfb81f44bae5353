package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/survey"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Subject is what the builder needs to know about a token holder.
type Subject struct {
	UserID    string
	ExpiresAt time.Time
}

// claims follow the storage service's token layout, which carries the user id in
// "userId", usually as a number. "sub" is used when "userId" is absent.
type claims struct {
	UserID survey.ID `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// Service reads storage service tokens. Without a secret the signature is not
// checked, the storage service verifies it on every call anyway.
type Service struct {
	logger *zap.Logger
	tracer trace.Tracer
	secret string
	now    func() time.Time
}

func NewService(logger *zap.Logger, secret string) *Service {
	return &Service{
		logger: logger,
		tracer: otel.Tracer("jwt/service"),
		secret: secret,
		now:    time.Now,
	}
}

// New signs a token for userID. It exists for local development and tests.
func (s Service) New(ctx context.Context, userID string, expiration time.Duration) (string, error) {
	traceCtx, span := s.tracer.Start(ctx, "New")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	if s.secret == "" {
		err := errors.New("jwt: signing requires a secret")
		span.RecordError(err)
		return "", err
	}

	now := s.now()
	tokenClaims := &claims{
		UserID: survey.ID(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		logger.Error("failed to sign token", zap.Error(err), zap.String("user_id", userID))
		span.RecordError(err)
		return "", err
	}

	logger.Debug("Generated JWT token", zap.String("user_id", userID))
	return tokenString, nil
}

func (s Service) Parse(ctx context.Context, tokenString string) (Subject, error) {
	traceCtx, span := s.tracer.Start(ctx, "Parse")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	tokenClaims := &claims{}
	var err error
	if s.secret == "" {
		_, _, err = jwt.NewParser().ParseUnverified(tokenString, tokenClaims)
		if err == nil {
			err = s.checkExpiry(tokenClaims)
		}
	} else {
		secret := func(token *jwt.Token) (interface{}, error) {
			return []byte(s.secret), nil
		}
		_, err = jwt.ParseWithClaims(tokenString, tokenClaims, secret,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(s.now),
		)
	}
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			logger.Warn("Failed to parse JWT token due to malformed structure, this is not a JWT token", zap.String("error", err.Error()))
			return Subject{}, fmt.Errorf("%w: %v", internal.ErrInvalidJWTToken, err)
		case errors.Is(err, jwt.ErrSignatureInvalid):
			logger.Warn("Failed to parse JWT token due to invalid signature", zap.String("error", err.Error()))
			return Subject{}, fmt.Errorf("%w: %v", internal.ErrInvalidJWTToken, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			logger.Warn("Failed to parse JWT token due to expired timestamp", zap.String("error", err.Error()))
			return Subject{}, fmt.Errorf("%w: %v", internal.ErrJWTTokenExpired, err)
		default:
			logger.Error("Failed to parse JWT token", zap.Error(err))
			return Subject{}, fmt.Errorf("%w: %v", internal.ErrInvalidJWTToken, err)
		}
	}

	userID := tokenClaims.UserID.String()
	if userID == "" {
		userID = tokenClaims.Subject
	}
	if userID == "" {
		logger.Warn("JWT token carries no user id")
		return Subject{}, internal.ErrInvalidAuthUser
	}

	subject := Subject{UserID: userID}
	if tokenClaims.ExpiresAt != nil {
		subject.ExpiresAt = tokenClaims.ExpiresAt.Time
	}
	return subject, nil
}

func (s Service) checkExpiry(c *claims) error {
	if c.ExpiresAt != nil && !s.now().Before(c.ExpiresAt.Time) {
		return jwt.ErrTokenExpired
	}
	return nil
}
