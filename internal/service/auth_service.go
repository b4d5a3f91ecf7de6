package service

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"aireadiness/internal/model"
)

// AuthService issues and validates account and guest tokens. It is the
// service's edge of the auth boundary: the assessment engine itself only
// ever sees the Owner union the middleware rebuilds from claims.
type AuthService struct {
	username  string
	password  string
	orgID     string
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	username := os.Getenv("ACCOUNT_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ACCOUNT_PASSWORD")
	if password == "" {
		password = "password123"
	}
	orgID := os.Getenv("ACCOUNT_ORG_ID")
	if orgID == "" {
		orgID = "org_demo"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		username:  username,
		password:  password,
		orgID:     orgID,
		jwtSecret: []byte(secret),
	}
}

// Login validates credentials and returns an account token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.username || password != s.password {
		return nil, ErrInvalidCredentials
	}

	// Stable per username so repeat logins resume the same attempts
	userID := "user_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)).String()[:8]

	claims := &model.OwnerClaims{
		Kind:    string(model.OwnerAccount),
		OwnerID: userID,
		OrgID:   s.orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:  tokenString,
		UserID: userID,
		OrgID:  s.orgID,
	}, nil
}

// IssueGuestToken creates an anonymous guest session token. The guest id
// also keys the guest answer buffer until merge.
func (s *AuthService) IssueGuestToken() (*model.GuestTokenResponse, error) {
	guestID := "guest_" + uuid.New().String()

	claims := &model.OwnerClaims{
		Kind:    string(model.OwnerGuest),
		OwnerID: guestID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.GuestTokenResponse{
		Token:   tokenString,
		GuestID: guestID,
	}, nil
}

// ValidateToken validates a token and returns the owner it represents
func (s *AuthService) ValidateToken(tokenString string) (model.Owner, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OwnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return model.Owner{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OwnerClaims)
	if !ok || !token.Valid {
		return model.Owner{}, ErrInvalidToken
	}

	kind := model.OwnerKind(claims.Kind)
	if kind != model.OwnerAccount && kind != model.OwnerGuest {
		return model.Owner{}, ErrInvalidToken
	}

	return model.Owner{
		Kind:  kind,
		ID:    claims.OwnerID,
		OrgID: claims.OrgID,
	}, nil
}
