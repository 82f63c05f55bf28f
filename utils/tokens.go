package utils

import (
	"errors"
	"log"
	"os"
	"time"

	"dekites-server/models"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
)

type AccessClaims struct {
	ID   uint            `json:"id"`
	Role models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	ID uint `json:"id"`
	jwt.RegisteredClaims
}

func CreateTokenPair(user *models.User) (access string, refresh string, err error) {
	secret := []byte(os.Getenv("ACCESS_TOKEN_SECRET"))
	refreshSecret := []byte(os.Getenv("REFRESH_TOKEN_SECRET"))

	accessClaims := AccessClaims{
		ID:   user.ID,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := RefreshClaims{
		ID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(refreshSecret)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("ACCESS_TOKEN_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func ParseRefreshToken(tokenStr string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &RefreshClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("REFRESH_TOKEN_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

type GoogleClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// ValidateGoogleIDToken verifies a Google sign-in ID token against Google's
// published JWKS and returns the profile claims.
func ValidateGoogleIDToken(idToken string) (*GoogleClaims, error) {
	jwks, err := keyfunc.Get(googleJWKSURL, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			log.Printf("[error] google jwks refresh: %v", err)
		},
	})
	if err != nil {
		return nil, err
	}
	defer jwks.EndBackground()

	token, err := jwt.ParseWithClaims(idToken, &GoogleClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*GoogleClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid google id token")
	}
	if claims.Email == "" {
		return nil, errors.New("google id token carries no email")
	}
	return claims, nil
}

// WriteTokenPairResponse is the shared success payload of register, login and
// refresh.
func WriteTokenPairResponse(user *models.User, ctx iris.Context) {
	access, refresh, err := CreateTokenPair(user)
	if err != nil {
		log.Printf("[error] creating token pair: %v", err)
		CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}
