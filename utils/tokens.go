package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"ferim-server/models"
	"ferim-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

// AccessToken is the claims payload of the 7-day access token. The role is
// embedded so route gates don't have to re-fetch the user record.
type AccessToken struct {
	ID   uint        `json:"ID"`
	Role models.Role `json:"role"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

const accessTokenTTL = 7 * 24 * time.Hour
const refreshTokenTTL = 365 * 24 * time.Hour

// CreateTokenPair signs a fresh access/refresh pair for the user and marks
// the refresh token as live in Redis.
func CreateTokenPair(user *models.User) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), accessTokenTTL)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), refreshTokenTTL)

	accessToken, err := accessTokenSigner.Sign(AccessToken{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.Claims{Subject: strconv.FormatUint(uint64(user.ID), 10)}
	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	storage.Redis.Set(bgContext, string(refreshToken), "true", refreshTokenTTL+5*time.Minute)

	return &tokenPair, nil
}

// RefreshToken rotates a verified refresh token. Each refresh token is
// single-use: it is deleted from Redis before the new pair is issued.
func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)

	validToken, tokenErr := storage.Redis.Get(bgContext, tokenStr).Result()
	if tokenErr != nil {
		CreateNotFound(ctx)
		return
	}
	if validToken != "true" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	storage.Redis.Del(bgContext, tokenStr)

	userID, parseErr := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	var user models.User
	userQuery := storage.DB.Where("id = ?", uint(userID)).Limit(1).Find(&user)
	if userQuery.Error != nil {
		CreateInternalServerError(ctx)
		return
	}
	if userQuery.RowsAffected == 0 {
		CreateNotFound(ctx)
		return
	}

	tokenPair, tokenPairErr := CreateTokenPair(&user)
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"token":        string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
