package routes

import (
	"log"
	"net/http"
	"strings"

	"dekites-server/models"
	"dekites-server/storage"
	"dekites-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var validate = validator.New()

func readValidationErrors(err error) []utils.ValidationError {
	var out []utils.ValidationError
	for _, fieldErr := range err.(validator.ValidationErrors) {
		out = append(out, utils.ValidationError{
			Field: fieldErr.Field(),
			Tag:   fieldErr.Tag(),
		})
	}
	return out
}

type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

func Register(ctx iris.Context) {
	var input RegisterUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.HandleValidationErrors(readValidationErrors(err), ctx)
		return
	}

	email := strings.ToLower(input.Email)
	var count int64
	storage.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "Email sudah terdaftar"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		log.Printf("[error] creating user: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(http.StatusCreated)
	utils.WriteTokenPairResponse(&user, ctx)
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(ctx iris.Context) {
	var input LoginUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.HandleValidationErrors(readValidationErrors(err), ctx)
		return
	}

	var user models.User
	if err := storage.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		ctx.StatusCode(http.StatusUnauthorized)
		ctx.JSON(iris.Map{"error": "Email atau password salah"})
		return
	}

	if user.SocialLogin {
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "Akun ini terdaftar melalui " + user.SocialProvider})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		ctx.StatusCode(http.StatusUnauthorized)
		ctx.JSON(iris.Map{"error": "Email atau password salah"})
		return
	}

	utils.WriteTokenPairResponse(&user, ctx)
}

type GoogleLoginInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

// GoogleLogin verifies a Google ID token and signs the account in, creating
// it on first use.
func GoogleLogin(ctx iris.Context) {
	var input GoogleLoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.HandleValidationErrors(readValidationErrors(err), ctx)
		return
	}

	claims, err := utils.ValidateGoogleIDToken(input.IDToken)
	if err != nil {
		ctx.StatusCode(http.StatusUnauthorized)
		ctx.JSON(iris.Map{"error": "Token Google tidak valid"})
		return
	}

	email := strings.ToLower(claims.Email)
	var user models.User
	err = storage.DB.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			Name:           claims.Name,
			Email:          email,
			Role:           models.RoleUser,
			SocialLogin:    true,
			SocialProvider: "google",
		}
		if err := storage.DB.Create(&user).Error; err != nil {
			log.Printf("[error] creating social user: %v", err)
			utils.CreateInternalServerError(ctx)
			return
		}
	} else if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.WriteTokenPairResponse(&user, ctx)
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func RefreshToken(ctx iris.Context) {
	var input RefreshTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}

	claims, err := utils.ParseRefreshToken(input.RefreshToken)
	if err != nil {
		ctx.StatusCode(http.StatusUnauthorized)
		ctx.JSON(iris.Map{"error": "Sesi tidak valid atau kedaluwarsa"})
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		ctx.StatusCode(http.StatusUnauthorized)
		ctx.JSON(iris.Map{"error": "Pengguna tidak ditemukan"})
		return
	}

	utils.WriteTokenPairResponse(&user, ctx)
}

type RegisterPushTokenInput struct {
	Token string `json:"token" validate:"required"`
}

// RegisterPushToken stores an Expo push token on the caller's account so
// booking confirmations can reach their phone.
func RegisterPushToken(ctx iris.Context) {
	var input RegisterPushTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.HandleValidationErrors(readValidationErrors(err), ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	tokens, err := utils.AppendPushToken(user.PushTokens, input.Token)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	allows := true
	if err := storage.DB.Model(&user).Updates(models.User{
		PushTokens:          datatypes.JSON(tokens),
		AllowsNotifications: &allows,
	}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"registered": true})
}
