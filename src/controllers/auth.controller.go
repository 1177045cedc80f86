package controllers

import (
	"errors"
	"etix/src/db"
	"etix/src/lib/mailer"
	"etix/src/models"
	"etix/src/types"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func generateJWT(user *models.User) (string, error) {
	claims := types.Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func AuthRegister(ctx *gin.Context) (id uint, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return 0, http.StatusBadRequest, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return 0, http.StatusInternalServerError, errors.New("could not register user")
	}
	// Self-registration never grants admin. The binding rule limits the role
	// field to organizer or attendee; empty falls back to attendee.
	role := types.ROLE_ATTENDEE
	if body.Role != nil {
		role = *body.Role
	}
	user := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where(&models.User{Email: body.Email}).First(&existing).Error
		if err == nil {
			return errors.New("an account with this email already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		log.Printf("Error registering user %s: %s\n", body.Email, err.Error())
		return 0, http.StatusBadRequest, err
	}

	mailer.Send(user.Email, "Welcome aboard",
		fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Browse upcoming events and grab your tickets.</p>", user.Name))

	log.Printf("Registered new %s account: %d\n", user.Role, user.ID)
	return user.ID, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var user models.User
	if err := db.Where(&models.User{Email: body.Email}).First(&user).Error; err != nil {
		log.Printf("Login failed for %s: %s\n", body.Email, err.Error())
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		log.Printf("Login failed for %s: bad password\n", body.Email)
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}

	jwt, err := generateJWT(&user)
	if err != nil {
		log.Printf("Error signing token for user %d: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not sign token")
	}
	return &jwt, http.StatusOK, nil
}

// AuthMe returns the profile resolved by the auth middleware.
func AuthMe(ctx *gin.Context) (*models.User, int, error) {
	userId := ctx.GetUint("id")
	db := db.GetDb()
	var user models.User
	if err := db.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
		return nil, http.StatusNotFound, err
	}
	return &user, http.StatusOK, nil
}
