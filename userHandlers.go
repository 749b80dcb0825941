package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/models"
)

func registerUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		user, err := models.RegisterUser(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		user.PrepareGive()
		respondCreated(c, "user registered", user)
	}
}

func registerUserWithBusinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUserWithBusiness
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		user, business, err := models.RegisterUserWithBusiness(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		user.PrepareGive()
		respondCreated(c, "user and business registered", gin.H{
			"user":     user,
			"business": business,
		})
	}
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		info, err := models.Login(c.Request.Context(), input.Username, input.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		if err := models.Logout(c.Request.Context()); err != nil {
			// token deletion touching redis is the one failure surfaced
			// as an internal error
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		respondOK(c, "logged out", nil)
	}
}

func passwordResetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		token, err := models.RequestPasswordReset(c.Request.Context(), input.Email)
		if err == nil {
			// delivery is out of scope here; the operator reads the token
			// from the log
			logger.WithFields(logrus.Fields{
				"field":       "passwordResetHandler",
				"email":       input.Email,
				"reset_token": token,
			}).Info("password reset token issued")
		}
		// same body either way so the endpoint does not leak which emails
		// exist
		respondOK(c, "reset token issued if the account exists", nil)
	}
}

func passwordResetConfirmHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Token    string `json:"token" binding:"required"`
			Password string `json:"password" binding:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		if err := models.ConfirmPasswordReset(c.Request.Context(), input.Token, input.Password); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "password updated", nil)
	}
}
