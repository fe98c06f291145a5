package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gographql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/sirupsen/logrus"

	"employee-directory/internal/auth"
	"employee-directory/internal/domain"
	"employee-directory/internal/service"
)

const maxPhotoSize = 5 << 20

// Options toggles optional parts of the HTTP surface.
type Options struct {
	GraphiQL         bool
	ProtectEmployees bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	schema    *gographql.Schema
	users     service.UserService
	employees service.EmployeeService
	opts      Options
	logger    *logrus.Logger
}

func NewHandler(schema *gographql.Schema, users service.UserService, employees service.EmployeeService, opts Options, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		schema:    schema,
		users:     users,
		employees: employees,
		opts:      opts,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware(), authorizationContext())

	router.POST("/graphql", gin.WrapH(&relay.Handler{Schema: h.schema}))
	if h.opts.GraphiQL {
		router.GET("/graphql", graphiQL)
	}

	api := router.Group("/api")
	{
		photos := api.Group("/employees")
		if h.opts.ProtectEmployees {
			photos.Use(h.requireAuth())
		}
		photos.POST("/:id/photo", h.uploadPhoto)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authorizationContext exposes the Authorization header to resolvers through the request context.
func authorizationContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			c.Request = c.Request.WithContext(auth.WithAuthorization(c.Request.Context(), header))
		}
		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}

// requireAuth rejects requests without a valid bearer token and stores the claims on the context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.users.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	e, err := h.employees.SetPhoto(c.Request.Context(), c.Param("id"), service.Photo{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Body:        f,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	url, err := h.employees.PhotoURL(c.Request.Context(), e)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                 e.ID,
		"employee_photo":     e.EmployeePhoto,
		"employee_photo_url": url,
	})
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := "internal server error"
	var derr *domain.Error
	if errors.As(err, &derr) {
		msg = derr.Public()
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request error")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": string(domain.KindOf(err))})
}
