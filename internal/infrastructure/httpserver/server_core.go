package httpserver

import (
	"time"

	"github.com/avatarctic/status-service/internal/core/ports"
	customMiddleware "github.com/avatarctic/status-service/internal/infrastructure/httpserver/middleware"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	ServiceName    string
	Version        string
}

type ServerDeps struct {
	StatusService ports.StatusService
}

type Server struct {
	echo       *echo.Echo
	config     *ServerConfig
	logger     *logrus.Logger
	statusSvc  ports.StatusService
	middleware *customMiddleware.MiddlewareCollection
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:      e,
		config:    serverConfig,
		logger:    logger,
		statusSvc: deps.StatusService,
		middleware: customMiddleware.NewMiddlewareCollection(
			logger,
			httpRequestsTotal,
			httpRequestDuration,
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
