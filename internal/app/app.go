// Package app assembles the status service from its configuration. It is the
// composition root shared by the server and the statusctl command.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/status-service/configs"
	"github.com/avatarctic/status-service/internal/application/services"
	"github.com/avatarctic/status-service/internal/core/ports"
	"github.com/avatarctic/status-service/internal/infrastructure/db"
	"github.com/avatarctic/status-service/internal/infrastructure/probes"
	"github.com/avatarctic/status-service/internal/infrastructure/redis"
)

// connectTimeout bounds the informational connectivity check done at startup.
const connectTimeout = 2 * time.Second

// App holds the backing-store handles and the status service built on top of them.
type App struct {
	Database      *db.Database
	Redis         goredis.UniversalClient
	StatusService *services.StatusService
	closers       []io.Closer
}

// NewLogger builds the process logger from the log configuration.
func NewLogger(cfg configs.LogConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	if out != nil {
		logger.SetOutput(out)
	}
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}

// New opens only the backing stores the configured probes need and wires the
// status service. Unreachable stores are logged, not fatal: reporting them is the
// service's job. Only configuration errors fail here. A nil logger discards output.
func New(cfg *configs.Config, recorder ports.StatusRecorder, logger *logrus.Logger) (*App, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	a := &App{}

	if cfg.Status.NeedsKind(configs.ProbeKindRelational) {
		database, err := db.NewDatabaseWithConfig(&cfg.Database)
		if err != nil {
			return nil, err
		}
		a.Database = database
		a.closers = append(a.closers, database)
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		if err := database.Ping(ctx); err != nil {
			logger.WithError(err).WithField("driver", cfg.Database.Driver).Warn("database not reachable at startup")
		} else {
			logger.WithField("driver", cfg.Database.Driver).Info("Connected to database successfully")
		}
		cancel()
	}

	if cfg.Status.NeedsKind(configs.ProbeKindCache) {
		client := redis.NewRedisClient(&cfg.Redis)
		a.Redis = client
		a.closers = append(a.closers, client)
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		if err := redis.Ping(ctx, client); err != nil {
			logger.WithError(err).Warn("redis not reachable at startup")
		} else {
			logger.Info("Connected to Redis successfully")
		}
		cancel()
	}

	regs, err := a.registrations(cfg.Status.Probes)
	if err != nil {
		a.Close()
		return nil, err
	}

	aggregator := services.NewAggregator(&services.AggregatorConfig{
		OverallDeadline: cfg.Status.OverallDeadline,
		GracePeriod:     cfg.Status.GracePeriod,
		SlowThreshold:   cfg.Status.SlowThreshold,
	}, logger)
	statusService, err := services.NewStatusService(regs, aggregator, recorder, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.StatusService = statusService
	return a, nil
}

func (a *App) registrations(probeCfgs []configs.ProbeConfig) ([]ports.ProbeRegistration, error) {
	regs := make([]ports.ProbeRegistration, 0, len(probeCfgs))
	for _, pc := range probeCfgs {
		var probe ports.Probe
		switch pc.Kind {
		case configs.ProbeKindRelational:
			probe = probes.NewRelationalProbe(a.Database)
		case configs.ProbeKindCache:
			probe = probes.NewCacheProbe(a.Redis)
		default:
			return nil, fmt.Errorf("probe %q: unknown kind %q", pc.Name, pc.Kind)
		}
		regs = append(regs, ports.ProbeRegistration{
			Name:     pc.Name,
			Required: pc.Required,
			Timeout:  pc.Timeout,
			Probe:    probe,
		})
	}
	return regs, nil
}

// Close releases the backing-store handles in reverse order of opening.
func (a *App) Close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}
