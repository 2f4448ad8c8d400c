package state

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Paintersrp/scriptura/internal/admin"
	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/config"
	"github.com/Paintersrp/scriptura/internal/logging"
)

type State struct {
	Config *config.Config
	Client *client.Client
	Logger *zap.Logger
	Gate   *admin.Gate
	Home   string
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	return &State{
		Config: cfg,
		Logger: zap.NewNop(),
		Gate:   admin.NewGate(cfg.Admin.Secret),
		Home:   home,
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Read(home)
}

// Connect applies flag and environment overrides from v, then builds the
// logger and backend client. Commands call it once flags are parsed.
func (s *State) Connect(v *viper.Viper) error {
	if err := s.Config.ApplyOverrides(v); err != nil {
		return err
	}

	logger, err := logging.New(s.Config.Log.Level, s.Config.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		logger = zap.NewNop()
	}
	s.Logger = logger

	timeout, err := s.Config.TransportTimeout()
	if err != nil {
		return err
	}

	c, err := client.New(
		s.Config.APIURL,
		client.WithTimeout(timeout),
		client.WithLogger(logger.Named("client")),
		client.WithAdminSecret(s.Config.Admin.Secret),
	)
	if err != nil {
		return err
	}
	s.Client = c
	s.Gate = admin.NewGate(s.Config.Admin.Secret)

	logger.Debug("state connected",
		zap.String("api_url", s.Config.APIURL),
		zap.Duration("timeout", timeout),
	)
	return nil
}

// Close flushes the logger.
func (s *State) Close() error {
	if s == nil || s.Logger == nil {
		return nil
	}

	var errs []error
	if err := s.Logger.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
