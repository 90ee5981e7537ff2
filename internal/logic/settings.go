package logic

import (
	"context"
	"strconv"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/credential"
	"github.com/MirrorChyan/ota-agent/internal/db"
	"github.com/MirrorChyan/ota-agent/internal/model"
	"go.uber.org/zap"
)

const (
	CheckIntervalKey = "check_interval"
	AutoInstallKey   = "auto_install"
)

// SettingsLogic persists the user adjustable updater settings next to the token.
type SettingsLogic struct {
	logger          *zap.Logger
	kv              db.Store
	creds           *credential.Store
	defaultInterval int
}

func NewSettingsLogic(conf *config.Config, logger *zap.Logger, kv db.Store, creds *credential.Store) *SettingsLogic {
	return &SettingsLogic{
		logger:          logger,
		kv:              kv,
		creds:           creds,
		defaultInterval: config.ClampCheckInterval(conf.Update.CheckInterval),
	}
}

// CheckInterval returns the auto-check interval in minutes.
func (l *SettingsLogic) CheckInterval(ctx context.Context) int {
	raw, err := l.kv.Get(ctx, credential.Namespace, CheckIntervalKey, "")
	if err != nil {
		l.logger.Warn("Failed to read check interval", zap.Error(err))
		return l.defaultInterval
	}
	if raw == "" {
		return l.defaultInterval
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		l.logger.Warn("Ignoring malformed check interval",
			zap.String("value", raw),
		)
		return l.defaultInterval
	}
	return config.ClampCheckInterval(minutes)
}

// SetCheckInterval clamps minutes into range and persists it.
func (l *SettingsLogic) SetCheckInterval(ctx context.Context, minutes int) (int, error) {
	minutes = config.ClampCheckInterval(minutes)
	if err := l.kv.Put(ctx, credential.Namespace, CheckIntervalKey, strconv.Itoa(minutes)); err != nil {
		return minutes, err
	}
	l.logger.Info("Check interval saved", zap.Int("minutes", minutes))
	return minutes, nil
}

func (l *SettingsLogic) AutoInstall(ctx context.Context) bool {
	raw, err := l.kv.Get(ctx, credential.Namespace, AutoInstallKey, "false")
	if err != nil {
		l.logger.Warn("Failed to read auto install flag", zap.Error(err))
		return false
	}
	enabled, _ := strconv.ParseBool(raw)
	return enabled
}

func (l *SettingsLogic) SetAutoInstall(ctx context.Context, enabled bool) error {
	if err := l.kv.Put(ctx, credential.Namespace, AutoInstallKey, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	l.logger.Info("Auto install saved", zap.Bool("enabled", enabled))
	return nil
}

func (l *SettingsLogic) Settings(ctx context.Context) *model.SettingsResponse {
	return &model.SettingsResponse{
		TokenConfigured: l.creds.Has(ctx),
		Token:           credential.Mask(l.creds.Load(ctx)),
		CheckInterval:   l.CheckInterval(ctx),
		AutoInstall:     l.AutoInstall(ctx),
	}
}

// Apply stores the fields present in req. The token is never rejected for persistence
// failures, it stays usable in memory.
func (l *SettingsLogic) Apply(ctx context.Context, req *model.UpdateSettingsRequest) (*model.SettingsResponse, error) {
	if req.Token != nil {
		l.creds.Save(ctx, *req.Token)
	}
	if req.CheckInterval != nil {
		if _, err := l.SetCheckInterval(ctx, *req.CheckInterval); err != nil {
			return nil, err
		}
	}
	if req.AutoInstall != nil {
		if err := l.SetAutoInstall(ctx, *req.AutoInstall); err != nil {
			return nil, err
		}
	}
	return l.Settings(ctx), nil
}
