package app

import (
	"time"

	"github.com/coursekit/coursekit-backend/internal/platform/envutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	MediaGCRetention time.Duration
	MediaGCInterval  time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	gcRetentionHours := envutil.GetEnvAsInt("MEDIA_GC_RETENTION_HOURS", 168, log)
	gcIntervalMinutes := envutil.GetEnvAsInt("MEDIA_GC_INTERVAL_MINUTES", 60, log)
	return Config{
		JWTSecretKey:     jwtSecretKey,
		AccessTokenTTL:   time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:  time.Duration(refreshTokenTTLSeconds) * time.Second,
		MediaGCRetention: time.Duration(gcRetentionHours) * time.Hour,
		MediaGCInterval:  time.Duration(gcIntervalMinutes) * time.Minute,
	}
}
