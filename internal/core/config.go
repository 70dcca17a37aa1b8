package core

import "time"

type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetContentFilePath() string
	GetStorageBackend() string
	GetStorageKey() string
}

type PositionConfig interface {
	GetPositionOptions() PositionOptions
	GetStaleAfter() time.Duration
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}
