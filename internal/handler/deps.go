package handler

import (
	"resq/internal/app/db"
	"resq/internal/app/realtime"
	"resq/internal/app/storage"
	"resq/internal/configs"
)

// AppDeps bundles what the handlers need. Notifier receives the realtime events emitted after
// durable changes; Hub is consulted for presence. Storage is nil when image uploads are disabled.
type AppDeps struct {
	Config   *configs.AppConfig
	Store    db.Store
	Hub      *realtime.Hub
	Notifier realtime.Notifier
	Storage  storage.StorageService
}
