package repository

import (
	"context"

	"solar-rewards/internal/model"
)

// InstallerRepository reads installer records owned by the installer CRUD
// surface. The promotion lifecycle never writes through it.
type InstallerRepository interface {
	// GetInstaller retrieves an installer by id
	GetInstaller(ctx context.Context, id string) (*model.Installer, error)
}

// SerialRepository reads serial-number registrations, the activity records
// progress is computed from.
type SerialRepository interface {
	// ListForInstaller retrieves every registration made by an installer
	ListForInstaller(ctx context.Context, installerID string) ([]*model.SerialRegistration, error)
}
