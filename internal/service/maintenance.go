package service

import "github.com/navikt/roombooking/internal/models"

// CheckMaintenance rejects a window that overlaps any blackout period
func CheckMaintenance(window models.TimeWindow, maintenance []models.MaintenanceWindow) error {
	for _, m := range maintenance {
		if window.Overlaps(m.Window()) {
			return newError(CodeMaintenanceConflict, MsgMaintenanceConflict, nil)
		}
	}
	return nil
}
