package service

import "github.com/navikt/roombooking/internal/models"

// SelectRoom picks the best-fit room for headcount among the given available rooms:
// the smallest capacity that still fits, ties broken by the lowest ID.
func SelectRoom(rooms []*models.Room, headcount int) (*models.Room, error) {
	if len(rooms) == 0 {
		return nil, newError(CodeNoRoomAvailable, MsgNoRoomAvailable, nil)
	}

	var best *models.Room
	for _, room := range rooms {
		if !room.Fits(headcount) {
			continue
		}
		if best == nil ||
			room.Capacity < best.Capacity ||
			(room.Capacity == best.Capacity && room.ID < best.ID) {
			best = room
		}
	}

	if best == nil {
		return nil, newError(CodeCapacityExceeded, MsgCapacityExceeded, nil)
	}
	return best, nil
}
