package get_occupied_slots

import (
	"github.com/m04kA/Barber-BookingService/internal/domain"
	getOccupiedSlots "github.com/m04kA/Barber-BookingService/internal/usecase/get_occupied_slots"
)

// OccupiedSlotsResponse HTTP response model. Значения слотов это времена
// начала "HH:MM" в запрошенный день
type OccupiedSlotsResponse struct {
	Date           string   `json:"date"` // "2026-09-14"
	OccupiedSlots  []string `json:"occupiedSlots"`
	AvailableSlots []string `json:"availableSlots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getOccupiedSlots.Response) *OccupiedSlotsResponse {
	occupied := make([]string, 0, len(resp.Occupied))
	for _, slot := range resp.Occupied {
		occupied = append(occupied, slot.String())
	}

	available := make([]string, 0, len(resp.Available))
	for _, slot := range resp.Available {
		available = append(available, slot.String())
	}

	return &OccupiedSlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		OccupiedSlots:  occupied,
		AvailableSlots: available,
	}
}
