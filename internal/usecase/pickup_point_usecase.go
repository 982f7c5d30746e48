package usecase

import (
	"context"
	"net/http"

	repo "samaka/internal/repository"
)

type PickupPointUsecase struct {
	pickups repo.PickupPointRepository
}

func NewPickupPointUsecase(pickups repo.PickupPointRepository) *PickupPointUsecase {
	return &PickupPointUsecase{pickups: pickups}
}

type PickupPointOutput struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	GeneralLocation string   `json:"general_location"`
	ContactPerson   string   `json:"contact_person"`
	PhoneNumber     string   `json:"phone_number"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

func (u *PickupPointUsecase) List(ctx context.Context) ([]PickupPointOutput, error) {
	points, err := u.pickups.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]PickupPointOutput, 0, len(points))
	for _, p := range points {
		outs = append(outs, PickupPointOutput{
			ID:              p.ID,
			Name:            p.Name,
			GeneralLocation: p.GeneralLocation,
			ContactPerson:   p.ContactPerson,
			PhoneNumber:     p.PhoneNumber,
			Latitude:        p.Latitude,
			Longitude:       p.Longitude,
		})
	}
	return outs, nil
}
