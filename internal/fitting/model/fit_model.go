package model

import (
	"time"

	"github.com/google/uuid"

	"linsac/internal/linear"
)

func NewFit(entityID string, res *linear.Result, createdAt time.Time) Fit {
	return Fit{
		ID:        uuid.New(),
		EntityID:  entityID,
		Coeffs:    res.Coeffs,
		Inliers:   res.Inliers,
		Outliers:  res.Outliers,
		Trials:    res.Trials,
		Refitted:  res.Refitted,
		CreatedAt: createdAt,
	}
}

type Fit struct {
	ID        uuid.UUID     `json:"id"`
	EntityID  string        `json:"entityId"`
	Coeffs    linear.Coeffs `json:"model"`
	Inliers   []int         `json:"inliers"`
	Outliers  []int         `json:"outliers"`
	Trials    int           `json:"trials"`
	Refitted  bool          `json:"refitted"`
	CreatedAt time.Time     `json:"createdAt"`
}
