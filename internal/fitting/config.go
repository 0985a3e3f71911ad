package fitting

import (
	"time"

	"linsac/internal/linear"
)

type Config struct {
	RequestTimeout time.Duration `envconfig:"LINSAC_FIT_REQUEST_TIMEOUT" default:"30s"`
	MaxSeriesLen   int           `envconfig:"LINSAC_FIT_MAX_SERIES_LEN" default:"10"`
	MaxConcurrent  int           `envconfig:"LINSAC_FIT_MAX_CONCURRENT" default:"4"`
	Fit            linear.Config
}
