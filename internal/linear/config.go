package linear

type Config struct {
	SampleSize  int     `envconfig:"LINSAC_SAMPLE_SIZE"`
	Threshold   float64 `envconfig:"LINSAC_THRESHOLD"`
	Probability float64 `envconfig:"LINSAC_PROBABILITY" default:"0.99"`
	MaxTrials   int     `envconfig:"LINSAC_MAX_TRIALS" default:"1000"`
	Workers     int     `envconfig:"LINSAC_WORKERS" default:"1"`
}

// Options expands the config into fit options. Zero values mean the
// call-boundary defaults (80% sample size, MAD threshold) apply.
func (c *Config) Options() []Option {
	var opts []Option
	if c.SampleSize > 0 {
		opts = append(opts, WithSampleSize(c.SampleSize))
	}
	if c.Threshold > 0 {
		opts = append(opts, WithThreshold(c.Threshold))
	}
	if c.Probability > 0 {
		opts = append(opts, WithProbability(c.Probability))
	}
	if c.MaxTrials > 0 {
		opts = append(opts, WithMaxTrials(c.MaxTrials))
	}
	if c.Workers > 0 {
		opts = append(opts, WithWorkers(c.Workers))
	}
	return opts
}
