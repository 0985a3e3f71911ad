package fitting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opencensus.io/stats"
	"golang.org/x/sync/errgroup"

	"linsac/internal/cache"
	fitdb "linsac/internal/fitting/database"
	"linsac/internal/fitting/model"
	"linsac/internal/httputil"
	"linsac/internal/linear"
	"linsac/internal/logging"
	"linsac/internal/obs"
	"linsac/internal/ransac"
)

const maxBodyBytes = 64 * 1024 * 1024

type request struct {
	Series []seriesRequest `json:"series"`
}

type seriesRequest struct {
	EntityID    string    `json:"entity"`
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
	SampleSize  *int      `json:"sampleSize,omitempty"`
	Threshold   *float64  `json:"threshold,omitempty"`
	Probability *float64  `json:"probability,omitempty"`
}

type response struct {
	Results []fitResponse `json:"results"`
}

type fitResponse struct {
	EntityID string        `json:"entity"`
	Model    linear.Coeffs `json:"model"`
	Inliers  []int         `json:"inliers"`
	Outliers []int         `json:"outliers"`
	Trials   int           `json:"trials"`
	Refitted bool          `json:"refitted"`
	Error    string        `json:"error,omitempty"`
}

func NewHandler(cfg *Config, fits *fitdb.DB, memo *cache.Cache) (http.Handler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("fitting: config is required")
	}
	return &handler{cfg: cfg, fits: fits, memo: memo}, nil
}

type handler struct {
	cfg  *Config
	fits *fitdb.DB
	memo *cache.Cache
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		logger.Debugf(`{"error": "method %v is not allowed"}`, r.Method)
		_, _ = fmt.Fprintf(w, `{"error": "method %v is not allowed"}`, r.Method)
		return
	}

	if t := r.Header.Get("content-type"); len(t) < 16 || t[:16] != "application/json" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		logger.Debugf(`{"error": "%v"}`, "content-type is not application/json")
		_, _ = fmt.Fprintf(w, `{"error": "%v"}`, "content-type is not application/json")
		return
	}

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}

	if len(req.Series) == 0 {
		httputil.RespBadRequest(ctx, w, `{"error": "at least one series is required"}`)
		return
	}
	if len(req.Series) > h.cfg.MaxSeriesLen {
		httputil.RespBadRequest(ctx, w, `{"error": "series is too large, max allowed len is %d"}`, h.cfg.MaxSeriesLen)
		return
	}

	results := make([]fitResponse, len(req.Series))
	errGrp := errgroup.Group{}
	errGrp.SetLimit(h.cfg.MaxConcurrent)
	for i, ser := range req.Series {
		i, ser := i, ser
		errGrp.Go(func() error {
			results[i] = h.fitSeries(ctx, ser)
			return nil
		})
	}
	_ = errGrp.Wait()

	bytes, err := json.Marshal(response{Results: results})
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%s", bytes)
}

func (h *handler) fitSeries(ctx context.Context, ser seriesRequest) fitResponse {
	logger := logging.FromContext(ctx)
	resp := fitResponse{EntityID: ser.EntityID}

	opts, sampleSize, threshold, probability := h.seriesOptions(ser)
	key := cache.Key(ser.EntityID, ser.X, ser.Y, sampleSize, threshold, probability)
	if bytes, ok := h.memo.Get(ctx, key); ok {
		var cached fitResponse
		if err := json.Unmarshal(bytes, &cached); err == nil {
			return cached
		}
	}

	res, err := linear.RobustFit(ctx, ser.X, ser.Y, opts...)
	if err != nil {
		switch {
		case errors.Is(err, linear.ErrSizeMismatch), errors.Is(err, linear.ErrTooFewPoints):
			resp.Error = err.Error()
		case errors.Is(err, ransac.ErrNoConsensus):
			resp.Error = err.Error()
		default:
			resp.Error = fmt.Sprintf("fit error: %v", err)
		}
		return resp
	}

	resp.Model = res.Coeffs
	resp.Inliers = res.Inliers
	resp.Outliers = res.Outliers
	resp.Trials = res.Trials
	resp.Refitted = res.Refitted

	measurements := []stats.Measurement{
		obs.MTrials.M(int64(res.Trials)),
		obs.MInliers.M(int64(len(res.Inliers))),
		obs.MOutliers.M(int64(len(res.Outliers))),
	}
	if !res.Refitted {
		measurements = append(measurements, obs.MRefitFallbacks.M(1))
	}
	stats.Record(ctx, measurements...)

	if h.fits != nil {
		if err := h.fits.Store(ctx, model.NewFit(ser.EntityID, res, time.Now())); err != nil {
			logger.Errorf("unable to store fit for entity %s: %v", ser.EntityID, err)
		}
	}
	if bytes, err := json.Marshal(resp); err == nil {
		if err := h.memo.Set(ctx, key, bytes); err != nil {
			logger.Debugf("cache set for entity %s: %v", ser.EntityID, err)
		}
	}
	return resp
}

// seriesOptions layers per-request overrides over the configured fit
// options and reports the effective parameters used for cache keying.
func (h *handler) seriesOptions(ser seriesRequest) ([]linear.Option, int, float64, float64) {
	opts := h.cfg.Fit.Options()

	sampleSize := h.cfg.Fit.SampleSize
	if ser.SampleSize != nil {
		sampleSize = *ser.SampleSize
		opts = append(opts, linear.WithSampleSize(sampleSize))
	}
	if sampleSize == 0 {
		sampleSize = linear.DefaultSampleSize(len(ser.X))
	}

	threshold := h.cfg.Fit.Threshold
	if ser.Threshold != nil {
		threshold = *ser.Threshold
		opts = append(opts, linear.WithThreshold(threshold))
	} else if h.cfg.Fit.Threshold == 0 && len(ser.Y) > 0 {
		threshold = linear.DefaultThreshold(ser.Y)
	}

	probability := h.cfg.Fit.Probability
	if ser.Probability != nil {
		probability = *ser.Probability
		opts = append(opts, linear.WithProbability(probability))
	}

	return opts, sampleSize, threshold, probability
}
