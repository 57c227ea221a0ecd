package imagery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/KrisEhl/social-sports/internal/config"
	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/raster"
	"github.com/KrisEhl/social-sports/internal/resilience"
)

// reflectance bands fetched per tile, in attach order.
var tileBands = []raster.Band{raster.BandBlue, raster.BandGreen, raster.BandRed, raster.BandNIR}

// SentinelHub is the Copernicus Data Space implementation of Client. All
// Process API calls go through one shared rate limiter so concurrent tile
// workers cannot exceed the provider quota, and each call carries the
// configured timeout plus bounded retries with backoff.
type SentinelHub struct {
	cfg     config.ImageryConfig
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewSentinelHub creates a client from the imagery configuration.
func NewSentinelHub(cfg config.ImageryConfig) *SentinelHub {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = perSec
	}
	retry := resilience.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.Attempts = cfg.MaxRetries
	}
	return &SentinelHub{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		retry:   retry,
	}
}

// FetchTile fetches all reflectance bands, the scene classification
// layer, and the DEM for one bounding box and assembles them into a tile.
// Shape validation happens at attach time, so a provider response of the
// wrong size fails the tile instead of silently misaligning bands.
func (c *SentinelHub) FetchTile(ctx context.Context, bounds model.BBox) (*raster.Tile, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	size := c.cfg.TileSizePx
	if size <= 0 {
		size = 1024
	}

	tile, err := raster.NewTile(bounds, size, size)
	if err != nil {
		return nil, err
	}

	for _, band := range tileBands {
		grid, err := c.fetchGrid(ctx, bounds, size, bandEvalscript(string(band)), sentinel2Input(c.cfg))
		if err != nil {
			return nil, eris.Wrapf(err, "imagery: fetch band %s", band)
		}
		if err := tile.SetBand(band, grid); err != nil {
			return nil, err
		}
	}

	sclGrid, err := c.fetchGrid(ctx, bounds, size, sclEvalscript, sentinel2Input(c.cfg))
	if err != nil {
		return nil, eris.Wrap(err, "imagery: fetch SCL")
	}
	codes := make([]uint8, len(sclGrid.Data))
	for i, v := range sclGrid.Data {
		codes[i] = uint8(v)
	}
	if err := tile.SetSCL(codes); err != nil {
		return nil, err
	}

	demGrid, err := c.fetchGrid(ctx, bounds, size, demEvalscript, demInput())
	if err != nil {
		return nil, eris.Wrap(err, "imagery: fetch DEM")
	}
	if err := tile.SetDEM(demGrid.Scale(10)); err != nil {
		return nil, err
	}

	return tile, nil
}

// fetchGrid performs one Process API request with retry and decodes the
// TIFF response into a grid.
func (c *SentinelHub) fetchGrid(ctx context.Context, bounds model.BBox, size int, evalscript string, input processInput) (*raster.Grid, error) {
	payload := processRequest{
		Input: input,
		Output: processOutput{
			Width:  size,
			Height: size,
			Responses: []processResponse{
				{Identifier: "default", Format: processFormat{Type: "image/tiff"}},
			},
		},
		Evalscript: evalscript,
	}
	payload.Input.Bounds = processBounds{
		BBox: [4]float64{bounds.West, bounds.South, bounds.East, bounds.North},
		Properties: processCRS{
			CRS: "http://www.opengis.net/def/crs/EPSG/0/4326",
		},
	}

	body, err := resilience.DoVal(ctx, c.retry, "process", func(ctx context.Context) ([]byte, error) {
		return c.process(ctx, payload)
	})
	if err != nil {
		return nil, err
	}

	grid, err := DecodeTIFFGrid(body)
	if err != nil {
		return nil, err
	}
	if grid.Width != size || grid.Height != size {
		return nil, eris.Errorf("imagery: response shape %dx%d does not match requested %dx%d",
			grid.Width, grid.Height, size, size)
	}
	return grid, nil
}

// process performs one rate-limited Process API call.
func (c *SentinelHub) process(ctx context.Context, payload processRequest) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "imagery: rate limiter wait")
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "imagery: marshal process request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ProcessURL, bytes.NewReader(buf))
	if err != nil {
		return nil, eris.Wrap(err, "imagery: create process request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "imagery: process call")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		zap.L().Warn("process API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return nil, &resilience.ProviderError{
			Op:     "process",
			Status: resp.StatusCode,
			Err:    eris.Errorf("imagery: process API status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "imagery: read process response")
	}
	return data, nil
}

// token returns a valid access token, refreshing it when within a minute
// of expiry.
func (c *SentinelHub) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {c.cfg.ClientID},
		"username":   {c.cfg.Username},
		"password":   {c.cfg.Password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", eris.Wrap(err, "imagery: create auth request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "imagery: auth call")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("imagery: auth status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", eris.Wrap(err, "imagery: decode auth response")
	}
	if body.AccessToken == "" {
		return "", eris.New("imagery: auth response without access token")
	}

	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	zap.L().Debug("refreshed imagery access token", zap.Time("expiry", c.tokenExpiry))
	return c.accessToken, nil
}

// Process API request payload types.

type processRequest struct {
	Input      processInput  `json:"input"`
	Output     processOutput `json:"output"`
	Evalscript string        `json:"evalscript"`
}

type processInput struct {
	Bounds processBounds `json:"bounds"`
	Data   []processData `json:"data"`
}

type processBounds struct {
	BBox       [4]float64 `json:"bbox"`
	Properties processCRS `json:"properties"`
}

type processCRS struct {
	CRS string `json:"crs"`
}

type processData struct {
	Type       string             `json:"type"`
	DataFilter *processDataFilter `json:"dataFilter,omitempty"`
}

type processDataFilter struct {
	TimeRange        *processTimeRange `json:"timeRange,omitempty"`
	MaxCloudCoverage int               `json:"maxCloudCoverage,omitempty"`
}

type processTimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type processOutput struct {
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Responses []processResponse `json:"responses"`
}

type processResponse struct {
	Identifier string        `json:"identifier"`
	Format     processFormat `json:"format"`
}

type processFormat struct {
	Type string `json:"type"`
}

// sentinel2Input builds the data selector for Sentinel-2 L2A requests
// with the configured lookback window and cloud cover ceiling.
func sentinel2Input(cfg config.ImageryConfig) processInput {
	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 180
	}
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -lookback)
	return processInput{
		Data: []processData{{
			Type: "sentinel-2-l2a",
			DataFilter: &processDataFilter{
				TimeRange: &processTimeRange{
					From: from.Format("2006-01-02") + "T00:00:00Z",
					To:   now.Format("2006-01-02") + "T23:59:59Z",
				},
				MaxCloudCoverage: cfg.MaxCloudCover,
			},
		}},
	}
}

// demInput builds the data selector for Copernicus DEM requests.
func demInput() processInput {
	return processInput{
		Data: []processData{{Type: "dem"}},
	}
}
