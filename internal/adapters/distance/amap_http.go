package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"delivery-planning-service/internal/platform/obs"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// apiStatusError is an application-level failure: AMap answers 200 with
// status "0" and an info code.
type apiStatusError struct {
	Info     string
	Infocode string
}

func (e *apiStatusError) Error() string {
	return fmt.Sprintf("amap status %s: %s", e.Infocode, e.Info)
}

// Rate-limit answers worth retrying after backoff.
var throttledInfos = map[string]bool{
	"CUQPS_HAS_EXCEEDED_THE_LIMIT": true,
	"CKQPS_HAS_EXCEEDED_THE_LIMIT": true,
	"QPS_HAS_EXCEEDED_THE_LIMIT":   true,
	"ACCESS_TOO_FREQUENT":          true,
}

// Common envelope of every AMap response.
type apiStatus struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Infocode string `json:"infocode"`
}

func (s apiStatus) check() error {
	if s.Status == "1" {
		return nil
	}
	return &apiStatusError{Info: s.Info, Infocode: s.Infocode}
}

type apiResponse interface {
	check() error
}

func (o *AMapOracle) newRequest(ctx context.Context, endpoint string, q url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// do executes the request and decodes the JSON body into out.
func (o *AMapOracle) do(req *http.Request, out apiResponse) error {
	resp, err := o.session.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return out.check()
}

// getJSON issues one throttled, breaker-guarded GET with retries.
func (o *AMapOracle) getJSON(ctx context.Context, op, path string, q url.Values, out apiResponse) (err error) {
	defer obs.Time(ctx, "amap."+op)(&err)
	start := time.Now()
	defer func() { obs.ObserveOracle(op, time.Since(start).Seconds(), err) }()

	q.Set("key", o.apiKey)
	endpoint := o.baseURL + path

	return o.doWithRetry(ctx, func() error {
		if err := o.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("throttle: %w", err)
		}

		_, err := o.breaker.Execute(func() (any, error) {
			req, err := o.newRequest(ctx, endpoint, q)
			if err != nil {
				return nil, err
			}
			return nil, o.do(req, out)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
		}
		return err
	})
}

// doWithRetry retries transient failures (network errors, 5xx responses and
// QPS rejections) using exponential backoff while respecting context
// cancellation.
func (o *AMapOracle) doWithRetry(ctx context.Context, attemptFn func() error) error {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := attemptFn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt == maxAttempts {
			return lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return lastErr
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var ae *apiStatusError
	if errors.As(err, &ae) {
		return throttledInfos[ae.Info]
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
