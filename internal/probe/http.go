package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// traceLog accumulates a request trace across attempts for the failure
// diagnostic.
type traceLog struct {
	mu    sync.Mutex
	lines []string
}

func (t *traceLog) add(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func (t *traceLog) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}

const traceBodyLimit = 512

// HTTPGet returns a probe that passes when a GET to url completes with any
// HTTP response. Transport errors fail the attempt; the response status
// itself does not matter, reaching the listener is the readiness signal.
// The failure diagnostic is a verbose per-attempt request trace.
func HTTPGet(name, url string, attempts int, delay, timeout time.Duration) Probe {
	trace := &traceLog{}
	client := &http.Client{Timeout: timeout}
	attempt := 0

	return Probe{
		Name:     name,
		Attempts: attempts,
		Delay:    delay,
		Check: func(ctx context.Context) error {
			attempt++
			trace.add("attempt %d: GET %s", attempt, url)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				trace.add("attempt %d: building request: %v", attempt, err)
				return err
			}

			resp, err := client.Do(req)
			if err != nil {
				trace.add("attempt %d: request failed: %v", attempt, err)
				return fmt.Errorf("GET %s: %w", url, err)
			}
			defer resp.Body.Close()

			trace.add("attempt %d: %s", attempt, resp.Status)
			for _, header := range []string{"Content-Type", "Server"} {
				if v := resp.Header.Get(header); v != "" {
					trace.add("attempt %d: %s: %s", attempt, header, v)
				}
			}

			body, _ := io.ReadAll(io.LimitReader(resp.Body, traceBodyLimit))
			if len(body) > 0 {
				trace.add("attempt %d: body: %s", attempt, strings.TrimSpace(string(body)))
			}

			return nil
		},
		Diagnose: func(ctx context.Context) string {
			return trace.String()
		},
	}
}
