package apiclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// New returns the HTTP client shared by the auth and catalog packages.
// Requests are never retried: a failed call is reported to the screen that made it.
func New(baseURL string, timeout time.Duration, l *slog.Logger) *resty.Client {
	if l == nil {
		l = slog.Default()
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetLogger(slogAdapter{l: l.With("component", "apiclient")}).
		SetTransport(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		})
}

type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Errorf(format string, v ...interface{}) {
	a.l.Error(fmt.Sprintf(format, v...))
}

func (a slogAdapter) Warnf(format string, v ...interface{}) {
	a.l.Warn(fmt.Sprintf(format, v...))
}

func (a slogAdapter) Debugf(format string, v ...interface{}) {
	a.l.Debug(fmt.Sprintf(format, v...))
}
