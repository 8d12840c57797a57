package stats

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/upac/pokerbots/pkg/config"
	"github.com/upac/pokerbots/pkg/test"
)

var testCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pokerbots",
	Subsystem: "stats_test",
	Name:      "hits_total",
	Help:      "Test counter",
})

func TestHandler(t *testing.T) {
	is := is.New(t)
	testCounter.Inc()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	is.Equal(rec.Code, http.StatusOK)
	is.True(strings.Contains(rec.Body.String(), "pokerbots_stats_test_hits_total 1"))
}

func TestNewStatsServer(t *testing.T) {
	is := is.New(t)

	_, err := NewStatsServer(context.Background())
	is.True(errors.Is(err, config.ErrNilConfig))

	cfg := config.DefaultConfig()
	cfg.Stats.ListenAddr = ""
	_, err = NewStatsServer(config.WithContext(context.Background(), cfg))
	is.True(errors.Is(err, ErrDisabled))

	cfg.Stats.ListenAddr = "localhost:23233"
	s, err := NewStatsServer(config.WithContext(context.Background(), cfg))
	is.NoErr(err)
	is.Equal(s.Addr(), "localhost:23233")
	is.NoErr(s.Close())
}

func TestServe(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Stats.ListenAddr = test.RandomAddr()
	ctx, cancel := context.WithCancel(config.WithContext(context.Background(), cfg))
	defer cancel()

	s, err := NewStatsServer(ctx)
	is.NoErr(err)
	s.Serve(ctx)

	var res *http.Response
	for i := 0; i < 50; i++ {
		res, err = http.Get("http://" + s.Addr() + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	is.NoErr(err)
	defer res.Body.Close() // nolint: errcheck
	body, err := io.ReadAll(res.Body)
	is.NoErr(err)
	is.Equal(res.StatusCode, http.StatusOK)
	is.True(strings.Contains(string(body), "go_goroutines"))
}
