package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "influmatch_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "influmatch_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	CampaignTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "influmatch_campaign_transitions_total",
		Help: "Campaign status transitions by edge.",
	}, []string{"from", "to"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "influmatch_job_runs_total",
		Help: "Scheduled job executions by job and outcome.",
	}, []string{"job", "outcome"})

	LLMGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "influmatch_llm_generations_total",
		Help: "Proposal generation attempts by outcome.",
	}, []string{"outcome"})
)

// Middleware records request counts and latency per route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		method := c.Method()
		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Response().StatusCode())).Inc()
		HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the prometheus scrape endpoint on a fiber route.
func Handler() fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}
