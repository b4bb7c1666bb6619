package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/metrics"
)

func TestObserve_SoloConfirmadasSumanCantidad(t *testing.T) {
	m := metrics.New(false)
	plan := &disposition.Plan{
		Approved: decimal.NewFromInt(80),
		Rework:   decimal.NewFromInt(10),
		Scrap:    decimal.NewFromInt(5),
		Disposal: decimal.NewFromInt(5),
	}

	m.Observe(qa.OutcomeCommitted, plan)
	m.Observe(qa.OutcomeConflict, plan)
	m.Observe(qa.OutcomeValidation, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispositionsTotal.WithLabelValues(qa.OutcomeCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispositionsTotal.WithLabelValues(qa.OutcomeConflict)))
	assert.Equal(t, 80.0, testutil.ToFloat64(m.DisposedQuantity.WithLabelValues("APPROVED")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.DisposedQuantity.WithLabelValues("REWORK")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.DisposedQuantity.WithLabelValues("SCRAP")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.DisposedQuantity.WithLabelValues("DISPOSAL")))
}

func TestMiddleware_EtiquetaPorRuta(t *testing.T) {
	m := metrics.New(false)
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/lots/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/lots/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/lots/:id", "404")))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "manufactura_http_requests_total"))
}
