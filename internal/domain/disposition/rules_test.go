package disposition_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func TestNormalize_TotalesPorDisposicion(t *testing.T) {
	plan, err := disposition.Normalize(disposition.Request{
		ApprovedQuantity: decimal.Zero,
		Lines: []disposition.Line{
			{Quantity: d("20"), Disposition: "rework", Reason: "rebaba"},
			{Quantity: d("20"), Disposition: " SCRAP ", Reason: "fisura"},
			{Quantity: d("10"), Disposition: "DISPOSAL", Reason: "contaminado"},
		},
	})
	require.NoError(t, err)

	assert.True(t, plan.Rework.Equal(d("20")))
	assert.True(t, plan.Scrap.Equal(d("20")))
	assert.True(t, plan.Disposal.Equal(d("10")))
	assert.True(t, plan.Total().Equal(d("50")))
	assert.Equal(t, "REWORK", plan.Lines[0].Disposition, "la disposición se normaliza a mayúsculas")
	assert.Equal(t, "SCRAP", plan.Lines[1].Disposition)
}

func TestNormalize_OpcionalesVaciosQuedanNil(t *testing.T) {
	plan, err := disposition.Normalize(disposition.Request{
		ApprovedQuantity: d("5"),
		Lines: []disposition.Line{{
			Quantity: d("1"), Disposition: "SCRAP", Reason: "golpe",
			Optional: disposition.Optional{RootCause: strPtr("   "), CorrectiveAction: strPtr(" revisar troquel ")},
		}},
	})
	require.NoError(t, err)
	assert.Nil(t, plan.Lines[0].RootCause)
	require.NotNil(t, plan.Lines[0].CorrectiveAction)
	assert.Equal(t, "revisar troquel", *plan.Lines[0].CorrectiveAction)
}

func TestNormalize_ErroresPorCampo(t *testing.T) {
	_, err := disposition.Normalize(disposition.Request{
		ApprovedQuantity: d("-1"),
		Lines: []disposition.Line{
			{Quantity: d("0"), Disposition: "REWORK", Reason: "x"},
			{Quantity: d("-3"), Disposition: "MELT", Reason: ""},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "approved_quantity")
	assert.Contains(t, verr.Fields, "rejections[0].quantity")
	assert.Contains(t, verr.Fields, "rejections[1].quantity")
	assert.Contains(t, verr.Fields, "rejections[1].disposition")
	assert.Contains(t, verr.Fields, "rejections[1].reason")
}

func TestNormalize_SolicitudVaciaEsInvalida(t *testing.T) {
	_, err := disposition.Normalize(disposition.Request{ApprovedQuantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalize_EscalaDeAlmacenamiento(t *testing.T) {
	// 99.99995 + 0.00005 cuadra con 100, pero guardado a 4 decimales sumaría 100.0001.
	_, err := disposition.Normalize(disposition.Request{
		ApprovedQuantity: d("99.99995"),
		Lines:            []disposition.Line{{Quantity: d("0.00005"), Disposition: "REWORK", Reason: "rebaba"}},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "approved_quantity")
	assert.Contains(t, verr.Fields, "rejections[0].quantity")

	_, err = disposition.Normalize(disposition.Request{
		ApprovedQuantity: decimal.Zero,
		Lines:            []disposition.Line{{Quantity: d("0.00001"), Disposition: "SCRAP", Reason: "polvo"}},
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "rejections[0].quantity")

	_, err = disposition.Normalize(disposition.Request{
		ApprovedQuantity: d("100000000000000"),
		Lines:            []disposition.Line{{Quantity: d("99999999999999.9999"), Disposition: "DISPOSAL", Reason: "x"}},
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "approved_quantity")
	assert.NotContains(t, verr.Fields, "rejections[0].quantity")

	plan, err := disposition.Normalize(disposition.Request{
		ApprovedQuantity: d("99.9999"),
		Lines:            []disposition.Line{{Quantity: d("0.00010"), Disposition: "REWORK", Reason: "rebaba"}},
	})
	require.NoError(t, err, "ceros a la derecha no cuentan como decimales extra")
	require.NoError(t, disposition.CheckConservation(plan, d("100")))
}

func TestCheckConservation(t *testing.T) {
	plan, err := disposition.Normalize(disposition.Request{
		ApprovedQuantity: d("50"),
		Lines:            []disposition.Line{{Quantity: d("40"), Disposition: "SCRAP", Reason: "poros"}},
	})
	require.NoError(t, err)

	err = disposition.CheckConservation(plan, d("100"))
	require.Error(t, err, "50 + 40 = 90 no cuadra con 100")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.NoError(t, disposition.CheckConservation(plan, d("90")))
	assert.NoError(t, disposition.CheckConservation(plan, d("90.0000")), "la comparación es numérica, no textual")
}

// Particiones aleatorias de una cantidad siempre conservan el total.
func TestCheckConservation_ParticionesAleatorias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	kinds := []string{"REWORK", "SCRAP", "DISPOSAL"}

	for iter := 0; iter < 200; iter++ {
		total := decimal.NewFromInt(int64(1 + rng.Intn(1000)))
		pieces := 1 + rng.Intn(6)
		remaining := total
		var lines []disposition.Line
		for i := 0; i < pieces && remaining.GreaterThan(decimal.NewFromInt(1)); i++ {
			q := decimal.NewFromInt(int64(1 + rng.Intn(int(remaining.IntPart()))))
			if q.Equal(remaining) {
				break
			}
			remaining = remaining.Sub(q)
			lines = append(lines, disposition.Line{Quantity: q, Disposition: kinds[rng.Intn(3)], Reason: "prop"})
		}
		plan, err := disposition.Normalize(disposition.Request{ApprovedQuantity: remaining, Lines: lines})
		require.NoError(t, err)
		require.NoError(t, disposition.CheckConservation(plan, total), "iteración %d", iter)
		assert.True(t, plan.Approved.Add(plan.Rework).Add(plan.Scrap).Add(plan.Disposal).Equal(total))
	}
}

func TestReferencias(t *testing.T) {
	id := "3f1c"
	assert.Equal(t, "QA-APPROVED-3f1c", disposition.ApprovedRef(id))
	assert.Equal(t, "QA-PARTIAL-REWORK-3f1c", disposition.ReworkRef(id))
	assert.Equal(t, "QA-REJECTED-PARTIAL-3f1c", disposition.ScrapRef(id))
	assert.Equal(t, "QA-PARTIAL-DISPOSAL-3f1c", disposition.DisposalRef(id))
}

func TestWorkOrderNo(t *testing.T) {
	no := disposition.FormatWorkOrderNo(2026, 7)
	assert.Equal(t, "MWO-2026-0007", no)

	year, seq, err := disposition.ParseWorkOrderNo(no)
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, 7, seq)

	assert.Equal(t, "MWO-2026-12345", disposition.FormatWorkOrderNo(2026, 12345))

	_, _, err = disposition.ParseWorkOrderNo("WO-2026-1")
	assert.Error(t, err)
}
