package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureRuler(t *testing.T) {
	env := newTestEnv(t, "")

	// 100 native px = 36 in; 200 native px measured
	rec := env.postJSON("/api/measure/ruler", `{
		"calibration":[{"x":0,"y":0},{"x":100,"y":0}],
		"realLength":36,
		"measure":[{"x":0,"y":0},{"x":0,"y":200}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.InDelta(t, 100.0/36.0, body["pixelsPerUnit"], 1e-9)
	assert.Equal(t, 72.0, body["inches"])
	assert.Equal(t, 6.0, body["feet"])
	assert.Equal(t, "72.00 in (~6.00 ft)", body["display"])
}

func TestMeasureRulerViewport(t *testing.T) {
	env := newTestEnv(t, "")

	// displayed at half size: clicks are converted to native pixels first
	rec := env.postJSON("/api/measure/ruler", `{
		"viewport":{"nativeWidth":2000,"nativeHeight":1000,"displayWidth":1000,"displayHeight":500},
		"calibration":[{"x":0,"y":0},{"x":50,"y":0}],
		"realLength":10,
		"measure":[{"x":10,"y":10},{"x":10,"y":60}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.InDelta(t, 10.0, body["pixelsPerUnit"], 1e-9)
	assert.Equal(t, 10.0, body["inches"])
	calibration := body["calibration"].([]any)
	assert.Equal(t, 100.0, calibration[1].(map[string]any)["x"])
}

func TestMeasureRulerErrors(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"one point", `{"calibration":[{"x":0,"y":0}],"realLength":5}`},
		{"zero length", `{"calibration":[{"x":0,"y":0},{"x":10,"y":0}],"realLength":0}`},
		{"coincident calibration points", `{"calibration":[{"x":7,"y":7},{"x":7,"y":7}],"realLength":5,"measure":[{"x":0,"y":0},{"x":10,"y":0}]}`},
		{"three measure points", `{"calibration":[{"x":0,"y":0},{"x":10,"y":0}],"realLength":5,"measure":[{"x":0,"y":0},{"x":1,"y":1},{"x":2,"y":2}]}`},
		{"bad viewport", `{"viewport":{"nativeWidth":0,"nativeHeight":1,"displayWidth":1,"displayHeight":1},"calibration":[{"x":0,"y":0},{"x":10,"y":0}],"realLength":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.postJSON("/api/measure/ruler", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMeasureArea(t *testing.T) {
	env := newTestEnv(t, "")

	// 100x50 px rectangle, 10 px = 1 ft -> 50 sq ft
	rec := env.postJSON("/api/measure/area", `{
		"points":[{"x":0,"y":0},{"x":100,"y":0},{"x":100,"y":50},{"x":0,"y":50}],
		"referenceFeet":1,"referencePixels":10
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "trace", body["method"])
	assert.Equal(t, 5000.0, body["pixelArea"])
	assert.Equal(t, 50.0, body["areaSqFt"])
	assert.Equal(t, "50.00 ft²", body["display"])
	assert.Equal(t, "computed", body["stage"])
}

func TestMeasureAreaSegmentAndViewport(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.postJSON("/api/measure/area", `{
		"viewport":{"nativeWidth":1200,"nativeHeight":800,"displayWidth":600,"displayHeight":400},
		"points":[{"x":0,"y":0},{"x":50,"y":0},{"x":50,"y":50},{"x":0,"y":50}],
		"referenceSegment":[{"x":0,"y":0},{"x":10,"y":0}],
		"referenceFeet":2
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	// native square is 100x100 px, reference is 20 px for 2 ft
	assert.Equal(t, 10000.0, body["pixelArea"])
	assert.Equal(t, 100.0, body["areaSqFt"])
}

func TestMeasureAreaManual(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.postJSON("/api/measure/area", `{"width":12,"length":10.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "manual", body["method"])
	assert.Equal(t, 126.0, body["areaSqFt"])
}

func TestMeasureAreaErrors(t *testing.T) {
	env := newTestEnv(t, "")

	for name, body := range map[string]string{
		"two points":    `{"points":[{"x":0,"y":0},{"x":1,"y":1}],"referenceFeet":1,"referencePixels":1}`,
		"bad reference": `{"points":[{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}],"referenceFeet":-1,"referencePixels":1}`,
		"no manual":     `{"width":0,"length":3}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.postJSON("/api/measure/area", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEstimate(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.postJSON("/api/estimate", `{"service":"bathroom","area":50,"material":"standard","extras":{"plumbing":true}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	// max(6000, 140*50*1.25=8750) + 900
	assert.InDelta(t, 9650.0, body["total"], 1e-9)
	assert.InDelta(t, 8685.0, body["low"], 1e-9)
	assert.InDelta(t, 11097.5, body["high"], 1e-9)
	assert.Contains(t, body["markdown"], "Estimate Summary")
	assert.Len(t, body["breakdown"], 2)

	rec = env.postJSON("/api/estimate", `{"service":"garage","area":50,"material":"basic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.postJSON("/api/estimate", `{"service":"kitchen","area":0,"material":"basic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
