package export

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G'}

func TestChartRendererRenderBarPNG(t *testing.T) {
	renderer := NewChartRenderer()

	png, err := renderer.RenderBarPNG("Coaching hours per employee", "hours",
		[]string{"Anna Nowak", "Jan Kowalski"}, []float64{12.5, 3})
	require.NoError(t, err)
	assert.Equal(t, pngSignature, png[:4])
}

func TestChartRendererAllZeroValues(t *testing.T) {
	renderer := NewChartRenderer()

	png, err := renderer.RenderBarPNG("Coaching hours per employee", "hours",
		[]string{"Anna Nowak"}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, pngSignature, png[:4])
}

func TestChartRendererMismatchedInput(t *testing.T) {
	renderer := NewChartRenderer()

	_, err := renderer.RenderBarPNG("chart", "y", []string{"a", "b"}, []float64{1})
	require.Error(t, err)

	_, err = renderer.RenderBarPNG("chart", "y", nil, nil)
	require.Error(t, err)
}

func TestChartRendererRenderBarBase64(t *testing.T) {
	renderer := NewChartRenderer()

	encoded, err := renderer.RenderBarBase64("Coaching hours per employee", "hours",
		[]string{"Anna Nowak"}, []float64{4})
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, pngSignature, decoded[:4])
}
