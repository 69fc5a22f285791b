package recognition

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/wardrobe/internal/config"
)

func localCfg(command string, timeout time.Duration) config.RecognitionConfig {
	return config.RecognitionConfig{
		Enabled:                  true,
		Service:                  "local",
		LocalCommand:             command,
		LocalTimeout:             timeout,
		LocalConfidenceThreshold: 0.3,
	}
}

func TestLocalRecognizerParsesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix tools")
	}

	l := NewLocalRecognizer(localCfg(`echo {"category":"jacket","confidence":0.92}`, 5*time.Second))

	res, err := l.Recognize(context.Background(), "/tmp/img.jpg")
	require.NoError(t, err)

	assert.Equal(t, "jacket", res.Category)
	assert.InDelta(t, 0.92, res.Confidence, 1e-9)
	assert.Empty(t, res.Name)
	assert.Nil(t, res.Season)
}

func TestLocalRecognizerImagePlaceholder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix tools")
	}

	l := NewLocalRecognizer(localCfg(`echo {"name":"{image}","confidence":0.5}`, 5*time.Second))

	res, err := l.Recognize(context.Background(), "/tmp/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/photo.jpg", res.Name)
}

func TestLocalRecognizerEmptyCommand(t *testing.T) {
	l := NewLocalRecognizer(localCfg("", 5*time.Second))
	_, err := l.Recognize(context.Background(), "/tmp/img.jpg")
	assert.ErrorIs(t, err, ErrProcessFailed)
}

func TestLocalRecognizerEmptyStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix tools")
	}

	l := NewLocalRecognizer(localCfg("true", 5*time.Second))
	_, err := l.Recognize(context.Background(), "/tmp/img.jpg")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestLocalRecognizerMalformedJSON(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix tools")
	}

	l := NewLocalRecognizer(localCfg("echo not-json", 5*time.Second))
	_, err := l.Recognize(context.Background(), "/tmp/img.jpg")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestLocalRecognizerProcessFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix tools")
	}

	l := NewLocalRecognizer(localCfg("false", 5*time.Second))
	_, err := l.Recognize(context.Background(), "/tmp/img.jpg")
	assert.ErrorIs(t, err, ErrProcessFailed)
}

func TestLocalRecognizerTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix tools")
	}

	l := NewLocalRecognizer(localCfg("sleep 5", 100*time.Millisecond))
	_, err := l.Recognize(context.Background(), "/tmp/img.jpg")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestLocalRecognizerBelowThresholdStillReturned(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix tools")
	}

	l := NewLocalRecognizer(localCfg(`echo {"category":"shoes","confidence":0.1}`, 5*time.Second))

	res, err := l.Recognize(context.Background(), "/tmp/img.jpg")
	require.NoError(t, err)
	assert.Equal(t, "shoes", res.Category)
	assert.InDelta(t, 0.1, res.Confidence, 1e-9)
}

func TestNewSelectsBackend(t *testing.T) {
	assert.Equal(t, "mock", New(config.RecognitionConfig{Service: "mock"}).Backend())
	assert.Equal(t, "local", New(config.RecognitionConfig{Service: "local"}).Backend())
	assert.Equal(t, "mock", New(config.RecognitionConfig{Service: "does-not-exist"}).Backend())
}
