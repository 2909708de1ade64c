package health

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestHandler_healthCheck(t *testing.T) {
	// Arrange
	log := slog.Default()
	middleware := huma.Middlewares{}
	handler := NewHandler(log, middleware)

	// Act
	output, err := handler.healthCheck(context.Background(), &Input{})

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "OK", output.Body.Status)
	assert.Equal(t, "starbook", output.Body.Service)
}

func TestNewHandler(t *testing.T) {
	// Arrange
	log := slog.Default()
	middleware := huma.Middlewares{}

	// Act
	handler := NewHandler(log, middleware)

	// Assert
	assert.NotNil(t, handler)
	assert.NotNil(t, handler.log)
	assert.NotNil(t, handler.middleware)
}
