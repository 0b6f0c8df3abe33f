package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-engine/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// Sin swagger.json generado la API debe arrancar igual: el middleware no se
// monta y el resto de rutas sigue respondiendo.
func TestRegisterSwagger_ArchivoAusente_NoImpideArrancar(t *testing.T) {
	app := fiber.New()

	require.NotPanics(t, func() {
		registerSwagger(app, testLogger(), filepath.Join(t.TempDir(), "no-existe.json"))
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Con el archivo presente el middleware se monta sin pánico.
func TestRegisterSwagger_ArchivoPresente_MontaLaUI(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "swagger.json")
	doc := []byte(`{"swagger":"2.0","info":{"title":"POS Engine API","version":"1.0"},"paths":{}}`)
	require.NoError(t, os.WriteFile(file, doc, 0o644))

	app := fiber.New()
	require.NotPanics(t, func() {
		registerSwagger(app, testLogger(), file)
	})
}
