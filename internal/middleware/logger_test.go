package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buff bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buff)
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/missing", func(c echo.Context) error { return echo.ErrNotFound })

	t.Log("successful request is logged with its status")
	{
		buff.Reset()
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", http.NoBody))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Contains(t, buff.String(), `"status":204`)
		require.Contains(t, buff.String(), `"msg":"request served"`)
	}

	t.Log("failed request is logged once error handler responded")
	{
		buff.Reset()
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", http.NoBody))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, buff.String(), `"status":404`)
		require.Contains(t, buff.String(), `"msg":"request failed"`)
	}
}
