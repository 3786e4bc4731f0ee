package handler_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lingo-hub/internal/handler"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMockedServer builds a Server around a sqlmock-backed gorm connection.
// gorm.Open issues one ping itself; the Health handler issues the second.
func newMockedServer(t *testing.T) (*handler.Server, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	mock.ExpectPing()

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return &handler.Server{DB: gormDB}, mock
}

func healthRequest(server *handler.Server, startTime *time.Time) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	if startTime != nil {
		c.Set("serverStartTime", *startTime)
	}
	server.Health(c)
	return w
}

// TestHealth tests a successful probe
func TestHealth(t *testing.T) {
	server, mock := newMockedServer(t)
	mock.ExpectPing()

	start := time.Now().Add(-90 * time.Minute)
	w := healthRequest(server, &start)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Contains(t, body, "timestamp")
	assert.Contains(t, body["uptime"], "h")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestHealthDatabaseUnavailable tests the probe when the ping fails
func TestHealthDatabaseUnavailable(t *testing.T) {
	server, mock := newMockedServer(t)
	mock.ExpectPing().WillReturnError(sql.ErrConnDone)

	start := time.Now()
	w := healthRequest(server, &start)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "unavailable", body["database"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestHealthNoStartTime tests the probe without a recorded start time
func TestHealthNoStartTime(t *testing.T) {
	server, mock := newMockedServer(t)
	mock.ExpectPing()

	w := healthRequest(server, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unknown", body["uptime"])

	assert.NoError(t, mock.ExpectationsWereMet())
}
