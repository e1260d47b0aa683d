package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mohamedamineameur/comptia/config"
	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/models"
)

func setupAuthTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:auth_" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{
		JWTKey:      "test-signing-key",
		AdminEmails: []string{"admin@example.com"},
	}
	return db
}

func protectedApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append(handlers, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userId").(uint)
		return c.JSON(fiber.Map{"userId": userID})
	})
	app.Get("/protected", chain...)
	return app
}

func TestRequireAuthSessionCookie(t *testing.T) {
	db := setupAuthTest(t)
	app := protectedApp(RequireAuth)

	require.NoError(t, db.Create(&models.Session{
		SessionID: "valid-session",
		UserID:    42,
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Cookie", SessionCookieName+"=valid-session")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthRejectsExpiredSession(t *testing.T) {
	db := setupAuthTest(t)
	app := protectedApp(RequireAuth)

	require.NoError(t, db.Create(&models.Session{
		SessionID: "stale-session",
		UserID:    42,
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Cookie", SessionCookieName+"=stale-session")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthRejectsRevokedSession(t *testing.T) {
	db := setupAuthTest(t)
	app := protectedApp(RequireAuth)

	revokedAt := time.Now().Add(-time.Minute)
	require.NoError(t, db.Create(&models.Session{
		SessionID: "revoked-session",
		UserID:    42,
		ExpiresAt: time.Now().Add(time.Hour),
		RevokedAt: &revokedAt,
	}).Error)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Cookie", SessionCookieName+"=revoked-session")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthBearerFallback(t *testing.T) {
	setupAuthTest(t)
	app := protectedApp(RequireAuth)

	token, err := GenerateJWT(7, "user@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	setupAuthTest(t)
	app := protectedApp(RequireAuth)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	db := setupAuthTest(t)
	app := protectedApp(RequireAuth, RequireAdmin)

	require.NoError(t, db.Create(&models.User{Email: "admin@example.com", PasswordHash: "x"}).Error)
	require.NoError(t, db.Create(&models.User{Email: "user@example.com", PasswordHash: "x"}).Error)

	var admin, regular models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	require.NoError(t, db.Where("email = ?", "user@example.com").First(&regular).Error)

	require.NoError(t, db.Create(&models.Session{SessionID: "admin-session", UserID: admin.ID, ExpiresAt: time.Now().Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Session{SessionID: "user-session", UserID: regular.ID, ExpiresAt: time.Now().Add(time.Hour)}).Error)

	adminReq := httptest.NewRequest("GET", "/protected", nil)
	adminReq.Header.Set("Cookie", SessionCookieName+"=admin-session")
	resp, err := app.Test(adminReq)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	userReq := httptest.NewRequest("GET", "/protected", nil)
	userReq.Header.Set("Cookie", SessionCookieName+"=user-session")
	resp, err = app.Test(userReq)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
