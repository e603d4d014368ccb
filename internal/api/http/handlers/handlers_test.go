package handlers

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/events"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/repository/repotest"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/service"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/token"
	apperrors "github.com/ZYX-Studios/v0-nevha-sub002/pkg/util"
)

func errorStatus(c *fiber.Ctx, err error) error {
	return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
}

// A default fiber app reuses request buffers, so handlers must copy anything an
// async event handler reads later.
func TestAsyncPayloadsOutliveRequest(t *testing.T) {
	logger := zaptest.NewLogger(t)
	hash, err := auth.HashPassword("guardhouse", 4)
	require.NoError(t, err)
	depts := repotest.NewDepartments(
		domain.Department{ID: "security", Name: "Security", PasswordHash: hash, IsActive: true},
		domain.Department{ID: "gate", Name: "Gate", PasswordHash: hash, IsActive: true},
	)
	codec, err := token.NewCodec("session-secret")
	require.NoError(t, err)
	sessions := auth.NewSessionManager(codec, depts, time.Hour)

	dispatcher := events.NewAsyncDispatcher(logger, time.Second)
	release := make(chan struct{})
	clientIPs := make(chan string, 8)
	rotated := make(chan string, 8)
	dispatcher.Subscribe(events.EventDepartmentLoginFailed, func(_ context.Context, e events.Event) error {
		<-release
		clientIPs <- e.Payload.(events.DepartmentLoginFailedPayload).ClientIP
		return nil
	})
	dispatcher.Subscribe(events.EventDepartmentPasswordSet, func(_ context.Context, e events.Event) error {
		<-release
		rotated <- e.Payload.(events.DepartmentPasswordSetPayload).DepartmentID
		return nil
	})

	dept := NewDepartmentAuthHandler(service.NewDepartmentAuthService(depts, sessions, dispatcher, logger), time.Hour, false, nil)
	admin := NewAdminHandler(service.NewDepartmentAdminService(depts, 4, dispatcher, logger))

	app := fiber.New(fiber.Config{ErrorHandler: errorStatus})
	app.Post("/login", dept.Login)
	app.Post("/departments/:id/password", func(c *fiber.Ctx) error {
		c.Locals("auth_principal", &auth.Principal{ProfileID: "p1"})
		return c.Next()
	}, admin.RotateDepartmentPassword)

	send := func(req *nethttp.Request) int {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	for _, ip := range []string{"192.0.2.1", "192.0.2.99"} {
		req := httptest.NewRequest(nethttp.MethodPost, "/login", strings.NewReader(`{"department_id":"security","password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", ip)
		require.Equal(t, nethttp.StatusUnauthorized, send(req))
	}
	for _, id := range []string{"security", "gate"} {
		req := httptest.NewRequest(nethttp.MethodPost, "/departments/"+id+"/password", strings.NewReader(`{"password":"a-new-password"}`))
		req.Header.Set("Content-Type", "application/json")
		require.Equal(t, nethttp.StatusOK, send(req))
	}

	close(release)
	dispatcher.Wait()
	close(clientIPs)
	close(rotated)

	var ips, ids []string
	for ip := range clientIPs {
		ips = append(ips, ip)
	}
	for id := range rotated {
		ids = append(ids, id)
	}
	assert.ElementsMatch(t, []string{"192.0.2.1", "192.0.2.99"}, ips)
	assert.ElementsMatch(t, []string{"security", "gate"}, ids)
}
