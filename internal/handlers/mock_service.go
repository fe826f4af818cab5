package handlers

import (
	"context"
	"net/http"
	"time"

	pc "parachute_control"
	"parachute_control/internal/chute"
	"parachute_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockChute struct {
	setEnabledErr  error
	releaseOutcome service.ReleaseOutcome
	params         chute.Params

	lastEnabled     bool
	setEnabledCalls int
	releaseCalls    int
}

func (m *mockChute) SetEnabled(ctx context.Context, on bool) error {
	m.setEnabledCalls++
	m.lastEnabled = on
	return m.setEnabledErr
}
func (m *mockChute) ManualRelease(ctx context.Context) service.ReleaseOutcome {
	m.releaseCalls++
	return m.releaseOutcome
}
func (m *mockChute) Params() chute.Params {
	return m.params
}

type mockMonitoring struct {
	status pc.ChuteStatus
}

func (m *mockMonitoring) Status() pc.ChuteStatus {
	return m.status
}

type mockEventLog struct {
	resp     []pc.ChuteEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]pc.ChuteEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
