package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pc "parachute_control"
	"parachute_control/internal/chute"
	"parachute_control/internal/service"
)

func doRequest(r http.Handler, method, target string, body *bytes.Buffer, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestChuteHandlers_StatusEnableRelease(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	mon := &mockMonitoring{status: pc.ChuteStatus{
		Enabled:      true,
		Trigger:      "SERVO",
		MonitorState: "NORMAL",
		AltitudeM:    42.5,
		Flying:       true,
		FlightMode:   "AUTO",
	}}
	ch := &mockChute{releaseOutcome: service.Released, params: chute.DefaultParams()}
	s := &service.Service{
		Authorization: auth,
		Monitoring:    mon,
		Chute:         ch,
	}
	r := newTestRouter(s)

	// GET status requires auth
	w := doRequest(r, http.MethodGet, "/api/v1/chute/status", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	// With auth, status body round trips
	w = doRequest(r, http.MethodGet, "/api/v1/chute/status", nil, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("status code=%d, body=%s", w.Code, w.Body.String())
	}
	var st pc.ChuteStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.Trigger != "SERVO" || st.AltitudeM != 42.5 || !st.Flying {
		t.Fatalf("unexpected status: %+v", st)
	}

	// POST enable with explicit false must bind
	body := bytes.NewBufferString(`{"enabled":false}`)
	w = doRequest(r, http.MethodPost, "/api/v1/chute/enable", body, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("enable code=%d, body=%s", w.Code, w.Body.String())
	}
	if ch.setEnabledCalls != 1 || ch.lastEnabled {
		t.Fatalf("SetEnabled calls=%d lastEnabled=%v", ch.setEnabledCalls, ch.lastEnabled)
	}
	var enResp struct {
		Status  string         `json:"status"`
		Enabled bool           `json:"enabled"`
		State   pc.ChuteStatus `json:"state"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &enResp)
	if enResp.Status != statusEnabled || enResp.Enabled {
		t.Fatalf("bad enable response: %+v", enResp)
	}

	// Missing enabled field is a 400
	body = bytes.NewBufferString(`{}`)
	w = doRequest(r, http.MethodPost, "/api/v1/chute/enable", body, "valid")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing enabled, got %d", w.Code)
	}

	// POST release, accepted
	w = doRequest(r, http.MethodPost, "/api/v1/chute/release", nil, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("release code=%d, body=%s", w.Code, w.Body.String())
	}
	if ch.releaseCalls != 1 {
		t.Fatalf("ManualRelease calls=%d", ch.releaseCalls)
	}
	var relResp struct {
		Status string         `json:"status"`
		State  pc.ChuteStatus `json:"state"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &relResp)
	if relResp.Status != statusReleased {
		t.Fatalf("expected status %q, got %q", statusReleased, relResp.Status)
	}
	if relResp.State.Trigger != "SERVO" {
		t.Fatalf("state missing in response: %+v", relResp.State)
	}

	// GET params returns effective parameters
	w = doRequest(r, http.MethodGet, "/api/v1/chute/params", nil, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("params code=%d, body=%s", w.Code, w.Body.String())
	}
	var p chute.Params
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal params: %v", err)
	}
	if p.DelayMS != 500 || p.ServoOnPWM != 1300 {
		t.Fatalf("unexpected params: %+v", p)
	}
}

func TestReleaseChute_Rejected(t *testing.T) {
	cases := []struct {
		name    string
		outcome service.ReleaseOutcome
	}{
		{"not_flying", service.RejectedNotFlying},
		{"too_low", service.RejectedAltitudeLow},
		{"too_high", service.RejectedAltitudeHigh},
		{"already_or_disabled", service.RejectedAlreadyOrDisabled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch := &mockChute{releaseOutcome: tc.outcome}
			s := &service.Service{
				Authorization: &mockAuth{parseID: 1},
				Monitoring:    &mockMonitoring{},
				Chute:         ch,
			}
			r := newTestRouter(s)

			w := doRequest(r, http.MethodPost, "/api/v1/chute/release", nil, "valid")
			if w.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d, body=%s", w.Code, w.Body.String())
			}
			var resp struct {
				Status string `json:"status"`
				Reason string `json:"reason"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Status != statusRejected || resp.Reason != tc.outcome.String() {
				t.Fatalf("bad rejection body: %+v", resp)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("health code=%d", w.Code)
	}
}
