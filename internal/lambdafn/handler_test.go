package lambdafn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/napolitain/solver-oasis/internal/api"
	"github.com/napolitain/solver-oasis/internal/converter"
	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/solver/raid"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return newTimedHandler(t, 0)
}

func newTimedHandler(t *testing.T, timeout time.Duration) *Handler {
	t.Helper()
	roster, catalog, err := loader.LoadAll("")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	return New(api.NewService(raid.NewSolver(roster, catalog)), zap.NewNop(), timeout)
}

func event(method, path, body string) events.LambdaFunctionURLRequest {
	ev := events.LambdaFunctionURLRequest{RawPath: path, Body: body}
	ev.RequestContext.HTTP.Method = method
	return ev
}

const optimizeBody = `{
	"tribe": "Teuton",
	"troops": ["Clubswinger"],
	"troop_levels": {"Clubswinger": 1},
	"oasis_composition": {"Rat": 5},
	"max_troop_limit": {"Clubswinger": 100},
	"max_iter": 20
}`

func TestOptimizeRoute(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/optimize", "/", ""} {
		resp, err := h.Handle(context.Background(), event(http.MethodPost, path, optimizeBody))
		if err != nil {
			t.Fatalf("%q: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%q: status %d: %s", path, resp.StatusCode, resp.Body)
		}

		var out converter.OptimizeResponse
		if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if n := out.BestCounts["Clubswinger"]; n < 1 || n > 100 {
			t.Errorf("%q: Clubswinger count %d outside [1, 100]", path, n)
		}
	}
}

func TestBase64Body(t *testing.T) {
	h := newTestHandler(t)
	ev := event(http.MethodPost, "/oasis/parse", base64.StdEncoding.EncodeToString([]byte(`{"text":"3 Rat\n2 Bear"}`)))
	ev.IsBase64Encoded = true

	resp, _ := h.Handle(context.Background(), ev)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, resp.Body)
	}

	var out converter.ParseOasisResponse
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.OasisComposition["Rat"] != 3 || out.OasisComposition["Bear"] != 2 || out.Total != 5 {
		t.Errorf("unexpected composition: %+v", out)
	}
}

func TestErrors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		ev     events.LambdaFunctionURLRequest
		status int
		field  string
	}{
		{"bad json", event(http.MethodPost, "/optimize", "{"), http.StatusBadRequest, ""},
		{"negative defender", event(http.MethodPost, "/optimize", `{"tribe":"Teuton","troops":["Clubswinger"],
			"troop_levels":{"Clubswinger":1},"max_troop_limit":{"Clubswinger":500},"oasis_composition":{"Rat":-5}}`),
			http.StatusBadRequest, "defense"},
		{"unknown tribe", event(http.MethodPost, "/optimize", `{"tribe":"Elves","troops":["X"]}`), http.StatusBadRequest, "faction"},
		{"unknown route", event(http.MethodGet, "/nope", ""), http.StatusNotFound, ""},
		{"wrong method", event(http.MethodDelete, "/roster", ""), http.StatusNotFound, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := h.Handle(context.Background(), tc.ev)
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status: got %d, want %d (%s)", resp.StatusCode, tc.status, resp.Body)
			}

			var body converter.ErrorResponse
			if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error == "" || body.Field != tc.field {
				t.Errorf("body: %+v, want field %q", body, tc.field)
			}
		})
	}
}

func TestCatalogRoutes(t *testing.T) {
	h := newTestHandler(t)

	resp, _ := h.Handle(context.Background(), event(http.MethodGet, "/roster/", ""))
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Body, "Clubswinger") {
		t.Errorf("roster: %d %s", resp.StatusCode, resp.Body)
	}

	resp, _ = h.Handle(context.Background(), event(http.MethodGet, "/oasis", ""))
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Body, "Crocodile") {
		t.Errorf("oasis: %d %s", resp.StatusCode, resp.Body)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type: %q", resp.Headers["Content-Type"])
	}
}

func TestOptimizeTimeout(t *testing.T) {
	h := newTimedHandler(t, time.Nanosecond)
	body := `{"tribe":"Roman","troops":["Legionnaire","Imperian","Equites_Imperatoris","Equites_Caesaris"],
		"troop_levels":{"Legionnaire":1,"Imperian":1,"Equites_Imperatoris":1,"Equites_Caesaris":1},
		"oasis_composition":{"Elephant":20,"Crocodile":15},
		"max_troop_limit":{"Legionnaire":10000,"Imperian":10000,"Equites_Imperatoris":10000,"Equites_Caesaris":10000},
		"max_iter":3000}`

	resp, err := h.Handle(context.Background(), event(http.MethodPost, "/optimize", body))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("status: got %d, want 504 (%s)", resp.StatusCode, resp.Body)
	}
}
