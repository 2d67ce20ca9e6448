package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRobotsPolicyDisabledAllowsEverything(t *testing.T) {
	policy := NewRobotsPolicy(false, "test-bot", zap.NewNop())

	assert.True(t, policy.Allowed(context.Background(), "https://anything.example/private"))
}

func TestRobotsPolicyEnforcesDisallow(t *testing.T) {
	var robotsHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits++
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	policy := NewRobotsPolicy(true, "test-bot", zap.NewNop())

	assert.True(t, policy.Allowed(context.Background(), srv.URL+"/public/doc.pdf"))
	assert.False(t, policy.Allowed(context.Background(), srv.URL+"/private/doc.pdf"))
	assert.Equal(t, 1, robotsHits, "robots.txt fetched once per host")
}

func TestRobotsPolicyMissingFileAllows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	policy := NewRobotsPolicy(true, "test-bot", zap.NewNop())

	assert.True(t, policy.Allowed(context.Background(), srv.URL+"/anything"))
}

func TestRobotsPolicyUnreachableHostAllows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	policy := NewRobotsPolicy(true, "test-bot", zap.NewNop())

	assert.True(t, policy.Allowed(context.Background(), srv.URL+"/path"))
}
