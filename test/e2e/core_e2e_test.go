//go:build e2e
// +build e2e

package e2e_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com
Summary
Backend engineer focused on distributed systems.
Experience
Jan 2019 - Dec 2022 Senior Backend Engineer
Built Go microservices on PostgreSQL and Kafka.
Skills
go, postgresql, kafka, docker
Education
B.S. Computer Science`

func TestHealthz(t *testing.T) {
	resp := getJSON(t, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJobLifecycle(t *testing.T) {
	uploader := uniqueID("rec")
	resp, body := postJSON(t, "/v1/jobs", map[string]string{
		"title":       "Senior Backend Engineer",
		"description": "We need Go and PostgreSQL experience.\nRequirements\ngo, postgresql",
		"uploader_id": uploader,
	})
	requireStatus(t, resp, http.StatusCreated, body)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, jsonUnmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	var job struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	resp = getJSON(t, "/v1/jobs/"+created.ID, &job)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Senior Backend Engineer", job.Title)

	var listing struct {
		Jobs []struct {
			ID string `json:"id"`
		} `json:"jobs"`
	}
	resp = getJSON(t, "/v1/jobs?uploader_id="+uploader, &listing)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listing.Jobs, 1)
}

func TestApplyAndRank(t *testing.T) {
	resp, body := postJSON(t, "/v1/jobs", map[string]string{
		"title":       "Go Engineer",
		"description": "Backend work in Go with PostgreSQL.",
		"uploader_id": uniqueID("rec"),
	})
	requireStatus(t, resp, http.StatusCreated, body)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, jsonUnmarshal(body, &created))

	candidate := uniqueID("cand")
	resp, body = uploadResume(t, "/v1/jobs/"+created.ID+"/apply", candidate, "resume.txt", sampleResume)
	requireStatus(t, resp, http.StatusCreated, body)
	var app struct {
		ID         string  `json:"id"`
		FinalScore float64 `json:"final_score"`
	}
	require.NoError(t, jsonUnmarshal(body, &app))
	assert.Greater(t, app.FinalScore, 0.0)

	// A second application from the same candidate must conflict.
	resp, body = uploadResume(t, "/v1/jobs/"+created.ID+"/apply", candidate, "resume.txt", sampleResume)
	requireStatus(t, resp, http.StatusConflict, body)

	var ranking struct {
		Applications []struct {
			ID         string  `json:"id"`
			FinalScore float64 `json:"final_score"`
		} `json:"applications"`
	}
	resp = getJSON(t, "/v1/jobs/"+created.ID+"/applications", &ranking)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, ranking.Applications, 1)
	assert.Equal(t, app.ID, ranking.Applications[0].ID)
}

func TestRetrainStatusPolling(t *testing.T) {
	resp, body := postJSON(t, "/v1/retrain", map[string]string{"triggered_by": uniqueID("rec")})
	requireStatus(t, resp, http.StatusAccepted, body)
	var queued struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, jsonUnmarshal(body, &queued))
	require.NotEmpty(t, queued.RunID)

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		var status struct {
			Status string `json:"status"`
		}
		resp = getJSON(t, "/v1/retrain/"+queued.RunID, &status)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		switch status.Status {
		case "completed", "skipped", "failed":
			t.Logf("retrain run %s finished: %s", queued.RunID, status.Status)
			return
		}
		time.Sleep(2 * time.Second)
	}
	t.Fatalf("retrain run %s did not reach a terminal status", queued.RunID)
}

func jsonUnmarshal(b []byte, out any) error {
	if len(b) == 0 {
		return fmt.Errorf("empty body")
	}
	return json.Unmarshal(b, out)
}
