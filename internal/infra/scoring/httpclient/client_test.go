package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
)

func testClient(srv *httptest.Server) *Client {
	return New(srv.URL, 5*time.Second, time.Second)
}

func testRequest() scoring.ScoreRequest {
	return scoring.ScoreRequest{
		Filename:       "cv.pdf",
		Content:        []byte("resume text"),
		JobDescription: "Backend engineer",
		FolderID:       "folder-1",
		UserID:         "user-1",
		FileID:         "file-1",
	}
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"healthy", http.StatusOK, true},
		{"server error", http.StatusInternalServerError, false},
		{"redirect", http.StatusMovedPermanently, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			if got := testClient(srv).Available(context.Background()); got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailableUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	if testClient(srv).Available(context.Background()) {
		t.Error("Available() = true for a dead server")
	}
}

func TestScoreDecodesCamelCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != analyzePath {
			t.Errorf("path = %s, want %s", r.URL.Path, analyzePath)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"filename": "cv.pdf",
			"score": 82.5,
			"matchedKeywords": ["go", "sql"],
			"missingKeywords": ["docker"],
			"aspectScores": {"skills": 85},
			"achievementBonus": 2.5,
			"candidateInfo": {"name": "Ari", "email": "ari@example.com"}
		}`))
	}))
	defer srv.Close()

	out := testClient(srv).Score(context.Background(), testRequest())
	if out.Failed() {
		t.Fatalf("unexpected failure: %+v", out.Error)
	}
	if out.Score != 82.5 {
		t.Errorf("score = %v, want 82.5", out.Score)
	}
	if len(out.MatchedKeywords) != 2 || out.MatchedKeywords[0] != "go" {
		t.Errorf("matched = %v", out.MatchedKeywords)
	}
	if out.AspectScores["skills"] != 85 {
		t.Errorf("aspect scores = %v", out.AspectScores)
	}
	if out.AchievementBonus != 2.5 {
		t.Errorf("achievement bonus = %v", out.AchievementBonus)
	}
	if out.CandidateInfo == nil || out.CandidateInfo.Name != "Ari" {
		t.Errorf("candidate info = %+v", out.CandidateInfo)
	}
}

func TestScoreDecodesSnakeCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"filename": "cv.pdf",
			"score": 64,
			"matched_keywords": ["go"],
			"missing_keywords": ["sql", "docker"],
			"aspect_scores": {"skills": 60, "experience": 45},
			"achievement_bonus": 1.0
		}`))
	}))
	defer srv.Close()

	out := testClient(srv).Score(context.Background(), testRequest())
	if out.Failed() {
		t.Fatalf("unexpected failure: %+v", out.Error)
	}
	if len(out.MatchedKeywords) != 1 || len(out.MissingKeywords) != 2 {
		t.Errorf("keywords = %v / %v", out.MatchedKeywords, out.MissingKeywords)
	}
	if out.AspectScores["experience"] != 45 {
		t.Errorf("aspect scores = %v", out.AspectScores)
	}
	if out.AchievementBonus != 1.0 {
		t.Errorf("achievement bonus = %v", out.AchievementBonus)
	}
}

func TestScoreFillsGaps(t *testing.T) {
	// scorer answered with score only; recommendations and HR sections are
	// synthesized client-side
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"filename": "cv.pdf", "score": 72, "missingKeywords": ["sql"]}`))
	}))
	defer srv.Close()

	out := testClient(srv).Score(context.Background(), testRequest())
	if out.Failed() {
		t.Fatalf("unexpected failure: %+v", out.Error)
	}
	if len(out.Recommendations) == 0 {
		t.Error("recommendations not synthesized")
	}
	if out.HRData == nil || out.HRData.Assessment.Empty() {
		t.Error("hr assessment not synthesized")
	}
	if out.CandidateInfo != nil {
		t.Errorf("candidate info invented: %+v", out.CandidateInfo)
	}
}

func TestScoreRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "could not extract text from the file"}`))
	}))
	defer srv.Close()

	out := testClient(srv).Score(context.Background(), testRequest())
	if !out.Failed() {
		t.Fatal("expected failed outcome")
	}
	if out.Error.Code != scoring.CodeScoringFailed {
		t.Errorf("code = %q, want SCORING_FAILED", out.Error.Code)
	}
	if out.Error.Message != "could not extract text from the file" {
		t.Errorf("message = %q, want remote detail", out.Error.Message)
	}
	if out.Score != 0 {
		t.Errorf("score = %v, want 0", out.Score)
	}
}

func TestScoreMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	out := testClient(srv).Score(context.Background(), testRequest())
	if !out.Failed() || out.Error.Code != scoring.CodeScoringFailed {
		t.Errorf("outcome = %+v, want SCORING_FAILED", out)
	}
}

func TestScoreUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	out := testClient(srv).Score(context.Background(), testRequest())
	if !out.Failed() || out.Error.Code != scoring.CodeScoringFailed {
		t.Errorf("outcome = %+v, want SCORING_FAILED", out)
	}
}

func TestScoreSendsForm(t *testing.T) {
	var gotJD, gotFileID, gotFallback string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotJD = r.FormValue("job_description")
		gotFileID = r.FormValue("file_id")
		gotFallback = r.FormValue("enable_fallback_extraction")
		w.Write([]byte(`{"filename": "cv.pdf", "score": 50}`))
	}))
	defer srv.Close()

	testClient(srv).Score(context.Background(), testRequest())
	if gotJD != "Backend engineer" {
		t.Errorf("job_description = %q", gotJD)
	}
	if gotFileID != "file-1" {
		t.Errorf("file_id = %q", gotFileID)
	}
	if gotFallback != "true" {
		t.Errorf("enable_fallback_extraction = %q, want true", gotFallback)
	}
}

func TestScoreDefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score": 70}`))
	}))
	defer srv.Close()

	out := testClient(srv).Score(context.Background(), testRequest())
	if out.Filename != "cv.pdf" {
		t.Errorf("filename = %q, want the request filename", out.Filename)
	}
}
