package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/MarcusMQF/Foresight-platform-sub000/internal/application/analysis"
	appdocs "github.com/MarcusMQF/Foresight-platform-sub000/internal/application/documents"
	appreconcile "github.com/MarcusMQF/Foresight-platform-sub000/internal/application/reconcile"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/infra/scoring/httpclient"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/middleware"
)

const (
	maxUploadBytes = 20 << 20 // 20 MiB per resume
	downloadExpiry = 15 * time.Minute
)

type Router struct {
	analysisSvc  *appanalysis.Service
	documentsSvc *appdocs.Service
	reconcileSvc *appreconcile.Service
	scoringCli   *httpclient.Client
	useDistil    bool
}

func NewRouter(analysisSvc *appanalysis.Service, documentsSvc *appdocs.Service, reconcileSvc *appreconcile.Service, scoringCli *httpclient.Client, useDistil bool) http.Handler {
	r := &Router{
		analysisSvc:  analysisSvc,
		documentsSvc: documentsSvc,
		reconcileSvc: reconcileSvc,
		scoringCli:   scoringCli,
		useDistil:    useDistil,
	}
	mux := chi.NewRouter()

	mux.Route("/v1/{user}", func(rt chi.Router) {
		rt.Route("/folders/{folder}", func(rf chi.Router) {
			rf.Post("/analyze", r.wrap(r.handleAnalyzeBatch))
			rf.Get("/results", r.wrap(r.handleListResults))
			rf.Get("/analyzed", r.wrap(r.handleAnalyzedFiles))
			rf.Put("/job-description", r.wrap(r.handlePutJobDescription))
			rf.Get("/job-description", r.wrap(r.handleGetJobDescription))
			rf.Post("/files", r.wrap(r.handleUpload))
			rf.Get("/files", r.wrap(r.handleListFiles))
		})
		rt.Get("/files/{file}/download", r.wrap(r.handleDownload))
		rt.Get("/files/{file}/analysis", r.wrap(r.handleGetAnalysis))
		rt.Delete("/files/{file}/analysis", r.wrap(r.handleDeleteAnalysis))
		rt.Delete("/files/{file}", r.wrap(r.handleDeleteFile))
		rt.Get("/last-batch", r.wrap(r.handleLastBatch))
		rt.Post("/diagnostics/extraction", r.wrap(r.handleTestExtraction))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			var bad *badRequestError
			if errors.As(err, &bad) {
				http.Error(w, bad.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

func pathIDs(req *http.Request) (user, folder string, err error) {
	user = chi.URLParam(req, "user")
	folder = chi.URLParam(req, "folder")
	if err := middleware.ValidateUserID(user); err != nil {
		return "", "", badRequest("%v", err)
	}
	if folder != "" {
		if err := middleware.ValidateFolderID(folder); err != nil {
			return "", "", badRequest("%v", err)
		}
	}
	return user, folder, nil
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{user}/folders/{folder}/analyze
// Body: {"job_description": "...", "file_ids": [...], "weights": {...}, "use_distilbert": bool}
func (r *Router) handleAnalyzeBatch(w http.ResponseWriter, req *http.Request) error {
	user, folder, err := pathIDs(req)
	if err != nil {
		return err
	}

	var body struct {
		JobDescription string             `json:"job_description"`
		FileIDs        []string           `json:"file_ids"`
		Weights        map[string]float64 `json:"weights"`
		UseDistilBERT  *bool              `json:"use_distilbert"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	if len(body.FileIDs) == 0 {
		return badRequest("file_ids is required")
	}
	if body.JobDescription == "" {
		return badRequest("job_description is required")
	}
	for _, id := range body.FileIDs {
		if err := middleware.ValidateFileID(id); err != nil {
			return badRequest("%v", err)
		}
	}

	useDistil := r.useDistil
	if body.UseDistilBERT != nil {
		useDistil = *body.UseDistilBERT
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	outcomes, err := r.analysisSvc.AnalyzeBatch(req.Context(), appanalysis.BatchCommand{
		UserID:         user,
		FolderID:       folder,
		JobDescription: middleware.SanitizeString(body.JobDescription),
		FileIDs:        body.FileIDs,
		Weights:        scoring.AspectWeights(body.Weights),
		UseDistilBERT:  useDistil,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return badRequest("%v", err)
	}
	for _, o := range outcomes {
		if o.Failed() {
			middleware.IncrementAnalysesFailed()
			break
		}
	}

	r.reconcileSvc.RecordBatch(req.Context(), user, folder, outcomes)

	return writeJSON(w, map[string]any{"results": outcomes})
}

// GET /v1/{user}/folders/{folder}/results
func (r *Router) handleListResults(w http.ResponseWriter, req *http.Request) error {
	user, folder, err := pathIDs(req)
	if err != nil {
		return err
	}
	results, err := r.analysisSvc.ResultsForFolder(req.Context(), folder, user)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"results": results})
}

// GET /v1/{user}/folders/{folder}/analyzed
// Union of the remote store and the local snapshot.
func (r *Router) handleAnalyzedFiles(w http.ResponseWriter, req *http.Request) error {
	user, folder, err := pathIDs(req)
	if err != nil {
		return err
	}
	ids := r.reconcileSvc.AnalyzedFileIDs(req.Context(), user, folder)
	return writeJSON(w, map[string]any{"file_ids": ids})
}

// PUT /v1/{user}/folders/{folder}/job-description
func (r *Router) handlePutJobDescription(w http.ResponseWriter, req *http.Request) error {
	user, folder, err := pathIDs(req)
	if err != nil {
		return err
	}
	var body struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	if body.Description == "" {
		return badRequest("description is required")
	}
	id := r.analysisSvc.StoreJobDescription(req.Context(), middleware.SanitizeString(body.Description), folder, user)
	if id == "" {
		return fmt.Errorf("storing job description failed")
	}
	return writeJSON(w, map[string]any{"id": id})
}

// GET /v1/{user}/folders/{folder}/job-description
func (r *Router) handleGetJobDescription(w http.ResponseWriter, req *http.Request) error {
	user, folder, err := pathIDs(req)
	if err != nil {
		return err
	}
	jd, err := r.analysisSvc.LatestJobDescription(req.Context(), folder, user)
	if err != nil {
		return err
	}
	if jd == nil {
		return sql.ErrNoRows
	}
	return writeJSON(w, jd)
}

// POST /v1/{user}/folders/{folder}/files (multipart, field "resume")
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	user, folder, err := pathIDs(req)
	if err != nil {
		return err
	}
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return badRequest("invalid multipart form: %v", err)
	}
	f, header, err := req.FormFile("resume")
	if err != nil {
		return badRequest("resume file is required: %v", err)
	}
	defer f.Close()

	if err := middleware.ValidateFilename(header.Filename); err != nil {
		return badRequest("%v", err)
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	file, err := r.documentsSvc.Upload(req.Context(), appdocs.UploadCommand{
		UserID:      user,
		FolderID:    folder,
		Filename:    header.Filename,
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusCreated)
	return writeJSON(w, file)
}

// GET /v1/{user}/folders/{folder}/files
func (r *Router) handleListFiles(w http.ResponseWriter, req *http.Request) error {
	user, folder, err := pathIDs(req)
	if err != nil {
		return err
	}
	list, err := r.documentsSvc.ListFolder(req.Context(), user, folder)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"files": list})
}

// GET /v1/{user}/files/{file}/download
func (r *Router) handleDownload(w http.ResponseWriter, req *http.Request) error {
	user, _, err := pathIDs(req)
	if err != nil {
		return err
	}
	fileID := chi.URLParam(req, "file")
	if err := middleware.ValidateFileID(fileID); err != nil {
		return badRequest("%v", err)
	}
	url, err := r.documentsSvc.DownloadURL(req.Context(), user, fileID, downloadExpiry)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"url": url})
}

// GET /v1/{user}/files/{file}/analysis
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	user, _, err := pathIDs(req)
	if err != nil {
		return err
	}
	fileID := chi.URLParam(req, "file")
	if err := middleware.ValidateFileID(fileID); err != nil {
		return badRequest("%v", err)
	}
	res, err := r.analysisSvc.Results.GetByFile(req.Context(), fileID, user)
	if err != nil {
		return err
	}
	if res == nil {
		return sql.ErrNoRows
	}
	return writeJSON(w, res)
}

// DELETE /v1/{user}/files/{file}/analysis
func (r *Router) handleDeleteAnalysis(w http.ResponseWriter, req *http.Request) error {
	user, _, err := pathIDs(req)
	if err != nil {
		return err
	}
	fileID := chi.URLParam(req, "file")
	if err := middleware.ValidateFileID(fileID); err != nil {
		return badRequest("%v", err)
	}

	// Lookup dulu supaya tahu folder untuk snapshot cleanup.
	file, err := r.documentsSvc.Get(req.Context(), user, fileID)
	if err != nil {
		return err
	}
	if err := r.analysisSvc.DeleteFileAnalysis(req.Context(), fileID, user); err != nil {
		return err
	}
	r.reconcileSvc.ForgetFile(req.Context(), user, file.FolderID, fileID)

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// DELETE /v1/{user}/files/{file}
func (r *Router) handleDeleteFile(w http.ResponseWriter, req *http.Request) error {
	user, _, err := pathIDs(req)
	if err != nil {
		return err
	}
	fileID := chi.URLParam(req, "file")
	if err := middleware.ValidateFileID(fileID); err != nil {
		return badRequest("%v", err)
	}
	file, err := r.documentsSvc.Delete(req.Context(), user, fileID)
	if err != nil {
		return err
	}
	r.reconcileSvc.ForgetFile(req.Context(), user, file.FolderID, fileID)

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/{user}/last-batch
func (r *Router) handleLastBatch(w http.ResponseWriter, req *http.Request) error {
	user, _, err := pathIDs(req)
	if err != nil {
		return err
	}
	outcomes := r.reconcileSvc.LastBatch(req.Context(), user)
	return writeJSON(w, map[string]any{"results": outcomes})
}

// POST /v1/{user}/diagnostics/extraction (multipart, field "resume")
// Passthrough to the scorer's extraction test endpoint.
func (r *Router) handleTestExtraction(w http.ResponseWriter, req *http.Request) error {
	if _, _, err := pathIDs(req); err != nil {
		return err
	}
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return badRequest("invalid multipart form: %v", err)
	}
	f, header, err := req.FormFile("resume")
	if err != nil {
		return badRequest("resume file is required: %v", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	result, err := r.scoringCli.TestExtraction(req.Context(), header.Filename, content)
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}
