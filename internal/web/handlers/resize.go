package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/imaging"
	"github.com/solorzano0401/genesis-tools/internal/transcoder"
)

// ResizeHandler implements the async batch resize endpoints.
type ResizeHandler struct {
	jobManager *JobManager
}

// NewResizeHandler creates a new resize handler.
func NewResizeHandler(jm *JobManager) *ResizeHandler {
	return &ResizeHandler{jobManager: jm}
}

// parseSpec reads the output spec from form values.
func parseSpec(r *http.Request) (imaging.Spec, error) {
	format, err := imaging.ParseFormat(formValueDefault(r, "format", "jpeg"))
	if err != nil {
		return imaging.Spec{}, err
	}

	spec := imaging.Spec{
		Width:          formValueInt(r, "width"),
		Height:         formValueInt(r, "height"),
		Format:         format,
		Quality:        constants.DefaultQuality,
		MaintainAspect: formValueBool(r, "maintain_aspect"),
	}
	if q := r.FormValue("quality"); q != "" {
		spec.Quality, err = strconv.ParseFloat(q, 64)
		if err != nil {
			return imaging.Spec{}, err
		}
	}
	return spec, spec.Validate()
}

// parseOptions reads the full batch options, including the optional secondary
// rendition and naming strategy.
func parseOptions(r *http.Request) (transcoder.Options, error) {
	spec, err := parseSpec(r)
	if err != nil {
		return transcoder.Options{}, err
	}

	opts := transcoder.Options{
		Spec:        spec,
		ArchiveName: r.FormValue("archive_name"),
	}

	if formValueBool(r, "dual_output") {
		w := formValueInt(r, "secondary_width")
		if w <= 0 {
			w = transcoder.SecondaryFor(spec.Width)
		}
		secondary := spec
		secondary.Width = w
		secondary.Height = w
		if h := formValueInt(r, "secondary_height"); h > 0 {
			secondary.Height = h
		}
		opts.Secondary = &secondary
	}

	switch r.FormValue("naming") {
	case "keep_original":
		opts.Naming.Strategy = transcoder.KeepOriginal
	case "manual":
		opts.Naming.Strategy = transcoder.ManualList
		opts.Naming.ManualNames = splitNameLines(r.FormValue("names"))
	case "base_name":
		opts.Naming.Strategy = transcoder.BaseNamePlusIndex
		opts.Naming.BaseName = r.FormValue("base_name")
	}
	return opts, nil
}

// Start accepts a multipart batch and launches an async resize job.
func (h *ResizeHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	opts, err := parseOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sources, skipped, err := collectSources(r.MultipartForm)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(sources) == 0 {
		respondError(w, http.StatusBadRequest, "no images provided")
		return
	}

	job := h.jobManager.CreateJob(uuid.NewString(), len(sources))

	go func() {
		job.SetStatus(JobStatusRunning)

		result, err := transcoder.RunBatch(job.Context(), sources, opts, job.SetProgress)
		if err != nil {
			if job.GetStatus() == JobStatusCancelled {
				return
			}
			log.Printf("resize job %s failed: %v", job.ID, err)
			job.Fail(err.Error())
			return
		}

		jobResult := &ResizeJobResult{
			FileName: result.FileName,
			MIME:     result.MIME,
			Size:     len(result.Data),
			Archived: result.Archived,
			Skipped:  skipped,
		}
		for _, f := range result.Failed {
			jobResult.Failed = append(jobResult.Failed, f.Error())
		}
		job.Complete(jobResult, result.Data)
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

// Status returns the current job state.
func (h *ResizeHandler) Status(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Events streams job progress via SSE.
func (h *ResizeHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			if job := h.jobManager.GetJob(id); job != nil {
				return job
			}
			return nil
		},
		func(j SSEJob) any { return j },
	)
}

// Download sends the finished artifact and removes the job.
func (h *ResizeHandler) Download(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	result, data := job.Output()
	if result == nil || data == nil {
		respondError(w, http.StatusConflict, "job has not completed")
		return
	}

	respondFile(w, result.FileName, result.MIME, data)
	h.jobManager.DeleteJob(jobID)
}

// Cancel cancels a running job.
func (h *ResizeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]string{"status": string(JobStatusCancelled)})
}

func formValueInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.FormValue(key))
	return n
}

func formValueBool(r *http.Request, key string) bool {
	v := strings.ToLower(r.FormValue(key))
	return v == "true" || v == "1" || v == "yes"
}

func formValueDefault(r *http.Request, key, def string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return def
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitNameLines splits a manual name list keeping line positions: a blank
// line means "no name for that index", so later names must not shift up.
func splitNameLines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
