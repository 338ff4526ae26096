package handler

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/antigravity/raptor-engine/internal/gtfszip"
	"github.com/antigravity/raptor-engine/internal/repository"
)

// GTFSAge serves GET /gtfs/age: seconds since the feed file's mtime.
func (h *Handler) GTFSAge(w http.ResponseWriter, r *http.Request) {
	info, err := os.Stat(h.FeedPath)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "feed file absent: "+err.Error())
		return
	}
	age := time.Since(info.ModTime())
	fmt.Fprintf(w, "%d", int64(age.Seconds()))
}

// GTFSFetch serves GET /gtfs/fetch?q=URL: downloads a fresh feed to
// FeedPath, rebuilds the Repository from it, and hot-swaps the Store.
func (h *Handler) GTFSFetch(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("q")
	if url == "" {
		writeJSONError(w, http.StatusBadRequest, "q is required")
		return
	}

	resp, err := http.Get(url)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "fetch failed: "+err.Error())
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("fetch returned status %d", resp.StatusCode))
		return
	}

	tmpPath := h.FeedPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "creating feed file: "+err.Error())
		return
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		writeJSONError(w, http.StatusInternalServerError, "writing feed file: "+err.Error())
		return
	}
	out.Close()

	if err := os.Rename(tmpPath, h.FeedPath); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "installing feed file: "+err.Error())
		return
	}

	log.Printf("gtfs: downloaded feed from %s, rebuilding repository", url)
	repo, err := LoadRepository(h.FeedPath)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "rebuilding repository: "+err.Error())
		return
	}
	h.Store.Swap(repo)
	log.Printf("gtfs: repository rebuilt, %d stops, %d routes", repo.NumStops(), repo.NumRoutes())

	w.WriteHeader(http.StatusOK)
}

// LoadRepository opens the zip feed at path and builds a Repository from
// it, shared by cmd/raptord's startup path and GTFSFetch's hot reload.
func LoadRepository(path string) (*repository.Repository, error) {
	reader, err := gtfszip.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return repository.Build(reader)
}
