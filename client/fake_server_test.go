package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/yeremiapane/facilities-app/models"
)

// fakeServer is a minimal stand-in for the API, speaking the same response
// envelope. Setting failWith makes every subsequent request fail with that
// message until cleared.
type fakeServer struct {
	mu       sync.Mutex
	queries  []models.Query
	failWith string
	omitData bool
	srv      *httptest.Server

	lastAuthHeader string
}

func newFakeServer() *fakeServer {
	fs := &fakeServer{}
	fs.srv = httptest.NewServer(http.HandlerFunc(fs.handle))
	return fs
}

func (fs *fakeServer) URL() string { return fs.srv.URL }
func (fs *fakeServer) Close()      { fs.srv.Close() }

func (fs *fakeServer) setQueries(queries []models.Query) {
	fs.mu.Lock()
	fs.queries = queries
	fs.mu.Unlock()
}

func (fs *fakeServer) setFail(message string) {
	fs.mu.Lock()
	fs.failWith = message
	fs.mu.Unlock()
}

func (fs *fakeServer) setOmitData(omit bool) {
	fs.mu.Lock()
	fs.omitData = omit
	fs.mu.Unlock()
}

func (fs *fakeServer) authHeader() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lastAuthHeader
}

func (fs *fakeServer) respond(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  code >= 200 && code < 300,
		"message": message,
		"data":    data,
	})
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.lastAuthHeader = r.Header.Get("Authorization")

	if fs.failWith != "" {
		fs.respond(w, http.StatusBadRequest, fs.failWith, nil)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case r.Method == "POST" && path == "/login":
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret123" {
			fs.respond(w, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		fs.respond(w, http.StatusOK, "Login successful", map[string]interface{}{
			"token": "fake-token",
			"user":  models.User{ID: 1, Name: "Alice", Email: creds.Email, Role: models.RoleAdmin},
		})

	case r.Method == "GET" && path == "/queries":
		if fs.omitData {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "List of queries",
			})
			return
		}
		fs.respond(w, http.StatusOK, "List of queries", fs.queries)

	case r.Method == "DELETE" && len(parts) == 2 && parts[0] == "queries":
		id, _ := strconv.Atoi(parts[1])
		kept := fs.queries[:0]
		for _, q := range fs.queries {
			if q.ID != uint(id) {
				kept = append(kept, q)
			}
		}
		fs.queries = kept
		fs.respond(w, http.StatusOK, "Query deleted", nil)

	case r.Method == "PUT" && len(parts) == 4 && parts[0] == "queries" && parts[2] == "assign":
		queryID, _ := strconv.Atoi(parts[1])
		workerID, _ := strconv.Atoi(parts[3])
		q := fs.updateQuery(uint(queryID), func(q *models.Query) {
			wid := uint(workerID)
			q.Status = models.StatusAssigned
			q.AssignedToWorkerID = &wid
		})
		if q == nil {
			fs.respond(w, http.StatusNotFound, "query not found", nil)
			return
		}
		fs.respond(w, http.StatusOK, "Worker assigned", q)

	case r.Method == "PUT" && len(parts) == 3 && parts[0] == "queries" && parts[2] == "status":
		queryID, _ := strconv.Atoi(parts[1])
		var body struct {
			Status string `json:"status"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		q := fs.updateQuery(uint(queryID), func(q *models.Query) {
			q.Status = body.Status
		})
		if q == nil {
			fs.respond(w, http.StatusNotFound, "query not found", nil)
			return
		}
		fs.respond(w, http.StatusOK, "Status updated", q)

	case r.Method == "PUT" && len(parts) == 3 && parts[0] == "queries" && parts[2] == "complete":
		queryID, _ := strconv.Atoi(parts[1])
		r.ParseMultipartForm(1 << 20)
		notes := r.FormValue("completionNotes")
		q := fs.updateQuery(uint(queryID), func(q *models.Query) {
			q.Status = models.StatusResolved
			q.CompletionNotes = notes
		})
		if q == nil {
			fs.respond(w, http.StatusNotFound, "query not found", nil)
			return
		}
		fs.respond(w, http.StatusOK, "Query completed", q)

	default:
		// No envelope at all, so the generic fallback message kicks in.
		http.NotFound(w, r)
	}
}

func (fs *fakeServer) updateQuery(id uint, mutate func(*models.Query)) *models.Query {
	for i := range fs.queries {
		if fs.queries[i].ID == id {
			mutate(&fs.queries[i])
			out := fs.queries[i]
			return &out
		}
	}
	return nil
}
