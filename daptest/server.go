package daptest

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/marram/godap/internal/das"
	"github.com/marram/godap/internal/dds"
	"github.com/marram/godap/internal/xdr"
	"github.com/marram/godap/model"
)

// Server serves one dataset at the three protocol endpoints and evaluates
// constraint-expression function calls against it. It counts requests so
// tests can assert exact fetch behavior.
type Server struct {
	ds     *model.Dataset
	router *mux.Router
	log    logrus.FieldLogger

	mu       sync.Mutex
	requests int
}

// NewServer returns a handler serving ds under any base path, e.g.
// /anything.dds, /anything.das, /anything.dods.
func NewServer(ds *model.Dataset) *Server {
	s := &Server{ds: ds, log: logrus.StandardLogger()}
	r := mux.NewRouter()
	r.HandleFunc("/{base:.*}.dds", s.handleDDS)
	r.HandleFunc("/{base:.*}.das", s.handleDAS)
	r.HandleFunc("/{base:.*}.dods", s.handleData)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
	s.router.ServeHTTP(w, r)
}

// Requests returns the number of requests served so far.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// ResetRequests zeroes the request counter.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	s.requests = 0
	s.mu.Unlock()
}

// target applies the request's constraint expression, if any.
func (s *Server) target(r *http.Request) (*model.Dataset, error) {
	raw := r.URL.RawQuery
	if raw == "" {
		return s.ds, nil
	}
	expr, err := url.QueryUnescape(raw)
	if err != nil {
		expr = raw
	}
	return Evaluate(s.ds, expr)
}

func (s *Server) handleDDS(w http.ResponseWriter, r *http.Request) {
	ds, err := s.target(r)
	if err != nil {
		s.clientError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(dds.Render(ds)))
}

func (s *Server) handleDAS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(das.Render(s.ds)))
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ds, err := s.target(r)
	if err != nil {
		s.clientError(w, r, err)
		return
	}
	body, err := xdr.Encode(ds)
	if err != nil {
		s.log.WithError(err).Error("daptest: encode failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write([]byte(dds.Render(ds)))
	w.Write([]byte("Data:\n"))
	w.Write(body)
}

func (s *Server) clientError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithField("url", r.URL.String()).Debug("daptest: bad request")
	http.Error(w, err.Error(), http.StatusBadRequest)
}
