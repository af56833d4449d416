// Package apitest provides an in-process fake of the metrics backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/rileyhilliard/dbdash/internal/api"
)

// DefaultPerPage matches the reference backend's rows_per_page.
const DefaultPerPage = 50

// Table is the contents of one fake table.
type Table struct {
	Columns []string
	Rows    []api.Row
	// Chart overrides the default chart-data response (one bar with the row count).
	Chart *api.ChartData
}

// DB is one fake database.
type DB struct {
	Path    string
	Missing bool
	Tables  map[string]Table
	// Metrics is nil when the database has no sistema_info_media table.
	Metrics    *api.CurrentMetrics
	Comparison *api.MetricsComparison
}

// Fixture describes the backend state served by a Server.
type Fixture struct {
	DBs map[string]DB
	// Order fixes the order of /databases; defaults to sorted names.
	Order []string
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	fixture Fixture
	fail    map[string]failure
	hits    map[string]int
}

type failure struct {
	status int
	body   any
}

// NewServer starts a fake backend serving fixture under /api.
// Callers must Close it.
func NewServer(fixture Fixture) *Server {
	s := &Server{
		fixture: fixture,
		fail:    make(map[string]failure),
		hits:    make(map[string]int),
	}

	r := mux.NewRouter().UseEncodedPath()
	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/databases", s.databases).Methods("GET").Name("databases")
	a.HandleFunc("/tables/{db}", s.tables).Methods("GET").Name("tables")
	a.HandleFunc("/table-info/{db}/{table}", s.tableInfo).Methods("GET").Name("table-info")
	a.HandleFunc("/query/{db}/{table}", s.query).Methods("GET").Name("query")
	a.HandleFunc("/dashboard/{db}", s.dashboard).Methods("GET").Name("dashboard")
	a.HandleFunc("/chart-data/{db}/{table}", s.chartData).Methods("GET").Name("chart-data")
	a.HandleFunc("/current-metrics/{db}", s.currentMetrics).Methods("GET").Name("current-metrics")
	a.HandleFunc("/metrics-comparison/{db}", s.metricsComparison).Methods("GET").Name("metrics-comparison")
	r.Use(s.count, s.failures)

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is the API root to pass to api.New.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Fail makes every request to route answer with status and an {"error": msg} body.
// An empty msg sends a plain-text body instead.
func (s *Server) Fail(route string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var body any
	if msg != "" {
		body = map[string]string{"error": msg}
	}
	s.fail[route] = failure{status: status, body: body}
}

// Recover clears a failure installed with Fail.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fail, route)
}

// Update mutates the fixture under the server lock.
func (s *Server) Update(fn func(f *Fixture)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.fixture)
}

// Hits returns how many requests reached route.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

func routeName(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil {
		return cur.GetName()
	}
	return ""
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[routeName(r)]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.fail[routeName(r)]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.body == nil {
			http.Error(w, http.StatusText(f.status), f.status)
			return
		}
		writeJSON(w, f.status, f.body)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func pathVar(r *http.Request, name string) string {
	v := mux.Vars(r)[name]
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// lookup returns the database named in the request, writing a 404 when absent.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (DB, bool) {
	s.mu.Lock()
	db, ok := s.fixture.DBs[pathVar(r, "db")]
	s.mu.Unlock()
	if !ok || db.Missing {
		writeError(w, http.StatusNotFound, "Database not found")
		return DB{}, false
	}
	return db, true
}

func (s *Server) lookupTable(w http.ResponseWriter, r *http.Request) (Table, bool) {
	db, ok := s.lookup(w, r)
	if !ok {
		return Table{}, false
	}
	name := pathVar(r, "table")
	t, ok := db.Tables[name]
	if !ok {
		writeError(w, http.StatusInternalServerError, "no such table: "+name)
		return Table{}, false
	}
	return t, true
}

func (s *Server) databases(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	names := s.fixture.Order
	if len(names) == 0 {
		for name := range s.fixture.DBs {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	out := make([]api.Database, 0, len(names))
	for _, name := range names {
		db := s.fixture.DBs[name]
		out = append(out, api.Database{Name: name, Path: db.Path, Exists: !db.Missing})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func tableNames(db DB) []string {
	names := make([]string, 0, len(db.Tables))
	for name := range db.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) tables(w http.ResponseWriter, r *http.Request) {
	db, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tableNames(db))
}

func (s *Server) tableInfo(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTable(w, r)
	if !ok {
		return
	}
	cols := make([]api.Column, 0, len(t.Columns))
	for i, c := range t.Columns {
		col := api.Column{CID: i, Name: c, Type: "TEXT"}
		if i == 0 {
			col.Type, col.PK, col.NotNull = "INTEGER", 1, 1
		}
		cols = append(cols, col)
	}
	writeJSON(w, http.StatusOK, api.TableInfo{Columns: cols, RowCount: int64(len(t.Rows))})
}

func intParam(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTable(w, r)
	if !ok {
		return
	}
	page := intParam(r, "page", 1)
	perPage := intParam(r, "per_page", DefaultPerPage)
	total := len(t.Rows)

	data := []api.Row{}
	if start := (page - 1) * perPage; start >= 0 && start < total {
		end := start + perPage
		if end > total {
			end = total
		}
		data = t.Rows[start:end]
	}
	writeJSON(w, http.StatusOK, api.TablePage{
		Columns: t.Columns,
		Data:    data,
		Pagination: api.Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   int64(total),
			Pages:   (total + perPage - 1) / perPage,
		},
	})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	db, ok := s.lookup(w, r)
	if !ok {
		return
	}
	names := tableNames(db)
	stats := api.DashboardStats{
		Database:   pathVar(r, "db"),
		TableCount: len(names),
		Tables:     make([]api.TableStat, 0, len(names)),
	}
	for _, name := range names {
		t := db.Tables[name]
		stats.Tables = append(stats.Tables, api.TableStat{Name: name, Rows: int64(len(t.Rows)), Columns: len(t.Columns)})
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) chartData(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTable(w, r)
	if !ok {
		return
	}
	if t.Chart != nil {
		writeJSON(w, http.StatusOK, t.Chart)
		return
	}
	writeJSON(w, http.StatusOK, api.ChartData{
		Labels: []string{pathVar(r, "table")},
		Values: []float64{float64(len(t.Rows))},
	})
}

func (s *Server) currentMetrics(w http.ResponseWriter, r *http.Request) {
	db, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if db.Metrics == nil {
		writeError(w, http.StatusNotFound, "Table sistema_info_media not found")
		return
	}
	writeJSON(w, http.StatusOK, db.Metrics)
}

func (s *Server) metricsComparison(w http.ResponseWriter, r *http.Request) {
	db, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if db.Comparison == nil {
		writeError(w, http.StatusNotFound, "Table sistema_info_media not found")
		return
	}
	writeJSON(w, http.StatusOK, db.Comparison)
}
