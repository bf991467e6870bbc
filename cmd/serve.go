package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"LinkedinLeads/internal/config"
	"LinkedinLeads/internal/export"
	"LinkedinLeads/internal/leads"
	"LinkedinLeads/internal/linkedin"
	"LinkedinLeads/internal/metrics"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve crawl runs over HTTP",
	Long: `Serve exposes POST /run, which performs one crawl per request and streams its
log as NDJSON events ending with a "done" event that carries the result, and
GET /download, which returns an exported CSV.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (LISTEN_ADDR)")
}

// runPayload is the body of POST /run.
type runPayload struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Query           string `json:"query"`
	Type            string `json:"type"`
	Industry        string `json:"industry"`
	Location        string `json:"location"`
	CompanySize     string `json:"companySize"`
	NumOfResults    int    `json:"numOfResults"`
	Headless        *bool  `json:"headless"`
	ResearchWebsite bool   `json:"researchWebsite"`
	SaveToGoogle    bool   `json:"saveToGoogle"`
	Token           string `json:"token"`
}

type runResponse struct {
	RunID     string       `json:"runId"`
	Result    leads.Result `json:"result"`
	CSVPath   string       `json:"csvPath,omitempty"`
	StartedAt string       `json:"startedAt"`
	EndedAt   string       `json:"endedAt"`
}

type streamEvent struct {
	Type string `json:"type"` // "log" | "done"
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

// crawler is the part of leads.Runner the server uses.
type crawler interface {
	Run(ctx context.Context, req leads.Request) leads.Result
}

type server struct {
	cfg *config.Config
	// newCrawler builds the crawler of one run from its config and logger.
	newCrawler func(c *config.Config, logger *log.Logger) (crawler, error)
}

func newServer(c *config.Config, rec *metrics.Recorder) *server {
	return &server{
		cfg: c,
		newCrawler: func(c *config.Config, logger *log.Logger) (crawler, error) {
			return newRunner(c, logger, rec)
		},
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("GET /download", s.handleDownload)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok\n")
	})
	return mux
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, shutdown, err := setupMetrics(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown(context.WithoutCancel(ctx))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newServer(cfg, rec).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server listening on http://localhost%v ...", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// eventWriter turns each log line into an NDJSON "log" event. Collaborators
// of a run log from their own goroutines, so writes are serialized.
type eventWriter struct {
	mu sync.Mutex
	w  http.ResponseWriter
}

func (e *eventWriter) event(ev streamEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, _ := json.Marshal(ev)
	e.w.Write(b)
	e.w.Write([]byte("\n"))
	if f, ok := e.w.(http.Flusher); ok {
		f.Flush()
	}
}

func (e *eventWriter) Write(p []byte) (int, error) {
	e.event(streamEvent{Type: "log", Msg: strings.TrimRight(string(p), "\n")})
	return len(p), nil
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Cache-Control", "no-cache")
	ew := &eventWriter{w: w}

	var p runPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		ew.event(streamEvent{Type: "log", Msg: fmt.Sprintf("invalid payload: %v", err)})
		ew.event(streamEvent{Type: "done", Data: runResponse{Result: leads.Result{Message: "invalid payload"}}})
		return
	}
	p.Query = sanitizeQuotes(p.Query)
	if strings.TrimSpace(p.Email) == "" || strings.TrimSpace(p.Password) == "" || p.Query == "" {
		ew.event(streamEvent{Type: "log", Msg: "Fill in email, password and query."})
		ew.event(streamEvent{Type: "done", Data: runResponse{Result: leads.Result{Message: "missing required fields"}}})
		return
	}

	c := *s.cfg
	if p.NumOfResults > 0 {
		c.NumOfResults = p.NumOfResults
	}
	if p.Headless != nil {
		c.Headless = *p.Headless
	}
	if err := c.Validate(); err != nil {
		ew.event(streamEvent{Type: "done", Data: runResponse{Result: leads.Result{Message: err.Error()}}})
		return
	}

	id := uuid.NewString()
	start := time.Now()
	logger := log.New(io.MultiWriter(ew, log.Writer()), "", 0)
	logger.Printf("▶️ Starting run %s for %q ...", id, p.Query)

	runner, err := s.newCrawler(&c, logger)
	if err != nil {
		ew.event(streamEvent{Type: "done", Data: runResponse{RunID: id, Result: leads.Result{Message: err.Error()}, StartedAt: start.Format(time.RFC3339)}})
		return
	}

	ctx := r.Context()
	if c.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.RunTimeout)
		defer cancel()
	}
	res := runner.Run(ctx, leads.Request{
		RunID:       id,
		Credentials: linkedin.Credentials{Email: p.Email, Password: p.Password},
		Search: linkedin.SearchRequest{
			Term: p.Query,
			Type: linkedin.ParseSearchType(p.Type),
			Filters: linkedin.Filters{
				Industry:    p.Industry,
				Location:    p.Location,
				CompanySize: p.CompanySize,
			},
		},
		NumOfResults:    c.NumOfResults,
		ResearchWebsite: p.ResearchWebsite,
		SaveToGoogle:    p.SaveToGoogle,
		Token:           p.Token,
	})

	var csvPath string
	if len(res.Data) > 0 {
		now := time.Now()
		csvPath = export.Filename(c.OutDir, now)
		if err := export.Write(csvPath, res.Data, now); err != nil {
			logger.Printf("Warning: could not save CSV: %v", err)
			csvPath = ""
		}
	}

	ew.event(streamEvent{
		Type: "done",
		Data: runResponse{
			RunID:     id,
			Result:    res,
			CSVPath:   csvPath,
			StartedAt: start.Format(time.RFC3339),
			EndedAt:   time.Now().Format(time.RFC3339),
		},
	})
}

// handleDownload serves an export from the output directory by file name,
// or the newest export when no name is given. With format=json it returns up
// to limit rows as header-keyed objects instead of the file.
func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	path := export.Latest(s.cfg.OutDir)
	if name := r.URL.Query().Get("path"); name != "" {
		path = filepath.Join(s.cfg.OutDir, filepath.Base(filepath.Clean(name)))
	}
	if path == "" {
		http.Error(w, "no export available", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "export not found", http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := export.Preview(path, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(downloadPreview{File: filepath.Base(path), Rows: rows})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	http.ServeFile(w, r, path)
}

type downloadPreview struct {
	File string              `json:"file"`
	Rows []map[string]string `json:"rows"`
}
