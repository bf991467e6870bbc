package leads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"LinkedinLeads/internal/browser"
	"LinkedinLeads/internal/linkedin"
	"LinkedinLeads/internal/metrics"
	"LinkedinLeads/internal/notify"
	"LinkedinLeads/internal/redact"
	"LinkedinLeads/internal/website"
)

const (
	defaultMaxIdleSearches = 5
	defaultWebsiteTimeout  = 10 * time.Second
	notifyTimeout          = 10 * time.Second
)

var (
	errLoggedLeads = errors.New("read logged leads")
	errSave        = errors.New("save lead")
)

// Runner executes runs. Each call to Run opens its own browser session, so
// one Runner may serve concurrent runs.
type Runner struct {
	Browser browser.Opener
	// Client configures the LinkedIn client of each run. Its Logger is
	// replaced by the Runner's.
	Client linkedin.Options
	// NewEngine builds the engine for a session. Defaults to linkedin.New.
	NewEngine func(s browser.Session, opts linkedin.Options) Engine

	Website WebsiteResearcher
	// LeadLogs opens the lead log for a Google access token. It returns a
	// nil LeadLog when there are no credentials to save with.
	LeadLogs func(ctx context.Context, token string) (LeadLog, error)
	Notifier Notifier
	Metrics  *metrics.Recorder
	// Limiter paces company profile visits. Nil means no pacing.
	Limiter *rate.Limiter

	// MaxIdleSearches ends a run after that many consecutive searches found
	// no new company. Defaults to 5.
	MaxIdleSearches int
	WebsiteTimeout  time.Duration
	Logger          *log.Logger
}

// run is the state of one Run call.
type run struct {
	*Runner
	req     Request
	logger  *log.Logger
	engine  Engine
	leadLog LeadLog
	agg     *Aggregate
	saved   int
}

// Run performs one crawl. It always returns a Result; failures are reported
// in Status, Message and Err along with the leads found before them.
func (r *Runner) Run(ctx context.Context, req Request) Result {
	start := time.Now()
	base := r.Logger
	if base == nil {
		base = log.Default()
	}
	secrets := []string{req.Token, req.Credentials.Password}
	logger := log.New(redact.Writer(base.Writer(), secrets...), base.Prefix(), base.Flags())
	rn := &run{Runner: r, req: req, logger: logger, agg: NewAggregate()}

	logger.Printf("▶️ leads: run %s for %q (type %q, filters %+v), %d results, website=%t, google=%t",
		req.RunID, req.Search.Term, req.Search.Type, req.Search.Filters, req.NumOfResults, req.ResearchWebsite, req.SaveToGoogle)

	res := rn.execute(ctx)
	res.Data = rn.agg.Leads()
	res.Saved = rn.saved
	if res.Err != nil {
		res.Error = redact.Secrets(res.Err.Error(), secrets...)
	}
	logger.Printf("leads: run %s finished with %d leads: status=%t %s", req.RunID, len(res.Data), res.Status, res.Message)

	r.Metrics.Run(ctx, res.Status)
	r.notify(ctx, logger, notify.Summary{
		RunID:    req.RunID,
		Term:     req.Search.Term,
		Status:   res.Status,
		Message:  res.Message,
		Leads:    len(res.Data),
		Saved:    rn.saved,
		Duration: time.Since(start),
	})
	return res
}

func (rn *run) execute(ctx context.Context) Result {
	if rn.req.SaveToGoogle {
		if res, ok := rn.openLeadLog(ctx); !ok {
			return res
		}
	}

	session, err := rn.Browser.Open(ctx)
	if err != nil {
		return Result{Message: MsgDriverUnavailable, Err: err}
	}
	defer func() {
		if err := session.Quit(); err != nil {
			rn.logger.Printf("leads: closing browser: %v", err)
		}
	}()

	opts := rn.Client
	opts.Logger = rn.logger
	if rn.NewEngine != nil {
		rn.engine = rn.NewEngine(session, opts)
	} else {
		rn.engine = linkedin.New(session, opts)
	}

	if err := rn.engine.Authenticate(ctx, rn.req.Credentials); err != nil {
		return rn.failure(ctx, MsgLoginFailed, err)
	}
	return rn.crawl(ctx)
}

func (rn *run) openLeadLog(ctx context.Context) (Result, bool) {
	var (
		ll  LeadLog
		err error
	)
	if rn.LeadLogs != nil {
		ll, err = rn.LeadLogs(ctx, rn.req.Token)
	}
	if err != nil {
		return Result{Message: MsgLoggedLeadsFailed, Err: err}, false
	}
	if ll == nil {
		rn.logger.Printf("leads: no Google credentials, not saving to Google")
		return Result{}, true
	}
	rn.leadLog = ll
	return Result{}, true
}

// crawl searches until the aggregate holds NumOfResults leads, a search
// reports a legitimate negative, or searches stop finding new companies.
func (rn *run) crawl(ctx context.Context) Result {
	maxIdle := rn.MaxIdleSearches
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleSearches
	}

	idle := 0
	for rn.agg.Len() < rn.req.NumOfResults {
		rn.logger.Printf("leads: %d of %d leads gathered", rn.agg.Len(), rn.req.NumOfResults)

		out, err := rn.engine.Search(ctx, rn.req.Search)
		if err != nil {
			rn.Metrics.Search(ctx, "error")
			return rn.failure(ctx, MsgSearchFailed, err)
		}
		if !out.Success {
			rn.Metrics.Search(ctx, outcomeSlug(out.Reason))
			rn.logger.Printf("leads: search stopped: %s", out.Reason)
			return Result{Status: true, Message: out.Reason}
		}
		rn.Metrics.Search(ctx, "links")

		added, res, ok := rn.researchAll(ctx, out.Links)
		if !ok {
			return res
		}
		if added > 0 {
			idle = 0
			continue
		}
		idle++
		rn.logger.Printf("leads: search found no new companies (%d of %d)", idle, maxIdle)
		if idle >= maxIdle {
			return Result{Status: true, Message: MsgExhausted}
		}
	}
	return Result{Status: true}
}

// researchAll visits the result links in order and returns how many new
// titles they added. ok is false when the run has to stop with res.
func (rn *run) researchAll(ctx context.Context, links []string) (added int, res Result, ok bool) {
	for _, href := range links {
		if rn.agg.Len() >= rn.req.NumOfResults {
			break
		}
		if rn.Limiter != nil {
			if err := rn.Limiter.Wait(ctx); err != nil {
				return added, rn.failure(ctx, MsgCancelled, err), false
			}
		}

		rec, err := rn.engine.ResearchCompany(ctx, href)
		if err != nil {
			if ctx.Err() != nil {
				return added, rn.failure(ctx, MsgCancelled, err), false
			}
			rn.logger.Printf("leads: skipping %s: %v", href, err)
			rn.Metrics.Profile(ctx, "skipped")
			continue
		}
		rn.Metrics.Profile(ctx, "ok")
		rn.Metrics.Employees(ctx, len(rec.Employees))
		if rec.Title == "" {
			continue
		}

		lead := Lead{CompanyRecord: rec, ProfileURL: href}
		if rn.req.ResearchWebsite && rec.Website != "" && rn.Website != nil {
			lead.WebsiteScrape = rn.researchWebsite(ctx, rec.Website)
		}
		if prev, seen := rn.agg.Get(rec.Title); seen {
			rn.logger.Printf("leads: %s seen again (was %s), keeping the latest profile", rec.Title, prev.ProfileURL)
		}
		if rn.agg.Put(lead) {
			added++
		}

		if rn.leadLog != nil {
			if err := rn.save(ctx, lead); err != nil {
				msg := MsgSaveFailed
				if errors.Is(err, errLoggedLeads) {
					msg = MsgLoggedLeadsFailed
				}
				return added, rn.failure(ctx, msg, err), false
			}
		}
	}
	return added, Result{}, true
}

func (rn *run) researchWebsite(ctx context.Context, site string) *website.Info {
	timeout := rn.WebsiteTimeout
	if timeout <= 0 {
		timeout = defaultWebsiteTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rn.logger.Printf("leads: researching website %s", site)
	info, err := rn.Website.Research(ctx, site)
	if err != nil {
		rn.logger.Printf("leads: could not get website data for %s: %v", site, err)
		return nil
	}
	return info
}

// save appends lead to the lead log unless its title is already logged.
func (rn *run) save(ctx context.Context, lead Lead) error {
	logged, err := rn.leadLog.LoggedLeads(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", errLoggedLeads, err)
	}
	if slices.Contains(logged, lead.Title) {
		rn.logger.Printf("leads: %q is already saved in Google", lead.Title)
		return nil
	}
	if err := rn.leadLog.Append(ctx, lead.CompanyRecord, lead.WebsiteScrape); err != nil {
		return fmt.Errorf("%w: %w", errSave, err)
	}
	rn.saved++
	rn.Metrics.Saved(ctx)
	rn.logger.Printf("💾 leads: saved %q to Google", lead.Title)
	return nil
}

// failure reports err under msg, or as a cancellation when ctx is done.
func (rn *run) failure(ctx context.Context, msg string, err error) Result {
	if ctx.Err() != nil {
		return Result{Message: MsgCancelled, Err: err}
	}
	rn.logger.Printf("leads: %s %v", msg, err)
	return Result{Message: msg, Err: err}
}

func (r *Runner) notify(ctx context.Context, logger *log.Logger, sum notify.Summary) {
	if r.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := r.Notifier.Notify(ctx, sum); err != nil {
		logger.Printf("leads: %v", err)
	}
}

func outcomeSlug(reason string) string {
	switch reason {
	case linkedin.ReasonNoResults:
		return "no_results"
	case linkedin.ReasonNoMoreResults:
		return "no_more_results"
	default:
		return "negative"
	}
}
