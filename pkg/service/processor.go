package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/priyakud/zeplens/pkg/config"
	"github.com/priyakud/zeplens/pkg/dom"
	"github.com/priyakud/zeplens/pkg/ledger"
	"github.com/priyakud/zeplens/pkg/models"
	"github.com/priyakud/zeplens/pkg/scrape"
	"github.com/priyakud/zeplens/pkg/store"
)

// ErrSourceMismatch is returned when a scan source fails the domain
// precondition. No extraction runs and no state is touched.
var ErrSourceMismatch = errors.New("source does not match the configured domain hint")

// Processor orchestrates one scan pass: source precondition, snapshot load,
// extraction, and the merge into the persisted ledger. One Processor handles
// one scan at a time; the CLI and server both call it sequentially.
type Processor struct {
	config  *config.Config
	logger  *log.Logger
	scraper *scrape.Scraper
	ledger  *ledger.Ledger
}

func NewProcessor(cfg *config.Config, logger *log.Logger, st store.Store) *Processor {
	return &Processor{
		config:  cfg,
		logger:  logger,
		scraper: scrape.New(logger),
		ledger:  ledger.New(st, logger),
	}
}

// Ledger exposes the processor's ledger for read and clear paths.
func (p *Processor) Ledger() *ledger.Ledger {
	return p.ledger
}

// Result reports the outcome of one scan pass. Duplicates counts extracted
// orders that were already in the ledger (or repeated within the batch).
type Result struct {
	Source     string
	Orders     []models.Order
	Added      int
	Duplicates int
}

// ScanSource runs one extraction pass against a snapshot file or URL. The
// source string must contain the configured domain hint; a mismatch is a
// user-facing rejection, not a scan failure. An empty yield returns a Result
// with no orders and mutates nothing.
func (p *Processor) ScanSource(ctx context.Context, source string) (*Result, error) {
	if hint := strings.ToLower(p.config.DomainHint); hint != "" && !strings.Contains(strings.ToLower(source), hint) {
		return nil, fmt.Errorf("%q: %w (open the %s order-history page and save or pass it)",
			source, ErrSourceMismatch, p.config.DomainHint)
	}

	body, err := p.openSource(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return p.ScanReader(ctx, source, body)
}

// ScanReader extracts orders from an already-opened snapshot and merges them
// into the ledger. label only identifies the source in logs and results.
func (p *Processor) ScanReader(ctx context.Context, label string, r io.Reader) (*Result, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", label, err)
	}

	result := &Result{Source: label, Orders: p.scraper.Extract(doc)}
	if len(result.Orders) == 0 {
		p.logger.Info("no orders found", "source", label)
		return result, nil
	}

	added, _, err := p.ledger.Merge(ctx, result.Orders)
	if err != nil {
		return nil, err
	}
	result.Added = added
	result.Duplicates = len(result.Orders) - added

	p.logger.Info("scan complete",
		"source", label,
		"found", len(result.Orders),
		"added", result.Added,
		"duplicates", result.Duplicates)
	return result, nil
}

func (p *Processor) openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: unexpected status %s", source, resp.Status)
		}
		return resp.Body, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	return f, nil
}
