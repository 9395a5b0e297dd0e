package http

import (
	"net/http"
	"strings"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/services"
)

// handleTransactions serves a page of the unified feed.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pageSize, err := queryInt(r, "page_size", 20)
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}

	feed, err := s.ledger.Transactions(r.Context(), services.FeedRequest{
		Owner:    ownerFrom(r),
		Page:     page,
		PageSize: pageSize,
		From:     from,
		To:       to,
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		View:     strings.TrimSpace(r.URL.Query().Get("view")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewFeed(feed))
}

// handleDashboard serves the chartable per-period series. Granularity
// defaults to monthly buckets.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	granularity := strings.TrimSpace(r.URL.Query().Get("granularity"))
	if granularity == "" {
		granularity = string(core.ByMonth)
	}

	rows, err := s.ledger.Aggregate(r.Context(), services.AggregateRequest{
		Owner:       ownerFrom(r),
		Period:      services.Period(strings.TrimSpace(r.URL.Query().Get("period"))),
		Year:        year,
		Granularity: core.Granularity(granularity),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewChart(rows))
}

// handleSummary serves balance, invested total and net worth.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.NetWorth(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewSummary(summary))
}
