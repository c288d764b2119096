package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rserranon/options-simulator/internal/config"
	apperrors "github.com/rserranon/options-simulator/internal/errors"
	"github.com/rserranon/options-simulator/internal/export"
	"github.com/rserranon/options-simulator/internal/logging"
	"github.com/rserranon/options-simulator/internal/payoff"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

// request is a simulation request decoded from a query string.
type request struct {
	params     payoff.Params
	strategies []payoff.Strategy
	unknown    []string
}

// parseRequest decodes simulation inputs from q, falling back to defaults
// for absent keys. In form mode an unchecked checkbox is absent from the
// query, so absent booleans and strategies mean false and none. Every field
// is decoded even when an earlier one fails; the first error is returned.
func parseRequest(q url.Values, defaults config.DefaultsConfig, form bool) (request, error) {
	var req request
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	var err error
	req.params.Strike, err = floatParam(q, "strike", defaults.Strike)
	keep(err)
	req.params.Premium, err = floatParam(q, "premium", defaults.Premium)
	keep(err)
	req.params.Basis, err = floatParam(q, "basis", defaults.Basis)
	keep(err)
	req.params.ContractSize, err = intParam(q, "contract_size", defaults.ContractSize)
	keep(err)

	boolDefault := func(v bool) bool { return v && !form }
	req.params.PerShare, err = boolParam(q, "per_share", boolDefault(defaults.PerShare))
	keep(err)
	req.params.ShowProfit, err = boolParam(q, "show_profit", boolDefault(defaults.ShowProfit))
	keep(err)

	names, ok := q["strategy"]
	if !ok && !form {
		names = defaults.Strategies
	}
	var split []string
	for _, name := range names {
		split = append(split, strings.Split(name, ",")...)
	}
	req.strategies, req.unknown = payoff.ParseStrategies(split)
	if firstErr != nil && len(req.strategies) == 0 {
		// Same precedence as payoff.Simulate.
		return req, apperrors.ErrEmptySelection
	}
	return req, firstErr
}

func floatParam(q url.Values, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(key, raw, "must be a number")
	}
	return v, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(key, raw, "must be a whole number")
	}
	return v, nil
}

func boolParam(q url.Values, key string, def bool) (bool, error) {
	if _, ok := q[key]; !ok {
		return def, nil
	}
	raw := strings.ToLower(strings.TrimSpace(q.Get(key)))
	switch raw {
	case "", "on":
		return true, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError(key, raw, "must be true or false")
	}
	return v, nil
}

// simulate runs one request and logs it with the request's logger.
func simulate(r *http.Request, req request) (*payoff.Result, error) {
	logger := logging.FromContext(r.Context())
	if len(req.unknown) > 0 {
		logger.Warn().Strs("unknown", req.unknown).Msg("Ignoring unknown strategies")
	}

	start := time.Now()
	result, err := payoff.Simulate(req.params, req.strategies)
	if err != nil {
		logger.Debug().Err(err).Msg("Simulation rejected")
		return nil, err
	}

	names := make([]string, 0, len(result.Payoffs))
	for _, s := range result.Payoffs {
		names = append(names, s.Strategy.String())
	}
	logging.LogSimulation(logger, req.params.Strike, names, len(result.Grid), time.Since(start))
	return result, nil
}

// dashboardView is the data rendered by the dashboard template.
type dashboardView struct {
	Strike       string
	Premium      string
	Basis        string
	ContractSize string
	PerShare     bool
	ShowProfit   bool
	Options      []strategyOption
	Message      string
	Chart        *chartView
	Summaries    []summaryView
}

type strategyOption struct {
	Slug    string
	Name    string
	Checked bool
}

type summaryView struct {
	Name       string
	Color      string
	Best       string
	Worst      string
	Breakevens string
}

// DashboardHandler renders the input form and, below it, either the payoff
// chart or a message explaining why there is none. Rejected inputs are an
// expected interactive state and still answer 200.
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form := q.Get("submitted") != ""
	defaults := s.cfg.Defaults

	view := dashboardView{
		Strike:       formValue(q, "strike", defaults.Strike),
		Premium:      formValue(q, "premium", defaults.Premium),
		Basis:        formValue(q, "basis", defaults.Basis),
		ContractSize: formValue(q, "contract_size", float64(defaults.ContractSize)),
	}

	req, err := parseRequest(q, defaults, form)
	if err == nil {
		var result *payoff.Result
		result, err = simulate(r, req)
		if err == nil {
			chart := buildChart(result)
			view.Chart = &chart
			view.Summaries = summarize(result)
		}
	}
	if err != nil {
		view.Message = apperrors.UserMessage(err)
	}

	view.PerShare, view.ShowProfit = req.params.PerShare, req.params.ShowProfit
	selected := make(map[payoff.Strategy]bool, len(req.strategies))
	for _, st := range req.strategies {
		selected[st] = true
	}
	for _, st := range payoff.All {
		view.Options = append(view.Options, strategyOption{Slug: st.Slug(), Name: st.String(), Checked: selected[st]})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, view); err != nil {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("Failed to render dashboard")
	}
}

// formValue echoes the submitted text so rejected input stays visible.
func formValue(q url.Values, key string, def float64) string {
	if _, ok := q[key]; ok {
		return q.Get(key)
	}
	return strconv.FormatFloat(def, 'f', -1, 64)
}

func summarize(result *payoff.Result) []summaryView {
	out := make([]summaryView, 0, len(result.Payoffs))
	for i, sum := range result.Summaries() {
		breakevens := "none"
		if len(sum.Breakevens) > 0 {
			parts := make([]string, len(sum.Breakevens))
			for j, b := range sum.Breakevens {
				parts[j] = "$" + strconv.FormatFloat(b, 'f', 2, 64)
			}
			breakevens = strings.Join(parts, ", ")
		}
		out = append(out, summaryView{
			Name:       sum.Strategy.String(),
			Color:      seriesColor(i),
			Best:       formatMoney(sum.Max.Value) + " at $" + strconv.FormatFloat(sum.Max.Price, 'f', 2, 64),
			Worst:      formatMoney(sum.Min.Value) + " at $" + strconv.FormatFloat(sum.Min.Price, 'f', 2, 64),
			Breakevens: breakevens,
		})
	}
	return out
}

// PayoffHandler returns the simulation as JSON.
func (s *Server) PayoffHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r.URL.Query(), s.cfg.Defaults, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := simulate(r, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, export.NewDocument(result), logging.FromContext(r.Context()))
}

// StrategiesHandler lists the available strategies.
func (s *Server) StrategiesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, payoff.Catalog(), logging.FromContext(r.Context()))
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Message: apperrors.UserMessage(err)}, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
	}
}
