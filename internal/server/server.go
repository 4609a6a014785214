// Package server exposes the policy engine over an HTTP JSON API for the
// claims platform. The engine stays pure; this layer owns I/O: persistence,
// the audit log, the review queue, webhook alerts, and policy hot-reload.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimgate/internal/alert"
	"github.com/ppiankov/claimgate/internal/audit"
	"github.com/ppiankov/claimgate/internal/ingest"
	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/policy"
	"github.com/ppiankov/claimgate/internal/review"
	"github.com/ppiankov/claimgate/internal/store"
)

// Config holds HTTP server configuration.
type Config struct {
	Port         int
	PolicyPath   string
	AuditLogPath string
	DatabasePath string
	ReviewDir    string
}

// Server serves claim evaluations over HTTP. Policy config is swapped
// atomically on hot-reload; requests in flight keep the config they started
// with.
type Server struct {
	mu         sync.RWMutex
	policyCfg  *policy.Config
	policyHash string
	dispatcher *alert.Dispatcher

	cfg      Config
	reviews  *review.Store
	auditLog *audit.Log
	db       *store.Store
	log      *zap.Logger

	srv *http.Server
}

// New creates a server with loaded policy, review store, and database.
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	policyCfg, policyHash, err := policy.LoadConfigWithHash(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy config: %w", err)
	}

	reviewDir := cfg.ReviewDir
	if reviewDir == "" {
		reviewDir = review.DefaultDir()
	}
	reviews, err := review.NewStore(reviewDir)
	if err != nil {
		return nil, fmt.Errorf("create review store: %w", err)
	}
	reviews.Cleanup()

	var auditLog *audit.Log
	if cfg.AuditLogPath != "" {
		auditLog, err = audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
	}

	var db *store.Store
	if cfg.DatabasePath != "" {
		db, err = store.Open(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		policyCfg:  policyCfg,
		policyHash: policyHash,
		dispatcher: alert.NewDispatcher(policyCfg.Alerts),
		cfg:        cfg,
		reviews:    reviews,
		auditLog:   auditLog,
		db:         db,
		log:        logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/assess", s.handleAssess)
	mux.HandleFunc("GET /v1/assessments/{id}", s.handleGet)
	mux.HandleFunc("POST /v1/assessments/{id}/override", s.handleOverride)
	mux.HandleFunc("GET /v1/policy", s.handlePolicy)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start begins serving. Blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("server listening",
		zap.String("addr", s.srv.Addr),
		zap.String("policy_hash", s.policyHash))

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	if s.auditLog != nil {
		s.auditLog.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return err
}

// ReloadPolicy re-reads the policy file and swaps it in atomically.
func (s *Server) ReloadPolicy() error {
	policyCfg, policyHash, err := policy.LoadConfigWithHash(s.cfg.PolicyPath)
	if err != nil {
		return fmt.Errorf("reload policy config: %w", err)
	}

	s.mu.Lock()
	s.policyCfg = policyCfg
	s.policyHash = policyHash
	s.dispatcher = alert.NewDispatcher(policyCfg.Alerts)
	s.mu.Unlock()

	s.log.Info("policy reloaded", zap.String("policy_hash", policyHash))
	return nil
}

func (s *Server) snapshot() (*policy.Config, string, *alert.Dispatcher) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policyCfg, s.policyHash, s.dispatcher
}

// AssessResponse is the body returned by POST /v1/assess.
type AssessResponse struct {
	AssessmentID string           `json:"assessment_id,omitempty"`
	ClaimID      string           `json:"claim_id"`
	PolicyHash   string           `json:"policy_hash"`
	Result       model.Evaluation `json:"result"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	payload, err := ingest.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := ingest.Validate(payload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	cfg, hash, dispatcher := s.snapshot()

	ev, err := policy.Evaluate(payload.Parts(), payload.Context(), cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := AssessResponse{ClaimID: payload.ClaimID, PolicyHash: hash, Result: ev}

	if s.db != nil {
		id, err := s.db.SaveEvaluation(payload.ClaimID, ev)
		if err != nil {
			s.log.Error("save evaluation", zap.Error(err), zap.String("claim_id", payload.ClaimID))
		} else {
			resp.AssessmentID = id
		}
	}

	s.recordAudit(payload.ClaimID, "evaluation", ev, hash)
	s.enqueueReview(payload.ClaimID, ev)
	s.fireAlerts(dispatcher, cfg, payload.ClaimID, ev, hash, "")

	s.log.Info("claim assessed",
		zap.String("claim_id", payload.ClaimID),
		zap.String("recommendation", string(ev.Assessment.Recommendation.Code)),
		zap.Int64("total_max", ev.Assessment.TotalMax),
		zap.Float64("fraud_risk", ev.Assessment.FraudRiskScore))

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotImplemented, "no database configured")
		return
	}
	rec, err := s.db.GetEvaluation(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// OverrideRequest is the body for POST /v1/assessments/{id}/override.
type OverrideRequest struct {
	UserID    string            `json:"user_id"`
	PartIndex int               `json:"part_index"`
	Part      model.DamagedPart `json:"part"`
}

// OverrideResponse reports the recomputed evaluation and whether the human
// correction moved the totals enough to matter for model retraining.
type OverrideResponse struct {
	OverrideID  string           `json:"override_id,omitempty"`
	Significant bool             `json:"significant"`
	Result      model.Evaluation `json:"result"`
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotImplemented, "no database configured")
		return
	}

	id := r.PathValue("id")
	rec, err := s.db.GetEvaluation(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decode body: "+err.Error())
		return
	}

	cfg, hash, dispatcher := s.snapshot()

	before := rec.Result.Assessment
	pctx := &model.PolicyContext{
		ClaimID:      rec.ClaimID,
		UserID:       req.UserID,
		ModelVersion: before.Meta.ModelVersion,
		BatchID:      before.Meta.BatchID,
	}

	ev, err := policy.ReplacePart(before, req.PartIndex, req.Part, pctx, cfg)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	significant := policy.SignificantOverride(before, ev.Assessment, cfg)

	overrideID, err := s.db.RecordOverride(id, req.UserID, req.PartIndex, significant, rec.Result, ev)
	if err != nil {
		s.log.Error("record override", zap.Error(err), zap.String("assessment_id", id))
	}

	s.recordAudit(rec.ClaimID, "override", ev, hash)
	if significant {
		s.fireAlerts(dispatcher, cfg, rec.ClaimID, ev, hash, "significant_override")
	}

	s.log.Info("part overridden",
		zap.String("claim_id", rec.ClaimID),
		zap.String("assessment_id", id),
		zap.Int("part_index", req.PartIndex),
		zap.Bool("significant", significant))

	writeJSON(w, http.StatusOK, OverrideResponse{
		OverrideID:  overrideID,
		Significant: significant,
		Result:      ev,
	})
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	_, hash, _ := s.snapshot()
	writeJSON(w, http.StatusOK, map[string]string{
		"policy_hash": hash,
		"policy_path": s.cfg.PolicyPath,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) recordAudit(claimID, event string, ev model.Evaluation, hash string) {
	if s.auditLog == nil {
		return
	}
	entry := audit.AuditEntry{
		ClaimID:        claimID,
		Event:          event,
		Recommendation: string(ev.Assessment.Recommendation.Code),
		AssignTo:       string(ev.Routing.AssignTo),
		Flags:          flagStrings(ev.Assessment.Flags),
		TotalMin:       ev.Assessment.TotalMin,
		TotalMax:       ev.Assessment.TotalMax,
		Confidence:     ev.Assessment.OverallConfidence,
		FraudRisk:      ev.Assessment.FraudRiskScore,
		PolicyHash:     hash,
	}
	if err := s.auditLog.Record(entry); err != nil {
		s.log.Error("audit record", zap.Error(err), zap.String("claim_id", claimID))
	}
}

// enqueueReview puts non-fast-track claims in the pending review queue so a
// human can approve or deny them out of band.
func (s *Server) enqueueReview(claimID string, ev model.Evaluation) {
	code := ev.Assessment.Recommendation.Code
	if code == model.CodeFastTrackReview {
		return
	}
	err := s.reviews.Enqueue(
		claimID,
		string(code),
		ev.Assessment.Recommendation.Text,
		string(ev.Routing.AssignTo),
		ev.Routing.Priority,
		ev.Assessment.TotalMax,
	)
	if err != nil {
		s.log.Error("enqueue review", zap.Error(err), zap.String("claim_id", claimID))
	}
}

func (s *Server) fireAlerts(d *alert.Dispatcher, cfg *policy.Config, claimID string, ev model.Evaluation, hash, eventType string) {
	event := alert.AlertEvent{
		Timestamp:      time.Now().UTC().Format(audit.TimestampFormat),
		ClaimID:        claimID,
		Recommendation: string(ev.Assessment.Recommendation.Code),
		Reason:         ev.Assessment.Recommendation.Text,
		AssignTo:       string(ev.Routing.AssignTo),
		Priority:       ev.Routing.Priority,
		TotalMax:       ev.Assessment.TotalMax,
		FraudRisk:      ev.Assessment.FraudRiskScore,
		PolicyHash:     hash,
		Type:           eventType,
	}
	d.Dispatch(event)

	if eventType == "" && ev.Assessment.FraudRiskScore > cfg.Compliance.SIUFraudScore {
		fraudEvent := event
		fraudEvent.Type = "fraud_review"
		fraudEvent.Reason = fmt.Sprintf("fraud risk score %.2f exceeds %.2f",
			ev.Assessment.FraudRiskScore, cfg.Compliance.SIUFraudScore)
		d.Dispatch(fraudEvent)
	}
}

func flagStrings(flags []model.RiskFlag) []string {
	if len(flags) == 0 {
		return nil
	}
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(msg)})
}
