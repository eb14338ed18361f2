package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/party-bet-platform/internal/betting"
	"github.com/radieske/party-bet-platform/internal/httpapi/dto"
)

// Directory é o recorte do diretório de usuários que a API usa diretamente
// (registro e perfil); o restante passa pelo engine.
type Directory interface {
	Upsert(ctx context.Context, name, phone string) (*betting.User, bool, error)
	UserByID(ctx context.Context, id string) (*betting.User, error)
}

// Server expõe a superfície REST do party-bet-service. O WebSocket fica fora
// daqui (ws.Hub é montado pelo main no mesmo listener).
type Server struct {
	log    *zap.Logger
	engine *betting.Engine
	users  Directory
}

func NewServer(log *zap.Logger, engine *betting.Engine, users Directory) *Server {
	return &Server{log: log, engine: engine, users: users}
}

// Router retorna o roteador HTTP com os endpoints REST
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.registerUser)    // registro ou restore por telefone
		r.Get("/users/{id}", s.userProfile) // perfil + contadores individuais

		r.Post("/bets", s.createBet)
		r.Get("/bets", s.listBets)
		r.Get("/bets/{id}", s.getBet)
		r.Post("/bets/{id}/accept", s.acceptBet)
		r.Post("/bets/{id}/cancel", s.cancelBet)
		r.Post("/bets/{id}/resolve", s.resolveBet)
		r.Post("/bets/{id}/complete", s.completeBet)

		r.Delete("/bets/{id}/admin-delete", s.adminDeleteBet)
		r.Post("/bets/{id}/admin-undo-accept", s.adminUndoAccept)

		r.Get("/leaderboard", s.leaderboard)
		r.Get("/stats", s.stats)
	})

	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mapeia a taxonomia de domínio para status HTTP:
// validation/invalid_state -> 400, not_found -> 404, forbidden -> 403.
// Erros fora da taxonomia são falha de infraestrutura -> 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind, ok := betting.KindOf(err)
	if !ok {
		s.log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	status := http.StatusBadRequest
	switch kind {
	case betting.KindNotFound:
		status = http.StatusNotFound
	case betting.KindForbidden:
		status = http.StatusForbidden
	}
	writeJSON(w, status, dto.ErrorResponse{Message: err.Error()})
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if !decode(r, &req) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "bad json"})
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Name and phone are required"})
		return
	}

	phone, err := betting.NormalizePhone(req.Phone)
	if err != nil {
		s.writeError(w, err)
		return
	}

	user, created, err := s.users.Upsert(r.Context(), req.Name, phone)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, userResponse(user))
}

func (s *Server) userProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := s.users.UserByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
		return
	}

	stats, err := s.engine.UserStats(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserProfileResponse{
		User:  userResponse(user),
		Stats: stats,
	})
}

func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBetRequest
	if !decode(r, &req) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "bad json"})
		return
	}

	bet, err := s.engine.Create(r.Context(), req.Proposition, req.Stake, betting.Side(req.CreatorSide), req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bet)
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	f := betting.BetFilter{
		Status:        betting.Status(r.URL.Query().Get("status")),
		ParticipantID: r.URL.Query().Get("userId"),
	}

	bets, err := s.engine.List(r.Context(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BetListResponse{Bets: bets})
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	bet, err := s.engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) acceptBet(w http.ResponseWriter, r *http.Request) {
	var req dto.ActionRequest
	if !decode(r, &req) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "bad json"})
		return
	}

	bet, err := s.engine.Accept(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) cancelBet(w http.ResponseWriter, r *http.Request) {
	var req dto.ActionRequest
	if !decode(r, &req) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "bad json"})
		return
	}

	bet, err := s.engine.Cancel(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) resolveBet(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveBetRequest
	if !decode(r, &req) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "bad json"})
		return
	}

	bet, err := s.engine.Resolve(r.Context(), chi.URLParam(r, "id"), req.UserID, betting.Side(req.Outcome))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) completeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.ActionRequest
	if !decode(r, &req) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "bad json"})
		return
	}

	bet, err := s.engine.Complete(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) adminDeleteBet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.engine.AdminDelete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DeleteBetResponse{Message: "Bet deleted", ID: id})
}

func (s *Server) adminUndoAccept(w http.ResponseWriter, r *http.Request) {
	bet, err := s.engine.AdminUndoAccept(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.engine.Leaderboard(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LeaderboardResponse{Leaderboard: entries})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func userResponse(u *betting.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
