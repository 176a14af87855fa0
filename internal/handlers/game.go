package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
	"github.com/vancomm/sweeper/internal/sessions"
)

const ticketHeader = "X-Session-Ticket"

type GameHandler struct {
	log      logrus.FieldLogger
	sessions *sessions.Store
	scores   repository.Scores
	tickets  *config.TicketIssuer
	ws       *config.WebSocket
	dec      *schema.Decoder
	maxCells int
}

func NewGameHandler(
	log logrus.FieldLogger,
	store *sessions.Store,
	scores repository.Scores,
	tickets *config.TicketIssuer,
	ws *config.WebSocket,
	maxCells int,
) *GameHandler {
	if maxCells <= 0 {
		maxCells = config.DefaultMaxCells
	}
	return &GameHandler{
		log:      log,
		sessions: store,
		scores:   scores,
		tickets:  tickets,
		ws:       ws,
		dec:      newDecoder(),
		maxCells: maxCells,
	}
}

func ticketFrom(r *http.Request) string {
	if ticket := r.Header.Get(ticketHeader); ticket != "" {
		return ticket
	}
	return r.URL.Query().Get("ticket")
}

func (g GameHandler) session(r *http.Request) (*sessions.Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sessions.ErrNotFound, err)
	}
	return g.sessions.Get(id)
}

// authorizedSession loads the session named in the path and checks the
// caller holds its ticket.
func (g GameHandler) authorizedSession(r *http.Request) (*sessions.Session, error) {
	session, err := g.session(r)
	if err != nil {
		return nil, err
	}
	if err := g.tickets.Verify(ticketFrom(r), session.ID.String()); err != nil {
		return nil, err
	}
	return session, nil
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	var dto NewGameDTO
	if err := decode(g.dec, &dto, r.URL.Query()); err != nil {
		g.sendError(w, err)
		return
	}

	if err := dto.Check(g.maxCells); err != nil {
		g.sendError(w, err)
		return
	}

	session, err := g.sessions.Create(dto.Params())
	if err != nil {
		g.sendError(w, err)
		return
	}

	ticket, err := g.tickets.Sign(session.ID.String())
	if err != nil {
		g.sendError(w, fmt.Errorf("unable to sign ticket: %w", err))
		return
	}

	g.log.WithFields(logrus.Fields{
		"session": session.ID,
		"params":  dto.Params().String(),
	}).Info("new game")

	w.Header().Set(ticketHeader, ticket)
	sendJSONOrLog(w, g.log, http.StatusCreated, NewGameResponse{
		Session: NewGameSessionDTO(session.Snapshot()),
		Ticket:  ticket,
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, err := g.session(r)
	if err != nil {
		g.sendError(w, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(session.Snapshot()))
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	session, err := g.authorizedSession(r)
	if err != nil {
		g.sendError(w, err)
		return
	}

	var dto RevealDTO
	if err := decode(g.dec, &dto, r.URL.Query()); err != nil {
		g.sendError(w, err)
		return
	}

	res, snap, err := g.reveal(r.Context(), session, dto)
	if err != nil {
		g.sendError(w, err)
		return
	}

	sendJSONOrLog(w, g.log, http.StatusOK, RevealResponse{
		Session:  NewGameSessionDTO(snap),
		Revealed: res.Revealed,
	})
}

func (g GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, err := g.authorizedSession(r)
	if err != nil {
		g.sendError(w, err)
		return
	}
	g.sessions.Delete(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (g GameHandler) reveal(
	ctx context.Context, session *sessions.Session, dto RevealDTO,
) (mines.Result, sessions.Snapshot, error) {
	index, err := dto.Resolve(session.Params())
	if err != nil {
		return mines.Result{}, sessions.Snapshot{}, err
	}

	res, snap, err := session.Reveal(index)
	if err != nil {
		return res, snap, err
	}

	if res.Outcome.Terminal() {
		g.record(ctx, snap)
	}
	return res, snap, nil
}

// record stores the result of a game that just ended. A failure here does
// not undo the reveal, so it is only logged.
func (g GameHandler) record(ctx context.Context, snap sessions.Snapshot) {
	log := g.log.WithFields(logrus.Fields{
		"session": snap.ID,
		"outcome": snap.Outcome.String(),
		"elapsed": snap.Elapsed.String(),
	})
	log.Info("game over")

	err := g.scores.Record(ctx, repository.Score{
		SessionID:  snap.ID.String(),
		Rows:       snap.Params.Rows,
		Cols:       snap.Params.Cols,
		MineCount:  snap.Params.MineCount,
		Won:        snap.Outcome == mines.Won,
		ElapsedMs:  snap.Elapsed.Milliseconds(),
		FinishedAt: snap.EndedAt,
	})
	if errors.Is(err, repository.ErrAlreadyRecorded) {
		log.Debug("score already recorded")
	} else if err != nil {
		log.WithError(err).Error("unable to record score")
	}
}

func (g GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	var dto HighscoresDTO
	if err := decode(g.dec, &dto, r.URL.Query()); err != nil {
		g.sendError(w, err)
		return
	}
	params, err := dto.Params()
	if err != nil {
		g.sendError(w, err)
		return
	}

	scores, err := g.scores.Highscores(r.Context(), repository.Filter{
		Params: params,
		Limit:  dto.Limit,
	})
	if err != nil {
		g.sendError(w, fmt.Errorf("unable to fetch highscores: %w", err))
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, scores)
}
