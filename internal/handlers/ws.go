package handlers

import (
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/sessions"
)

func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

func parseInts(args []string) ([]int, error) {
	ints := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d must be an int", ErrBadRequest, i+1)
		}
		ints[i] = n
	}
	return ints, nil
}

// Command is one line of the websocket protocol:
//
//	g              get the current state
//	o <index>      reveal a cell by index
//	o <row> <col>  reveal a cell by position
type Command struct {
	Name   string
	Reveal *RevealDTO
}

func ParseCommand(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", ErrBadRequest)
	}

	switch parts[0] {
	case "g":
		if len(parts) != 1 {
			return Command{}, fmt.Errorf("%w: invalid number of arguments", ErrBadRequest)
		}
		return Command{Name: "g"}, nil
	case "o":
		args, err := parseInts(parts[1:])
		if err != nil {
			return Command{}, err
		}
		switch len(args) {
		case 1:
			return Command{Name: "o", Reveal: &RevealDTO{Index: &args[0]}}, nil
		case 2:
			return Command{Name: "o", Reveal: &RevealDTO{Row: &args[0], Col: &args[1]}}, nil
		default:
			return Command{}, fmt.Errorf("%w: invalid number of arguments", ErrBadRequest)
		}
	}
	return Command{}, fmt.Errorf("%w: unknown command %q", ErrBadRequest, parts[0])
}

type WSReply struct {
	Session  *GameSessionDTO `json:"session,omitempty"`
	Revealed []int           `json:"revealed,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, err := g.authorizedSession(r)
	if err != nil {
		g.sendError(w, err)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	log := g.log.WithField("session", session.ID)

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		log.Debugf("\t> %s", text)

		reply := g.execute(r, session, text)
		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Error("unable to write json")
			break
		}
		log.Debug("\t< <session data>")
	}
}

// execute runs every line of a message in order and stops at the first
// failing command.
func (g GameHandler) execute(r *http.Request, session *sessions.Session, text string) WSReply {
	var reply WSReply
	for _, line := range iterBySep(text, "\n") {
		cmd, err := ParseCommand(line)
		if err != nil {
			reply.Error = err.Error()
			break
		}
		if cmd.Reveal == nil {
			continue
		}
		var res mines.Result
		res, _, err = g.reveal(r.Context(), session, *cmd.Reveal)
		reply.Revealed = append(reply.Revealed, res.Revealed...)
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				g.log.WithError(err).Error("unable to process command")
				err = errors.New("internal error")
			}
			reply.Error = err.Error()
			break
		}
	}
	reply.Session = NewGameSessionDTO(session.Snapshot())
	return reply
}
