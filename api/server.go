package api

import (
	"context"
	"errors"
	"fmt"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-maze-runner/game"
	"github.com/beka-birhanu/vinom-maze-runner/service"
	"github.com/beka-birhanu/vinom-maze-runner/service/i"
	"github.com/google/uuid"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type Server struct {
	gameSessionManager i.GameSessionManager
	logger             general_i.Logger

	UnimplementedSessionServer
}

func RegisterNewGameSessionManager(gsr grpc.ServiceRegistrar, gsm i.GameSessionManager, l general_i.Logger) error {
	if gsm == nil {
		return errors.New("nil game session manager")
	}
	server := &Server{
		gameSessionManager: gsm,
		logger:             l,
	}

	RegisterSessionServer(gsr, server)
	return nil
}

func (s *Server) NewSession(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	id, err := s.gameSessionManager.NewSession()
	if err != nil {
		if errors.Is(err, service.ErrTooManySessions) {
			return nil, status.Error(codes.ResourceExhausted, err.Error())
		}
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]interface{}{"session_id": id.String()})
}

func (s *Server) StartNewGame(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	gs, err := s.session(r)
	if err != nil {
		return nil, err
	}
	snapshot, err := gs.NewGame()
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(stateFields(snapshot))
}

func (s *Server) Move(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	gs, err := s.session(r)
	if err != nil {
		return nil, err
	}

	token := r.GetFields()["direction"].GetStringValue()
	direction, ok := game.ParseDirection(token)
	if !ok {
		s.logger.Warning(fmt.Sprintf("rejected move with direction %q", token))
		return nil, status.Errorf(codes.InvalidArgument, "invalid direction %q", token)
	}

	snapshot, moved, err := gs.Move(direction)
	if err != nil {
		return nil, toStatus(err)
	}
	fields := stateFields(snapshot)
	fields["moved"] = moved
	return structpb.NewStruct(fields)
}

func (s *Server) State(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	gs, err := s.session(r)
	if err != nil {
		return nil, err
	}
	snapshot, err := gs.State()
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(stateFields(snapshot))
}

func (s *Server) EndSession(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	if err := s.gameSessionManager.EndSession(id); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

// session resolves the session named by the request's session_id field.
func (s *Server) session(r *structpb.Struct) (i.GameServer, error) {
	id, err := sessionID(r)
	if err != nil {
		return nil, err
	}
	gs, err := s.gameSessionManager.Session(id)
	if err != nil {
		return nil, toStatus(err)
	}
	return gs, nil
}

func sessionID(r *structpb.Struct) (uuid.UUID, error) {
	raw := r.GetFields()["session_id"].GetStringValue()
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "parsing session_id: %s", err)
	}
	return id, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrNoSession):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrManagerStopped):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, service.ErrGameServerStopped):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// stateFields converts a snapshot to values accepted by structpb.NewStruct.
func stateFields(s game.Snapshot) map[string]interface{} {
	rows := make([]interface{}, 0, s.Size)
	for _, row := range s.Rows() {
		rows = append(rows, row)
	}

	return map[string]interface{}{
		"size":           s.Size,
		"rows":           rows,
		"player":         map[string]interface{}{"x": s.Player.X, "y": s.Player.Y},
		"exit":           map[string]interface{}{"x": s.Exit.X, "y": s.Exit.Y},
		"time_remaining": s.TimeRemaining,
		"time_limit":     s.TimeLimit,
		"moves":          s.Moves,
		"active":         s.Active,
		"status":         s.Status.String(),
	}
}
