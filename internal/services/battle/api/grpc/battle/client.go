package battle

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls BattleService with typed requests.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps a connection to a BattleService server.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// CreateBattle starts a battle.
func (c *Client) CreateBattle(ctx context.Context, req CreateBattleRequest, opts ...grpc.CallOption) (Battle, error) {
	var resp BattleResponse
	if err := c.invoke(ctx, methodCreateBattle, req, &resp, opts...); err != nil {
		return Battle{}, err
	}
	return resp.Battle, nil
}

// SubmitTurn resolves one turn.
func (c *Client) SubmitTurn(ctx context.Context, req SubmitTurnRequest, opts ...grpc.CallOption) (SubmitTurnResponse, error) {
	var resp SubmitTurnResponse
	err := c.invoke(ctx, methodSubmitTurn, req, &resp, opts...)
	return resp, err
}

// GetBattle fetches a battle.
func (c *Client) GetBattle(ctx context.Context, battleID string, opts ...grpc.CallOption) (Battle, error) {
	var resp BattleResponse
	if err := c.invoke(ctx, methodGetBattle, GetBattleRequest{BattleID: battleID}, &resp, opts...); err != nil {
		return Battle{}, err
	}
	return resp.Battle, nil
}

// ListBattles pages through battles.
func (c *Client) ListBattles(ctx context.Context, req ListBattlesRequest, opts ...grpc.CallOption) (ListBattlesResponse, error) {
	var resp ListBattlesResponse
	err := c.invoke(ctx, methodListBattles, req, &resp, opts...)
	return resp, err
}

// ReplayBattle verifies a battle's journal.
func (c *Client) ReplayBattle(ctx context.Context, battleID string, opts ...grpc.CallOption) (ReplayBattleResponse, error) {
	var resp ReplayBattleResponse
	err := c.invoke(ctx, methodReplayBattle, ReplayBattleRequest{BattleID: battleID}, &resp, opts...)
	return resp, err
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return err
	}
	return fromStruct(out, resp)
}
