package battle

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "skirmish.battle.v1.BattleService"

const (
	methodCreateBattle = "CreateBattle"
	methodSubmitTurn   = "SubmitTurn"
	methodGetBattle    = "GetBattle"
	methodListBattles  = "ListBattles"
	methodReplayBattle = "ReplayBattle"
)

// BattleServiceServer is the server API for BattleService.
type BattleServiceServer interface {
	CreateBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBattles(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReplayBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterBattleServiceServer registers srv on s.
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&BattleServiceDesc, srv)
}

// BattleServiceDesc describes BattleService for grpc.Server registration.
var BattleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodCreateBattle, Handler: unaryHandler(methodCreateBattle, BattleServiceServer.CreateBattle)},
		{MethodName: methodSubmitTurn, Handler: unaryHandler(methodSubmitTurn, BattleServiceServer.SubmitTurn)},
		{MethodName: methodGetBattle, Handler: unaryHandler(methodGetBattle, BattleServiceServer.GetBattle)},
		{MethodName: methodListBattles, Handler: unaryHandler(methodListBattles, BattleServiceServer.ListBattles)},
		{MethodName: methodReplayBattle, Handler: unaryHandler(methodReplayBattle, BattleServiceServer.ReplayBattle)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "skirmish/battle/v1/battle.proto",
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryMethod func(BattleServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BattleServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BattleServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
