package handler

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/pkg/rpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "grocery.v1.InventoryService"

type InventoryServiceServer interface {
	ListBatches(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddBatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateBatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteBatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetExpiringBatches(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMovements(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ InventoryServiceServer = (*InventoryHandler)(nil)

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Method(serviceName, "ListBatches", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(InventoryServiceServer).ListBatches(ctx, req)
		}),
		rpc.Method(serviceName, "GetBatch", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(InventoryServiceServer).GetBatch(ctx, req)
		}),
		rpc.Method(serviceName, "AddBatch", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(InventoryServiceServer).AddBatch(ctx, req)
		}),
		rpc.Method(serviceName, "UpdateBatch", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(InventoryServiceServer).UpdateBatch(ctx, req)
		}),
		rpc.Method(serviceName, "DeleteBatch", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(InventoryServiceServer).DeleteBatch(ctx, req)
		}),
		rpc.Method(serviceName, "GetExpiringBatches", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(InventoryServiceServer).GetExpiringBatches(ctx, req)
		}),
		rpc.Method(serviceName, "ListMovements", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(InventoryServiceServer).ListMovements(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func Register(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
