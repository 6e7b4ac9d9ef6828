package handler

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/pkg/rpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "grocery.v1.OrderService"

type OrderServiceServer interface {
	CreateEcommerceOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreatePosOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateOrderStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOrders(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReceipt(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ OrderServiceServer = (*OrderHandler)(nil)

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Method(serviceName, "CreateEcommerceOrder", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(OrderServiceServer).CreateEcommerceOrder(ctx, req)
		}),
		rpc.Method(serviceName, "CreatePosOrder", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(OrderServiceServer).CreatePosOrder(ctx, req)
		}),
		rpc.Method(serviceName, "UpdateOrderStatus", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(OrderServiceServer).UpdateOrderStatus(ctx, req)
		}),
		rpc.Method(serviceName, "GetOrder", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(OrderServiceServer).GetOrder(ctx, req)
		}),
		rpc.Method(serviceName, "ListOrders", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(OrderServiceServer).ListOrders(ctx, req)
		}),
		rpc.Method(serviceName, "GetReceipt", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(OrderServiceServer).GetReceipt(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func Register(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
