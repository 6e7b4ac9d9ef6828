package handler

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/pkg/rpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "grocery.v1.CategoryService"

type CategoryServiceServer interface {
	CreateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ CategoryServiceServer = (*CategoryHandler)(nil)

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Method(serviceName, "CreateCategory", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(CategoryServiceServer).CreateCategory(ctx, req)
		}),
		rpc.Method(serviceName, "GetCategory", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(CategoryServiceServer).GetCategory(ctx, req)
		}),
		rpc.Method(serviceName, "ListCategories", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(CategoryServiceServer).ListCategories(ctx, req)
		}),
		rpc.Method(serviceName, "UpdateCategory", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(CategoryServiceServer).UpdateCategory(ctx, req)
		}),
		rpc.Method(serviceName, "DeleteCategory", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(CategoryServiceServer).DeleteCategory(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func Register(s grpc.ServiceRegistrar, srv CategoryServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
