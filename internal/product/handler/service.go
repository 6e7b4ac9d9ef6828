package handler

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/pkg/rpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "grocery.v1.ProductService"

type ProductServiceServer interface {
	CreateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProductByBarcode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RestockProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ ProductServiceServer = (*ProductHandler)(nil)

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Method(serviceName, "CreateProduct", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ProductServiceServer).CreateProduct(ctx, req)
		}),
		rpc.Method(serviceName, "UpdateProduct", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ProductServiceServer).UpdateProduct(ctx, req)
		}),
		rpc.Method(serviceName, "GetProduct", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ProductServiceServer).GetProduct(ctx, req)
		}),
		rpc.Method(serviceName, "GetProductByBarcode", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ProductServiceServer).GetProductByBarcode(ctx, req)
		}),
		rpc.Method(serviceName, "ListProducts", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ProductServiceServer).ListProducts(ctx, req)
		}),
		rpc.Method(serviceName, "SearchProducts", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ProductServiceServer).SearchProducts(ctx, req)
		}),
		rpc.Method(serviceName, "DeleteProduct", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ProductServiceServer).DeleteProduct(ctx, req)
		}),
		rpc.Method(serviceName, "RestockProduct", func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ProductServiceServer).RestockProduct(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func Register(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
