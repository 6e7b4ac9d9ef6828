// Package rpc carries the glue for services whose payloads are
// google.protobuf.Struct values instead of generated messages.
package rpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Call invokes one method on a registered server value.
type Call func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// Unary builds a grpc.MethodHandler shaped like protoc-gen-go-grpc output.
func Unary(fullMethod string, call Call) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Method describes one unary method of service.
func Method(service, name string, call Call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler:    Unary("/"+service+"/"+name, call),
	}
}

// Decode copies a Struct payload into dst through its JSON form.
func Decode(req *structpb.Struct, dst interface{}) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "empty request")
	}
	raw, err := protojson.Marshal(req)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	return nil
}

// Encode converts any JSON-serializable value into a Struct.
func Encode(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
