package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "parking.v1.ParkingService"

// ParkingServiceServer — unary-методы сервиса. Сообщения передаются как
// google.protobuf.Struct, поэтому сгенерённые стабы не нужны.
type ParkingServiceServer interface {
	Park(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Exit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Status(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UsageReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LocationReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(ParkingServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ParkingServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ParkingServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ParkingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ParkingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodHandler("Park", ParkingServiceServer.Park),
		methodHandler("Exit", ParkingServiceServer.Exit),
		methodHandler("CompleteBooking", ParkingServiceServer.CompleteBooking),
		methodHandler("Status", ParkingServiceServer.Status),
		methodHandler("UsageReport", ParkingServiceServer.UsageReport),
		methodHandler("LocationReport", ParkingServiceServer.LocationReport),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "parking/v1/parking.proto",
}

func RegisterParkingServiceServer(s grpc.ServiceRegistrar, srv ParkingServiceServer) {
	s.RegisterService(&ParkingServiceDesc, srv)
}
