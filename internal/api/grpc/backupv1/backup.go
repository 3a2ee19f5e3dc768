// Package backupv1 defines the senderkeys.Backup gRPC service.
package backupv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "senderkeys.Backup"

	Backup_PutSenderKey_FullMethodName = "/senderkeys.Backup/PutSenderKey"
	Backup_GetSenderKey_FullMethodName = "/senderkeys.Backup/GetSenderKey"
)

// SenderKeyRef locates one record inside the caller's backup.
type SenderKeyRef struct {
	SpaceID        string `json:"space_id"`
	DistributionID string `json:"distribution_id"`
	Address        string `json:"address"`
	DeviceID       uint32 `json:"device_id"`
}

type PutSenderKeyRequest struct {
	Ref     SenderKeyRef `json:"ref"`
	Payload []byte       `json:"payload"`
}

type PutSenderKeyResponse struct{}

type GetSenderKeyRequest struct {
	Ref SenderKeyRef `json:"ref"`
}

type GetSenderKeyResponse struct {
	Payload []byte `json:"payload"`
}

// BackupServer is the server API for the Backup service.
type BackupServer interface {
	PutSenderKey(context.Context, *PutSenderKeyRequest) (*PutSenderKeyResponse, error)
	GetSenderKey(context.Context, *GetSenderKeyRequest) (*GetSenderKeyResponse, error)
}

// UnimplementedBackupServer must be embedded to have forward compatible implementations.
type UnimplementedBackupServer struct{}

func (UnimplementedBackupServer) PutSenderKey(context.Context, *PutSenderKeyRequest) (*PutSenderKeyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PutSenderKey not implemented")
}

func (UnimplementedBackupServer) GetSenderKey(context.Context, *GetSenderKeyRequest) (*GetSenderKeyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSenderKey not implemented")
}

func RegisterBackupServer(s grpc.ServiceRegistrar, srv BackupServer) {
	s.RegisterService(&Backup_ServiceDesc, srv)
}

func _Backup_PutSenderKey_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PutSenderKeyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BackupServer).PutSenderKey(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Backup_PutSenderKey_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BackupServer).PutSenderKey(ctx, req.(*PutSenderKeyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Backup_GetSenderKey_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSenderKeyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BackupServer).GetSenderKey(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Backup_GetSenderKey_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BackupServer).GetSenderKey(ctx, req.(*GetSenderKeyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Backup_ServiceDesc is the grpc.ServiceDesc for the Backup service.
var Backup_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BackupServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PutSenderKey",
			Handler:    _Backup_PutSenderKey_Handler,
		},
		{
			MethodName: "GetSenderKey",
			Handler:    _Backup_GetSenderKey_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "senderkeys/backup.v1",
}

// BackupClient is the client API for the Backup service.
type BackupClient interface {
	PutSenderKey(ctx context.Context, in *PutSenderKeyRequest, opts ...grpc.CallOption) (*PutSenderKeyResponse, error)
	GetSenderKey(ctx context.Context, in *GetSenderKeyRequest, opts ...grpc.CallOption) (*GetSenderKeyResponse, error)
}

type backupClient struct {
	cc grpc.ClientConnInterface
}

// NewBackupClient returns a client that always speaks the JSON content subtype.
func NewBackupClient(cc grpc.ClientConnInterface) BackupClient {
	return &backupClient{cc: cc}
}

func (c *backupClient) PutSenderKey(ctx context.Context, in *PutSenderKeyRequest, opts ...grpc.CallOption) (*PutSenderKeyResponse, error) {
	out := new(PutSenderKeyResponse)
	if err := c.cc.Invoke(ctx, Backup_PutSenderKey_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *backupClient) GetSenderKey(ctx context.Context, in *GetSenderKeyRequest, opts ...grpc.CallOption) (*GetSenderKeyResponse, error) {
	out := new(GetSenderKeyResponse)
	if err := c.cc.Invoke(ctx, Backup_GetSenderKey_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
