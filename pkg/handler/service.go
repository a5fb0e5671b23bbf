package handler

import (
	"context"

	"google.golang.org/grpc"
)

// DirectorServer is the server API of the Director service.
type DirectorServer interface {
	StartSession(context.Context, *StartSessionRequest) (*SnapshotResponse, error)
	StopSession(context.Context, *SessionRequest) (*SnapshotResponse, error)
	MoveFader(context.Context, *MoveFaderRequest) (*SnapshotResponse, error)
	ResolveEvent(context.Context, *ResolveEventRequest) (*ResolveEventResponse, error)
	GetSnapshot(context.Context, *SessionRequest) (*SnapshotResponse, error)
	GetCareer(context.Context, *PlayerRequest) (*CareerResponse, error)
	PurchaseUpgrade(context.Context, *PurchaseUpgradeRequest) (*CareerResponse, error)
	ListNotices(context.Context, *ListNoticesRequest) (*ListNoticesResponse, error)
	GetLeaderboard(context.Context, *GetLeaderboardRequest) (*GetLeaderboardResponse, error)
}

var _ DirectorServer = (*Director)(nil)

// DirectorServiceDesc describes the Director service for grpc.Server.
// Messages are JSON encoded; see CodecName.
var DirectorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("StartSession", DirectorServer.StartSession),
		unary("StopSession", DirectorServer.StopSession),
		unary("MoveFader", DirectorServer.MoveFader),
		unary("ResolveEvent", DirectorServer.ResolveEvent),
		unary("GetSnapshot", DirectorServer.GetSnapshot),
		unary("GetCareer", DirectorServer.GetCareer),
		unary("PurchaseUpgrade", DirectorServer.PurchaseUpgrade),
		unary("ListNotices", DirectorServer.ListNotices),
		unary("GetLeaderboard", DirectorServer.GetLeaderboard),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eventchaos/director/v1/director.json",
}

// RegisterDirectorServer registers srv on s.
func RegisterDirectorServer(s grpc.ServiceRegistrar, srv DirectorServer) {
	s.RegisterService(&DirectorServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(DirectorServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DirectorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DirectorServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// DirectorClient calls a remote Director.
type DirectorClient struct {
	cc grpc.ClientConnInterface
}

// NewDirectorClient creates a client on cc.
func NewDirectorClient(cc grpc.ClientConnInterface) *DirectorClient {
	return &DirectorClient{cc: cc}
}

func (c *DirectorClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

func (c *DirectorClient) StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*SnapshotResponse, error) {
	out := new(SnapshotResponse)
	if err := c.invoke(ctx, "StartSession", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectorClient) StopSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SnapshotResponse, error) {
	out := new(SnapshotResponse)
	if err := c.invoke(ctx, "StopSession", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectorClient) MoveFader(ctx context.Context, in *MoveFaderRequest, opts ...grpc.CallOption) (*SnapshotResponse, error) {
	out := new(SnapshotResponse)
	if err := c.invoke(ctx, "MoveFader", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectorClient) ResolveEvent(ctx context.Context, in *ResolveEventRequest, opts ...grpc.CallOption) (*ResolveEventResponse, error) {
	out := new(ResolveEventResponse)
	if err := c.invoke(ctx, "ResolveEvent", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectorClient) GetSnapshot(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SnapshotResponse, error) {
	out := new(SnapshotResponse)
	if err := c.invoke(ctx, "GetSnapshot", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectorClient) GetCareer(ctx context.Context, in *PlayerRequest, opts ...grpc.CallOption) (*CareerResponse, error) {
	out := new(CareerResponse)
	if err := c.invoke(ctx, "GetCareer", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectorClient) PurchaseUpgrade(ctx context.Context, in *PurchaseUpgradeRequest, opts ...grpc.CallOption) (*CareerResponse, error) {
	out := new(CareerResponse)
	if err := c.invoke(ctx, "PurchaseUpgrade", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectorClient) ListNotices(ctx context.Context, in *ListNoticesRequest, opts ...grpc.CallOption) (*ListNoticesResponse, error) {
	out := new(ListNoticesResponse)
	if err := c.invoke(ctx, "ListNotices", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectorClient) GetLeaderboard(ctx context.Context, in *GetLeaderboardRequest, opts ...grpc.CallOption) (*GetLeaderboardResponse, error) {
	out := new(GetLeaderboardResponse)
	if err := c.invoke(ctx, "GetLeaderboard", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
