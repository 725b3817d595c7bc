package node

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"stitch/internal/cluster"
	stitchpb "stitch/internal/gen/api"
	"stitch/internal/store"
)

// DataServer exposes a node's tables to its peers. Reads and writes go
// straight to the local copies without any coordination; callers are
// expected to hold the cluster-wide stitch lock while using it.
type DataServer struct {
	stitchpb.UnimplementedStitchDataServer

	log   *zap.Logger
	store store.Access
}

func NewDataServer(log *zap.Logger, st store.Access) *DataServer {
	return &DataServer{log: log, store: st}
}

func (s *DataServer) GetObject(ctx context.Context, req *stitchpb.GetObjectRequest) (*stitchpb.GetObjectResponse, error) {
	recs, err := s.store.DirtyRead(req.GetTable(), req.GetKey())
	if err != nil {
		return nil, toStatus(err)
	}
	return &stitchpb.GetObjectResponse{Records: recordsToProto(recs)}, nil
}

func (s *DataServer) Write(ctx context.Context, req *stitchpb.WriteRequest) (*stitchpb.WriteResponse, error) {
	for _, pb := range req.GetRecords() {
		if err := s.store.DirtyWrite(req.GetTable(), protoToRecord(pb)); err != nil {
			return nil, toStatus(err)
		}
	}
	return &stitchpb.WriteResponse{}, nil
}

func (s *DataServer) ApplyActions(ctx context.Context, req *stitchpb.ApplyActionsRequest) (*stitchpb.ApplyActionsResponse, error) {
	actions := protoToActions(req.GetActions())
	if err := store.ApplyActions(s.store, req.GetTable(), actions); err != nil {
		s.log.Warn("apply actions failed",
			zap.String("table", req.GetTable()),
			zap.Error(err))
		return nil, toStatus(err)
	}
	return &stitchpb.ApplyActionsResponse{}, nil
}

func toStatus(err error) error {
	if errors.Is(err, store.ErrNoTable) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// Membership is the store-level merged set reported to peers during
// island discovery.
type Membership interface {
	RunningPeers() []string
}

// ClusterServer answers liveness probes and membership queries. A ping
// doubles as a liveness report for the sender, so two partitioned nodes
// rediscover each other as soon as either side's probe gets through.
// RunningNodes reports the store-level merged set, not raw reachability;
// a reachable peer with diverged tables is not a running node.
type ClusterServer struct {
	stitchpb.UnimplementedClusterServer

	log     *zap.Logger
	self    string
	tracker *cluster.Tracker
	peers   Membership
}

func NewClusterServer(log *zap.Logger, self string, tracker *cluster.Tracker, peers Membership) *ClusterServer {
	return &ClusterServer{log: log, self: self, tracker: tracker, peers: peers}
}

func (s *ClusterServer) Ping(ctx context.Context, req *stitchpb.PingRequest) (*stitchpb.PingResponse, error) {
	if from := req.GetFromId(); from != "" && from != s.self {
		s.tracker.MarkAlive(from)
	}
	return &stitchpb.PingResponse{ResponderId: s.self}, nil
}

func (s *ClusterServer) RunningNodes(ctx context.Context, req *stitchpb.RunningNodesRequest) (*stitchpb.RunningNodesResponse, error) {
	ids := append(s.peers.RunningPeers(), s.self)
	return &stitchpb.RunningNodesResponse{NodeIds: ids}, nil
}
