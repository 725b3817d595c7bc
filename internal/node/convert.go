package node

import (
	"stitch/internal/clock"
	stitchpb "stitch/internal/gen/api"
	"stitch/internal/store"
)

// protoToVectorClock converts a protobuf VectorClock to clock.VectorClock.
func protoToVectorClock(pb *stitchpb.VectorClock) clock.VectorClock {
	if pb == nil || len(pb.Entries) == 0 {
		return nil
	}
	vc := clock.New()
	for _, entry := range pb.Entries {
		vc.Set(entry.NodeId, entry.Counter)
	}
	return vc
}

// vectorClockToProto converts a clock.VectorClock to protobuf.
func vectorClockToProto(vc clock.VectorClock) *stitchpb.VectorClock {
	if len(vc) == 0 {
		return nil
	}
	pb := &stitchpb.VectorClock{
		Entries: make([]*stitchpb.VectorClockEntry, 0, len(vc)),
	}
	for nodeID, counter := range vc {
		pb.Entries = append(pb.Entries, &stitchpb.VectorClockEntry{
			NodeId:  nodeID,
			Counter: counter,
		})
	}
	return pb
}

func recordToProto(rec store.Record) *stitchpb.Record {
	return &stitchpb.Record{
		Key:     rec.Key,
		Fields:  rec.Fields,
		Version: vectorClockToProto(rec.Version),
	}
}

func protoToRecord(pb *stitchpb.Record) store.Record {
	return store.Record{
		Key:     pb.GetKey(),
		Fields:  pb.GetFields(),
		Version: protoToVectorClock(pb.GetVersion()),
	}
}

func recordsToProto(recs []store.Record) []*stitchpb.Record {
	out := make([]*stitchpb.Record, len(recs))
	for i, r := range recs {
		out[i] = recordToProto(r)
	}
	return out
}

func protoToRecords(pbs []*stitchpb.Record) []store.Record {
	out := make([]store.Record, len(pbs))
	for i, pb := range pbs {
		out[i] = protoToRecord(pb)
	}
	return out
}

func actionToProto(a store.Action) *stitchpb.Action {
	pb := &stitchpb.Action{Keys: a.Keys}
	switch a.Kind {
	case store.ActionWrite:
		pb.Kind = stitchpb.ActionKind_ACTION_KIND_WRITE
	case store.ActionDelete:
		pb.Kind = stitchpb.ActionKind_ACTION_KIND_DELETE
	}
	pb.Records = recordsToProto(a.Records)
	return pb
}

func protoToAction(pb *stitchpb.Action) store.Action {
	a := store.Action{Keys: pb.GetKeys(), Records: protoToRecords(pb.GetRecords())}
	switch pb.GetKind() {
	case stitchpb.ActionKind_ACTION_KIND_WRITE:
		a.Kind = store.ActionWrite
	case stitchpb.ActionKind_ACTION_KIND_DELETE:
		a.Kind = store.ActionDelete
	}
	return a
}

func actionsToProto(actions []store.Action) []*stitchpb.Action {
	out := make([]*stitchpb.Action, len(actions))
	for i, a := range actions {
		out[i] = actionToProto(a)
	}
	return out
}

func protoToActions(pbs []*stitchpb.Action) []store.Action {
	out := make([]store.Action, len(pbs))
	for i, pb := range pbs {
		out[i] = protoToAction(pb)
	}
	return out
}
