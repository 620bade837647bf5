package grpcclient

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/example/photopoint/internal/logging"
	"github.com/example/photopoint/internal/vision"
	proto "github.com/example/photopoint/proto"
)

// DialVision returns a ready-to-use gRPC client for the vision inference service.
func DialVision(ctx context.Context, addr string, logger *zap.Logger) (vision.Capability, *grpc.ClientConn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.dial_vision", "", err)
		logger.Error("failed to dial vision service", zap.Error(wrapped), zap.String("addr", addr))
		return nil, nil, wrapped
	}
	client := proto.NewVisionClient(conn)
	return &grpcVision{client: client, logger: logger}, conn, nil
}

type grpcVision struct {
	client proto.VisionClient
	logger *zap.Logger
}

func (g *grpcVision) DetectLandmarks(ctx context.Context, frame []byte, timestampMs int64) ([]vision.Point, bool, error) {
	resp, err := g.client.DetectLandmarks(ctx, &proto.DetectRequest{Frame: frame, TimestampMs: timestampMs})
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.detect_landmarks", "", err)
		g.logger.Error("landmark detection call failed", zap.Error(wrapped))
		return nil, false, wrapped
	}
	if !resp.GetFaceFound() {
		return nil, false, nil
	}
	points := make([]vision.Point, 0, len(resp.GetLandmarks()))
	for _, lm := range resp.GetLandmarks() {
		points = append(points, vision.Point{X: lm.GetX(), Y: lm.GetY(), Z: lm.GetZ()})
	}
	return points, true, nil
}

func (g *grpcVision) Segment(ctx context.Context, image []byte) (*vision.Mask, error) {
	resp, err := g.client.SegmentImage(ctx, &proto.SegmentRequest{Image: image})
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.segment_image", "", err)
		g.logger.Error("segmentation call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	return &vision.Mask{
		Categories: resp.GetCategories(),
		Width:      int(resp.GetWidth()),
		Height:     int(resp.GetHeight()),
	}, nil
}
