package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthClient представляет gRPC клиент для health сервиса picshare
type HealthClient struct {
	conn   *grpc.ClientConn
	Client healthpb.HealthClient
}

// NewHealthClient создаёт новый gRPC клиент
func NewHealthClient(addr string, opts ...grpc.DialOption) (*HealthClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to health service: %w", err)
	}

	return &HealthClient{
		conn:   conn,
		Client: healthpb.NewHealthClient(conn),
	}, nil
}

// Serving сообщает, отвечает ли сервис SERVING
func (c *HealthClient) Serving(ctx context.Context, service string) (bool, error) {
	resp, err := c.Client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return false, fmt.Errorf("health check: %w", err)
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

// Close закрывает соединение с gRPC сервером
func (c *HealthClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
