// healthcheck опрашивает gRPC health сервис picshare.
// Код возврата 0, если сервис отвечает SERVING; удобно для docker HEALTHCHECK.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"picshare/pkg/config"
	"picshare/services/rest-api/internal/client"
	"picshare/services/rest-api/internal/health"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.GRPCAddr, "gRPC address of the picshare server")
	service := flag.String("service", health.ServiceName, "service name to check, empty for overall status")
	timeout := flag.Duration("timeout", 3*time.Second, "check timeout")
	flag.Parse()

	c, err := client.NewHealthClient(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ok, err := c.Serving(ctx, *service)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !ok {
		fmt.Println("NOT_SERVING")
		os.Exit(1)
	}
	fmt.Println("SERVING")
}
