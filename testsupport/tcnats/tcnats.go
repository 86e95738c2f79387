package tcnats

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupNats starts a nats server and returns its client URL
func SetupNats() string {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "4222")
	if err != nil {
		log.Fatal(err)
	}
	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "nats:2",
				Name:         "iracelog-telemetry-analyzer-nats-test",
				ExposedPorts: []string{string(port)},
				WaitingFor: wait.ForLog("Server is ready").
					WithStartupTimeout(30 * time.Second),
			},
			Started: true,
			Reuse:   true,
		})
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	return fmt.Sprintf("nats://%s:%s", host, containerPort.Port())
}
