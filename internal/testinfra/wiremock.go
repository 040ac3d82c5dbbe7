//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// WiremockContainer serves stubbed gateway responses from a mappings directory.
type WiremockContainer struct {
	Container testcontainers.Container
	BaseURL   string
}

func NewWiremock(ctx context.Context, mappingsPath string) (*WiremockContainer, error) {
	absPath, err := filepath.Abs(mappingsPath)
	if err != nil {
		return nil, fmt.Errorf("resolve mappings path: %w", err)
	}

	req := testcontainers.ContainerRequest{
		Image:        "wiremock/wiremock:3.9.1",
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor:   wait.ForHTTP("/__admin/mappings").WithPort("8080/tcp"),
		Cmd:          []string{"--disable-gzip", "--verbose"},
		Mounts: testcontainers.Mounts(
			testcontainers.BindMount(absPath, "/home/wiremock/mappings"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start wiremock container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("wiremock host: %w", err)
	}
	port, err := container.MappedPort(ctx, "8080/tcp")
	if err != nil {
		return nil, fmt.Errorf("wiremock port: %w", err)
	}

	return &WiremockContainer{
		Container: container,
		BaseURL:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

func (c *WiremockContainer) Cleanup(ctx context.Context) {
	if c.Container != nil {
		_ = c.Container.Terminate(ctx)
	}
}
