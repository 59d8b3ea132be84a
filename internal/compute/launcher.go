package compute

import (
	"context"
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"

	"github.com/loykin/vmhuntr/internal/config"
)

// Shape is the only shape this tool hunts for: the always-free ARM flex shape.
const Shape = "VM.Standard.A1.Flex"

// Client is the narrow slice of the OCI compute API the launcher needs.
// *core.ComputeClient satisfies it; tests substitute a mock.
type Client interface {
	LaunchInstance(ctx context.Context, request core.LaunchInstanceRequest) (core.LaunchInstanceResponse, error)
}

// Launcher builds launch requests from a Config and classifies the provider's
// answer. It holds no retry policy; the hunt loop owns that.
type Launcher struct {
	client Client
	cfg    *config.Config
}

// NewLauncher constructs the OCI compute client from raw credentials.
// A failure here is fatal to the run (client construction error), not to the
// process.
func NewLauncher(cfg *config.Config) (*Launcher, error) {
	provider := common.NewRawConfigurationProvider(
		cfg.TenancyOCID, cfg.UserOCID, cfg.Region, cfg.Fingerprint, cfg.PrivateKey, nil)
	client, err := core.NewComputeClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("create compute client: %w", err)
	}
	return &Launcher{client: &client, cfg: cfg}, nil
}

// NewLauncherWithClient wires an explicit client; used by tests and the
// embedding API.
func NewLauncherWithClient(client Client, cfg *config.Config) *Launcher {
	return &Launcher{client: client, cfg: cfg}
}

// Attempt issues a single synchronous launch in the given availability domain
// and classifies the result. The context is only honored up to the transport;
// an in-flight call is never interrupted by the hunt loop's stop flag.
func (l *Launcher) Attempt(ctx context.Context, domain string) Outcome {
	ocpus := float32(l.cfg.OCPUs)
	memory := float32(l.cfg.MemoryGBs)
	details := core.LaunchInstanceDetails{
		CompartmentId:      common.String(l.cfg.CompartmentID),
		AvailabilityDomain: common.String(domain),
		DisplayName:        common.String(l.cfg.DisplayName),
		Shape:              common.String(Shape),
		ShapeConfig: &core.LaunchInstanceShapeConfigDetails{
			Ocpus:       &ocpus,
			MemoryInGBs: &memory,
		},
		SourceDetails: core.InstanceSourceViaImageDetails{
			ImageId: common.String(l.cfg.ImageID),
		},
		CreateVnicDetails: &core.CreateVnicDetails{
			SubnetId:       common.String(l.cfg.SubnetID),
			AssignPublicIp: common.Bool(true),
		},
		Metadata: map[string]string{
			"ssh_authorized_keys": l.cfg.SSHPublicKey,
		},
	}

	resp, err := l.client.LaunchInstance(ctx, core.LaunchInstanceRequest{LaunchInstanceDetails: details})
	if err != nil {
		return classify(err)
	}
	return Outcome{Kind: KindSuccess, Message: "SUCCESS", Details: summarize(resp.Instance)}
}
