package compute

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
)

// Kind classifies the result of a single launch attempt.
type Kind int

const (
	// KindSuccess means the instance was accepted by the provider.
	KindSuccess Kind = iota
	// KindNoCapacity means the provider has no hosts for the shape in that
	// domain right now. Expected during a hunt; retried on the next sweep.
	KindNoCapacity
	// KindLimitExceeded means an account-level quota blocked the launch.
	KindLimitExceeded
	// KindError covers every other provider or transport failure.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNoCapacity:
		return "no_capacity"
	case KindLimitExceeded:
		return "limit_exceeded"
	default:
		return "error"
	}
}

// maxMessageLen bounds operator-visible error messages.
const maxMessageLen = 100

// Outcome is the classified result of one Attempt call.
type Outcome struct {
	Kind    Kind
	Message string
	Details *InstanceDetails
}

// InstanceDetails is a flattened summary of the launched instance, suitable
// for JSON status responses.
type InstanceDetails struct {
	ID                 string    `json:"id"`
	DisplayName        string    `json:"display_name"`
	AvailabilityDomain string    `json:"availability_domain"`
	CompartmentID      string    `json:"compartment_id"`
	Shape              string    `json:"shape"`
	Region             string    `json:"region"`
	LifecycleState     string    `json:"lifecycle_state"`
	TimeCreated        time.Time `json:"time_created"`
}

// String renders the details for the persisted result record.
func (d *InstanceDetails) String() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("id=%s name=%s domain=%s shape=%s state=%s",
		d.ID, d.DisplayName, d.AvailabilityDomain, d.Shape, d.LifecycleState)
}

// classify maps a launch error onto the outcome taxonomy. Capacity takes
// priority over the quota code; anything unrecognized is a generic error with
// the message truncated.
func classify(err error) Outcome {
	var se common.ServiceError
	if errors.As(err, &se) {
		msg := se.GetMessage()
		switch {
		case strings.Contains(msg, "Out of host capacity"):
			return Outcome{Kind: KindNoCapacity, Message: "Out of capacity"}
		case strings.Contains(se.GetCode(), "LimitExceeded"):
			return Outcome{Kind: KindLimitExceeded, Message: "Limit exceeded"}
		default:
			return Outcome{Kind: KindError, Message: "Error: " + truncate(msg, maxMessageLen)}
		}
	}
	return Outcome{Kind: KindError, Message: "Exception: " + truncate(err.Error(), maxMessageLen)}
}

func summarize(inst core.Instance) *InstanceDetails {
	d := &InstanceDetails{LifecycleState: string(inst.LifecycleState)}
	if inst.Id != nil {
		d.ID = *inst.Id
	}
	if inst.DisplayName != nil {
		d.DisplayName = *inst.DisplayName
	}
	if inst.AvailabilityDomain != nil {
		d.AvailabilityDomain = *inst.AvailabilityDomain
	}
	if inst.CompartmentId != nil {
		d.CompartmentID = *inst.CompartmentId
	}
	if inst.Shape != nil {
		d.Shape = *inst.Shape
	}
	if inst.Region != nil {
		d.Region = *inst.Region
	}
	if inst.TimeCreated != nil {
		d.TimeCreated = inst.TimeCreated.Time
	}
	return d
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
