package compute

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/stretchr/testify/assert"
)

// fakeServiceError satisfies common.ServiceError for classification tests.
type fakeServiceError struct {
	status  int
	code    string
	message string
}

func (e fakeServiceError) Error() string          { return e.message }
func (e fakeServiceError) GetHTTPStatusCode() int { return e.status }
func (e fakeServiceError) GetMessage() string     { return e.message }
func (e fakeServiceError) GetCode() string        { return e.code }
func (e fakeServiceError) GetOpcRequestID() string {
	return "ocid1.request"
}

var _ common.ServiceError = fakeServiceError{}

func TestClassifyCapacityExhausted(t *testing.T) {
	out := classify(fakeServiceError{status: 500, code: "InternalError", message: "Out of host capacity."})
	assert.Equal(t, KindNoCapacity, out.Kind)
	assert.Equal(t, "Out of capacity", out.Message)
}

func TestClassifyCapacityWinsOverLimitCode(t *testing.T) {
	// Capacity substring takes priority even when the code says quota.
	out := classify(fakeServiceError{status: 429, code: "LimitExceeded", message: "Out of host capacity for shape"})
	assert.Equal(t, KindNoCapacity, out.Kind)
}

func TestClassifyLimitExceeded(t *testing.T) {
	out := classify(fakeServiceError{status: 400, code: "LimitExceeded", message: "A1 core quota reached"})
	assert.Equal(t, KindLimitExceeded, out.Kind)
	assert.Equal(t, "Limit exceeded", out.Message)
}

func TestClassifyServiceErrorTruncated(t *testing.T) {
	long := strings.Repeat("x", 300)
	out := classify(fakeServiceError{status: 400, code: "InvalidParameter", message: long})
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, "Error: "+strings.Repeat("x", 100), out.Message)
}

func TestClassifyTransportError(t *testing.T) {
	out := classify(errors.New("dial tcp: connection refused"))
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, "Exception: dial tcp: connection refused", out.Message)
}

func TestClassifyTransportErrorTruncated(t *testing.T) {
	out := classify(errors.New(strings.Repeat("y", 150)))
	assert.Equal(t, "Exception: "+strings.Repeat("y", 100), out.Message)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "success", KindSuccess.String())
	assert.Equal(t, "no_capacity", KindNoCapacity.String())
	assert.Equal(t, "limit_exceeded", KindLimitExceeded.String())
	assert.Equal(t, "error", KindError.String())
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	inst := core.Instance{
		Id:                 common.String("ocid1.instance.oc1..xyz"),
		DisplayName:        common.String("ubuntu-arm-free"),
		AvailabilityDomain: common.String("FpAe:US-ASHBURN-AD-2"),
		Shape:              common.String(Shape),
		LifecycleState:     core.InstanceLifecycleStateProvisioning,
		TimeCreated:        &common.SDKTime{Time: now},
	}
	d := summarize(inst)
	assert.Equal(t, "ocid1.instance.oc1..xyz", d.ID)
	assert.Equal(t, "ubuntu-arm-free", d.DisplayName)
	assert.Equal(t, "FpAe:US-ASHBURN-AD-2", d.AvailabilityDomain)
	assert.Equal(t, string(core.InstanceLifecycleStateProvisioning), d.LifecycleState)
	assert.Equal(t, now, d.TimeCreated)
	assert.Contains(t, d.String(), "AD-2")
}

func TestSummarizeNilFields(t *testing.T) {
	d := summarize(core.Instance{})
	assert.Empty(t, d.ID)
	assert.Empty(t, d.DisplayName)
}

func TestDetailsStringNil(t *testing.T) {
	var d *InstanceDetails
	assert.Empty(t, d.String())
}
