package provisioning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/nodeforge/internal/util/naming"
)

// Credentials identify the cloud tenant a request runs against.
// The workflow never inspects them; they are handed to the CloudFactory.
type Credentials struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Tenant   string `yaml:"tenant"`
}

// NodeSpec describes the single node a request provisions.
type NodeSpec struct {
	FlavorName string `yaml:"flavor"`
	ImageName  string `yaml:"image"`
	NodeType   string `yaml:"type"`
	Ordinal    int    `yaml:"ordinal"`
}

// Request is a declarative provisioning request. It is treated as immutable
// for the duration of a run.
type Request struct {
	ServiceName string      `yaml:"serviceName"`
	Credentials Credentials `yaml:"credentials"`
	Node        NodeSpec    `yaml:"node"`
	NetworkName string      `yaml:"network"`
}

// VMName returns the deterministic server name for the request.
func (r Request) VMName() string {
	return naming.VM(r.ServiceName, r.Node.NodeType, r.Node.Ordinal)
}

// Validate checks that every name the workflow resolves is present.
func (r Request) Validate() error {
	var errs []error
	if strings.TrimSpace(r.ServiceName) == "" {
		errs = append(errs, errors.New("service name is required"))
	}
	if strings.TrimSpace(r.Node.FlavorName) == "" {
		errs = append(errs, errors.New("node flavor is required"))
	}
	if strings.TrimSpace(r.Node.ImageName) == "" {
		errs = append(errs, errors.New("node image is required"))
	}
	if strings.TrimSpace(r.NetworkName) == "" {
		errs = append(errs, errors.New("network name is required"))
	}
	if r.Node.Ordinal < 0 {
		errs = append(errs, fmt.Errorf("node ordinal must not be negative, got %d", r.Node.Ordinal))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", errInvalidRequest, errors.Join(errs...))
	}
	return nil
}

// Parameter bag keys used by the scheduler boundary.
const (
	ParamServiceName = "serviceName"
	ParamUser        = "user"
	ParamPassword    = "password"
	ParamTenantName  = "tenantName"
	ParamNodePayload = "nodePayload"
	ParamNetworkName = "networkName"
	ParamDBHandle    = "dbHandle"
)

// RequestFromParams builds a Request from a scheduler parameter bag.
//
// The node payload may be a NodeSpec, a *NodeSpec, or a map with the keys
// flavorName, imageName, nodeType and (optionally) ordinal. The dbHandle entry
// is not part of the request; callers pass it to the Recorder directly.
func RequestFromParams(params map[string]any) (Request, error) {
	var req Request
	var err error

	if req.ServiceName, err = stringParam(params, ParamServiceName, true); err != nil {
		return Request{}, err
	}
	if req.Credentials.User, err = stringParam(params, ParamUser, false); err != nil {
		return Request{}, err
	}
	if req.Credentials.Password, err = stringParam(params, ParamPassword, false); err != nil {
		return Request{}, err
	}
	if req.Credentials.Tenant, err = stringParam(params, ParamTenantName, false); err != nil {
		return Request{}, err
	}
	if req.NetworkName, err = stringParam(params, ParamNetworkName, true); err != nil {
		return Request{}, err
	}

	switch node := params[ParamNodePayload].(type) {
	case NodeSpec:
		req.Node = node
	case *NodeSpec:
		if node == nil {
			return Request{}, fmt.Errorf("parameter %q is nil", ParamNodePayload)
		}
		req.Node = *node
	case map[string]any:
		if req.Node, err = nodeFromMap(node); err != nil {
			return Request{}, err
		}
	case nil:
		return Request{}, fmt.Errorf("missing parameter %q", ParamNodePayload)
	default:
		return Request{}, fmt.Errorf("parameter %q has unsupported type %T", ParamNodePayload, node)
	}

	return req, nil
}

func nodeFromMap(m map[string]any) (NodeSpec, error) {
	var node NodeSpec
	var err error
	if node.FlavorName, err = stringParam(m, "flavorName", true); err != nil {
		return NodeSpec{}, err
	}
	if node.ImageName, err = stringParam(m, "imageName", true); err != nil {
		return NodeSpec{}, err
	}
	if node.NodeType, err = stringParam(m, "nodeType", false); err != nil {
		return NodeSpec{}, err
	}
	switch v := m["ordinal"].(type) {
	case nil:
	case int:
		node.Ordinal = v
	case int64:
		node.Ordinal = int(v)
	case float64:
		node.Ordinal = int(v)
	default:
		return NodeSpec{}, fmt.Errorf("parameter %q has unsupported type %T", "ordinal", v)
	}
	return node, nil
}

func stringParam(params map[string]any, key string, required bool) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("missing parameter %q", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", key, raw)
	}
	return s, nil
}
