package handlers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/nodeforge/internal/config"
	"github.com/imamik/nodeforge/internal/provisioning"
)

func TestProvision_Success(t *testing.T) {
	cfg := testConfig(t)
	cloud := &fakeCloud{}
	stubCollaborators(t, cfg, cloud)

	require.NoError(t, Provision(context.Background(), ProvisionOptions{RequestPath: "request.yaml"}))
	assert.Empty(t, cloud.deleted)

	var out bytes.Buffer
	require.NoError(t, Tasks(context.Background(), TasksOptions{Service: "billing", Output: "table"}, &out))
	assert.Contains(t, out.String(), "Creating VM billing-worker-0 with flavor cx22 and image ubuntu-24.04 and network billing-net")
	assert.Contains(t, out.String(), "Provisioned VM billing-worker-0 with status Active")
}

func TestProvision_FailureRollsBackAndArchives(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive = config.ArchiveConfig{Bucket: "trails", Region: "fsn1"}
	cloud := &fakeCloud{startErr: errors.New("quota exceeded")}
	stubCollaborators(t, cfg, cloud)

	archiver := &fakeArchiver{}
	newArchiver = func(_ context.Context, _ config.ArchiveConfig) (TrailArchiver, error) {
		return archiver, nil
	}

	err := Provision(context.Background(), ProvisionOptions{RequestPath: "request.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provisioning failed")
	assert.Contains(t, err.Error(), "quota exceeded")

	var provErr *provisioning.ProvisioningError
	require.ErrorAs(t, err, &provErr)
	assert.ErrorIs(t, err, provisioning.ErrLaunch)

	assert.Equal(t, []string{"billing"}, cloud.deleted)

	assert.Equal(t, "billing", archiver.service)
	require.NotEmpty(t, archiver.records)
	last := archiver.records[len(archiver.records)-1]
	assert.Equal(t, "Deleted service billing", last.Message)
}

func TestProvision_PublishesEvents(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events = config.EventsConfig{URL: "nats://127.0.0.1:4222", Subject: "nodeforge.tasks"}
	stubCollaborators(t, cfg, &fakeCloud{})

	events := &fakeEvents{}
	newEventSink = func(got config.EventsConfig, _ logr.Logger) (EventSink, error) {
		assert.Equal(t, "nodeforge.tasks", got.Subject)
		return events, nil
	}

	require.NoError(t, Provision(context.Background(), ProvisionOptions{RequestPath: "request.yaml"}))
	assert.True(t, events.closed)
	require.NotEmpty(t, events.records)
	assert.True(t, strings.HasPrefix(events.records[len(events.records)-1].Message, "Provisioned VM billing-worker-0"))
}

func TestProvision_RequestError(t *testing.T) {
	cfg := testConfig(t)
	stubCollaborators(t, cfg, &fakeCloud{})
	loadRequest = func(_ string) (provisioning.Request, error) {
		return provisioning.Request{}, errors.New("failed to read request file")
	}

	err := Provision(context.Background(), ProvisionOptions{RequestPath: "missing.yaml"})
	require.EqualError(t, err, "failed to read request file")
}

func TestProvision_EventSinkError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events = config.EventsConfig{URL: "nats://127.0.0.1:1", Subject: "nodeforge.tasks"}
	cloud := &fakeCloud{}
	stubCollaborators(t, cfg, cloud)
	newEventSink = func(_ config.EventsConfig, _ logr.Logger) (EventSink, error) {
		return nil, errors.New("no servers available for connection")
	}

	err := Provision(context.Background(), ProvisionOptions{RequestPath: "request.yaml"})
	require.Error(t, err)
	assert.Empty(t, cloud.deleted)
}
