package runtime

import (
	"chat-live/contract"
	"chat-live/mocks"
	"chat-live/runtime/workers"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOrchestrator_Start_Registers_Workers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	supervisor := mocks.NewMockISupervisor(ctrl)
	relay := mocks.NewMockIRelay(ctrl)
	registry := NewRegistry()
	orchestrator := NewOrchestrator(log, supervisor, registry, NewPresence(),
		NewDispatcher(log, registry, time.Second), time.Minute).WithRelay(relay)

	var added []string
	supervisor.EXPECT().Add(gomock.Any()).
		DoAndReturn(func(worker any) contract.ISupervisor {
			switch worker.(type) {
			case *workers.HeartbeatWorker:
				added = append(added, "heartbeat")
			case *workers.RelayWorker:
				added = append(added, "relay")
			}
			return supervisor
		}).Times(2)
	supervisor.EXPECT().Run(gomock.Any()).Times(1)

	req.NoError(orchestrator.Start(context.Background()))
	req.Equal([]string{"heartbeat", "relay"}, added)

	// When stopping, the relay connection is closed too
	supervisor.EXPECT().Stop()
	relay.EXPECT().Close()
	orchestrator.Stop()
}

func TestOrchestrator_Without_Relay(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	supervisor := mocks.NewMockISupervisor(ctrl)
	registry := NewRegistry()
	orchestrator := NewOrchestrator(log, supervisor, registry, NewPresence(),
		NewDispatcher(log, registry, time.Second), time.Minute)

	supervisor.EXPECT().Add(gomock.Any()).Return(supervisor).Times(1)
	supervisor.EXPECT().Run(gomock.Any())
	supervisor.EXPECT().Stop()

	_ = orchestrator.Start(context.Background())
	orchestrator.Stop()
}
