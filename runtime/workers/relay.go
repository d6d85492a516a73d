package workers

import (
	"chat-live/contract"
	"context"
	"log/slog"
)

// RelayWorker keeps a subscription to the cluster relay open for the lifetime of ctx.
// A failed subscription is returned so the supervisor retries it.
type RelayWorker struct {
	log     *slog.Logger
	relay   contract.IRelay
	handler contract.RelayHandler
}

func NewRelayWorker(log *slog.Logger, relay contract.IRelay, handler contract.RelayHandler) *RelayWorker {
	return &RelayWorker{log: log, relay: relay, handler: handler}
}

func (w *RelayWorker) Run(ctx context.Context) error {
	if err := w.relay.Subscribe(ctx, w.handler); err != nil {
		return err
	}
	w.log.Info("Listening to peer events")
	<-ctx.Done()
	return nil
}
