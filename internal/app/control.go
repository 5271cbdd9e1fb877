package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
)

// dial connects to the control socket of the configured gateway.
func (a *App) dial(ctx context.Context) (ports.ControlClient, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := a.dialer.Dial(ctx, cfg.ControlSocket)
	if err != nil {
		return nil, zerr.Wrap(err, "is the gateway running? start it with 'offline serve'")
	}
	return client, nil
}

// Message posts a message to the running gateway's worker and prints the
// reply. raw is either a message type such as GET_VERSION or a JSON object.
func (a *App) Message(ctx context.Context, raw string) error {
	msg, err := parseMessage(raw)
	if err != nil {
		return err
	}

	client, err := a.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	reply, err := client.PostMessage(ctx, msg)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "message failed"), "type", string(msg.Type))
	}
	if reply == nil {
		a.logger.Info(fmt.Sprintf("%s delivered, no reply", msg.Type))
		return nil
	}

	data, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode reply")
	}
	_, _ = fmt.Fprintln(a.stdout, string(data))
	return nil
}

func parseMessage(raw string) (domain.Message, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		return domain.DecodeMessage([]byte(trimmed))
	}
	if trimmed == "" {
		return domain.Message{}, domain.ErrInvalidMessage
	}
	return domain.NewMessage(map[string]any{"type": trimmed}), nil
}

// Status prints the state of the running gateway.
func (a *App) Status(ctx context.Context) error {
	client, err := a.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	st, err := client.Status(ctx)
	if err != nil {
		return zerr.Wrap(err, "status failed")
	}

	reg := st.Registration
	rows := [][2]string{
		{"pid", fmt.Sprint(st.PID)},
		{"listen", st.Listen},
		{"scope", st.Scope},
		{"storage", string(st.Storage)},
		{"uptime", st.Uptime.String()},
		{"active", describeWorker(reg.Active)},
		{"waiting", describeWorker(reg.Waiting)},
		{"installing", describeWorker(reg.Installing)},
		{"controlled", fmt.Sprint(reg.Controlled)},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(a.stdout, "%-11s %s\n", r[0], r[1])
	}
	return nil
}

func describeWorker(w *domain.WorkerStatus) string {
	if w == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", w.Generation, w.State)
}

// Stop asks the running gateway to shut down.
func (a *App) Stop(ctx context.Context) error {
	client, err := a.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Shutdown(ctx); err != nil {
		return zerr.Wrap(err, "stop failed")
	}
	a.logger.Info("gateway is shutting down")
	return nil
}
