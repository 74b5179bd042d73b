package console

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	statsInterval = 2 * time.Second
	maxLogLines   = 2000
)

// App is the terminal UI: a scrolling log, a status bar and key bindings.
type App struct {
	app     *tview.Application
	log     *tview.TextView
	status  *tview.TextView
	client  *Client
	logger  *slog.Logger
	timeout time.Duration
}

func NewApp(client *Client, logger *slog.Logger) *App {
	a := &App{
		app:     tview.NewApplication(),
		client:  client,
		logger:  logger.With("component", "console"),
		timeout: 30 * time.Second,
	}

	a.log = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(maxLogLines)
	a.log.SetBorder(true).SetTitle(" System Exporter ")

	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetWrap(false)

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetText(" [yellow]u[-] export  [yellow]i[-] consolidate  [yellow]o[-] auto-export  [yellow]d[-] debug dump  [yellow]q[-] quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.log, 0, 1, false).
		AddItem(a.status, 1, 0, false).
		AddItem(help, 1, 0, false)

	a.app.SetRoot(layout, true)
	a.app.SetInputCapture(a.handleKey)

	return a
}

// Run blocks until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.refreshStats(ctx)
	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	a.appendLines(fmt.Sprintf("Connected to %s", a.client.baseURL))
	return a.app.Run()
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}

	key := event.Rune()
	if key == 'q' {
		a.app.Stop()
		return nil
	}
	if !Bound(key) {
		return event
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		a.logger.Debug("Console command", "key", string(key))
		a.appendLines(Execute(ctx, a.client, key)...)
	}()
	return nil
}

func (a *App) appendLines(lines ...string) {
	a.app.QueueUpdateDraw(func() {
		for _, line := range lines {
			fmt.Fprintf(a.log, "[gray]%s[-] %s\n", time.Now().Format("15:04:05"), tview.Escape(line))
		}
		a.log.ScrollToEnd()
	})
}

func (a *App) refreshStats(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		reqCtx, cancel := context.WithTimeout(ctx, statsInterval)
		stats, err := a.client.Stats(reqCtx)
		cancel()

		text := " [red]Exporter unreachable[-]"
		if err == nil {
			text = StatusLine(stats)
		}
		a.app.QueueUpdateDraw(func() { a.status.SetText(text) })

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
